// Package format reduces raw battle-log entries to the qualifying ranked
// 1v1 matches the sampling loop cares about, normalized into BattleRecords
// from the fetched player's point of view.
package format

import (
	"time"

	"royale-meta/internal/api"
	"royale-meta/internal/domain"
)

// battleTimeLayout is the compact timestamp the CR API uses, e.g.
// "20240131T204512.000Z".
const battleTimeLayout = "20060102T150405.000Z"

// rankedModes are the 1v1 ladder game modes that count toward the meta
// sample. Everything else (2v2, challenges, special events) is dropped.
var rankedModes = map[string]struct{}{
	"Ladder":                {},
	"Ranked1v1":             {},
	"Ranked1v1_NewArena":    {},
	"Ranked1v1_NewArena2":   {},
	"Ladder_CrownRush":      {},
	"PathOfLegend":          {},
	"PathOfLegend_Trophies": {},
}

var rankedTypes = map[string]struct{}{
	"PvP":          {},
	"pathOfLegend": {},
	"trail":        {},
}

// Filter is the ranked 1v1 normalizer. It is stateless.
type Filter struct{}

func NewFilter() Filter {
	return Filter{}
}

// Normalize keeps qualifying entries in their original order (the API
// returns most recent first) and converts each into a BattleRecord.
// Entries that do not qualify or cannot be normalized are dropped.
func (Filter) Normalize(entries []api.BattleLogEntry) []domain.BattleRecord {
	var records []domain.BattleRecord
	for _, entry := range entries {
		record, ok := normalize(entry)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records
}

func qualifies(entry api.BattleLogEntry) bool {
	if _, ok := rankedTypes[entry.Type]; !ok {
		return false
	}
	if _, ok := rankedModes[entry.GameMode.Name]; !ok {
		return false
	}
	// 1v1 only: exactly one participant per side.
	return len(entry.Team) == 1 && len(entry.Opponent) == 1
}

func normalize(entry api.BattleLogEntry) (domain.BattleRecord, bool) {
	if !qualifies(entry) {
		return domain.BattleRecord{}, false
	}

	me := entry.Team[0]
	opp := entry.Opponent[0]

	battleTime, err := time.Parse(battleTimeLayout, entry.BattleTime)
	if err != nil {
		return domain.BattleRecord{}, false
	}

	var result domain.Result
	switch {
	case me.Crowns > opp.Crowns:
		result = domain.ResultWin
	case me.Crowns < opp.Crowns:
		result = domain.ResultLoss
	default:
		result = domain.ResultDraw
	}

	return domain.BattleRecord{
		BattleTime: battleTime,
		Result:     result,
		MyCards:    cardNames(me.Cards),
		OppCards:   cardNames(opp.Cards),
		Mode:       entry.GameMode.Name,
	}, true
}

func cardNames(cards []api.BattleCard) []string {
	names := make([]string, 0, len(cards))
	for _, card := range cards {
		names = append(names, card.Name)
	}
	return names
}
