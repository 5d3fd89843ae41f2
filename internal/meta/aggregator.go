package meta

import (
	"royale-meta/internal/domain"
)

// ParticipantRole identifies which side of a battle a participant row was
// derived from. The split is diagnostic only; coverage decisions use the
// combined counts.
type ParticipantRole string

const (
	RoleMy  ParticipantRole = "my"
	RoleOpp ParticipantRole = "opp"
)

// Participant is one side of one well-formed battle, with the result
// expressed from that side's point of view.
type Participant struct {
	BattleIndex int
	Archetype   domain.Archetype
	Role        ParticipantRole
	Result      domain.Result
}

// Aggregation is the full matchup picture rebuilt from scratch over the
// accumulated battle list. Every well-formed battle contributes exactly two
// directional events, one per side, so Events == 2 * TotalGames.
type Aggregation struct {
	TotalGames int
	Events     int

	Matrix map[domain.Archetype]map[domain.Archetype]*domain.MatchupCell

	// Combined counts an archetype's appearances on either side and gates
	// the stopping decision. MySide and OppSide keep the per-side split.
	Combined map[domain.Archetype]int
	MySide   map[domain.Archetype]int
	OppSide  map[domain.Archetype]int

	Participants []Participant
}

// Aggregate classifies both decks of every well-formed battle and builds the
// symmetric matchup matrix. Malformed battles contribute nothing. The result
// depends only on the multiset of battles, not their order.
func Aggregate(battles []domain.BattleRecord, classifier domain.Classifier) *Aggregation {
	agg := &Aggregation{
		Matrix:   make(map[domain.Archetype]map[domain.Archetype]*domain.MatchupCell),
		Combined: make(map[domain.Archetype]int),
		MySide:   make(map[domain.Archetype]int),
		OppSide:  make(map[domain.Archetype]int),
	}
	for _, archetype := range domain.Archetypes {
		agg.Combined[archetype] = 0
		agg.MySide[archetype] = 0
		agg.OppSide[archetype] = 0
	}

	for idx, battle := range battles {
		if !battle.WellFormed() {
			continue
		}

		myType := classifier.Classify(battle.MyCards)
		oppType := classifier.Classify(battle.OppCards)
		flipped := battle.Result.Flip()

		agg.TotalGames++
		agg.MySide[myType]++
		agg.OppSide[oppType]++
		agg.Combined[myType]++
		agg.Combined[oppType]++

		agg.accumulate(myType, oppType, battle.Result)
		agg.accumulate(oppType, myType, flipped)

		agg.Participants = append(agg.Participants,
			Participant{BattleIndex: idx, Archetype: myType, Role: RoleMy, Result: battle.Result},
			Participant{BattleIndex: idx, Archetype: oppType, Role: RoleOpp, Result: flipped},
		)
	}

	return agg
}

func (a *Aggregation) accumulate(attacker, defender domain.Archetype, result domain.Result) {
	row, ok := a.Matrix[attacker]
	if !ok {
		row = make(map[domain.Archetype]*domain.MatchupCell)
		a.Matrix[attacker] = row
	}
	cell, ok := row[defender]
	if !ok {
		cell = &domain.MatchupCell{}
		row[defender] = cell
	}

	cell.Games++
	switch result {
	case domain.ResultWin:
		cell.Wins++
	case domain.ResultLoss:
		cell.Losses++
	case domain.ResultDraw:
		cell.Draws++
	}
	cell.WinRate = float64(cell.Wins) / float64(cell.Games)

	a.Events++
}

// Cell returns the accumulated cell for attacker vs defender, or an empty
// cell when the pairing was never observed.
func (a *Aggregation) Cell(attacker, defender domain.Archetype) domain.MatchupCell {
	if row, ok := a.Matrix[attacker]; ok {
		if cell, ok := row[defender]; ok {
			return *cell
		}
	}
	return domain.MatchupCell{}
}
