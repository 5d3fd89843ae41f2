package meta

import (
	"sort"

	"royale-meta/internal/constants"
	"royale-meta/internal/domain"
)

// BuildArchetypeSummary aggregates the participant rows into one compact
// row per archetype. MetaShare is the archetype's fraction of all
// participant rows, so shares sum to 1 across the table. Rows are sorted by
// games descending with the archetype name breaking ties, which keeps the
// output byte-identical across rebuilds of the same snapshot.
func BuildArchetypeSummary(agg *Aggregation, minGamesPerType int) []domain.ArchetypeSummaryRow {
	type tally struct {
		games, wins, losses, draws int
	}
	stats := make(map[domain.Archetype]*tally)

	for _, p := range agg.Participants {
		rec, ok := stats[p.Archetype]
		if !ok {
			rec = &tally{}
			stats[p.Archetype] = rec
		}
		rec.games++
		switch p.Result {
		case domain.ResultWin:
			rec.wins++
		case domain.ResultLoss:
			rec.losses++
		case domain.ResultDraw:
			rec.draws++
		}
	}

	if len(stats) == 0 {
		return nil
	}

	total := len(agg.Participants)
	rows := make([]domain.ArchetypeSummaryRow, 0, len(stats))
	for archetype, rec := range stats {
		row := domain.ArchetypeSummaryRow{
			Archetype: archetype,
			Games:     rec.games,
			Wins:      rec.wins,
			Losses:    rec.losses,
			Draws:     rec.draws,
			SampleOK:  rec.games >= minGamesPerType,
		}
		if total > 0 {
			row.MetaShare = float64(rec.games) / float64(total)
		}
		if rec.games > 0 {
			row.WinRate = float64(rec.wins) / float64(rec.games)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Games != rows[j].Games {
			return rows[i].Games > rows[j].Games
		}
		return rows[i].Archetype < rows[j].Archetype
	})

	return rows
}

// BuildMatchupSummary flattens the matchup matrix into report rows,
// dropping pairings with fewer than minMatchupGames games. Rows are sorted
// by games descending so the best-supported matchups surface first, with
// attacker/defender names breaking ties deterministically.
func BuildMatchupSummary(agg *Aggregation, minMatchupGames int) []domain.MatchupSummaryRow {
	var rows []domain.MatchupSummaryRow

	for attacker, vs := range agg.Matrix {
		for defender, cell := range vs {
			if cell.Games < minMatchupGames {
				continue
			}
			rows = append(rows, domain.MatchupSummaryRow{
				Attacker:       attacker,
				Defender:       defender,
				Games:          cell.Games,
				Wins:           cell.Wins,
				Losses:         cell.Losses,
				Draws:          cell.Draws,
				WinRate:        cell.WinRate,
				AdvantageLabel: advantageLabel(cell.WinRate),
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Games != rows[j].Games {
			return rows[i].Games > rows[j].Games
		}
		if rows[i].Attacker != rows[j].Attacker {
			return rows[i].Attacker < rows[j].Attacker
		}
		return rows[i].Defender < rows[j].Defender
	})

	return rows
}

func advantageLabel(winRate float64) string {
	switch {
	case winRate >= constants.AdvantageNeutral+constants.AdvantageMargin:
		return "favored"
	case winRate <= constants.AdvantageNeutral-constants.AdvantageMargin:
		return "unfavored"
	default:
		return "even"
	}
}
