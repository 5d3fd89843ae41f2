package meta

import (
	"fmt"
	"maps"

	"royale-meta/internal/domain"
)

// RunState is one snapshot of the collection loop. Steps never mutate a
// snapshot in place; each transition clones and returns a new one, which
// keeps every step independently testable and the run replayable from its
// notes.
type RunState struct {
	Loop     int
	Used     map[int]struct{}
	Fetched  map[string]struct{}
	Battles  []domain.BattleRecord
	Agg      *Aggregation
	Decision Decision
	Notes    []string
}

func NewRunState() RunState {
	return RunState{
		Used:    make(map[int]struct{}),
		Fetched: make(map[string]struct{}),
	}
}

func (s RunState) clone() RunState {
	next := s
	next.Used = maps.Clone(s.Used)
	next.Fetched = maps.Clone(s.Fetched)
	next.Battles = append([]domain.BattleRecord(nil), s.Battles...)
	next.Notes = append([]string(nil), s.Notes...)
	return next
}

func (s RunState) withNote(format string, args ...any) RunState {
	next := s.clone()
	next.Notes = append(next.Notes, fmt.Sprintf(format, args...))
	return next
}

// WithSample marks the drawn indices used. Increment samples also advance
// the loop counter.
func (s RunState) WithSample(indices []int, increment bool) RunState {
	next := s.clone()
	for _, i := range indices {
		next.Used[i] = struct{}{}
	}
	if increment {
		next.Loop++
		next.Notes = append(next.Notes, fmt.Sprintf(
			"sample_increment: loop %d, sampled %d more players, total_used=%d",
			next.Loop, len(indices), len(next.Used)))
	} else {
		next.Notes = append(next.Notes, fmt.Sprintf(
			"sample_initial: sampled %d players", len(indices)))
	}
	return next
}

// WithBatch merges a collection batch: battles accumulate monotonically and
// successfully fetched tags are recorded so a later sample overlap cannot
// refetch them.
func (s RunState) WithBatch(batch BatchResult) RunState {
	next := s.clone()
	next.Battles = append(next.Battles, batch.Battles...)
	for _, tag := range batch.FetchedTags {
		next.Fetched[tag] = struct{}{}
	}
	next.Notes = append(next.Notes, batch.Notes...)
	next.Notes = append(next.Notes, fmt.Sprintf(
		"collect: %d new battles from %d new players, total_battles=%d",
		batch.NewBattles, batch.NewPlayers, len(next.Battles)))
	return next
}

// WithAggregation attaches a matrix rebuilt from the full battle list.
func (s RunState) WithAggregation(agg *Aggregation) RunState {
	next := s.clone()
	next.Agg = agg
	next.Notes = append(next.Notes, fmt.Sprintf(
		"aggregate: total_games=%d, events=%d", agg.TotalGames, agg.Events))
	return next
}

// WithCoverage records the stopping verdict for this iteration.
func (s RunState) WithCoverage(cov Coverage) RunState {
	next := s.clone()
	next.Decision = cov.Decision
	switch cov.Decision {
	case DecisionEnough:
		next.Notes = append(next.Notes, fmt.Sprintf(
			"coverage: enough data, total_games=%d", cov.TotalGames))
	case DecisionStopped:
		next.Notes = append(next.Notes, fmt.Sprintf(
			"coverage: stopping, total_games=%d, remaining_players=%d, loop_count=%d, insufficient=%v",
			cov.TotalGames, cov.Remaining, s.Loop, cov.Insufficient))
	default:
		next.Notes = append(next.Notes, fmt.Sprintf(
			"coverage: need more data, total_games=%d, remaining_players=%d, insufficient=%v",
			cov.TotalGames, cov.Remaining, cov.Insufficient))
	}
	return next
}
