package meta

import (
	"royale-meta/internal/domain"
)

// Decision is the coverage verdict after an aggregation step. Enough and
// Stopped both end the loop; NeedMore triggers another increment sample.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionEnough
	DecisionNeedMore
	DecisionStopped
)

func (d Decision) String() string {
	switch d {
	case DecisionEnough:
		return "enough"
	case DecisionNeedMore:
		return "need_more"
	case DecisionStopped:
		return "stopped"
	default:
		return "collecting"
	}
}

// Terminal reports whether the decision ends the collection loop.
func (d Decision) Terminal() bool {
	return d == DecisionEnough || d == DecisionStopped
}

// CoverageThresholds parameterize the stopping rule so tests can shrink it.
type CoverageThresholds struct {
	MinTotalBattles int
	MinGamesPerType int
	MaxLoops        int
}

// Coverage is the evaluated stopping condition for one loop iteration.
type Coverage struct {
	Decision     Decision
	TotalGames   int
	Remaining    int
	Insufficient map[domain.Archetype]int
}

// EvaluateCoverage applies the stopping rule:
//
//  1. Enough when total games and every required archetype's combined count
//     meet their thresholds. Hybrid is exempt from the per-type check.
//  2. Stopped when no unused players remain or the loop cap is hit, which
//     bounds the loop regardless of data quality.
//  3. NeedMore otherwise.
func EvaluateCoverage(agg *Aggregation, poolSize, usedCount, loopCount int, thresholds CoverageThresholds) Coverage {
	cov := Coverage{
		TotalGames:   agg.TotalGames,
		Remaining:    max(0, poolSize-usedCount),
		Insufficient: make(map[domain.Archetype]int),
	}

	for _, archetype := range domain.RequiredArchetypes {
		if count := agg.Combined[archetype]; count < thresholds.MinGamesPerType {
			cov.Insufficient[archetype] = count
		}
	}

	switch {
	case cov.TotalGames >= thresholds.MinTotalBattles && len(cov.Insufficient) == 0:
		cov.Decision = DecisionEnough
	case cov.Remaining <= 0 || loopCount >= thresholds.MaxLoops:
		cov.Decision = DecisionStopped
	default:
		cov.Decision = DecisionNeedMore
	}

	return cov
}
