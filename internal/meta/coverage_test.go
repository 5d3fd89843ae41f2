package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royale-meta/internal/domain"
)

func defaultThresholds() CoverageThresholds {
	return CoverageThresholds{
		MinTotalBattles: 2000,
		MinGamesPerType: 200,
		MaxLoops:        20,
	}
}

// evenSpread builds n battles cycling through the required archetypes so
// every required type gets 2n/5 combined appearances.
func evenSpread(n int) []domain.BattleRecord {
	required := domain.RequiredArchetypes
	battles := make([]domain.BattleRecord, 0, n)
	for i := 0; i < n; i++ {
		battles = append(battles, battle(
			required[i%len(required)],
			required[(i+1)%len(required)],
			domain.ResultWin,
		))
	}
	return battles
}

func TestCoverageEnoughOnBalancedFixture(t *testing.T) {
	agg := Aggregate(evenSpread(2500), firstCardClassifier{})
	require.Equal(t, 2500, agg.TotalGames)
	for _, archetype := range domain.RequiredArchetypes {
		require.GreaterOrEqual(t, agg.Combined[archetype], 200)
	}

	cov := EvaluateCoverage(agg, 1000, 250, 0, defaultThresholds())

	assert.Equal(t, DecisionEnough, cov.Decision)
	assert.Empty(t, cov.Insufficient)
}

func TestCoverageNeedMoreBelowTotalThreshold(t *testing.T) {
	agg := Aggregate(evenSpread(100), firstCardClassifier{})

	cov := EvaluateCoverage(agg, 1000, 250, 3, defaultThresholds())

	assert.Equal(t, DecisionNeedMore, cov.Decision)
	assert.Equal(t, 750, cov.Remaining)
}

func TestCoverageNeedMoreWhenArchetypeUnderrepresented(t *testing.T) {
	// Plenty of games in total but everything is Cycle vs Beatdown.
	var battles []domain.BattleRecord
	for i := 0; i < 2500; i++ {
		battles = append(battles, battle(domain.ArchetypeCycle, domain.ArchetypeBeatdown, domain.ResultWin))
	}
	agg := Aggregate(battles, firstCardClassifier{})

	cov := EvaluateCoverage(agg, 1000, 250, 0, defaultThresholds())

	assert.Equal(t, DecisionNeedMore, cov.Decision)
	assert.Contains(t, cov.Insufficient, domain.ArchetypeSiege)
	assert.Contains(t, cov.Insufficient, domain.ArchetypeBait)
	assert.Contains(t, cov.Insufficient, domain.ArchetypeBridgeSpam)
	assert.NotContains(t, cov.Insufficient, domain.ArchetypeCycle)
}

func TestCoverageHybridIsExempt(t *testing.T) {
	// Required types are all covered; Hybrid never appears. Still enough.
	agg := Aggregate(evenSpread(2500), firstCardClassifier{})
	require.Zero(t, agg.Combined[domain.ArchetypeHybrid])

	cov := EvaluateCoverage(agg, 1000, 250, 0, defaultThresholds())
	assert.Equal(t, DecisionEnough, cov.Decision)
}

func TestCoverageStoppedWhenPoolExhausted(t *testing.T) {
	agg := Aggregate(evenSpread(100), firstCardClassifier{})

	cov := EvaluateCoverage(agg, 250, 250, 3, defaultThresholds())

	assert.Equal(t, DecisionStopped, cov.Decision)
	assert.Zero(t, cov.Remaining)
}

func TestCoverageStoppedAtLoopCap(t *testing.T) {
	agg := Aggregate(evenSpread(100), firstCardClassifier{})

	cov := EvaluateCoverage(agg, 1000, 350, 20, defaultThresholds())

	assert.Equal(t, DecisionStopped, cov.Decision)
}

func TestCoverageEmptyPool(t *testing.T) {
	agg := Aggregate(nil, firstCardClassifier{})

	cov := EvaluateCoverage(agg, 0, 0, 0, defaultThresholds())

	assert.Equal(t, DecisionStopped, cov.Decision)
	assert.Zero(t, cov.TotalGames)
}

func TestDecisionStrings(t *testing.T) {
	assert.Equal(t, "enough", DecisionEnough.String())
	assert.Equal(t, "need_more", DecisionNeedMore.String())
	assert.Equal(t, "stopped", DecisionStopped.String())
	assert.Equal(t, "collecting", DecisionNone.String())

	assert.True(t, DecisionEnough.Terminal())
	assert.True(t, DecisionStopped.Terminal())
	assert.False(t, DecisionNeedMore.Terminal())
	assert.False(t, DecisionNone.Terminal())
}
