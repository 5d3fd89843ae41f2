package meta

import (
	"context"

	"github.com/rs/zerolog"

	"royale-meta/internal/constants"
	"royale-meta/internal/domain"
)

// RunConfig sizes one sampling run. Zero values fall back to the package
// defaults from constants.
type RunConfig struct {
	InitialSampleSize   int
	IncrementSampleSize int
	Thresholds          CoverageThresholds
	MinMatchupGames     int
}

func (c RunConfig) withDefaults() RunConfig {
	if c.InitialSampleSize == 0 {
		c.InitialSampleSize = constants.InitialSampleSize
	}
	if c.IncrementSampleSize == 0 {
		c.IncrementSampleSize = constants.IncrementSampleSize
	}
	if c.Thresholds.MinTotalBattles == 0 {
		c.Thresholds.MinTotalBattles = constants.MinTotalBattles
	}
	if c.Thresholds.MinGamesPerType == 0 {
		c.Thresholds.MinGamesPerType = constants.MinGamesPerType
	}
	if c.Thresholds.MaxLoops == 0 {
		c.Thresholds.MaxLoops = constants.MaxLoops
	}
	if c.MinMatchupGames == 0 {
		c.MinMatchupGames = constants.MinMatchupGames
	}
	return c
}

// RunReport is everything a finished run exposes: the final decision, the
// full matrix, both summary tables and the chronological notes.
type RunReport struct {
	Decision         Decision
	TotalGames       int
	LoopCount        int
	PlayersFetched   int
	Battles          []domain.BattleRecord
	Aggregation      *Aggregation
	ArchetypeSummary []domain.ArchetypeSummaryRow
	MatchupSummary   []domain.MatchupSummaryRow
	Notes            []string
}

// Runner drives the adaptive sampling loop: sample, collect, aggregate,
// evaluate, and either loop with a small increment or finish and build the
// summary tables.
type Runner struct {
	sampler    *Sampler
	collector  *Collector
	classifier domain.Classifier
	cfg        RunConfig
	logger     zerolog.Logger
}

func NewRunner(sampler *Sampler, collector *Collector, classifier domain.Classifier, cfg RunConfig, logger zerolog.Logger) *Runner {
	return &Runner{
		sampler:    sampler,
		collector:  collector,
		classifier: classifier,
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

// Run executes the whole loop against a player pool. Per-player failures
// inside a batch are notes, never errors; the loop always terminates within
// the loop cap or pool exhaustion. Cancelling ctx stops the loop before the
// next batch without touching already-accumulated state.
func (r *Runner) Run(ctx context.Context, pool *Pool) *RunReport {
	cfg := r.cfg
	state := NewRunState()

	if pool.Size() == 0 {
		state = state.withNote("run: player pool is empty, nothing to collect")
	} else {
		state = state.withNote("run: pool of %d players", pool.Size())
	}

	batch := r.sampler.SampleInitial(pool, cfg.InitialSampleSize)
	state = state.WithSample(batch, false)

	for {
		result := r.collector.Collect(ctx, pool.Players(batch), state.Fetched)
		state = state.WithBatch(result)

		state = state.WithAggregation(Aggregate(state.Battles, r.classifier))

		cov := EvaluateCoverage(state.Agg, pool.Size(), len(state.Used), state.Loop, cfg.Thresholds)
		state = state.WithCoverage(cov)

		r.logger.Info().
			Str("decision", cov.Decision.String()).
			Int("total_games", cov.TotalGames).
			Int("loop", state.Loop).
			Int("remaining_players", cov.Remaining).
			Msg("coverage evaluated")

		if cov.Decision.Terminal() {
			break
		}

		if err := ctx.Err(); err != nil {
			state = state.withNote("run: cancelled after loop %d: %v", state.Loop, err)
			state.Decision = DecisionStopped
			break
		}

		batch = r.sampler.SampleIncrement(pool, state.Used, cfg.IncrementSampleSize)
		state = state.WithSample(batch, true)
	}

	report := &RunReport{
		Decision:         state.Decision,
		TotalGames:       state.Agg.TotalGames,
		LoopCount:        state.Loop,
		PlayersFetched:   len(state.Fetched),
		Battles:          state.Battles,
		Aggregation:      state.Agg,
		ArchetypeSummary: BuildArchetypeSummary(state.Agg, cfg.Thresholds.MinGamesPerType),
		MatchupSummary:   BuildMatchupSummary(state.Agg, cfg.MinMatchupGames),
		Notes:            state.Notes,
	}

	r.logger.Info().
		Str("decision", report.Decision.String()).
		Int("total_games", report.TotalGames).
		Int("players_fetched", report.PlayersFetched).
		Int("loop_count", report.LoopCount).
		Msg("run finished")

	return report
}
