package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"royale-meta/internal/api"
	"royale-meta/internal/config"
	"royale-meta/internal/constants"
	"royale-meta/internal/domain"
	"royale-meta/internal/format"
	"royale-meta/internal/meta"
	"royale-meta/internal/repository"
)

// ErrRunNotFound is returned when no persisted run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// MetaService owns the full sampling workflow: fetch the candidate pool,
// drive the adaptive collection loop, and persist the finished run.
type MetaService struct {
	cr         *api.CRClient
	source     *format.Source
	classifier domain.Classifier
	repo       *repository.RunRepository
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewMetaService(
	cr *api.CRClient,
	source *format.Source,
	classifier domain.Classifier,
	repo *repository.RunRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *MetaService {
	return &MetaService{
		cr:         cr,
		source:     source,
		classifier: classifier,
		repo:       repo,
		cfg:        cfg,
		logger:     logger,
	}
}

// RunReport pairs a run record with its in-memory report.
type RunReport struct {
	Run    domain.MetaRun
	Report *meta.RunReport
}

// StartRun executes one complete sampling run and persists it. The only
// setup failure is an unusable player-list response; everything after that
// is absorbed by the loop's per-player error handling.
func (s *MetaService) StartRun(ctx context.Context) (*RunReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RunTimeout)
	defer cancel()

	startedAt := time.Now()

	players, err := s.cr.GetTopPlayers(ctx, constants.TopPlayerLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch top players")
		return nil, fmt.Errorf("failed to fetch top players: %w", err)
	}
	s.logger.Info().Int("count", len(players)).Msg("top players fetched")

	pool := meta.NewPool(toDomainPlayers(players))

	seed := s.cfg.SampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sampler := meta.NewSampler(rand.New(rand.NewSource(seed)))

	limiter := rate.NewLimiter(rate.Limit(constants.APIRequestsPerSec), constants.APIRequestBurst)
	collector := meta.NewCollector(s.source, limiter,
		constants.FetchWorkers, constants.BattlesPerPlayer, s.logger)

	runCfg := meta.RunConfig{InitialSampleSize: s.cfg.InitialSampleSize}
	runner := meta.NewRunner(sampler, collector, s.classifier, runCfg, s.logger)

	report := runner.Run(ctx, pool)

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	run := domain.MetaRun{
		ID:             id,
		Decision:       report.Decision.String(),
		TotalGames:     report.TotalGames,
		PlayersFetched: report.PlayersFetched,
		LoopCount:      report.LoopCount,
		StartedAt:      startedAt,
		FinishedAt:     time.Now(),
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer dbCancel()
	if err := s.repo.Insert(dbCtx, run, report); err != nil {
		s.logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to persist run")
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	s.logger.Info().
		Str("run_id", run.ID).
		Str("decision", run.Decision).
		Int("total_games", run.TotalGames).
		Msg("run persisted")

	return &RunReport{Run: run, Report: report}, nil
}

func (s *MetaService) GetRun(ctx context.Context, id string) (*domain.MetaRun, error) {
	run, err := s.repo.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

func (s *MetaService) GetLatestRun(ctx context.Context) (*domain.MetaRun, error) {
	run, err := s.repo.GetLatest(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

func (s *MetaService) ArchetypeSummary(ctx context.Context, runID string) ([]domain.ArchetypeSummaryRow, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.repo.ArchetypeSummary(ctx, runID)
}

func (s *MetaService) MatchupSummary(ctx context.Context, runID string) ([]domain.MatchupSummaryRow, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.repo.MatchupSummary(ctx, runID)
}

func (s *MetaService) Notes(ctx context.Context, runID string) ([]string, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.repo.Notes(ctx, runID)
}

func toDomainPlayers(players []api.RankedPlayer) []domain.Player {
	out := make([]domain.Player, 0, len(players))
	for _, p := range players {
		out = append(out, domain.Player{
			Tag:      p.Tag,
			Name:     p.Name,
			Rank:     p.Rank,
			Trophies: p.Trophies,
		})
	}
	return out
}
