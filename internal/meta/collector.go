package meta

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"royale-meta/internal/constants"
	"royale-meta/internal/domain"
)

// BattleSource yields a player's qualifying ranked 1v1 battles, most recent
// first. Implementations wrap the raw battle-log provider and the format
// filter; the collector only sees normalized records.
type BattleSource interface {
	QualifyingBattles(ctx context.Context, tag string) ([]domain.BattleRecord, error)
}

// Collector fetches battle logs for a batch of sampled players. Fetches
// within a batch run concurrently under a worker limit and a shared rate
// limiter; the batch result is only assembled once every fetch has returned.
type Collector struct {
	source       BattleSource
	limiter      *rate.Limiter
	workers      int
	perPlayerCap int
	logger       zerolog.Logger
}

func NewCollector(source BattleSource, limiter *rate.Limiter, workers, perPlayerCap int, logger zerolog.Logger) *Collector {
	return &Collector{
		source:       source,
		limiter:      limiter,
		workers:      workers,
		perPlayerCap: perPlayerCap,
		logger:       logger,
	}
}

// BatchResult is the outcome of one collection batch. Battles holds only
// the battles added by this batch, FetchedTags only the tags fetched
// successfully by this batch.
type BatchResult struct {
	Battles     []domain.BattleRecord
	FetchedTags []string
	NewBattles  int
	NewPlayers  int
	Notes       []string
}

type fetchSlot struct {
	battles []domain.BattleRecord
	err     error
	skipped bool
}

// Collect fetches up to perPlayerCap qualifying battles for every player in
// the batch whose tag is not already in fetched. A failed fetch is recorded
// as a note and skipped; it never aborts the batch.
func (c *Collector) Collect(ctx context.Context, players []domain.Player, fetched map[string]struct{}) BatchResult {
	// The external API is fallible and rate limited; a wall-clock budget per
	// batch keeps one bad batch from stalling the whole run.
	ctx, cancel := context.WithTimeout(ctx, constants.BatchTimeout)
	defer cancel()

	slots := make([]fetchSlot, len(players))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, player := range players {
		if player.Tag == "" {
			slots[i].skipped = true
			continue
		}
		if _, ok := fetched[player.Tag]; ok {
			slots[i].skipped = true
			continue
		}

		g.Go(func() error {
			if err := c.limiter.Wait(gCtx); err != nil {
				slots[i].err = err
				return nil
			}
			battles, err := c.source.QualifyingBattles(gCtx, player.Tag)
			if err != nil {
				c.logger.Warn().Err(err).Str("tag", player.Tag).Msg("battle log fetch failed")
				slots[i].err = err
				return nil
			}
			if len(battles) > c.perPlayerCap {
				battles = battles[:c.perPlayerCap]
			}
			slots[i].battles = battles
			return nil
		})
	}

	// Fan-in barrier: workers never return an error, so this only waits.
	_ = g.Wait()

	var result BatchResult
	for i, slot := range slots {
		switch {
		case slot.skipped:
			continue
		case slot.err != nil:
			result.Notes = append(result.Notes, fmt.Sprintf(
				"collect: error fetching %s: %v", players[i].Tag, slot.err))
		default:
			result.Battles = append(result.Battles, slot.battles...)
			result.FetchedTags = append(result.FetchedTags, players[i].Tag)
			result.NewBattles += len(slot.battles)
			result.NewPlayers++
		}
	}

	c.logger.Info().
		Int("batch_players", len(players)).
		Int("new_players", result.NewPlayers).
		Int("new_battles", result.NewBattles).
		Msg("collection batch finished")

	return result
}
