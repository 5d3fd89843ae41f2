package meta

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"royale-meta/internal/domain"
)

func newTestCollector(source BattleSource) *Collector {
	return NewCollector(source, rate.NewLimiter(rate.Inf, 0), 4, 10, zerolog.Nop())
}

func players(tags ...string) []domain.Player {
	out := make([]domain.Player, 0, len(tags))
	for _, tag := range tags {
		out = append(out, domain.Player{Tag: tag, Name: "Player " + tag})
	}
	return out
}

func TestCollectCapsBattlesPerPlayer(t *testing.T) {
	var many []domain.BattleRecord
	for i := 0; i < 15; i++ {
		many = append(many, battle(domain.ArchetypeCycle, domain.ArchetypeBait, domain.ResultWin))
	}
	source := &stubSource{battles: map[string][]domain.BattleRecord{"#A": many}}

	result := newTestCollector(source).Collect(context.Background(), players("#A"), map[string]struct{}{})

	assert.Equal(t, 10, result.NewBattles)
	assert.Len(t, result.Battles, 10)
	assert.Equal(t, []string{"#A"}, result.FetchedTags)
}

func TestCollectSkipsAlreadyFetchedTags(t *testing.T) {
	source := &stubSource{battles: map[string][]domain.BattleRecord{
		"#A": {battle(domain.ArchetypeCycle, domain.ArchetypeBait, domain.ResultWin)},
		"#B": {battle(domain.ArchetypeSiege, domain.ArchetypeBait, domain.ResultLoss)},
	}}

	fetched := map[string]struct{}{"#A": {}}
	result := newTestCollector(source).Collect(context.Background(), players("#A", "#B"), fetched)

	assert.Equal(t, 1, result.NewPlayers)
	assert.Equal(t, []string{"#B"}, result.FetchedTags)
	assert.NotContains(t, source.calls, "#A")
}

func TestCollectToleratesPerPlayerFailure(t *testing.T) {
	source := &stubSource{
		battles: map[string][]domain.BattleRecord{
			"#A": {battle(domain.ArchetypeCycle, domain.ArchetypeBait, domain.ResultWin)},
			"#C": {battle(domain.ArchetypeSiege, domain.ArchetypeBait, domain.ResultLoss)},
		},
		errs: map[string]error{"#B": errors.New("503 from upstream")},
	}

	result := newTestCollector(source).Collect(context.Background(), players("#A", "#B", "#C"), map[string]struct{}{})

	assert.Equal(t, 2, result.NewPlayers)
	assert.Equal(t, 2, result.NewBattles)
	assert.ElementsMatch(t, []string{"#A", "#C"}, result.FetchedTags)

	require.Len(t, result.Notes, 1)
	assert.Contains(t, result.Notes[0], "error fetching #B")
}

func TestCollectEmptyBatch(t *testing.T) {
	source := &stubSource{}

	result := newTestCollector(source).Collect(context.Background(), nil, map[string]struct{}{})

	assert.Zero(t, result.NewPlayers)
	assert.Zero(t, result.NewBattles)
	assert.Empty(t, result.Notes)
}

func TestCollectSkipsPlayersWithoutTag(t *testing.T) {
	source := &stubSource{}

	result := newTestCollector(source).Collect(context.Background(),
		[]domain.Player{{Name: "no tag"}}, map[string]struct{}{})

	assert.Zero(t, result.NewPlayers)
	assert.Empty(t, source.calls)
}
