package meta

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royale-meta/internal/domain"
)

func testPool(size int) *Pool {
	players := make([]domain.Player, size)
	for i := range players {
		players[i] = domain.Player{Tag: fmt.Sprintf("#P%03d", i), Name: fmt.Sprintf("Player %d", i), Rank: i + 1}
	}
	return NewPool(players)
}

func TestSampleInitialIsDeterministicPerSeed(t *testing.T) {
	pool := testPool(300)

	first := NewSampler(rand.New(rand.NewSource(42))).SampleInitial(pool, 50)
	second := NewSampler(rand.New(rand.NewSource(42))).SampleInitial(pool, 50)

	assert.Equal(t, first, second)

	other := NewSampler(rand.New(rand.NewSource(43))).SampleInitial(pool, 50)
	assert.NotEqual(t, first, other)
}

func TestSampleInitialDrawsDistinctIndices(t *testing.T) {
	pool := testPool(100)
	sampler := NewSampler(rand.New(rand.NewSource(1)))

	indices := sampler.SampleInitial(pool, 60)
	require.Len(t, indices, 60)

	seen := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 100)
		_, dup := seen[i]
		assert.False(t, dup, "index %d drawn twice", i)
		seen[i] = struct{}{}
	}
}

func TestSampleIncrementNeverReselectsUsed(t *testing.T) {
	pool := testPool(30)
	sampler := NewSampler(rand.New(rand.NewSource(9)))

	used := make(map[int]struct{})
	for _, i := range sampler.SampleInitial(pool, 20) {
		used[i] = struct{}{}
	}

	increment := sampler.SampleIncrement(pool, used, 5)
	require.Len(t, increment, 5)
	for _, i := range increment {
		_, reused := used[i]
		assert.False(t, reused, "index %d was already used", i)
	}
}

func TestSampleIncrementReturnsRemainderWhenShort(t *testing.T) {
	pool := testPool(10)
	sampler := NewSampler(rand.New(rand.NewSource(3)))

	used := make(map[int]struct{})
	for _, i := range sampler.SampleInitial(pool, 8) {
		used[i] = struct{}{}
	}

	increment := sampler.SampleIncrement(pool, used, 5)
	assert.Len(t, increment, 2)

	for _, i := range increment {
		used[i] = struct{}{}
	}
	assert.Empty(t, sampler.SampleIncrement(pool, used, 5))
}

func TestSampleFromEmptyPool(t *testing.T) {
	pool := testPool(0)
	sampler := NewSampler(rand.New(rand.NewSource(5)))

	assert.Empty(t, sampler.SampleInitial(pool, 250))
	assert.Empty(t, sampler.SampleIncrement(pool, map[int]struct{}{}, 5))
}

func TestSampleInitialCapsAtPoolSize(t *testing.T) {
	pool := testPool(7)
	sampler := NewSampler(rand.New(rand.NewSource(5)))

	assert.Len(t, sampler.SampleInitial(pool, 250), 7)
}
