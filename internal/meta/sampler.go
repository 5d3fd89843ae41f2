package meta

import (
	"math/rand"
	"sort"

	"royale-meta/internal/domain"
)

// Pool holds the ranked candidate players for a single run. The pool itself
// is immutable; which indices have been used lives in the run state.
type Pool struct {
	players []domain.Player
}

func NewPool(players []domain.Player) *Pool {
	return &Pool{players: players}
}

func (p *Pool) Size() int {
	return len(p.players)
}

// Players resolves a set of sampled indices back to players.
func (p *Pool) Players(indices []int) []domain.Player {
	out := make([]domain.Player, 0, len(indices))
	for _, i := range indices {
		out = append(out, p.players[i])
	}
	return out
}

// Sampler draws player indices uniformly without replacement. The random
// source is injected so a fixed seed reproduces the exact sampled sets.
type Sampler struct {
	rng *rand.Rand
}

func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// SampleInitial draws up to size distinct indices from the whole pool.
func (s *Sampler) SampleInitial(pool *Pool, size int) []int {
	return s.draw(pool, nil, size)
}

// SampleIncrement draws up to size distinct indices from the indices not in
// used. When fewer than size remain it returns all of them, possibly none.
func (s *Sampler) SampleIncrement(pool *Pool, used map[int]struct{}, size int) []int {
	return s.draw(pool, used, size)
}

func (s *Sampler) draw(pool *Pool, used map[int]struct{}, size int) []int {
	unused := make([]int, 0, pool.Size())
	for i := 0; i < pool.Size(); i++ {
		if _, ok := used[i]; !ok {
			unused = append(unused, i)
		}
	}
	if size > len(unused) {
		size = len(unused)
	}
	if size <= 0 {
		return nil
	}

	s.rng.Shuffle(len(unused), func(i, j int) {
		unused[i], unused[j] = unused[j], unused[i]
	})

	picked := unused[:size]
	// Membership is random; ordering within the batch does not need to be,
	// and a sorted batch keeps fetch logs readable.
	sort.Ints(picked)
	return picked
}
