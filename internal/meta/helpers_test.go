package meta

import (
	"context"
	"fmt"
	"sync"
	"time"

	"royale-meta/internal/domain"
)

// firstCardClassifier labels a deck after its first card, which lets tests
// pin each deck's archetype directly in the fixture.
type firstCardClassifier struct{}

func (firstCardClassifier) Classify(cards []string) domain.Archetype {
	if len(cards) == 0 {
		return domain.ArchetypeHybrid
	}
	return domain.Archetype(cards[0])
}

func deck(archetype domain.Archetype) []string {
	cards := make([]string, domain.DeckSize)
	cards[0] = string(archetype)
	for i := 1; i < domain.DeckSize; i++ {
		cards[i] = fmt.Sprintf("Filler %d", i)
	}
	return cards
}

func battle(my, opp domain.Archetype, result domain.Result) domain.BattleRecord {
	return domain.BattleRecord{
		BattleTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Result:     result,
		MyCards:    deck(my),
		OppCards:   deck(opp),
		Mode:       "Ladder",
	}
}

// stubSource serves canned battle lists per tag and fails for tags listed
// in errs.
type stubSource struct {
	battles map[string][]domain.BattleRecord
	errs    map[string]error

	mu sync.Mutex
	// calls records every fetched tag, in no particular order.
	calls []string
}

func (s *stubSource) QualifyingBattles(_ context.Context, tag string) ([]domain.BattleRecord, error) {
	s.mu.Lock()
	s.calls = append(s.calls, tag)
	s.mu.Unlock()
	if err, ok := s.errs[tag]; ok {
		return nil, err
	}
	return s.battles[tag], nil
}
