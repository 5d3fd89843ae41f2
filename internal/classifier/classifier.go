// Package classifier assigns a strategic archetype to an 8-card deck using
// a small embedded card-metadata table. It is total: every deck gets a
// label, unknown cards simply contribute no signal.
package classifier

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"go.uber.org/fx"

	"royale-meta/internal/domain"
)

//go:embed cards.json
var cardsJSON []byte

// cycleElixirCeiling is the average-elixir cutoff under which a deck with a
// cheap win condition counts as Cycle.
const cycleElixirCeiling = 3.2

type cardInfo struct {
	Name   string   `json:"name"`
	Elixir int      `json:"elixir"`
	Tags   []string `json:"tags"`
}

// DeckClassifier is the rule-based implementation of domain.Classifier.
type DeckClassifier struct {
	cards map[string]cardInfo
}

func New() (*DeckClassifier, error) {
	var list []cardInfo
	if err := json.Unmarshal(cardsJSON, &list); err != nil {
		return nil, fmt.Errorf("failed to parse embedded card metadata: %w", err)
	}

	cards := make(map[string]cardInfo, len(list))
	for _, card := range list {
		cards[card.Name] = card
	}
	return &DeckClassifier{cards: cards}, nil
}

// Classify labels a deck by its strongest strategic signal, checked in a
// fixed order so the same deck always gets the same label:
//
//	siege building > two or more bait cards > two or more bridge threats >
//	heavy tank > cheap win condition on a fast cycle > Hybrid.
func (c *DeckClassifier) Classify(cards []string) domain.Archetype {
	var (
		siege, bait, bridge, tank, cheapWincon int
		elixirTotal, elixirKnown               int
	)

	for _, name := range cards {
		info, ok := c.cards[name]
		if !ok {
			continue
		}
		elixirTotal += info.Elixir
		elixirKnown++

		for _, tag := range info.Tags {
			switch tag {
			case "siege":
				siege++
			case "bait":
				bait++
			case "bridge":
				bridge++
			case "tank":
				tank++
			case "cheap_wincon":
				cheapWincon++
			}
		}
	}

	switch {
	case siege > 0:
		return domain.ArchetypeSiege
	case bait >= 2:
		return domain.ArchetypeBait
	case bridge >= 2:
		return domain.ArchetypeBridgeSpam
	case tank > 0:
		return domain.ArchetypeBeatdown
	case cheapWincon > 0 && averageElixir(elixirTotal, elixirKnown) <= cycleElixirCeiling:
		return domain.ArchetypeCycle
	default:
		return domain.ArchetypeHybrid
	}
}

func averageElixir(total, known int) float64 {
	if known == 0 {
		return 0
	}
	return float64(total) / float64(known)
}

var Module = fx.Provide(
	fx.Annotate(New, fx.As(new(domain.Classifier))),
)
