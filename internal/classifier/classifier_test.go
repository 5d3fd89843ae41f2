package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royale-meta/internal/domain"
)

func newClassifier(t *testing.T) *DeckClassifier {
	t.Helper()
	c, err := New()
	require.NoError(t, err)
	return c
}

func TestClassifyKnownDecks(t *testing.T) {
	c := newClassifier(t)

	tests := []struct {
		name string
		deck []string
		want domain.Archetype
	}{
		{
			name: "classic 2.9 xbow",
			deck: []string{"X-Bow", "Tesla", "Archers", "Knight", "Skeletons", "Ice Spirit", "The Log", "Fireball"},
			want: domain.ArchetypeSiege,
		},
		{
			name: "mortar bait hybrid leans siege",
			deck: []string{"Mortar", "Goblin Barrel", "Princess", "Goblin Gang", "Knight", "The Log", "Rocket", "Ice Spirit"},
			want: domain.ArchetypeSiege,
		},
		{
			name: "log bait",
			deck: []string{"Goblin Barrel", "Princess", "Goblin Gang", "Dart Goblin", "Knight", "Inferno Tower", "Rocket", "The Log"},
			want: domain.ArchetypeBait,
		},
		{
			name: "golem beatdown",
			deck: []string{"Golem", "Night Witch", "Baby Dragon", "Mega Minion", "Lumberjack", "Tornado", "Lightning", "Elixir Collector"},
			want: domain.ArchetypeBeatdown,
		},
		{
			name: "lavaloon",
			deck: []string{"Lava Hound", "Balloon", "Mega Minion", "Minions", "Tombstone", "Arrows", "Fireball", "Guards"},
			want: domain.ArchetypeBeatdown,
		},
		{
			name: "bridge spam",
			deck: []string{"Battle Ram", "Bandit", "Royal Ghost", "Electro Wizard", "Magic Archer", "Poison", "Zap", "Ice Golem"},
			want: domain.ArchetypeBridgeSpam,
		},
		{
			name: "2.6 hog cycle",
			deck: []string{"Hog Rider", "Cannon", "Musketeer", "Ice Golem", "Skeletons", "Ice Spirit", "The Log", "Fireball"},
			want: domain.ArchetypeCycle,
		},
		{
			name: "miner wall breakers cycle",
			deck: []string{"Miner", "Wall Breakers", "Bats", "Spear Goblins", "Knight", "Bomb Tower", "The Log", "Fireball"},
			want: domain.ArchetypeCycle,
		},
		{
			name: "expensive hog is not cycle",
			deck: []string{"Hog Rider", "Wizard", "Witch", "Minion Horde", "Valkyrie", "Fireball", "Lightning", "Elixir Collector"},
			want: domain.ArchetypeHybrid,
		},
		{
			name: "control pile without a signal",
			deck: []string{"Graveyard", "Bowler", "Executioner", "Tornado", "Baby Dragon", "Poison", "Barbarian Barrel", "Knight"},
			want: domain.ArchetypeHybrid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.deck))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	c := newClassifier(t)

	// Unknown cards, short decks, nil: always some label, never a panic.
	assert.Equal(t, domain.ArchetypeHybrid, c.Classify([]string{"Totally Unknown Card"}))
	assert.Equal(t, domain.ArchetypeHybrid, c.Classify(nil))

	for _, deck := range [][]string{
		{"X-Bow"},
		{"Golem", "Giant"},
		{"Hog Rider"},
	} {
		got := c.Classify(deck)
		assert.Contains(t, domain.Archetypes, got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newClassifier(t)
	deck := []string{"Mortar", "Goblin Barrel", "Princess", "Goblin Gang", "Knight", "The Log", "Rocket", "Ice Spirit"}

	first := c.Classify(deck)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(deck))
	}
}
