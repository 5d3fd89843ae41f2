package domain

import (
	"time"
)

// DeckSize is the number of cards in every legal deck. Battle records whose
// decks do not have exactly this many cards on both sides are excluded from
// aggregation.
const DeckSize = 8

type Player struct {
	Tag      string
	Name     string
	Rank     int
	Trophies int
}

type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// Flip reinterprets a result from the opposing participant's point of view.
// Win and loss swap, a draw is a draw for both sides.
func (r Result) Flip() Result {
	switch r {
	case ResultWin:
		return ResultLoss
	case ResultLoss:
		return ResultWin
	default:
		return r
	}
}

// Valid reports whether r is one of the three recognized outcomes.
func (r Result) Valid() bool {
	return r == ResultWin || r == ResultLoss || r == ResultDraw
}

// BattleRecord is a single normalized ranked 1v1 battle, recorded from the
// fetched player's point of view.
type BattleRecord struct {
	BattleTime time.Time
	Result     Result
	MyCards    []string
	OppCards   []string
	Mode       string
}

// WellFormed reports whether the record can contribute to the matchup
// matrix: a recognized result and exactly DeckSize cards on both sides.
func (b BattleRecord) WellFormed() bool {
	return b.Result.Valid() && len(b.MyCards) == DeckSize && len(b.OppCards) == DeckSize
}

// Archetype is a high-level deck strategy label.
type Archetype string

const (
	ArchetypeBait       Archetype = "Bait"
	ArchetypeBeatdown   Archetype = "Beatdown"
	ArchetypeBridgeSpam Archetype = "Bridge Spam"
	ArchetypeCycle      Archetype = "Cycle"
	ArchetypeHybrid     Archetype = "Hybrid"
	ArchetypeSiege      Archetype = "Siege"
)

// Archetypes is the closed set of labels the classifier may return.
var Archetypes = []Archetype{
	ArchetypeBait,
	ArchetypeBeatdown,
	ArchetypeBridgeSpam,
	ArchetypeCycle,
	ArchetypeHybrid,
	ArchetypeSiege,
}

// RequiredArchetypes are the labels that must individually reach the
// per-type coverage threshold before collection can finish. Hybrid is the
// catch-all and is exempt.
var RequiredArchetypes = []Archetype{
	ArchetypeBait,
	ArchetypeBeatdown,
	ArchetypeBridgeSpam,
	ArchetypeCycle,
	ArchetypeSiege,
}

// Classifier assigns an archetype to an 8-card deck. Implementations must
// be total: every deck gets a label, there is no error case.
type Classifier interface {
	Classify(cards []string) Archetype
}

// MatchupCell accumulates directional results of one archetype against
// another. Games is always Wins+Losses+Draws and WinRate is Wins/Games
// (0 when no games).
type MatchupCell struct {
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	WinRate float64 `json:"win_rate"`
}

// ArchetypeSummaryRow is one compact per-archetype report row.
type ArchetypeSummaryRow struct {
	Archetype Archetype `json:"archetype"`
	Games     int       `json:"games"`
	MetaShare float64   `json:"meta_share"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Draws     int       `json:"draws"`
	WinRate   float64   `json:"win_rate"`
	SampleOK  bool      `json:"sample_ok"`
}

// MatchupSummaryRow is one flattened matchup-matrix report row.
type MatchupSummaryRow struct {
	Attacker       Archetype `json:"attacker"`
	Defender       Archetype `json:"defender"`
	Games          int       `json:"games"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	Draws          int       `json:"draws"`
	WinRate        float64   `json:"win_rate"`
	AdvantageLabel string    `json:"advantage_label"`
}

// MetaRun is a persisted sampling run.
type MetaRun struct {
	ID             string
	Decision       string
	TotalGames     int
	PlayersFetched int
	LoopCount      int
	StartedAt      time.Time
	FinishedAt     time.Time
	CreatedAt      time.Time
}
