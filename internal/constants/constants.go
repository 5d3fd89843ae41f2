package constants

import "time"

// Sampling loop thresholds.
const (
	MinTotalBattles     = 2000
	MinGamesPerType     = 200
	MinMatchupGames     = 30
	InitialSampleSize   = 250
	IncrementSampleSize = 5
	MaxLoops            = 20
	BattlesPerPlayer    = 10
	TopPlayerLimit      = 1000
)

// Advantage labeling around parity.
const (
	AdvantageNeutral = 0.5
	AdvantageMargin  = 0.05
)

const (
	ExternalAPITimeout = 10 * time.Second
	BatchTimeout       = 2 * time.Minute
	RunTimeout         = 30 * time.Minute
	DatabaseTimeout    = 5 * time.Second
)

// Clash Royale API budget: developer keys allow bursts but sustained
// traffic should stay well under the documented per-key ceiling.
const (
	FetchWorkers        = 4
	APIRequestsPerSec   = 5
	APIRequestBurst     = 5
	APIRetryAttempts    = 3
	APIRetryBaseBackoff = 500 * time.Millisecond
	RankingsPageLimit   = 200
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)
