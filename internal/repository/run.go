package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"royale-meta/internal/constants"
	"royale-meta/internal/domain"
	"royale-meta/internal/meta"
)

// RunRepository persists finished sampling runs along with their notes,
// collected battles and both summary tables.
type RunRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRunRepository(sqlDB *sql.DB, logger zerolog.Logger) *RunRepository {
	return &RunRepository{db: sqlDB, logger: logger}
}

func (r *RunRepository) Insert(ctx context.Context, run domain.MetaRun, report *meta.RunReport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meta_runs (id, decision, total_games, players_fetched, loop_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Decision, run.TotalGames, run.PlayersFetched, run.LoopCount,
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	for seq, note := range report.Notes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_notes (run_id, seq, note) VALUES (?, ?, ?)`,
			run.ID, seq, note,
		); err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}
	}

	if err := r.insertBattles(ctx, tx, run.ID, report.Battles); err != nil {
		return err
	}

	for _, row := range report.ArchetypeSummary {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO archetype_summaries (run_id, archetype, games, meta_share, wins, losses, draws, win_rate, sample_ok)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, string(row.Archetype), row.Games, row.MetaShare,
			row.Wins, row.Losses, row.Draws, row.WinRate, row.SampleOK,
		); err != nil {
			return fmt.Errorf("failed to insert archetype summary row: %w", err)
		}
	}

	for _, row := range report.MatchupSummary {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO matchup_summaries (run_id, attacker, defender, games, wins, losses, draws, win_rate, advantage_label)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, string(row.Attacker), string(row.Defender), row.Games,
			row.Wins, row.Losses, row.Draws, row.WinRate, row.AdvantageLabel,
		); err != nil {
			return fmt.Errorf("failed to insert matchup summary row: %w", err)
		}
	}

	return tx.Commit()
}

func (r *RunRepository) insertBattles(ctx context.Context, tx *sql.Tx, runID string, battles []domain.BattleRecord) error {
	for i := 0; i < len(battles); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(battles) {
			end = len(battles)
		}

		for seq, battle := range battles[i:end] {
			myCards, err := json.Marshal(battle.MyCards)
			if err != nil {
				return fmt.Errorf("failed to encode cards: %w", err)
			}
			oppCards, err := json.Marshal(battle.OppCards)
			if err != nil {
				return fmt.Errorf("failed to encode cards: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO run_battles (run_id, seq, battle_time, result, my_cards, opp_cards, mode)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				runID, i+seq, battle.BattleTime, string(battle.Result),
				string(myCards), string(oppCards), battle.Mode,
			); err != nil {
				return fmt.Errorf("failed to insert battle: %w", err)
			}
		}
	}
	return nil
}

func (r *RunRepository) Get(ctx context.Context, id string) (*domain.MetaRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, decision, total_games, players_fetched, loop_count, started_at, finished_at, created_at
		FROM meta_runs WHERE id = ?`, id)
	return scanRun(row)
}

func (r *RunRepository) GetLatest(ctx context.Context) (*domain.MetaRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, decision, total_games, players_fetched, loop_count, started_at, finished_at, created_at
		FROM meta_runs ORDER BY created_at DESC, id DESC LIMIT 1`)
	return scanRun(row)
}

func scanRun(row *sql.Row) (*domain.MetaRun, error) {
	var run domain.MetaRun
	err := row.Scan(&run.ID, &run.Decision, &run.TotalGames, &run.PlayersFetched,
		&run.LoopCount, &run.StartedAt, &run.FinishedAt, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) ArchetypeSummary(ctx context.Context, runID string) ([]domain.ArchetypeSummaryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT archetype, games, meta_share, wins, losses, draws, win_rate, sample_ok
		FROM archetype_summaries WHERE run_id = ?
		ORDER BY games DESC, archetype ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ArchetypeSummaryRow
	for rows.Next() {
		var row domain.ArchetypeSummaryRow
		var archetype string
		if err := rows.Scan(&archetype, &row.Games, &row.MetaShare,
			&row.Wins, &row.Losses, &row.Draws, &row.WinRate, &row.SampleOK); err != nil {
			return nil, err
		}
		row.Archetype = domain.Archetype(archetype)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *RunRepository) MatchupSummary(ctx context.Context, runID string) ([]domain.MatchupSummaryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT attacker, defender, games, wins, losses, draws, win_rate, advantage_label
		FROM matchup_summaries WHERE run_id = ?
		ORDER BY games DESC, attacker ASC, defender ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MatchupSummaryRow
	for rows.Next() {
		var row domain.MatchupSummaryRow
		var attacker, defender string
		if err := rows.Scan(&attacker, &defender, &row.Games,
			&row.Wins, &row.Losses, &row.Draws, &row.WinRate, &row.AdvantageLabel); err != nil {
			return nil, err
		}
		row.Attacker = domain.Archetype(attacker)
		row.Defender = domain.Archetype(defender)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *RunRepository) Notes(ctx context.Context, runID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT note FROM run_notes WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []string
	for rows.Next() {
		var note string
		if err := rows.Scan(&note); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
