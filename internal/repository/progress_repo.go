package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codespark/internal/database"
	"codespark/internal/models"
	"codespark/internal/progress"
)

// ProgressRepository handles database operations for progress snapshots
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Load retrieves a session's state, or nil if the session has never been saved
func (r *ProgressRepository) Load(ctx context.Context, sessionID string) (*progress.State, error) {
	snap, err := r.GetSnapshot(ctx, r.db, sessionID)
	if err != nil || snap == nil {
		return nil, err
	}
	return progress.FromSnapshot(*snap), nil
}

// Save replaces the session's snapshot and results in a single transaction
func (r *ProgressRepository) Save(ctx context.Context, sessionID string, state *progress.State) error {
	snap := state.Snapshot(sessionID)
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		return r.replaceSnapshot(ctx, tx, snap)
	})
}

// Delete removes a session's snapshot and its results
func (r *ProgressRepository) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		return deleteSnapshot(ctx, tx, sessionID)
	})
}

// GetSnapshot reads one snapshot with its results, or nil if it does not exist
func (r *ProgressRepository) GetSnapshot(ctx context.Context, q database.DBTX, sessionID string) (*models.ProgressSnapshot, error) {
	query := `
		SELECT session_id, handle, xp, lives, streak, completed_lessons, completed_checkpoints, created_at, updated_at
		FROM progress_snapshots
		WHERE session_id = ?
	`
	snap, err := scanSnapshot(q.QueryRowContext(ctx, query, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress snapshot: %w", err)
	}

	results, err := r.getResults(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	snap.BestResults = results

	return snap, nil
}

// ListSnapshots returns every stored snapshot ordered by session id
func (r *ProgressRepository) ListSnapshots(ctx context.Context) ([]models.ProgressSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT session_id FROM progress_snapshots ORDER BY session_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list progress snapshots: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	snapshots := make([]models.ProgressSnapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := r.GetSnapshot(ctx, r.db, id)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			snapshots = append(snapshots, *snap)
		}
	}

	return snapshots, nil
}

// ImportSnapshots writes snapshots in one transaction, replacing any with the same session id.
// With clear set, all existing progress is removed first.
func (r *ProgressRepository) ImportSnapshots(ctx context.Context, snapshots []models.ProgressSnapshot, clear bool) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		if clear {
			if _, err := tx.ExecContext(ctx, "DELETE FROM challenge_results"); err != nil {
				return fmt.Errorf("failed to clear challenge results: %w", err)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM progress_snapshots"); err != nil {
				return fmt.Errorf("failed to clear progress snapshots: %w", err)
			}
		}

		for _, snap := range snapshots {
			if err := r.replaceSnapshot(ctx, tx, snap); err != nil {
				return fmt.Errorf("session %s: %w", snap.SessionID, err)
			}
		}
		return nil
	})
}

// CountSnapshots returns the number of stored sessions
func (r *ProgressRepository) CountSnapshots(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM progress_snapshots").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count progress snapshots: %w", err)
	}
	return count, nil
}

func (r *ProgressRepository) replaceSnapshot(ctx context.Context, tx *database.Tx, snap models.ProgressSnapshot) error {
	if err := deleteSnapshot(ctx, tx, snap.SessionID); err != nil {
		return err
	}

	lessons, err := marshalIDs(snap.CompletedLessons)
	if err != nil {
		return err
	}
	checkpoints, err := marshalIDs(snap.CompletedCheckpoints)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO progress_snapshots
			(session_id, handle, xp, lives, streak, completed_lessons, completed_checkpoints, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		snap.SessionID,
		snap.Handle,
		snap.XP,
		snap.Lives,
		snap.Streak,
		lessons,
		checkpoints,
		snap.CreatedAt.UTC(),
		snap.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert progress snapshot: %w", err)
	}

	query = `
		INSERT INTO challenge_results
			(session_id, challenge_id, time_seconds, resources_collected, efficiency, code, simulation, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for challengeID, best := range snap.BestResults {
		simulation, err := json.Marshal(best.SimulationResult)
		if err != nil {
			return fmt.Errorf("failed to encode simulation: %w", err)
		}

		_, err = tx.ExecContext(ctx, query,
			snap.SessionID,
			challengeID,
			best.Time,
			best.ResourcesCollected,
			best.Efficiency,
			best.Code,
			string(simulation),
			best.SubmittedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert challenge result: %w", err)
		}
	}

	return nil
}

func (r *ProgressRepository) getResults(ctx context.Context, q database.DBTX, sessionID string) (map[string]models.BestResult, error) {
	query := `
		SELECT challenge_id, code, simulation, submitted_at
		FROM challenge_results
		WHERE session_id = ?
	`
	rows, err := q.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]models.BestResult)
	for rows.Next() {
		var (
			challengeID string
			best        models.BestResult
			simulation  string
			submittedAt time.Time
		)
		if err := rows.Scan(&challengeID, &best.Code, &simulation, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge result: %w", err)
		}
		if err := json.Unmarshal([]byte(simulation), &best.SimulationResult); err != nil {
			return nil, fmt.Errorf("failed to decode simulation for %s: %w", challengeID, err)
		}
		best.SubmittedAt = submittedAt.UTC()
		results[challengeID] = best
	}

	return results, rows.Err()
}

func deleteSnapshot(ctx context.Context, tx *database.Tx, sessionID string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM challenge_results WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete challenge results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM progress_snapshots WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete progress snapshot: %w", err)
	}
	return nil
}

func scanSnapshot(row *sql.Row) (*models.ProgressSnapshot, error) {
	var (
		snap        models.ProgressSnapshot
		lessons     string
		checkpoints string
	)
	err := row.Scan(
		&snap.SessionID,
		&snap.Handle,
		&snap.XP,
		&snap.Lives,
		&snap.Streak,
		&lessons,
		&checkpoints,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if snap.CompletedLessons, err = unmarshalIDs(lessons); err != nil {
		return nil, fmt.Errorf("failed to decode completed lessons: %w", err)
	}
	if snap.CompletedCheckpoints, err = unmarshalIDs(checkpoints); err != nil {
		return nil, fmt.Errorf("failed to decode completed checkpoints: %w", err)
	}
	snap.CreatedAt = snap.CreatedAt.UTC()
	snap.UpdatedAt = snap.UpdatedAt.UTC()

	return &snap, nil
}

func marshalIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode ids: %w", err)
	}
	return string(data), nil
}

func unmarshalIDs(data string) ([]string, error) {
	var ids []string
	if data == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}
