package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"codespark/internal/config"
)

// openTestDB opens a migrated SQLite database in a temp directory
func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "codespark_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(context.Background(), EmbeddedMigrations()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func insertSnapshot(ctx context.Context, q DBTX, sessionID string) error {
	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO progress_snapshots
			(session_id, handle, xp, lives, streak, completed_lessons, completed_checkpoints, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, "swift-python", 10, 3, 2, `["lesson-python-hello"]`, `[]`, now, now)
	return err
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	for _, table := range []string{"migrations", "progress_snapshots", "challenge_results"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// A second run must be a no-op
	if err := db.RunMigrations(ctx, EmbeddedMigrations()); err != nil {
		t.Fatalf("Re-running migrations failed: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", count)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		return insertSnapshot(ctx, tx, "committed")
	})
	if err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM progress_snapshots WHERE session_id = ?", "committed").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 snapshot, got %d", count)
	}

	err = db.WithTx(ctx, func(tx *Tx) error {
		if err := insertSnapshot(ctx, tx, "rolled-back"); err != nil {
			return err
		}
		return context.Canceled
	})
	if err != context.Canceled {
		t.Fatalf("Expected the callback error, got %v", err)
	}

	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM progress_snapshots WHERE session_id = ?", "rolled-back").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 snapshots after rollback, got %d", count)
	}
}

// TestForeignKeyCascade checks results are removed with their snapshot
func TestForeignKeyCascade(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	if err := insertSnapshot(ctx, db, "cascade"); err != nil {
		t.Fatalf("Failed to insert snapshot: %v", err)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO challenge_results
			(session_id, challenge_id, time_seconds, resources_collected, efficiency, code, simulation, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"cascade", "challenge-automation-lab", 73, 2, 3.8, "x = 1", "{}", time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to insert result: %v", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM progress_snapshots WHERE session_id = ?", "cascade"); err != nil {
		t.Fatalf("Failed to delete snapshot: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM challenge_results").Scan(&count); err != nil {
		t.Fatalf("Failed to count results: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected results to cascade, got %d", count)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	if err := insertSnapshot(ctx, db, "concurrent"); err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var handle string
			err := db.QueryRowContext(ctx, "SELECT handle FROM progress_snapshots WHERE session_id = ?", "concurrent").Scan(&handle)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
				return
			}
			if handle != "swift-python" {
				t.Errorf("Expected handle 'swift-python', got '%s'", handle)
			}
		}()
	}
	wg.Wait()
}

func TestInitializeWithConfigAppliesPool(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := &config.Config{
		DatabaseType:   "sqlite",
		DatabasePath:   filepath.Join(t.TempDir(), "pool.db"),
		DBMaxOpenConns: 3,
	}

	db, err := InitializeWithConfig(cfg)
	if err != nil {
		t.Fatalf("InitializeWithConfig() error = %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 3 {
		t.Errorf("MaxOpenConnections = %d, want 3", got)
	}
	if db.GetDialect().Name() != "sqlite" {
		t.Errorf("dialect = %s, want sqlite", db.GetDialect().Name())
	}

	var mode string
	if err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %s, want wal", mode)
	}
}
