// Package storage keeps the level attempt history.
package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/marcboeker/go-duckdb"
)

// Store defines the interface for attempt history.
type Store interface {
	RecordAttempt(ctx context.Context, attempt *models.LevelAttempt) error
	ListAttempts(ctx context.Context, runID string, limit int) ([]models.LevelAttempt, error)
	Close() error
}

// DuckStore stores attempts in a DuckDB file.
type DuckStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// NewDuckStore opens (or creates) the history database at dbPath.
func NewDuckStore(dbPath string) (*DuckStore, error) {
	fmt.Printf("[History] Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=1",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				fmt.Printf("[History] Pragma warning: %v\n", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	if _, err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS attempt_ids START 1`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sequence: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS attempts (
			id              BIGINT PRIMARY KEY DEFAULT nextval('attempt_ids'),
			run_id          VARCHAR NOT NULL,
			level_index     INTEGER NOT NULL,
			level_name      VARCHAR NOT NULL,
			total_images    INTEGER NOT NULL,
			elapsed_ms      BIGINT NOT NULL,
			time_to_beat_ms BIGINT NOT NULL,
			outcome         VARCHAR NOT NULL,
			recorded_at     TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &DuckStore{db: db, dbPath: dbPath}, nil
}

// RecordAttempt appends one attempt and fills in its ID.
func (s *DuckStore) RecordAttempt(ctx context.Context, a *models.LevelAttempt) error {
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO attempts (run_id, level_index, level_name, total_images, elapsed_ms, time_to_beat_ms, outcome, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		a.RunID, a.Level, a.LevelName, a.TotalImages, a.ElapsedMs, a.TimeToBeatMs, string(a.Outcome), a.RecordedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("inserting attempt: %w", err)
	}
	return nil
}

// ListAttempts returns the newest attempts first. An empty runID lists
// every run.
func (s *DuckStore) ListAttempts(ctx context.Context, runID string, limit int) ([]models.LevelAttempt, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, run_id, level_index, level_name, total_images, elapsed_ms, time_to_beat_ms, outcome, recorded_at
		FROM attempts`
	args := []any{}
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]models.LevelAttempt, 0)
	for rows.Next() {
		var a models.LevelAttempt
		var outcome string
		if err := rows.Scan(&a.ID, &a.RunID, &a.Level, &a.LevelName, &a.TotalImages,
			&a.ElapsedMs, &a.TimeToBeatMs, &outcome, &a.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		a.Outcome = models.AttemptOutcome(outcome)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Close closes the database.
func (s *DuckStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	fmt.Printf("[History] Closed database: %s\n", s.dbPath)
	return err
}
