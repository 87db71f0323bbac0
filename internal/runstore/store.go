package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one journal row.
type Run struct {
	RunID         string
	UserID        string
	Status        string
	Prompt        string
	Title         string
	VideoURL      string
	CreditsSpent  int
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    status TEXT NOT NULL,
    prompt TEXT,
    title TEXT,
    video_url TEXT,
    credits_spent INTEGER NOT NULL DEFAULT 0,
    failure_reason TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_user_updated ON runs (user_id, updated_at DESC);`

// Open initializes or connects to the run journal at dbPath.
func Open(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("runstore: db path is empty")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("runstore: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("runstore: apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("runstore: init schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert records the run's current state, inserting on first sight and
// updating afterwards. CreatedAt of the first write is preserved.
func (s *Store) Upsert(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.RunID) == "" {
		return errors.New("runstore: run id is required")
	}
	if strings.TrimSpace(run.UserID) == "" {
		return errors.New("runstore: user id is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.execWithRetry(ctx,
		`INSERT INTO runs (
            run_id, user_id, status, prompt, title, video_url,
            credits_spent, failure_reason, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id) DO UPDATE SET
            status = excluded.status,
            prompt = CASE WHEN excluded.prompt != '' THEN excluded.prompt ELSE runs.prompt END,
            title = CASE WHEN excluded.title != '' THEN excluded.title ELSE runs.title END,
            video_url = CASE WHEN excluded.video_url != '' THEN excluded.video_url ELSE runs.video_url END,
            credits_spent = CASE WHEN excluded.credits_spent > 0 THEN excluded.credits_spent ELSE runs.credits_spent END,
            failure_reason = excluded.failure_reason,
            updated_at = excluded.updated_at`,
		run.RunID,
		run.UserID,
		run.Status,
		run.Prompt,
		run.Title,
		run.VideoURL,
		run.CreditsSpent,
		run.FailureReason,
		now,
		now,
	)
}

// Get fetches one run by identifier. Returns nil when unknown.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("runstore: get run: %w", err)
	}
	return run, nil
}

// Recent returns the user's most recently updated runs, newest first.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE user_id = ? ORDER BY updated_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("runstore: query recent: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stats returns a count of runs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("runstore: stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const runColumns = "run_id, user_id, status, prompt, title, video_url, credits_spent, failure_reason, created_at, updated_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run           Run
		prompt        sql.NullString
		title         sql.NullString
		videoURL      sql.NullString
		failureReason sql.NullString
		createdRaw    string
		updatedRaw    string
	)
	if err := scanner.Scan(
		&run.RunID,
		&run.UserID,
		&run.Status,
		&prompt,
		&title,
		&videoURL,
		&run.CreditsSpent,
		&failureReason,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	run.Prompt = prompt.String
	run.Title = title.String
	run.VideoURL = videoURL.String
	run.FailureReason = failureReason.String
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		run.UpdatedAt = updated
	}
	return &run, nil
}
