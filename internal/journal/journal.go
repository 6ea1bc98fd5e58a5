package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    video_id TEXT NOT NULL,
    column_name TEXT NOT NULL,
    status TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_run ON attempts(run_id);
CREATE INDEX IF NOT EXISTS idx_attempts_status ON attempts(status);
`

// Journal records annotation attempts in a SQLite database.
type Journal struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record stores one attempt. Implements annotate.Recorder.
func (j *Journal) Record(ctx context.Context, runID, videoID, column, status, detail string) error {
	_, err := j.db.ExecContext(
		ctx,
		`INSERT INTO attempts (run_id, video_id, column_name, status, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, videoID, column, status, detail,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// StatusCount is one row of a journal summary.
type StatusCount struct {
	Status string
	Count  int
}

// Summary returns attempt counts grouped by status across all runs.
func (j *Journal) Summary(ctx context.Context) ([]StatusCount, error) {
	rows, err := j.db.QueryContext(
		ctx,
		`SELECT status, COUNT(*) FROM attempts GROUP BY status ORDER BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize attempts: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}
	return counts, nil
}

// LastRun returns the most recent run ID and its attempt count, or an empty
// ID when the journal holds no attempts.
func (j *Journal) LastRun(ctx context.Context) (string, int, error) {
	row := j.db.QueryRowContext(
		ctx,
		`SELECT run_id, COUNT(*) FROM attempts
         WHERE run_id = (SELECT run_id FROM attempts ORDER BY id DESC LIMIT 1)
         GROUP BY run_id`,
	)
	var runID string
	var count int
	if err := row.Scan(&runID, &count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, nil
		}
		return "", 0, fmt.Errorf("query last run: %w", err)
	}
	return runID, count, nil
}
