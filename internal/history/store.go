package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS operations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    media_path TEXT NOT NULL,
    stream_index INTEGER NOT NULL,
    mode TEXT NOT NULL,
    status TEXT NOT NULL,
    clips INTEGER NOT NULL,
    failures INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS jobs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    operation_id INTEGER NOT NULL REFERENCES operations(id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    pan REAL NOT NULL,
    status TEXT NOT NULL,
    reason TEXT NOT NULL,
    clip_path TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_operation ON jobs(operation_id);
`

// Operation summarizes one import invocation.
type Operation struct {
	ID          int64
	MediaPath   string
	StreamIndex int
	Mode        string
	Status      string
	Clips       int
	Failures    int
	CreatedAt   time.Time
}

// JobRecord captures the outcome of one extraction job.
type JobRecord struct {
	Role     string
	Pan      float64
	Status   string
	Reason   string
	ClipPath string
}

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
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
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one operation and its job rows, returning the operation ID.
func (s *Store) Record(ctx context.Context, op Operation, jobs []JobRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := op.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO operations (media_path, stream_index, mode, status, clips, failures, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op.MediaPath, op.StreamIndex, op.Mode, op.Status, op.Clips, op.Failures,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("operation id: %w", err)
	}

	for _, job := range jobs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (operation_id, role, pan, status, reason, clip_path)
             VALUES (?, ?, ?, ?, ?, ?)`,
			id, job.Role, job.Pan, job.Status, job.Reason, job.ClipPath,
		); err != nil {
			return 0, fmt.Errorf("insert job: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Recent returns the newest operations, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Operation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, media_path, stream_index, mode, status, clips, failures, created_at
         FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var op Operation
		var createdAt string
		if err := rows.Scan(&op.ID, &op.MediaPath, &op.StreamIndex, &op.Mode,
			&op.Status, &op.Clips, &op.Failures, &createdAt); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			op.CreatedAt = parsed
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Jobs returns the job rows of one operation in insertion order.
func (s *Store) Jobs(ctx context.Context, operationID int64) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, pan, status, reason, clip_path FROM jobs
         WHERE operation_id = ? ORDER BY id`, operationID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []JobRecord
	for rows.Next() {
		var job JobRecord
		if err := rows.Scan(&job.Role, &job.Pan, &job.Status, &job.Reason, &job.ClipPath); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
