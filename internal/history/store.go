// Package history keeps a sqlite record of finished search runs.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"foldersearch/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one finished run
type Entry struct {
	RunID           string
	StartPath       string
	Query           string
	Mode            domain.SearchMode
	CaseSensitive   bool
	Recursive       bool
	IgnoreExtension bool
	State           domain.RunState
	FoldersVisited  int
	FilesVisited    int
	Results         int
	Error           string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Duration is how long the run took
func (e Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// Store manages the SQLite database of runs
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens or creates the database at dbPath. ":memory:" opens a
// private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	// busy_timeout first so the others wait on locks held by another process
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry retries stmt with exponential backoff while the database is locked
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database location
func (s *Store) Path() string {
	return s.dbPath
}

// Record stores e, replacing an earlier entry with the same run id
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.RunID == "" {
		return fmt.Errorf("record run: empty run id")
	}

	query := `INSERT OR REPLACE INTO runs
		(run_id, start_path, query, mode, case_sensitive, recursive, ignore_extension, state,
		 folders_visited, files_visited, results, error_message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		e.RunID,
		e.StartPath,
		e.Query,
		e.Mode.String(),
		e.CaseSensitive,
		e.Recursive,
		e.IgnoreExtension,
		e.State.String(),
		e.FoldersVisited,
		e.FilesVisited,
		e.Results,
		e.Error,
		e.StartedAt.UnixMilli(),
		e.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", e.RunID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT run_id, start_path, query, mode, case_sensitive, recursive, ignore_extension, state,
		folders_visited, files_visited, results, error_message, started_at, finished_at
		FROM runs ORDER BY finished_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			mode, state       string
			started, finished int64
		)
		if err := rows.Scan(
			&e.RunID, &e.StartPath, &e.Query, &mode,
			&e.CaseSensitive, &e.Recursive, &e.IgnoreExtension, &state,
			&e.FoldersVisited, &e.FilesVisited, &e.Results, &e.Error,
			&started, &finished,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if e.Mode, err = domain.ParseSearchMode(mode); err != nil {
			return nil, fmt.Errorf("run %s: %w", e.RunID, err)
		}
		if e.State, err = domain.ParseRunState(state); err != nil {
			return nil, fmt.Errorf("run %s: %w", e.RunID, err)
		}
		e.StartedAt = time.UnixMilli(started)
		e.FinishedAt = time.UnixMilli(finished)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	return result.RowsAffected()
}
