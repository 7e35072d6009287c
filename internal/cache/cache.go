// Package cache provides a SQLite-backed result cache for check runs.
//
// A posting whose content and configuration are both unchanged since the
// last run produced the same diagnostics, so the batch driver can skip it.
// The cache key is the posting path plus the checksums of its content and
// of the configuration file.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS results (
	path            TEXT PRIMARY KEY,
	content_sum     TEXT NOT NULL,
	config_sum      TEXT NOT NULL,
	flagged         INTEGER NOT NULL DEFAULT 0,
	diagnostics     TEXT NOT NULL DEFAULT '[]',
	checked_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Entry is one cached check result.
type Entry struct {
	Path        string
	ContentSum  string
	ConfigSum   string
	Flagged     bool
	Diagnostics []string
	CheckedAt   time.Time
}

// Store defines the result-cache operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing
// with mocks.
type Store interface {
	Get(path, contentSum, configSum string) (*Entry, error)
	Put(e Entry) error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with cache-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite cache database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cache: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Get returns the cached entry for path when both checksums still match,
// or nil on a cache miss.
func (db *DB) Get(path, contentSum, configSum string) (*Entry, error) {
	row := db.conn.QueryRow(`
		SELECT flagged, diagnostics, checked_at
		FROM results
		WHERE path = ? AND content_sum = ? AND config_sum = ?
	`, path, contentSum, configSum)

	var (
		flagged   int
		diagJSON  string
		checkedAt time.Time
	)
	err := row.Scan(&flagged, &diagJSON, &checkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get %s: %w", path, err)
	}

	e := &Entry{
		Path:       path,
		ContentSum: contentSum,
		ConfigSum:  configSum,
		Flagged:    flagged != 0,
		CheckedAt:  checkedAt,
	}
	if err := json.Unmarshal([]byte(diagJSON), &e.Diagnostics); err != nil {
		return nil, fmt.Errorf("cache: decode diagnostics for %s: %w", path, err)
	}
	return e, nil
}

// Put inserts or replaces the cached result for a posting.
func (db *DB) Put(e Entry) error {
	diagJSON, err := json.Marshal(e.Diagnostics)
	if err != nil {
		return fmt.Errorf("cache: encode diagnostics for %s: %w", e.Path, err)
	}
	flagged := 0
	if e.Flagged {
		flagged = 1
	}
	checkedAt := e.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now().UTC()
	}
	_, err = db.conn.Exec(`
		INSERT INTO results (path, content_sum, config_sum, flagged, diagnostics, checked_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_sum = excluded.content_sum,
			config_sum  = excluded.config_sum,
			flagged     = excluded.flagged,
			diagnostics = excluded.diagnostics,
			checked_at  = excluded.checked_at
	`, e.Path, e.ContentSum, e.ConfigSum, flagged, string(diagJSON), checkedAt)
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", e.Path, err)
	}
	return nil
}
