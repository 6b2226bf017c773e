// Package audit provides a SQLite-backed log of every decision shellgate's
// engine has made, grounded on the teacher's internal/metrics store (same
// single-writer sql.DB-over-modernc.org/sqlite shape, applied to decisions
// instead of request latencies).
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/normanking/shellgate/internal/logging"
)

// Entry is a single recorded decision.
type Entry struct {
	ID            int64     `json:"id"`
	CorrelationID string    `json:"correlation_id"`
	Command       string    `json:"command"`
	Allow         bool      `json:"allow"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// Log is the SQLite-backed decision audit trail.
type Log struct {
	db  *sql.DB
	log *logging.Logger
}

// Open opens (creating if absent) the audit database at path and ensures
// its schema exists. path should point at a local file, e.g.
// ~/.shellgate/audit.db.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	// A hook is invoked once per tool call, never concurrently with itself
	// from the same session, but multiple shellgate processes across
	// concurrent agent sessions can share one audit.db — SQLite tolerates
	// that fine with a single connection serializing writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	l := &Log{db: db, log: logging.Global().WithComponent("audit")}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize audit schema: %w", err)
	}
	return l, nil
}

func (l *Log) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS decisions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		correlation_id TEXT NOT NULL,
		command        TEXT NOT NULL,
		allow          BOOLEAN NOT NULL,
		reason         TEXT NOT NULL,
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at);
	CREATE INDEX IF NOT EXISTS idx_decisions_correlation_id ON decisions(correlation_id);
	`
	l.log.SQL(schema)
	_, err := l.db.Exec(schema)
	return err
}

// Record appends a single decision to the log. Callers should run this
// through logging.DetachContext (or DetachContextWithTimeout) when invoked
// on a context that's about to be cancelled as the hook process exits — the
// audit write should survive that.
func (l *Log) Record(ctx context.Context, correlationID, command string, allow bool, reason string) error {
	const query = `INSERT INTO decisions (correlation_id, command, allow, reason) VALUES (?, ?, ?, ?)`
	l.log.SQL(query, correlationID, command, allow, reason)
	_, err := l.db.ExecContext(ctx, query, correlationID, command, allow, reason)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// Tail returns the most recent n decisions, newest first.
func (l *Log) Tail(ctx context.Context, n int) ([]Entry, error) {
	const query = `
		SELECT id, correlation_id, command, allow, reason, created_at
		FROM decisions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	l.log.SQL(query, n)
	rows, err := l.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CorrelationID, &e.Command, &e.Allow, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	return l.db.Close()
}
