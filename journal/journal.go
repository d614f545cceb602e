// File: journal.go
// Title: Dispatch Journal
// Description: SQLite-backed persistence for dispatch records. The journal
//              implements the engine's recorder boundary and additionally
//              serves read queries for inspection tooling. Writes are
//              best-effort from the engine's point of view; the journal
//              itself reports its errors normally.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-20
// Modified: 2026-08-20
//
// Change History:
// - 2026-08-20 v0.1.0: Initial implementation

package journal

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/msto63/hostcmd/action"
	hcerror "github.com/msto63/hostcmd/core/error"
	hclog "github.com/msto63/hostcmd/core/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS dispatches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	at          TIMESTAMP NOT NULL,
	kind        TEXT NOT NULL,
	commands    INTEGER NOT NULL,
	transaction_id INTEGER,
	duration_us INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_dispatches_at ON dispatches(at);
`

// Journal persists dispatch records in a local SQLite database
type Journal struct {
	db     *sql.DB
	logger *hclog.Logger
}

// Options configures journal creation
type Options struct {
	// Path is the SQLite database file (required); ":memory:" is
	// accepted for tests
	Path string

	// Logger for journal operations (optional)
	Logger *hclog.Logger
}

// Open opens or creates the journal database and ensures the schema
func Open(opts Options) (*Journal, error) {
	if opts.Path == "" {
		return nil, hcerror.New("Path is required").
			WithCode(hcerror.CodeValidation).
			WithOperation("journal.Open")
	}
	if opts.Logger == nil {
		opts.Logger = hclog.GetDefault()
	}

	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, hcerror.Wrap(err, "failed to open journal database").
			WithCode(hcerror.CodeJournal).
			WithOperation("journal.Open").
			WithDetail("path", opts.Path)
	}

	// SQLite serializes writers; a single connection avoids lock
	// contention errors under concurrent dispatches
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, hcerror.Wrap(err, "failed to initialize journal schema").
			WithCode(hcerror.CodeJournal).
			WithOperation("journal.Open")
	}

	logger := opts.Logger.WithField("component", "journal")
	logger.Debug("journal opened", hclog.Fields{"path": opts.Path})

	return &Journal{db: db, logger: logger}, nil
}

// RecordDispatch appends one dispatch record
func (j *Journal) RecordDispatch(ctx context.Context, rec action.DispatchRecord) error {
	var tx interface{}
	if rec.Transaction != nil {
		tx = int64(*rec.Transaction)
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO dispatches (at, kind, commands, transaction_id, duration_us, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Time.UTC(), rec.Kind, rec.Commands, tx, rec.Duration.Microseconds(), rec.Err)
	if err != nil {
		return hcerror.Wrap(err, "failed to write dispatch record").
			WithCode(hcerror.CodeJournal).
			WithOperation("journal.RecordDispatch")
	}
	return nil
}

// Entry is one persisted dispatch record as read back from the journal
type Entry struct {
	ID          int64
	Time        time.Time
	Kind        string
	Commands    int
	Transaction *int64
	Duration    time.Duration
	Err         string
}

// Recent returns up to limit journal entries, newest first
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, at, kind, commands, transaction_id, duration_us, error
		 FROM dispatches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, hcerror.Wrap(err, "failed to read journal").
			WithCode(hcerror.CodeJournal).
			WithOperation("journal.Recent")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var tx sql.NullInt64
		var durationUS int64
		if err := rows.Scan(&e.ID, &e.Time, &e.Kind, &e.Commands, &tx, &durationUS, &e.Err); err != nil {
			return nil, hcerror.Wrap(err, "failed to scan journal row").
				WithCode(hcerror.CodeJournal).
				WithOperation("journal.Recent")
		}
		if tx.Valid {
			v := tx.Int64
			e.Transaction = &v
		}
		e.Duration = time.Duration(durationUS) * time.Microsecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, hcerror.Wrap(err, "failed to iterate journal rows").
			WithCode(hcerror.CodeJournal).
			WithOperation("journal.Recent")
	}
	return entries, nil
}

// Close closes the underlying database
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return hcerror.Wrap(err, "failed to close journal").
			WithCode(hcerror.CodeJournal).
			WithOperation("journal.Close")
	}
	return nil
}
