// Package storage persists permissions and the conversion history in a
// SQLite database.
package storage

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS permissions (
  category   TEXT PRIMARY KEY,
  value      TEXT NOT NULL CHECK (value IN ('always','ask','never')),
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS conversions (
  id          INTEGER PRIMARY KEY,
  occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  input       TEXT NOT NULL,
  text        TEXT NOT NULL,
  link        TEXT,
  domain      TEXT,
  status      TEXT NOT NULL CHECK (status IN ('succeeded','failed')),
  failure     TEXT,
  lat         REAL,
  lon         REAL,
  name        TEXT,
  zoom        REAL,
  q           TEXT,
  points      INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_conversions_time ON conversions(occurred_at);
CREATE INDEX IF NOT EXISTS idx_conversions_input ON conversions(input, occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// parseTimestamp reads SQLite's CURRENT_TIMESTAMP format, falling back to
// RFC3339 for rows written with an explicit time.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
