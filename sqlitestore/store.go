// Package sqlitestore keeps scratch progress blobs in an SQLite database.
//
// It implements the scratchcard Blobs interface on database/sql with the
// pure-Go modernc.org/sqlite driver:
//
//	blobs, err := sqlitestore.Open("progress.db")
//	store := scratchcard.NewStore(blobs)
package sqlitestore

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

const schema = `CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Blobs is a key/value blob table.
type Blobs struct {
	db  *sql.DB
	own bool
}

// Open opens (creating if needed) the database at path, applies the usual
// pragmas and ensures the blobs table exists. Use ":memory:" for a private
// in-memory database.
func Open(path string) (*Blobs, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlitestore: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	if path == ":memory:" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	b, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	b.own = true
	return b, nil
}

// New wraps an already opened database and ensures the blobs table exists.
// Close does not close a database passed in here.
func New(db *sql.DB) (*Blobs, error) {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("sqlitestore: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlitestore: schema: %w", err)
	}
	return &Blobs{db: db}, nil
}

// DB returns the underlying database.
func (b *Blobs) DB() *sql.DB {
	return b.db
}

// Get returns the blob stored under key, or nil with no error when there is
// none.
func (b *Blobs) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous blob.
func (b *Blobs) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlitestore: set %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written, or the zero time when it has
// never been.
func (b *Blobs) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var ms int64
	err := b.db.QueryRowContext(ctx, `SELECT updated_at FROM blobs WHERE key = ?`, key).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlitestore: updated_at %s: %w", key, err)
	}
	return time.UnixMilli(ms), nil
}

// Close closes the database if Open created it.
func (b *Blobs) Close() error {
	if !b.own {
		return nil
	}
	return b.db.Close()
}
