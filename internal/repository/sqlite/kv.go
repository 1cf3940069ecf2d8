package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/clipfeed/internal/apperror"
	"github.com/sakif/clipfeed/internal/repository"
)

// compile-time check that *DB implements repository.KeyValueRepository
var _ repository.KeyValueRepository = (*DB)(nil)

// Get returns the raw blob stored under key.
// Returns apperror.ErrNotFound if the key has never been written.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("key", key)
		}
		return nil, fmt.Errorf("sqlite: getting key %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value.
//
// UPSERT VIA ON CONFLICT:
// SQLite's "INSERT ... ON CONFLICT(key) DO UPDATE" updates the existing
// row in place instead of the DELETE+INSERT that "INSERT OR REPLACE" does,
// so the rowid stays stable across updates.
func (db *DB) Put(ctx context.Context, key string, value []byte) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: putting key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op, not an error.
func (db *DB) Delete(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("sqlite: deleting key %s: %w", key, err)
	}
	return nil
}
