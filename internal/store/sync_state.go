package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KeyLastSync records when the activity snapshot was last replaced
const KeyLastSync = "last_sync"

// GetSyncState retrieves a sync state value by key.
// Returns empty string if key doesn't exist.
func (db *DB) GetSyncState(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSyncState sets a sync state value
func (db *DB) SetSyncState(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// LastSync returns the time of the last successful sync, or the zero time
func (db *DB) LastSync(ctx context.Context) (time.Time, error) {
	v, err := db.GetSyncState(ctx, KeyLastSync)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", KeyLastSync, err)
	}
	return t, nil
}
