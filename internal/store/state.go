package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Fixed keys for the two persisted blobs.
const (
	StateKey     = "capy_store_state_v1"
	ShopStateKey = "capy_shop_state_v1"
)

// StateStore persists whole JSON snapshots under fixed keys. Each snapshot
// is written atomically as a single row; there is no incremental update.
type StateStore struct {
	db *sql.DB
}

func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{db: db}
}

// Get returns the blob stored under key, or nil if none exists yet.
func (s *StateStore) Get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state %q: %w", key, err)
	}
	return []byte(value), nil
}

// Set overwrites the blob stored under key.
func (s *StateStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set state %q: %w", key, err)
	}
	return nil
}

// Delete removes the blob stored under key. No-op if absent.
func (s *StateStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}
