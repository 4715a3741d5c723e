package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yashwanthk/focusflow/internal/models"
)

// SettingStore handles scalar settings keyed by (user, key). Values are
// JSON-serialized before storage and parsed back on read; last write wins.
type SettingStore struct {
	db *DB
}

// NewSettingStore creates a new setting store.
func NewSettingStore(db *DB) *SettingStore {
	return &SettingStore{db: db}
}

// Get returns the raw JSON value for (userID, key), or nil when unset.
func (s *SettingStore) Get(userID models.User, key string) (json.RawMessage, error) {
	var value sql.NullString
	err := s.db.QueryRow(`SELECT value FROM settings WHERE user_id = ? AND key = ?`, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	if !value.Valid {
		return nil, nil
	}
	return json.RawMessage(value.String), nil
}

// GetInt reads a setting as an integer, returning fallback when the setting
// is unset or not a number.
func (s *SettingStore) GetInt(userID models.User, key string, fallback int) (int, error) {
	raw, err := s.Get(userID, key)
	if err != nil {
		return fallback, err
	}
	if raw == nil {
		return fallback, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return fallback, nil
	}
	return n, nil
}

// Set upserts the setting, serializing value as JSON.
func (s *SettingStore) Set(userID models.User, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal setting %s: %w", key, err)
	}
	return s.SetRaw(userID, key, json.RawMessage(data))
}

// SetRaw upserts an already-serialized value.
func (s *SettingStore) SetRaw(userID models.User, key string, value json.RawMessage) error {
	now := time.Now().UnixMilli()
	_, err := s.db.Exec(`
		INSERT INTO settings (user_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, userID, key, string(value), now)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// All returns every setting for one user as raw JSON values.
func (s *SettingStore) All(userID models.User) (map[string]json.RawMessage, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		if value.Valid {
			settings[key] = json.RawMessage(value.String)
		}
	}
	return settings, rows.Err()
}
