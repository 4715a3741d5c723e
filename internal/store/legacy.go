package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yashwanthk/focusflow/internal/models"
)

// legacySnapshot is the flat-file export format used before the synced
// database existed: all sessions plus the single custom target.
type legacySnapshot struct {
	Sessions     []models.Session `json:"sessions"`
	CustomTarget int              `json:"customTarget"`
}

// ImportLegacySnapshot imports a pre-sync flat-file snapshot exactly once:
// it is a no-op unless the sessions collection is empty and the file exists.
// Returns the number of sessions imported.
func ImportLegacySnapshot(db *DB, path string, userID models.User) (int, error) {
	if path == "" {
		return 0, nil
	}

	count, err := db.SessionCount()
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read legacy snapshot: %w", err)
	}

	var snap legacySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("parse legacy snapshot: %w", err)
	}

	sessions := NewSessionStore(db)
	imported := 0
	for _, sess := range snap.Sessions {
		if sess.ID == "" {
			continue
		}
		if err := sessions.Upsert(sess); err != nil {
			return imported, err
		}
		imported++
	}

	if snap.CustomTarget > 0 {
		settings := NewSettingStore(db)
		if err := settings.Set(userID, models.SettingCustomTarget, snap.CustomTarget); err != nil {
			return imported, err
		}
	}

	return imported, nil
}
