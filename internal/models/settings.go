package models

import "encoding/json"

// Setting is one scalar value scoped to a user. Values travel and persist
// JSON-serialized; last write wins, no history.
type Setting struct {
	UserID User            `json:"userId"`
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value"`
}

// SettingsMap is the wire envelope for a user's full settings.
type SettingsMap struct {
	Settings map[string]json.RawMessage `json:"settings"`
}
