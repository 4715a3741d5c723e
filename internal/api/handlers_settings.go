package api

import (
	"encoding/json"
	"net/http"

	"github.com/yashwanthk/focusflow/internal/models"
	"github.com/yashwanthk/focusflow/internal/store"
)

// SettingsHandler serves per-user scalar settings.
type SettingsHandler struct {
	settings *store.SettingStore
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings *store.SettingStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /settings?userId= for a user's full settings map, and
// GET /settings?userId=&key= for a single value.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := models.User(r.URL.Query().Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if !userID.Valid() {
		writeError(w, http.StatusBadRequest, "unknown userId")
		return
	}

	if key := r.URL.Query().Get("key"); key != "" {
		value, err := h.settings.Get(userID, key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if value == nil {
			value = json.RawMessage("null")
		}
		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"value": value})
		return
	}

	settings, err := h.settings.All(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.SettingsMap{Settings: settings})
}

// Set handles POST /settings with a {userId, key, value} body. The value is
// stored JSON-serialized exactly as sent; last write wins.
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req models.Setting
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.UserID == "" || req.Key == "" {
		writeError(w, http.StatusBadRequest, "userId and key are required")
		return
	}
	if !req.UserID.Valid() {
		writeError(w, http.StatusBadRequest, "unknown userId")
		return
	}

	if err := h.settings.SetRaw(req.UserID, req.Key, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
