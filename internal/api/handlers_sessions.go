package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yashwanthk/focusflow/internal/models"
	"github.com/yashwanthk/focusflow/internal/store"
	"github.com/yashwanthk/focusflow/internal/timeutil"
)

// SessionHandler serves the bulk session endpoints the sync engine consumes.
type SessionHandler struct {
	sessions *store.SessionStore
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *store.SessionStore) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List handles GET /sessions with optional userId and date filters. Results
// are ordered date desc then start time desc, except single-date queries
// which come back start time asc.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := models.User(r.URL.Query().Get("userId"))
	date := r.URL.Query().Get("date")

	if userID != "" && !userID.Valid() {
		writeError(w, http.StatusBadRequest, "unknown userId")
		return
	}

	var (
		sessions []models.Session
		err      error
	)
	switch {
	case date != "":
		sessions, err = h.sessions.ListByDate(date, userID)
	case userID != "":
		sessions, err = h.sessions.ListByUser(userID)
	default:
		sessions, err = h.sessions.ListAll()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if sessions == nil {
		sessions = []models.Session{}
	}
	writeJSON(w, http.StatusOK, models.SessionList{Sessions: sessions})
}

// Upsert handles POST /sessions: insert or full replacement by id. A missing
// createdAt defaults to the server clock; updatedAt is always stamped
// server-side. The duration is recomputed from the clock strings rather than
// trusted from the payload.
func (h *SessionHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var sess models.Session
	if err := decodeJSON(r, &sess); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if sess.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if !sess.UserID.Valid() {
		writeError(w, http.StatusBadRequest, "unknown userId")
		return
	}
	if sess.Date == "" || sess.StartTime == "" || sess.EndTime == "" || sess.Task == "" {
		writeError(w, http.StatusBadRequest, "date, startTime, endTime and task are required")
		return
	}

	duration, err := timeutil.ComputeDuration(sess.StartTime, sess.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.DurationMinutes = duration

	if sess.CreatedAt == 0 {
		sess.CreatedAt = time.Now().UnixMilli()
	}

	if err := h.sessions.Upsert(sess); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

// Delete handles DELETE /sessions/{id} and DELETE /sessions?id=. Deleting an
// id that does not exist still succeeds.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	if err := h.sessions.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
