package api

import (
	"net/http"

	"github.com/yashwanthk/focusflow/internal/store"
)

type HealthHandler struct {
	db *store.DB
}

func NewHealthHandler(db *store.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports server and database status; sync clients probe it to decide
// whether they are online.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.db.SessionCount()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"sessionCount": count,
	})
}
