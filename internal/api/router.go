package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/yashwanthk/focusflow/internal/store"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(db *store.DB, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(db)
	sessionH := NewSessionHandler(store.NewSessionStore(db))
	settingsH := NewSettingsHandler(store.NewSettingStore(db))

	r.Get("/health", healthH.Health)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", sessionH.List)
		r.Post("/", sessionH.Upsert)
		r.Delete("/", sessionH.Delete) // ?id= form
		r.Delete("/{id}", sessionH.Delete)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", settingsH.Get)
		r.Post("/", settingsH.Set)
	})

	return r
}
