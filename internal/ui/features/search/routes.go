// Package search serves the live item search: query input, manual refresh and
// the stream that re-renders results as the session's resolver changes.
package search

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// SetupRoutes configures routes for the search feature.
func SetupRoutes(router chi.Router, registry *workspace.Registry, logger *slog.Logger) {
	handlers := NewHandlers(registry, logger)

	router.Route("/search", func(r chi.Router) {
		r.Post("/", handlers.SetQuery)
		r.Post("/refresh", handlers.Refresh)
		r.Get("/updates", handlers.Updates)
	})
}
