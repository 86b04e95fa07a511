// Package carousel serves the rotating advert panel on the search page.
package carousel

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// SetupRoutes configures routes for the carousel feature.
func SetupRoutes(router chi.Router, registry *workspace.Registry, logger *slog.Logger) {
	handlers := NewHandlers(registry, logger)

	router.Route("/carousel", func(r chi.Router) {
		r.Get("/updates", handlers.Updates)
		r.Post("/next", handlers.Next)
		r.Post("/prev", handlers.Prev)
	})
}
