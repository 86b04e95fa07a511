// Package home provides the landing page: search box, results and advert panel.
package home

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, registry *workspace.Registry, logger *slog.Logger) {
	handlers := NewHandlers(registry, logger)

	router.Get("/", handlers.HomePage)
}
