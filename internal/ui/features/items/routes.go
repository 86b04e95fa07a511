// Package items provides the joined item list with create and delete.
package items

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/binfinder/binfinder/internal/inventory"
)

// SetupRoutes configures routes for the items feature.
func SetupRoutes(router chi.Router, service *inventory.Service, logger *slog.Logger) {
	handlers := NewHandlers(service, logger)

	router.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.ItemsPage)
		r.Post("/", handlers.Create)
		r.Get("/updates", handlers.Updates)
		r.Delete("/{id}", handlers.Delete)
	})
}
