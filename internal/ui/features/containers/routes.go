// Package containers provides container management: list, create, delete and
// adding items straight into a container.
package containers

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/binfinder/binfinder/internal/inventory"
)

// SetupRoutes configures routes for the containers feature.
func SetupRoutes(router chi.Router, service *inventory.Service, logger *slog.Logger) {
	handlers := NewHandlers(service, logger)

	router.Route("/containers", func(r chi.Router) {
		r.Get("/", handlers.ContainersPage)
		r.Post("/", handlers.Create)
		r.Get("/updates", handlers.Updates)
		r.Delete("/{id}", handlers.Delete)
		r.Post("/{id}/items", handlers.AddItem)
	})
}
