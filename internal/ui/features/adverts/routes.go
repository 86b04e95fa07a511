// Package adverts provides advert management.
package adverts

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/binfinder/binfinder/internal/inventory"
)

// SetupRoutes configures routes for the adverts feature.
func SetupRoutes(router chi.Router, service *inventory.Service, logger *slog.Logger) {
	handlers := NewHandlers(service, logger)

	router.Route("/adverts", func(r chi.Router) {
		r.Get("/", handlers.AdvertsPage)
		r.Post("/", handlers.Create)
		r.Get("/updates", handlers.Updates)
		r.Delete("/{id}", handlers.Delete)
	})
}
