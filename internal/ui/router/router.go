// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/binfinder/binfinder/internal/inventory"
	advertsFeature "github.com/binfinder/binfinder/internal/ui/features/adverts"
	carouselFeature "github.com/binfinder/binfinder/internal/ui/features/carousel"
	"github.com/binfinder/binfinder/internal/ui/features/common"
	containersFeature "github.com/binfinder/binfinder/internal/ui/features/containers"
	homeFeature "github.com/binfinder/binfinder/internal/ui/features/home"
	itemsFeature "github.com/binfinder/binfinder/internal/ui/features/items"
	searchFeature "github.com/binfinder/binfinder/internal/ui/features/search"
	"github.com/binfinder/binfinder/internal/ui/resources"
	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// Deps are the services the routes are built on.
type Deps struct {
	Registry     *workspace.Registry
	Inventory    *inventory.Service
	SessionStore sessions.Store
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics)
	}

	// Every page and stream belongs to a session workspace.
	router.Group(func(r chi.Router) {
		r.Use(common.SessionMiddleware(deps.SessionStore, deps.Logger))

		homeFeature.SetupRoutes(r, deps.Registry, deps.Logger)
		searchFeature.SetupRoutes(r, deps.Registry, deps.Logger)
		carouselFeature.SetupRoutes(r, deps.Registry, deps.Logger)
		containersFeature.SetupRoutes(r, deps.Inventory, deps.Logger)
		itemsFeature.SetupRoutes(r, deps.Inventory, deps.Logger)
		advertsFeature.SetupRoutes(r, deps.Inventory, deps.Logger)
	})
}
