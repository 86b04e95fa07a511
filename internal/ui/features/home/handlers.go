package home

import (
	"log/slog"
	"net/http"

	"github.com/binfinder/binfinder/internal/ui/components"
	"github.com/binfinder/binfinder/internal/ui/features/common"
	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	registry *workspace.Registry
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(registry *workspace.Registry, logger *slog.Logger) *Handlers {
	return &Handlers{registry: registry, logger: logger}
}

// HomePage renders the search page with the session's current results, so a
// reload shows the last query without waiting for the update stream.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	ws := h.registry.Get(common.WorkspaceID(r.Context()))

	body := components.HomeBody(ws.Resolver.State(), ws.Carousel.Snapshot())
	if err := components.Page(PageTitle, "/", body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render home page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
