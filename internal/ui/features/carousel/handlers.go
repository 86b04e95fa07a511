package carousel

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/binfinder/binfinder/internal/ui/components"
	"github.com/binfinder/binfinder/internal/ui/features/common"
	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// Handlers provides HTTP handlers for the carousel feature.
type Handlers struct {
	registry *workspace.Registry
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(registry *workspace.Registry, logger *slog.Logger) *Handlers {
	return &Handlers{registry: registry, logger: logger}
}

// Updates streams #advert-carousel. While at least one stream is open for a
// session its adverts are loaded, reloaded on change and rotated.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	ws := h.registry.Acquire(common.WorkspaceID(r.Context()))
	defer h.registry.Release(ws)

	updates := ws.Carousel.Subscribe()
	defer ws.Carousel.Unsubscribe(updates)

	detach := ws.AttachCarousel()
	defer detach()

	sse := datastar.NewSSE(w, r)
	common.Stream(r.Context(), sse, updates, func() templ.Component {
		return components.Carousel(ws.Carousel.Snapshot())
	})
}

// Next shows the following advert.
func (h *Handlers) Next(w http.ResponseWriter, r *http.Request) {
	h.registry.Get(common.WorkspaceID(r.Context())).Carousel.Next()
	w.WriteHeader(http.StatusNoContent)
}

// Prev shows the preceding advert.
func (h *Handlers) Prev(w http.ResponseWriter, r *http.Request) {
	h.registry.Get(common.WorkspaceID(r.Context())).Carousel.Prev()
	w.WriteHeader(http.StatusNoContent)
}
