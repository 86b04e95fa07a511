package search

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/binfinder/binfinder/internal/ui/components"
	"github.com/binfinder/binfinder/internal/ui/features/common"
	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// Handlers provides HTTP handlers for the search feature.
type Handlers struct {
	registry *workspace.Registry
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(registry *workspace.Registry, logger *slog.Logger) *Handlers {
	return &Handlers{registry: registry, logger: logger}
}

// SetQuery hands the typed query to the session's resolver. Results arrive on
// the updates stream once the debounce has elapsed.
func (h *Handlers) SetQuery(w http.ResponseWriter, r *http.Request) {
	// Read signals before creating the SSE generator, which consumes the body.
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		common.FlashError(sse, "Invalid search request: "+err.Error())
		return
	}

	ws := h.registry.Get(common.WorkspaceID(r.Context()))
	ws.Resolver.Set(signals.Query)
	w.WriteHeader(http.StatusNoContent)
}

// Refresh re-runs the current query without waiting for the debounce.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	ws := h.registry.Get(common.WorkspaceID(r.Context()))
	ws.Resolver.Refresh()
	w.WriteHeader(http.StatusNoContent)
}

// Updates is the long-lived SSE endpoint patching #search-results whenever
// the resolver state changes.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	ws := h.registry.Acquire(common.WorkspaceID(r.Context()))
	defer h.registry.Release(ws)

	updates := ws.Resolver.Subscribe()
	defer ws.Resolver.Unsubscribe(updates)

	sse := datastar.NewSSE(w, r)
	common.Stream(r.Context(), sse, updates, func() templ.Component {
		return components.SearchResults(ws.Resolver.State())
	})
}
