package items

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/inventory"
	"github.com/binfinder/binfinder/internal/notifier"
	"github.com/binfinder/binfinder/internal/ui/components"
	"github.com/binfinder/binfinder/internal/ui/features/common"
	"github.com/binfinder/binfinder/pkg/core"
)

// Handlers provides HTTP handlers for the items feature.
type Handlers struct {
	service *inventory.Service
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *inventory.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// ItemsPage renders every item with its container, plus the create form.
func (h *Handlers) ItemsPage(w http.ResponseWriter, r *http.Request) {
	items, loadErr := h.load(r.Context())

	// The container picker is optional; a failure here only empties it.
	containers, err := h.service.Containers(r.Context())
	if err != nil {
		h.logger.Warn("failed to fetch containers for item form", "error", err)
	}

	page := components.Page("Items", "/items", components.ItemsBody(items, containers, loadErr))
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render items page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Create creates an item from the form signals and resets the form.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var signals CreateSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		common.FlashError(sse, CreateErrorPrefix+err.Error())
		return
	}

	sse := datastar.NewSSE(w, r)
	in, err := newItem(signals)
	if err != nil {
		common.FlashError(sse, CreateErrorPrefix+err.Error())
		return
	}
	if _, err := h.service.CreateItem(r.Context(), in); err != nil {
		common.FlashError(sse, CreateErrorPrefix+api.Message(err))
		return
	}

	common.FlashSuccess(sse, CreatedMessage)
	if err := sse.MarshalAndPatchSignals(CreateSignals{}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Delete removes an item.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		common.FlashError(sse, DeleteErrorPrefix+err.Error())
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		common.FlashError(sse, DeleteErrorPrefix+api.Message(err))
		return
	}
	common.FlashSuccess(sse, DeletedMessage)
}

// Updates re-renders #item-list when items or containers change, since a
// container rename or delete changes the joined view.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	events := h.service.Notifier()
	updates := events.Subscribe(notifier.TopicItems, notifier.TopicContainers)
	defer events.Unsubscribe(updates)

	sse := datastar.NewSSE(w, r)
	common.Stream(r.Context(), sse, updates, func() templ.Component {
		return components.ItemList(h.load(r.Context()))
	})
}

func (h *Handlers) load(ctx context.Context) ([]core.EnrichedItem, string) {
	items, err := h.service.ListItems(ctx)
	if err != nil {
		h.logger.Warn("failed to load items", "error", err)
		return nil, inventory.ListItemsError(err)
	}
	return items, ""
}

func newItem(s CreateSignals) (core.NewItem, error) {
	in := core.NewItem{
		Name:        strings.TrimSpace(s.Name),
		Type:        strings.TrimSpace(s.Type),
		Description: strings.TrimSpace(s.Description),
	}
	if raw := strings.TrimSpace(s.ContainerID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return core.NewItem{}, fmt.Errorf("invalid container %q", raw)
		}
		in.ContainerID = &id
	}
	return in, nil
}
