package containers

import (
	"context"
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

// Handlers provides HTTP handlers for the containers feature.
type Handlers struct {
	service *inventory.Service
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *inventory.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// ContainersPage renders the container management page.
func (h *Handlers) ContainersPage(w http.ResponseWriter, r *http.Request) {
	containers, loadErr := h.load(r.Context())
	page := components.Page("Containers", "/containers", components.ContainersBody(containers, loadErr))
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render containers page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Create creates a container from the form signals and resets the form.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var signals CreateSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		common.FlashError(sse, CreateErrorPrefix+err.Error())
		return
	}

	sse := datastar.NewSSE(w, r)
	_, err := h.service.CreateContainer(r.Context(), core.NewContainer{
		Name:        strings.TrimSpace(signals.Name),
		Color:       strings.TrimSpace(signals.Color),
		Description: strings.TrimSpace(signals.Description),
	})
	if err != nil {
		common.FlashError(sse, CreateErrorPrefix+api.Message(err))
		return
	}

	common.FlashSuccess(sse, CreatedMessage)
	if err := sse.MarshalAndPatchSignals(CreateSignals{Color: DefaultColor}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Delete removes a container.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		common.FlashError(sse, DeleteErrorPrefix+err.Error())
		return
	}

	if err := h.service.DeleteContainer(r.Context(), id); err != nil {
		common.FlashError(sse, DeleteErrorPrefix+api.Message(err))
		return
	}
	common.FlashSuccess(sse, DeletedMessage)
}

// AddItem creates an item inside the container named by the URL.
func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	id, idErr := common.PathID(r)

	signals := map[string]any{}
	readErr := datastar.ReadSignals(r, &signals)

	sse := datastar.NewSSE(w, r)
	switch {
	case idErr != nil:
		common.FlashError(sse, AddItemPrefix+idErr.Error())
		return
	case readErr != nil:
		common.FlashError(sse, AddItemPrefix+readErr.Error())
		return
	}

	key := itemNameSignal(strconv.FormatInt(id, 10))
	name, _ := signals[key].(string)

	if _, err := h.service.AddItemToContainer(r.Context(), id, strings.TrimSpace(name)); err != nil {
		common.FlashError(sse, AddItemPrefix+api.Message(err))
		return
	}

	common.FlashSuccess(sse, ItemAddedMessage)
	if err := sse.MarshalAndPatchSignals(map[string]any{key: ""}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Updates re-renders #container-list whenever containers change.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	events := h.service.Notifier()
	updates := events.Subscribe(notifier.TopicContainers)
	defer events.Unsubscribe(updates)

	sse := datastar.NewSSE(w, r)
	common.Stream(r.Context(), sse, updates, func() templ.Component {
		return components.ContainerList(h.load(r.Context()))
	})
}

func (h *Handlers) load(ctx context.Context) ([]core.Container, string) {
	containers, err := h.service.Containers(ctx)
	if err != nil {
		h.logger.Warn("failed to fetch containers", "error", err)
		return nil, LoadErrorPrefix + api.Message(err)
	}
	return containers, ""
}
