package adverts

import (
	"context"
	"log/slog"
	"net/http"
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

// Handlers provides HTTP handlers for the adverts feature.
type Handlers struct {
	service *inventory.Service
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *inventory.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// AdvertsPage renders the advert list and create form.
func (h *Handlers) AdvertsPage(w http.ResponseWriter, r *http.Request) {
	adverts, loadErr := h.load(r.Context())
	page := components.Page("Adverts", "/adverts", components.AdvertsBody(adverts, loadErr))
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render adverts page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Create creates an advert. Title and description are checked before any
// request is sent; an empty photo URL is sent as null.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var signals CreateSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		common.FlashError(sse, CreateErrorPrefix+err.Error())
		return
	}

	sse := datastar.NewSSE(w, r)
	in := core.NewAdvert{
		Title:       strings.TrimSpace(signals.Title),
		Description: strings.TrimSpace(signals.Description),
	}
	if in.Title == "" || in.Description == "" {
		common.FlashError(sse, MissingFieldsMessage)
		return
	}
	if photo := strings.TrimSpace(signals.PhotoURL); photo != "" {
		in.PhotoURL = &photo
	}

	if _, err := h.service.CreateAdvert(r.Context(), in); err != nil {
		common.FlashError(sse, CreateErrorPrefix+api.Message(err))
		return
	}

	common.FlashSuccess(sse, CreatedMessage)
	if err := sse.MarshalAndPatchSignals(CreateSignals{}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Delete removes an advert.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		common.FlashError(sse, DeleteErrorPrefix+err.Error())
		return
	}

	if err := h.service.DeleteAdvert(r.Context(), id); err != nil {
		common.FlashError(sse, DeleteErrorPrefix+api.Message(err))
		return
	}
	common.FlashSuccess(sse, DeletedMessage)
}

// Updates re-renders #advert-list whenever adverts change.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	events := h.service.Notifier()
	updates := events.Subscribe(notifier.TopicAdverts)
	defer events.Unsubscribe(updates)

	sse := datastar.NewSSE(w, r)
	common.Stream(r.Context(), sse, updates, func() templ.Component {
		return components.AdvertList(h.load(r.Context()))
	})
}

func (h *Handlers) load(ctx context.Context) ([]core.Advert, string) {
	adverts, err := h.service.Adverts(ctx)
	if err != nil {
		h.logger.Warn("failed to fetch adverts", "error", err)
		return nil, LoadErrorPrefix + api.Message(err)
	}
	return adverts, ""
}
