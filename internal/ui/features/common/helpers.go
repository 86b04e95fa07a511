package common

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/binfinder/binfinder/internal/ui/components"
)

// PathID parses the {id} URL parameter.
func PathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// Flash patches the page-level message area.
func Flash(sse *datastar.ServerSentEventGenerator, kind, message string) {
	if err := sse.PatchElementTempl(components.Flash(kind, message)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// FlashError patches an error message into the flash area.
func FlashError(sse *datastar.ServerSentEventGenerator, message string) {
	Flash(sse, components.FlashError, message)
}

// FlashSuccess patches a success message into the flash area.
func FlashSuccess(sse *datastar.ServerSentEventGenerator, message string) {
	Flash(sse, components.FlashSuccess, message)
}

// Stream patches view once, then again on every ping from updates, until ctx
// ends or updates is closed. Render errors go to the browser console and the
// stream keeps going.
func Stream(ctx context.Context, sse *datastar.ServerSentEventGenerator, updates <-chan struct{}, view func() templ.Component) {
	send := func() {
		if err := sse.PatchElementTempl(view()); err != nil {
			_ = sse.ConsoleError(err)
		}
	}

	send()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			send()
		}
	}
}
