package components

import (
	"context"

	"github.com/a-h/templ"
)

// DatastarScript is the client runtime the pages load.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Nav entries in display order.
var navLinks = []struct{ Path, Label string }{
	{"/", "Search"},
	{"/containers", "Containers"},
	{"/items", "Items"},
	{"/adverts", "Adverts"},
}

// Page wraps body in the HTML document shell. currentPath marks the active
// nav link.
func Page(title, currentPath string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title + " · binfinder")
		h.raw("</title>")
		h.raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script type="module"`)
		h.attr("src", DatastarScript)
		h.raw("></script></head><body>")

		h.raw(`<header class="topbar"><span class="brand">binfinder</span><nav>`)
		for _, l := range navLinks {
			h.raw("<a")
			h.attr("href", l.Path)
			if l.Path == currentPath {
				h.raw(` class="active"`)
			}
			h.raw(">")
			h.text(l.Label)
			h.raw("</a>")
		}
		h.raw("</nav></header>")

		h.raw(`<main>`)
		h.render(ctx, Flash("", ""))
		h.render(ctx, body)
		h.raw("</main></body></html>")
	})
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash renders the page-level message area. An empty message renders an
// empty placeholder so it can be patched later.
func Flash(kind, message string) templ.Component {
	return component(func(_ context.Context, h *html) {
		if message == "" {
			h.raw(`<div id="flash"></div>`)
			return
		}
		h.raw(`<div id="flash"`)
		h.attr("class", "flash flash-"+kind)
		h.raw(` role="status">`)
		h.text(message)
		h.raw("</div>")
	})
}
