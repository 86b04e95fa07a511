// Package components renders the web UI's HTML fragments as templ components.
//
// Every value taken from the backend or from user input goes through
// templ.EscapeString, and colours go through SafeColor before they reach a
// style attribute.
package components

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/binfinder/binfinder/internal/validation"
)

// html accumulates writes and keeps the first error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(f func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		f(ctx, h)
		return h.err
	})
}

// SafeColor returns c when it is a recognised CSS colour and "transparent"
// otherwise, so it can be placed in a style attribute.
func SafeColor(c string) string {
	if !validation.IsCSSColor(c) {
		return "transparent"
	}
	return c
}

// SafeURL returns u when it is an absolute http(s) URL and "" otherwise.
func SafeURL(u string) string {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ""
	}
	return parsed.String()
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
