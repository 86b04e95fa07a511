package components

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/binfinder/binfinder/internal/carousel"
	"github.com/binfinder/binfinder/internal/resolver"
)

// HomeBody is the search page: search box, results and the advert panel.
func HomeBody(state resolver.State, adverts carousel.Snapshot) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="home">`)
		h.raw(`<section class="search" data-signals-query="''" data-init="@get('/search/updates')">`)
		h.raw(`<input type="search" placeholder="Search for an item..." autocomplete="off" autofocus`)
		h.raw(` data-bind-query data-on-input="@post('/search')"`)
		h.attr("value", state.Query)
		h.raw(`>`)
		h.raw(`<button type="button" data-on-click="@post('/search/refresh')">Refresh</button>`)
		h.render(ctx, SearchResults(state))
		h.raw(`</section>`)

		h.raw(`<aside data-init="@get('/carousel/updates')">`)
		h.render(ctx, Carousel(adverts))
		h.raw(`</aside></div>`)
	})
}

// SearchResults renders the #search-results region for a resolver state.
func SearchResults(state resolver.State) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div id="search-results">`)
		switch {
		case state.Loading:
			h.raw(`<p class="loading" aria-busy="true">Searching...</p>`)
		case state.Error != "":
			h.raw(`<p class="error" role="alert">`)
			h.text(state.Error)
			h.raw(`</p>`)
		case strings.TrimSpace(state.Query) == "" || (len(state.Results) == 0 && state.Generation == 0):
			h.raw(`<p class="muted">Start typing to find the right container.</p>`)
		case len(state.Results) == 0:
			h.raw(`<p class="muted">No matching items found.</p>`)
		default:
			h.raw(`<ul class="results">`)
			for _, it := range state.Results {
				itemCard(h, it, false)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</div>`)
	})
}

// Carousel renders the #advert-carousel region.
func Carousel(s carousel.Snapshot) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div id="advert-carousel" class="carousel">`)
		ad, ok := s.Current()
		switch {
		case s.Error != "":
			h.raw(`<p class="error">`)
			h.text(s.Error)
			h.raw(`</p>`)
		case !ok && s.Loading:
			h.raw(`<p class="muted">Loading adverts...</p>`)
		case !ok:
			h.raw(`<p class="muted">No adverts to show.</p>`)
		default:
			h.raw(`<article class="advert">`)
			if photo := SafeURL(ad.Photo()); photo != "" {
				h.raw(`<img`)
				h.attr("src", photo)
				h.attr("alt", ad.Title)
				h.raw(`>`)
			}
			h.raw(`<h3>`)
			h.text(ad.Title)
			h.raw(`</h3><p>`)
			h.text(ad.Description)
			h.raw(`</p></article>`)
			h.raw(`<div class="carousel-controls">`)
			h.raw(`<button type="button" data-on-click="@post('/carousel/prev')" aria-label="Previous advert">‹</button>`)
			h.raw(`<span class="muted">`)
			h.text(itoa(int64(s.Index+1)) + " / " + itoa(int64(len(s.Adverts))))
			h.raw(`</span>`)
			h.raw(`<button type="button" data-on-click="@post('/carousel/next')" aria-label="Next advert">›</button>`)
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
	})
}
