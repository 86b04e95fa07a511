package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/binfinder/binfinder/pkg/core"
)

// ContainersBody is the container management page.
func ContainersBody(containers []core.Container, loadErr string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section data-init="@get('/containers/updates')">`)
		h.raw(`<h1>Containers</h1>`)
		h.raw(`<form class="inline-form" data-signals="{name: '', color: '#4caf50', description: ''}" data-on-submit="@post('/containers')">`)
		h.raw(`<input placeholder="Name" required data-bind-name>`)
		h.raw(`<input type="color" data-bind-color>`)
		h.raw(`<input placeholder="Description" data-bind-description>`)
		h.raw(`<button type="submit">Create container</button></form>`)
		h.render(ctx, ContainerList(containers, loadErr))
		h.raw(`</section>`)
	})
}

// ContainerList renders the #container-list region.
func ContainerList(containers []core.Container, loadErr string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div id="container-list">`)
		if loadErr != "" {
			errorLine(h, loadErr)
			h.raw(`</div>`)
			return
		}
		if len(containers) == 0 {
			h.raw(`<p class="muted">No containers yet.</p></div>`)
			return
		}
		h.raw(`<ul class="cards">`)
		for _, c := range containers {
			id := itoa(c.ID)
			h.raw(`<li class="card"><span class="swatch"`)
			h.attr("style", "background-color: "+SafeColor(c.Color))
			h.raw(`></span><div class="grow"><strong>`)
			h.text(c.Name)
			h.raw(`</strong>`)
			if c.Description != "" {
				h.raw(`<p class="muted">`)
				h.text(c.Description)
				h.raw(`</p>`)
			}
			h.raw(`<form class="inline-form"`)
			h.attr("data-signals", "{itemName"+id+": ''}")
			h.attr("data-on-submit", "@post('/containers/"+id+"/items')")
			h.raw(`><input placeholder="New item"`)
			h.attr("data-bind", "itemName"+id)
			h.raw(`><button type="submit">Add item</button></form></div>`)
			h.raw(`<button type="button" class="danger"`)
			h.attr("data-on-click", "@delete('/containers/"+id+"')")
			h.raw(`>Delete</button></li>`)
		}
		h.raw(`</ul></div>`)
	})
}

// ItemsBody is the item list page.
func ItemsBody(items []core.EnrichedItem, containers []core.Container, loadErr string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section data-init="@get('/items/updates')">`)
		h.raw(`<h1>Items</h1>`)
		h.raw(`<form class="inline-form" data-signals="{name: '', type: '', description: '', containerId: ''}" data-on-submit="@post('/items')">`)
		h.raw(`<input placeholder="Name" required data-bind-name>`)
		h.raw(`<input placeholder="Type" data-bind-type>`)
		h.raw(`<input placeholder="Description" data-bind-description>`)
		h.raw(`<select data-bind-container-id><option value="">No container</option>`)
		for _, c := range containers {
			h.raw(`<option`)
			h.attr("value", itoa(c.ID))
			h.raw(`>`)
			h.text(c.Name)
			h.raw(`</option>`)
		}
		h.raw(`</select><button type="submit">Create item</button></form>`)
		h.render(ctx, ItemList(items, loadErr))
		h.raw(`</section>`)
	})
}

// ItemList renders the #item-list region.
func ItemList(items []core.EnrichedItem, loadErr string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div id="item-list">`)
		if loadErr != "" {
			errorLine(h, loadErr)
			h.raw(`</div>`)
			return
		}
		if len(items) == 0 {
			h.raw(`<p class="muted">No items yet.</p></div>`)
			return
		}
		h.raw(`<ul class="results">`)
		for _, it := range items {
			itemCard(h, it, true)
		}
		h.raw(`</ul></div>`)
	})
}

// itemCard renders one enriched item, with a delete button when deletable.
func itemCard(h *html, it core.EnrichedItem, deletable bool) {
	h.raw(`<li class="result">`)
	color := "transparent"
	if it.Container != nil {
		color = SafeColor(it.Container.Color)
	}
	h.raw(`<span class="swatch"`)
	h.attr("style", "background-color: "+color)
	h.raw(`></span><div class="grow"><strong>`)
	h.text(it.Name)
	h.raw(`</strong>`)
	if it.Type != "" {
		h.raw(` <span class="muted">`)
		h.text(it.Type)
		h.raw(`</span>`)
	}
	if it.Description != "" {
		h.raw(`<p class="muted">`)
		h.text(it.Description)
		h.raw(`</p>`)
	}
	h.raw(`<div class="destination">`)
	if it.Container != nil {
		h.text(it.Container.Name)
	} else {
		h.raw(`<em>No container assigned</em>`)
	}
	h.raw(`</div></div>`)
	if deletable {
		h.raw(`<button type="button" class="danger"`)
		h.attr("data-on-click", "@delete('/items/"+itoa(it.ID)+"')")
		h.raw(`>Delete</button>`)
	}
	h.raw(`</li>`)
}

// AdvertsBody is the advert management page.
func AdvertsBody(adverts []core.Advert, loadErr string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section data-init="@get('/adverts/updates')">`)
		h.raw(`<h1>Adverts</h1>`)
		h.raw(`<form class="stacked-form" data-signals="{title: '', description: '', photoUrl: ''}" data-on-submit="@post('/adverts')">`)
		h.raw(`<input placeholder="Title" required data-bind-title>`)
		h.raw(`<textarea placeholder="Description" required data-bind-description></textarea>`)
		h.raw(`<input type="url" placeholder="Photo URL (optional)" data-bind-photo-url>`)
		h.raw(`<button type="submit">Create advert</button></form>`)
		h.render(ctx, AdvertList(adverts, loadErr))
		h.raw(`</section>`)
	})
}

// AdvertList renders the #advert-list region.
func AdvertList(adverts []core.Advert, loadErr string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div id="advert-list">`)
		if loadErr != "" {
			errorLine(h, loadErr)
			h.raw(`</div>`)
			return
		}
		if len(adverts) == 0 {
			h.raw(`<p class="muted">No adverts yet.</p></div>`)
			return
		}
		h.raw(`<ul class="cards">`)
		for _, ad := range adverts {
			h.raw(`<li class="card">`)
			if photo := SafeURL(ad.Photo()); photo != "" {
				h.raw(`<img class="thumb"`)
				h.attr("src", photo)
				h.attr("alt", ad.Title)
				h.raw(`>`)
			}
			h.raw(`<div class="grow"><strong>`)
			h.text(ad.Title)
			h.raw(`</strong><p>`)
			h.text(ad.Description)
			h.raw(`</p></div><button type="button" class="danger"`)
			h.attr("data-on-click", "@delete('/adverts/"+itoa(ad.ID)+"')")
			h.raw(`>Delete</button></li>`)
		}
		h.raw(`</ul></div>`)
	})
}

func errorLine(h *html, msg string) {
	h.raw(`<p class="error" role="alert">`)
	h.text(msg)
	h.raw(`</p>`)
}
