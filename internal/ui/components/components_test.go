package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binfinder/binfinder/internal/carousel"
	"github.com/binfinder/binfinder/internal/resolver"
	"github.com/binfinder/binfinder/pkg/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestSafeColor(t *testing.T) {
	assert.Equal(t, "#2196f3", SafeColor("#2196f3"))
	assert.Equal(t, "green", SafeColor("green"))
	assert.Equal(t, "transparent", SafeColor("red; background:url(x)"))
	assert.Equal(t, "transparent", SafeColor(""))
}

func TestSafeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a.jpg", SafeURL("https://example.com/a.jpg"))
	assert.Equal(t, "", SafeURL("javascript:alert(1)"))
	assert.Equal(t, "", SafeURL("/relative.jpg"))
	assert.Equal(t, "", SafeURL(""))
}

func TestSearchResults(t *testing.T) {
	paper := core.Container{ID: 1, Name: "Paper", Color: "#2196f3"}

	tests := []struct {
		name  string
		state resolver.State
		want  []string
		not   []string
	}{
		{
			name:  "idle prompt",
			state: resolver.State{},
			want:  []string{`id="search-results"`, "Start typing"},
		},
		{
			name:  "loading",
			state: resolver.State{Query: "pa", Loading: true, Generation: 1},
			want:  []string{"Searching..."},
		},
		{
			name:  "error",
			state: resolver.State{Query: "pa", Error: "Failed to fetch filtered items: boom", Generation: 1},
			want:  []string{`role="alert"`, "Failed to fetch filtered items: boom"},
		},
		{
			name:  "no match",
			state: resolver.State{Query: "zz", Results: []core.EnrichedItem{}, Generation: 1},
			want:  []string{"No matching items found."},
		},
		{
			name: "results",
			state: resolver.State{Query: "pa", Generation: 1, Results: []core.EnrichedItem{
				{ID: 1, Name: "newspaper", Container: &paper},
				{ID: 2, Name: "paper cup"},
			}},
			want: []string{"newspaper", "background-color: #2196f3", "Paper", "No container assigned"},
			not:  []string{"Delete"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, SearchResults(tt.state))
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, out, n)
			}
		})
	}
}

func TestSearchResults_EscapesBackendText(t *testing.T) {
	evil := core.Container{ID: 1, Name: "<script>alert(1)</script>", Color: `red" onmouseover="x`}
	out := render(t, SearchResults(resolver.State{Query: "x", Generation: 1, Results: []core.EnrichedItem{
		{ID: 1, Name: `<img src=x onerror=alert(1)>`, Container: &evil},
	}}))

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img src=x")
	assert.NotContains(t, out, "onmouseover")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "background-color: transparent")
}

func TestCarousel(t *testing.T) {
	photo := "https://example.com/bags.jpg"
	snap := carousel.Snapshot{
		Adverts: []core.Advert{{ID: 1, Title: "One"}, {ID: 2, Title: "Two", Description: "Free bags", PhotoURL: &photo}},
		Index:   1,
	}

	out := render(t, Carousel(snap))
	assert.Contains(t, out, `id="advert-carousel"`)
	assert.Contains(t, out, "Two")
	assert.Contains(t, out, "Free bags")
	assert.Contains(t, out, `src="https://example.com/bags.jpg"`)
	assert.Contains(t, out, "2 / 2")
	assert.NotContains(t, out, ">One<")

	assert.Contains(t, render(t, Carousel(carousel.Snapshot{Error: carousel.LoadError})), carousel.LoadError)
	assert.Contains(t, render(t, Carousel(carousel.Snapshot{Loading: true})), "Loading adverts")
	assert.Contains(t, render(t, Carousel(carousel.Snapshot{})), "No adverts to show.")
}

func TestPage(t *testing.T) {
	out := render(t, Page("Containers", "/containers", ContainersBody(nil, "")))

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Containers · binfinder</title>")
	assert.Contains(t, out, `<a href="/containers" class="active">`)
	assert.Contains(t, out, `id="flash"`)
	assert.Contains(t, out, DatastarScript)
	assert.Contains(t, out, "No containers yet.")
}

func TestFlash(t *testing.T) {
	assert.Equal(t, `<div id="flash"></div>`, render(t, Flash("", "")))

	out := render(t, Flash(FlashError, "name: is required"))
	assert.Contains(t, out, "flash-error")
	assert.Contains(t, out, "name: is required")
}

func TestContainerList(t *testing.T) {
	out := render(t, ContainerList([]core.Container{{ID: 3, Name: "Glass", Color: "green", Description: "jars"}}, ""))
	assert.Contains(t, out, "Glass")
	assert.Contains(t, out, "jars")
	assert.Contains(t, out, "@delete(&#39;/containers/3&#39;)")
	assert.Contains(t, out, "@post(&#39;/containers/3/items&#39;)")

	out = render(t, ContainerList(nil, "backend unavailable"))
	assert.Contains(t, out, "backend unavailable")
}

func TestItemList(t *testing.T) {
	out := render(t, ItemList([]core.EnrichedItem{{ID: 9, Name: "bottle", Description: "green glass"}}, ""))
	assert.Contains(t, out, "bottle")
	assert.Contains(t, out, "green glass")
	assert.Contains(t, out, "@delete(&#39;/items/9&#39;)")

	out = render(t, ItemList(nil, "Could not load the list of items: boom"))
	assert.Contains(t, out, "Could not load the list of items: boom")
}

func TestAdvertList(t *testing.T) {
	bad := "javascript:alert(1)"
	out := render(t, AdvertList([]core.Advert{{ID: 4, Title: "Sale", Description: "Half price", PhotoURL: &bad}}, ""))
	assert.Contains(t, out, "Sale")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "@delete(&#39;/adverts/4&#39;)")
}
