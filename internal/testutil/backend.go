package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/binfinder/binfinder/pkg/core"
)

// Failure is a canned error response for one route.
type Failure struct {
	Status  int
	Message string
}

// Backend is an in-memory fake of the inventory REST API served over httptest.
// Routes are keyed as "METHOD /path" with chi patterns, e.g. "GET /items/search".
type Backend struct {
	server *httptest.Server

	mu         sync.Mutex
	containers []core.Container
	items      []core.Item
	adverts    []core.Advert
	nextID     int64
	calls      map[string]int
	queries    []string
	failures   map[string]Failure
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		containers: []core.Container{},
		items:      []core.Item{},
		adverts:    []core.Advert{},
		nextID:     1000,
		calls:      map[string]int{},
		failures:   map[string]Failure{},
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/containers", b.handle("GET /containers", b.listContainers))
		r.Post("/containers", b.handle("POST /containers", b.createContainer))
		r.Delete("/containers/{id}", b.handle("DELETE /containers/{id}", b.deleteContainer))
		r.Get("/items", b.handle("GET /items", b.listItems))
		r.Get("/items/search", b.handle("GET /items/search", b.searchItems))
		r.Post("/items", b.handle("POST /items", b.createItem))
		r.Delete("/items/{id}", b.handle("DELETE /items/{id}", b.deleteItem))
		r.Get("/adverts", b.handle("GET /adverts", b.listAdverts))
		r.Post("/adverts", b.handle("POST /adverts", b.createAdvert))
		r.Delete("/adverts/{id}", b.handle("DELETE /adverts/{id}", b.deleteAdvert))
	})

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the API base URL, including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// SetContainers replaces the stored containers.
func (b *Backend) SetContainers(cs ...core.Container) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.containers = append([]core.Container{}, cs...)
}

// SetItems replaces the stored items.
func (b *Backend) SetItems(items ...core.Item) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append([]core.Item{}, items...)
}

// SetAdverts replaces the stored adverts.
func (b *Backend) SetAdverts(ads ...core.Advert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adverts = append([]core.Advert{}, ads...)
}

// Items returns a copy of the stored items.
func (b *Backend) Items() []core.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

// Containers returns a copy of the stored containers.
func (b *Backend) Containers() []core.Container {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.containers)
}

// Adverts returns a copy of the stored adverts.
func (b *Backend) Adverts() []core.Advert {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.adverts)
}

// Fail makes route answer with status and a JSON message until Recover is called.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = Failure{Status: status, Message: message}
}

// Recover clears every canned failure.
func (b *Backend) Recover() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]Failure{}
}

// Calls returns how many requests route has received.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// SearchQueries returns the decoded name parameter of every search request.
func (b *Backend) SearchQueries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.queries)
}

func (b *Backend) handle(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[route]++
		failure, failing := b.failures[route]
		b.mu.Unlock()

		if failing {
			writeJSON(w, failure.Status, map[string]string{"message": failure.Message})
			return
		}
		next(w, r)
	}
}

func (b *Backend) listContainers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Containers())
}

func (b *Backend) listItems(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Items())
}

func (b *Backend) listAdverts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Adverts())
}

// searchItems matches case-insensitively on a name substring.
func (b *Backend) searchItems(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	b.mu.Lock()
	b.queries = append(b.queries, name)
	matches := []core.Item{}
	for _, it := range b.items {
		if strings.Contains(strings.ToLower(it.Name), strings.ToLower(name)) {
			matches = append(matches, it)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, matches)
}

func (b *Backend) createContainer(w http.ResponseWriter, r *http.Request) {
	var in core.NewContainer
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	b.nextID++
	c := core.Container{ID: b.nextID, Name: in.Name, Color: in.Color, Description: in.Description}
	b.containers = append(b.containers, c)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, c)
}

func (b *Backend) createItem(w http.ResponseWriter, r *http.Request) {
	var in core.NewItem
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	b.nextID++
	it := core.Item{ID: b.nextID, Name: in.Name, Type: in.Type, Description: in.Description, ContainerID: in.ContainerID}
	b.items = append(b.items, it)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, it)
}

func (b *Backend) createAdvert(w http.ResponseWriter, r *http.Request) {
	var in core.NewAdvert
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	b.nextID++
	ad := core.Advert{ID: b.nextID, Title: in.Title, Description: in.Description, PhotoURL: in.PhotoURL}
	b.adverts = append(b.adverts, ad)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, ad)
}

func (b *Backend) deleteContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	n := len(b.containers)
	b.containers = slices.DeleteFunc(b.containers, func(c core.Container) bool { return c.ID == id })
	found := len(b.containers) != n
	b.mu.Unlock()
	noContent(w, found)
}

func (b *Backend) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	n := len(b.items)
	b.items = slices.DeleteFunc(b.items, func(it core.Item) bool { return it.ID == id })
	found := len(b.items) != n
	b.mu.Unlock()
	noContent(w, found)
}

func (b *Backend) deleteAdvert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	n := len(b.adverts)
	b.adverts = slices.DeleteFunc(b.adverts, func(ad core.Advert) bool { return ad.ID == id })
	found := len(b.adverts) != n
	b.mu.Unlock()
	noContent(w, found)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func noContent(w http.ResponseWriter, found bool) {
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
