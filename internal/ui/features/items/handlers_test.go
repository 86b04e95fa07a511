package items

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binfinder/binfinder/internal/ui/features"
	"github.com/binfinder/binfinder/pkg/core"
)

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t)

	bin := int64(1)
	gone := int64(7)
	fixture.Backend.SetContainers(core.Container{ID: 1, Name: "Compost", Color: "brown"})
	fixture.Backend.SetItems(
		core.Item{ID: 10, Name: "Apple core", ContainerID: &bin},
		core.Item{ID: 11, Name: "Old phone", ContainerID: &gone},
		core.Item{ID: 12, Name: "Sock"},
	)
	return NewHandlers(fixture.Inventory, fixture.Logger), fixture
}

func TestItemsPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ItemsPage(rec, features.NewRequest(t, http.MethodGet, "/items", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Items · binfinder</title>")
	assert.Contains(t, body, "Apple core")
	assert.Contains(t, body, "Compost")
	assert.Contains(t, body, `<option value="1">Compost</option>`)
	assert.Contains(t, body, "Old phone")
	assert.Contains(t, body, "No container assigned")
	assert.Contains(t, body, "@delete(&#39;/items/12&#39;)")
}

func TestItemsPage_LoadFailure(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Backend.Fail("GET /containers", http.StatusServiceUnavailable, "maintenance")

	rec := httptest.NewRecorder()
	h.ItemsPage(rec, features.NewRequest(t, http.MethodGet, "/items", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not load the list of items: ")
	assert.Contains(t, rec.Body.String(), "maintenance")
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name          string
		signals       CreateSignals
		wantBody      string
		wantCreated   bool
		wantContainer *int64
	}{
		{
			name:        "unassigned",
			signals:     CreateSignals{Name: "Cork", Type: "natural"},
			wantBody:    CreatedMessage,
			wantCreated: true,
		},
		{
			name:          "into a container",
			signals:       CreateSignals{Name: "Peel", ContainerID: "1"},
			wantBody:      CreatedMessage,
			wantCreated:   true,
			wantContainer: ptr(int64(1)),
		},
		{
			name:     "bad container value",
			signals:  CreateSignals{Name: "Peel", ContainerID: "compost"},
			wantBody: CreateErrorPrefix + "invalid container &#34;compost&#34;",
		},
		{
			name:     "blank name",
			signals:  CreateSignals{Name: " "},
			wantBody: CreateErrorPrefix + "name: is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)

			rec := httptest.NewRecorder()
			h.Create(rec, features.NewRequest(t, http.MethodPost, "/items", tt.signals))
			assert.Contains(t, rec.Body.String(), tt.wantBody)

			items := fixture.Backend.Items()
			if !tt.wantCreated {
				assert.Len(t, items, 3)
				return
			}
			require.Len(t, items, 4)
			assert.Equal(t, tt.wantContainer, items[3].ContainerID)
			assert.Contains(t, rec.Body.String(), "datastar-patch-signals")
		})
	}
}

func TestDelete(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.RequestWithPathParam(features.NewRequest(t, http.MethodDelete, "/items/12", nil), "id", "12")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Contains(t, rec.Body.String(), DeletedMessage)
	assert.Len(t, fixture.Backend.Items(), 2)

	req = features.RequestWithPathParam(features.NewRequest(t, http.MethodDelete, "/items/12", nil), "id", "12")
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Contains(t, rec.Body.String(), DeleteErrorPrefix+"not found")
}

func TestUpdates_RerendersWhenContainerDeleted(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.RequestWithTimeout(t, features.NewRequest(t, http.MethodGet, "/items/updates", nil), 400*time.Millisecond)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Updates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, fixture.Inventory.DeleteContainer(t.Context(), 1))
	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "datastar-patch-elements"), 2)
	assert.Contains(t, body, "Apple core")
}

func ptr[T any](v T) *T { return &v }
