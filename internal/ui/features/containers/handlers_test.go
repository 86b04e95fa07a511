package containers

import (
	"net/http"
	"net/http/httptest"
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
	fixture.Backend.SetContainers(
		core.Container{ID: 1, Name: "Paper", Color: "#0000ff", Description: "Clean paper only"},
		core.Container{ID: 2, Name: "Glass", Color: "green"},
	)
	return NewHandlers(fixture.Inventory, fixture.Logger), fixture
}

func TestContainersPage(t *testing.T) {
	tests := []struct {
		name     string
		fail     bool
		wantBody []string
	}{
		{
			name: "lists containers",
			wantBody: []string{
				"<title>Containers · binfinder</title>",
				`id="container-list"`,
				"Clean paper only",
				"@delete(&#39;/containers/2&#39;)",
				"@get(&#39;/containers/updates&#39;)",
			},
		},
		{
			name:     "shows load failure",
			fail:     true,
			wantBody: []string{"Failed to fetch containers: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			if tt.fail {
				fixture.Backend.Fail("GET /containers", http.StatusInternalServerError, "boom")
			}

			rec := httptest.NewRecorder()
			h.ContainersPage(rec, features.NewRequest(t, http.MethodGet, "/containers", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name      string
		signals   CreateSignals
		wantBody  []string
		wantCount int
	}{
		{
			name:      "creates and resets the form",
			signals:   CreateSignals{Name: " Metal ", Color: "#999999", Description: "Cans"},
			wantBody:  []string{CreatedMessage, "datastar-patch-signals", DefaultColor},
			wantCount: 3,
		},
		{
			name:      "rejects a blank name",
			signals:   CreateSignals{Name: "  ", Color: "#999999"},
			wantBody:  []string{CreateErrorPrefix + "name: is required"},
			wantCount: 2,
		},
		{
			name:      "rejects an unsafe colour",
			signals:   CreateSignals{Name: "Metal", Color: "red;position:fixed"},
			wantBody:  []string{CreateErrorPrefix, "color: must be a CSS color"},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)

			rec := httptest.NewRecorder()
			h.Create(rec, features.NewRequest(t, http.MethodPost, "/containers", tt.signals))

			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
			assert.Len(t, fixture.Backend.Containers(), tt.wantCount)
		})
	}

	t.Run("trims input", func(t *testing.T) {
		h, fixture := setupTestHandlers(t)
		h.Create(httptest.NewRecorder(), features.NewRequest(t, http.MethodPost, "/containers", CreateSignals{Name: " Metal ", Color: "#999"}))
		got := fixture.Backend.Containers()
		require.Len(t, got, 3)
		assert.Equal(t, "Metal", got[2].Name)
	})
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantBody  string
		wantCount int
	}{
		{"deletes", "1", DeletedMessage, 1},
		{"missing container", "42", DeleteErrorPrefix + "not found", 2},
		{"invalid id", "abc", DeleteErrorPrefix + "invalid id &#34;abc&#34;", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)

			req := features.RequestWithPathParam(features.NewRequest(t, http.MethodDelete, "/containers/"+tt.id, nil), "id", tt.id)
			rec := httptest.NewRecorder()
			h.Delete(rec, req)

			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Len(t, fixture.Backend.Containers(), tt.wantCount)
		})
	}
}

func TestAddItem(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.NewRequest(t, http.MethodPost, "/containers/2/items", map[string]any{"itemName2": " Jam jar "})
	req = features.RequestWithPathParam(req, "id", "2")
	rec := httptest.NewRecorder()
	h.AddItem(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, ItemAddedMessage)
	assert.Contains(t, body, `"itemName2":""`)

	items := fixture.Backend.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Jam jar", items[0].Name)
	require.NotNil(t, items[0].ContainerID)
	assert.Equal(t, int64(2), *items[0].ContainerID)
}

func TestAddItem_BlankName(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.NewRequest(t, http.MethodPost, "/containers/2/items", map[string]any{"itemName1": "wrong form"})
	req = features.RequestWithPathParam(req, "id", "2")
	rec := httptest.NewRecorder()
	h.AddItem(rec, req)

	assert.Contains(t, rec.Body.String(), AddItemPrefix+"name: is required")
	assert.Empty(t, fixture.Backend.Items())
}

func TestUpdates_RerendersOnChange(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.RequestWithTimeout(t, features.NewRequest(t, http.MethodGet, "/containers/updates", nil), 400*time.Millisecond)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Updates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	_, err := fixture.Inventory.CreateContainer(t.Context(), core.NewContainer{Name: "Textiles", Color: "purple"})
	require.NoError(t, err)
	<-done

	body := rec.Body.String()
	assert.Contains(t, body, "Glass")
	assert.Contains(t, body, "Textiles")
}
