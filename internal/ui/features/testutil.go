// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/inventory"
	"github.com/binfinder/binfinder/internal/notifier"
	"github.com/binfinder/binfinder/internal/testutil"
	"github.com/binfinder/binfinder/internal/ui/features/common"
	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// TestWorkspaceID is the workspace every fixture request belongs to.
const TestWorkspaceID = "6f1c2d4e-8a7b-4c3d-9e0f-112233445566"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Backend      *testutil.Backend
	Client       *api.Client
	Inventory    *inventory.Service
	Registry     *workspace.Registry
	Settings     *workspace.LiveSettings
	SessionStore *sessions.CookieStore
	Logger       *slog.Logger
}

// SetupTestFixture starts a fake backend and wires the services handlers use.
// Search debounce is short and advert rotation effectively off so tests can
// drive both explicitly.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	backend := testutil.NewBackend(t)

	client, err := api.New(api.Config{
		BaseURL: backend.URL(),
		Timeout: 5 * time.Second,
		Logger:  logger,
	})
	require.NoError(t, err)

	service := inventory.New(client, notifier.New(), logger)
	settings := workspace.NewLiveSettings(workspace.Settings{
		Debounce:       10 * time.Millisecond,
		AdvertRotation: time.Hour,
		IdleTimeout:    time.Hour,
	})
	registry := workspace.NewRegistry(workspace.Config{
		Fetcher:   client,
		Adverts:   client,
		Settings:  settings,
		Inventory: service.Notifier(),
		Logger:    logger,
	})

	t.Cleanup(func() {
		registry.Close()
		service.Notifier().Close()
	})

	return &TestFixture{
		Backend:      backend,
		Client:       client,
		Inventory:    service,
		Registry:     registry,
		Settings:     settings,
		SessionStore: NewTestSessionStore(),
		Logger:       logger,
	}
}

// Workspace returns the fixture workspace.
func (f *TestFixture) Workspace() *workspace.Workspace {
	return f.Registry.Get(TestWorkspaceID)
}

// NewRequest builds a request in the fixture workspace. A non-nil signals
// value is sent as the datastar JSON body.
func NewRequest(t *testing.T, method, target string, signals any) *http.Request {
	t.Helper()

	var body *bytes.Reader
	if signals != nil {
		data, err := json.Marshal(signals)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Datastar-Request", "true")
	if signals != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(common.WithWorkspaceID(req.Context(), TestWorkspaceID))
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// SlowDebounce returns s with a debounce long enough that only Refresh can
// start a cycle during a test.
func SlowDebounce(s workspace.Settings) workspace.Settings {
	s.Debounce = time.Hour
	return s
}

// InstantIdle returns s with an idle timeout that expires immediately.
func InstantIdle(s workspace.Settings) workspace.Settings {
	s.IdleTimeout = time.Nanosecond
	return s
}
