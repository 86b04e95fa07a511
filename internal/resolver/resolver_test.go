package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/testutil"
	"github.com/binfinder/binfinder/pkg/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manualClock is a Scheduler whose timers only fire on Advance.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) Schedule(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// Advance fires every pending timer.
func (c *manualClock) Advance() {
	c.mu.Lock()
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *manualClock) Pending() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []time.Duration
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.d)
		}
	}
	return out
}

// fakeFetcher serves canned data and records calls.
type fakeFetcher struct {
	mu         sync.Mutex
	items      []core.Item
	containers []core.Container
	searchErr  error
	listErr    error
	// gates block SearchItems for a query until closed; the block ignores
	// cancellation so late completions can be exercised.
	gates map[string]chan struct{}

	searches  []string
	listCalls int
}

func (f *fakeFetcher) SearchItems(ctx context.Context, name string) ([]core.Item, error) {
	f.mu.Lock()
	f.searches = append(f.searches, name)
	gate := f.gates[name]
	err := f.searchErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := []core.Item{}
	for _, it := range f.items {
		if strings.Contains(it.Name, name) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeFetcher) ListContainers(ctx context.Context) ([]core.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]core.Container(nil), f.containers...), nil
}

func (f *fakeFetcher) calls() ([]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...), f.listCalls
}

func (f *fakeFetcher) gate(query string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gates == nil {
		f.gates = map[string]chan struct{}{}
	}
	ch := make(chan struct{})
	f.gates[query] = ch
	return ch
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes []string
	stale    int
}

func (o *countingObserver) ObserveCycle(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *countingObserver) ObserveStale() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stale++
}

func (o *countingObserver) staleCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stale
}

func id(v int64) *int64 { return &v }

var (
	plastic = core.Container{ID: 1, Name: "Plastic", Color: "yellow"}
	paperC  = core.Container{ID: 2, Name: "Paper", Color: "blue"}
)

func newTestResolver(t *testing.T, f Fetcher, opts ...Option) (*Resolver, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	opts = append([]Option{
		WithScheduler(clock.Schedule),
		WithLogger(testutil.NewTestLogger(t)),
	}, opts...)
	r := New(f, opts...)
	t.Cleanup(r.Close)
	return r, clock
}

// settled waits until the cycle of generation gen has been committed.
func settled(t *testing.T, r *Resolver, gen uint64) State {
	t.Helper()
	require.Eventually(t, func() bool {
		s := r.State()
		return s.Generation == gen && !s.Loading
	}, time.Second, 2*time.Millisecond)
	return r.State()
}

func TestDebounceCoalescesRapidChanges(t *testing.T) {
	f := &fakeFetcher{items: []core.Item{{ID: 1, Name: "new paper"}}}
	r, clock := newTestResolver(t, f)

	r.Set("n")
	r.Set("ne")
	r.Set("new")

	assert.Equal(t, []time.Duration{DefaultDebounce}, clock.Pending(), "only the last change stays scheduled")
	searches, lists := f.calls()
	assert.Empty(t, searches)
	assert.Zero(t, lists)

	clock.Advance()
	s := settled(t, r, 1)

	searches, lists = f.calls()
	assert.Equal(t, []string{"new"}, searches)
	assert.Equal(t, 1, lists)
	assert.Len(t, s.Results, 1)
}

func TestDebounceUsesConfiguredQuietPeriod(t *testing.T) {
	period := 50 * time.Millisecond
	r, clock := newTestResolver(t, &fakeFetcher{}, WithDebounceFunc(func() time.Duration { return period }))

	r.Set("a")
	period = 75 * time.Millisecond
	r.Set("ab")

	assert.Equal(t, []time.Duration{75 * time.Millisecond}, clock.Pending())
}

func TestBlankQueryShortCircuits(t *testing.T) {
	f := &fakeFetcher{items: []core.Item{{ID: 1, Name: "can"}}}
	r, clock := newTestResolver(t, f)

	r.Set("can")
	clock.Advance()
	settled(t, r, 1)

	for _, q := range []string{"", "   ", "\t"} {
		r.Set(q)
		s := r.State()
		assert.Empty(t, s.Results, "query %q", q)
		assert.NotNil(t, s.Results)
		assert.False(t, s.Loading)
		assert.Empty(t, s.Error)
	}
	assert.Empty(t, clock.Pending())

	clock.Advance()
	searches, lists := f.calls()
	assert.Equal(t, []string{"can"}, searches, "blank queries issue no requests")
	assert.Equal(t, 1, lists)
}

func TestBlankQueryCancelsPendingCycle(t *testing.T) {
	f := &fakeFetcher{}
	r, clock := newTestResolver(t, f)

	r.Set("can")
	r.Set("")
	clock.Advance()

	searches, _ := f.calls()
	assert.Empty(t, searches)
	assert.False(t, r.State().Loading)
}

func TestJoin(t *testing.T) {
	f := &fakeFetcher{
		items: []core.Item{
			{ID: 10, Name: "paper", ContainerID: id(2)},
			{ID: 11, Name: "can", ContainerID: id(1)},
			{ID: 12, Name: "paper cup", ContainerID: id(99)},
			{ID: 13, Name: "paper bag"},
		},
		containers: []core.Container{plastic, paperC},
	}
	r, clock := newTestResolver(t, f)

	r.Set("pa")
	clock.Advance()
	s := settled(t, r, 1)

	want := []core.EnrichedItem{
		{ID: 10, Name: "paper", Container: &paperC},
		{ID: 12, Name: "paper cup", Container: nil},
		{ID: 13, Name: "paper bag", Container: nil},
	}
	if diff := cmp.Diff(want, s.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, s.Error)
}

func TestDanglingReferenceIsNotAnError(t *testing.T) {
	f := &fakeFetcher{
		items:      []core.Item{{ID: 5, Name: "mystery", ContainerID: id(99)}},
		containers: []core.Container{plastic},
	}
	r, clock := newTestResolver(t, f)

	r.Set("mystery")
	clock.Advance()
	s := settled(t, r, 1)

	require.Len(t, s.Results, 1)
	assert.Nil(t, s.Results[0].Container)
	assert.Empty(t, s.Error)
}

func TestPartialFailureAbortsCycle(t *testing.T) {
	tests := []struct {
		name      string
		searchErr error
		listErr   error
		want      string
	}{
		{
			name:    "containers fail with server message",
			listErr: &api.StatusError{StatusCode: 500, Status: "Internal Server Error", Message: "db offline"},
			want:    "Failed to fetch filtered items: db offline",
		},
		{
			name:      "search fails in transport",
			searchErr: &api.TransportError{Err: errors.New("connection refused")},
			want:      "Failed to fetch filtered items: connection refused",
		},
		{
			name:      "status without message",
			searchErr: &api.StatusError{StatusCode: 503},
			want:      "Failed to fetch filtered items: Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{
				items:      []core.Item{{ID: 1, Name: "can", ContainerID: id(1)}},
				containers: []core.Container{plastic},
			}
			r, clock := newTestResolver(t, f)

			r.Set("can")
			clock.Advance()
			s := settled(t, r, 1)
			require.Len(t, s.Results, 1)

			f.mu.Lock()
			f.searchErr, f.listErr = tt.searchErr, tt.listErr
			f.mu.Unlock()

			r.Set("ca")
			clock.Advance()
			s = settled(t, r, 2)

			assert.Equal(t, tt.want, s.Error)
			assert.Empty(t, s.Results)
			assert.NotNil(t, s.Results)
		})
	}
}

func TestErrorClearedByNextCycle(t *testing.T) {
	f := &fakeFetcher{listErr: errors.New("boom")}
	r, clock := newTestResolver(t, f)

	r.Set("x")
	clock.Advance()
	assert.Equal(t, ErrorPrefix+"boom", settled(t, r, 1).Error)

	f.mu.Lock()
	f.listErr = nil
	f.mu.Unlock()

	r.Set("xy")
	clock.Advance()
	assert.Empty(t, settled(t, r, 2).Error)
}

func TestStaleResponseDiscarded(t *testing.T) {
	f := &fakeFetcher{
		items:      []core.Item{{ID: 1, Name: "x-ray"}, {ID: 2, Name: "yarn"}},
		containers: []core.Container{plastic},
	}
	release := f.gate("x")
	obs := &countingObserver{}
	r, clock := newTestResolver(t, f, WithObserver(obs))

	r.Set("x")
	clock.Advance()
	require.Eventually(t, func() bool {
		searches, _ := f.calls()
		return len(searches) == 1
	}, time.Second, 2*time.Millisecond)

	r.Set("y")
	clock.Advance()
	s := settled(t, r, 2)
	require.Len(t, s.Results, 1)
	assert.Equal(t, "yarn", s.Results[0].Name)

	close(release)
	require.Eventually(t, func() bool { return obs.staleCount() == 1 }, time.Second, 2*time.Millisecond)

	s = r.State()
	assert.Equal(t, "y", s.Query)
	require.Len(t, s.Results, 1)
	assert.Equal(t, "yarn", s.Results[0].Name)
	assert.Equal(t, uint64(2), s.Generation)
}

func TestNewCycleCancelsPrevious(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	f := &ctxFetcher{started: started, cancelled: cancelled}
	r, clock := newTestResolver(t, f)

	r.Set("slow")
	clock.Advance()
	<-started

	r.Set("slower")
	clock.Advance()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded cycle was not cancelled")
	}
}

// ctxFetcher blocks its first search until the context is cancelled.
type ctxFetcher struct {
	once      sync.Once
	started   chan struct{}
	cancelled chan struct{}
}

func (f *ctxFetcher) SearchItems(ctx context.Context, _ string) ([]core.Item, error) {
	first := false
	f.once.Do(func() { first = true })
	if !first {
		return []core.Item{}, nil
	}
	close(f.started)
	<-ctx.Done()
	close(f.cancelled)
	return nil, ctx.Err()
}

func (f *ctxFetcher) ListContainers(context.Context) ([]core.Container, error) {
	return []core.Container{}, nil
}

func TestNoMatchIsNotAnError(t *testing.T) {
	f := &fakeFetcher{containers: []core.Container{plastic}}
	obs := &countingObserver{}
	r, clock := newTestResolver(t, f, WithObserver(obs))

	r.Set("zzz")
	clock.Advance()
	s := settled(t, r, 1)

	assert.Empty(t, s.Results)
	assert.NotNil(t, s.Results)
	assert.Empty(t, s.Error)
	assert.Equal(t, []string{OutcomeEmpty}, obs.outcomes)
}

func TestLoadingPublishedBeforeRequests(t *testing.T) {
	f := &fakeFetcher{}
	release := f.gate("can")
	r, clock := newTestResolver(t, f)

	ch := r.Subscribe()
	r.Set("can")
	clock.Advance()

	<-ch
	s := r.State()
	assert.True(t, s.Loading)
	assert.Empty(t, s.Error)

	close(release)
	settled(t, r, 1)
}

func TestRefreshSkipsQuietPeriod(t *testing.T) {
	f := &fakeFetcher{items: []core.Item{{ID: 1, Name: "can"}}}
	r, clock := newTestResolver(t, f)

	r.Refresh()
	searches, _ := f.calls()
	assert.Empty(t, searches, "nothing to refresh yet")

	r.Set("can")
	r.Refresh()
	assert.Empty(t, clock.Pending(), "refresh supersedes the pending timer")
	settled(t, r, 1)

	searches, _ = f.calls()
	assert.Equal(t, []string{"can"}, searches)
}

func TestSameQueryIsNoop(t *testing.T) {
	f := &fakeFetcher{}
	r, clock := newTestResolver(t, f)

	r.Set("can")
	r.Set("can")
	assert.Len(t, clock.Pending(), 1)
}

func TestCloseReleasesSubscribers(t *testing.T) {
	r := New(&fakeFetcher{}, WithScheduler((&manualClock{}).Schedule))
	ch := r.Subscribe()

	r.Close()
	_, open := <-ch
	assert.False(t, open)

	r.Set("after close")
	assert.Empty(t, r.State().Query)
	r.Close()
}

func TestRealTimerDebounce(t *testing.T) {
	f := &fakeFetcher{items: []core.Item{{ID: 1, Name: "can"}}}
	r := New(f, WithDebounce(20*time.Millisecond))
	defer r.Close()

	r.Set("c")
	r.Set("ca")
	r.Set("can")
	settled(t, r, 1)

	searches, _ := f.calls()
	assert.Equal(t, []string{"can"}, searches)
}

func TestResolve(t *testing.T) {
	f := &fakeFetcher{
		items:      []core.Item{{ID: 1, Name: "can", ContainerID: id(1)}},
		containers: []core.Container{plastic},
	}

	got, err := Resolve(context.Background(), f, "can")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Plastic", got[0].Container.Name)

	got, err = Resolve(context.Background(), f, " ")
	require.NoError(t, err)
	assert.Empty(t, got)
	searches, _ := f.calls()
	assert.Len(t, searches, 1)

	f.listErr = errors.New("down")
	_, err = Resolve(context.Background(), f, "can")
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch filtered items: down", FormatError(err))
}

func TestNullPayloadFailsCycle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items/search", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	})
	mux.HandleFunc("GET /api/containers", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	hc := &http.Client{Transport: &http.Transport{}}
	t.Cleanup(hc.CloseIdleConnections)

	client, err := api.New(api.Config{BaseURL: srv.URL + "/api", HTTPClient: hc})
	require.NoError(t, err)

	r, clock := newTestResolver(t, client)
	r.Set("can")
	clock.Advance()
	s := settled(t, r, 1)

	assert.Equal(t, "Failed to fetch filtered items: unexpected response from server: expected a JSON array, got null", s.Error)
	assert.Empty(t, s.Results)
	assert.NotNil(t, s.Results)
}
