package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/voyagen/tvstreams/internal/fetcher"
	"github.com/voyagen/tvstreams/internal/models"
)

const directoryURL = "https://example.com/channels.json"

// fakeFetcher serves canned responses in order; the last one repeats.
type fakeFetcher struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     []string
	delay     time.Duration
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeFetcher) FetchText(ctx context.Context, u string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := min(len(f.calls), len(f.responses)-1)
	f.calls = append(f.calls, u)
	return f.responses[i].text, f.responses[i].err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func serve(responses ...fakeResponse) *fakeFetcher {
	return &fakeFetcher{responses: responses}
}

var fixedClock = WithClock(func() time.Time { return time.UnixMilli(1700000000000) })

func TestLoadChannels_remote(t *testing.T) {
	f := serve(fakeResponse{text: `{"channels":[{"id":"a","name":"A","url":"https://a"},{"id":"b","name":"B","url":"https://b","referer":"https://r"}]}`})
	r := NewResolver(f, directoryURL, fixedClock)

	got := r.LoadChannels(context.Background())
	want := []models.Channel{
		{ID: "a", Name: "A", URL: "https://a"},
		{ID: "b", Name: "B", URL: "https://b", Referer: models.OptionalString("https://r")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("LoadChannels mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, StateSucceeded, r.State())

	_, info, ok := r.Snapshot()
	require.True(t, ok)
	assert.Equal(t, models.SourceRemote, info.Source)
	assert.Equal(t, 2, info.Count)
	assert.Equal(t, directoryURL, info.URL)
}

func TestLoadChannels_cacheBustsURL(t *testing.T) {
	f := serve(fakeResponse{text: `[{"name":"A","url":"https://a"}]`})
	r := NewResolver(f, directoryURL, fixedClock)
	r.LoadChannels(context.Background())

	require.Len(t, f.calls, 1)
	u, err := url.Parse(f.calls[0])
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", u.Query().Get("t"))
	assert.Equal(t, "/channels.json", u.Path)
}

func TestLoadChannels_fallsBack(t *testing.T) {
	tests := []struct {
		name     string
		response fakeResponse
	}{
		{"network", fakeResponse{err: &fetcher.NetworkError{URL: directoryURL, StatusCode: 404}}},
		{"arbitrary fetch error", fakeResponse{err: errors.New("boom")}},
		{"malformed", fakeResponse{text: "not json"}},
		{"object without channels", fakeResponse{text: `{"foo":1}`}},
		{"empty channels", fakeResponse{text: `{"channels":[]}`}},
		{"only invalid entries", fakeResponse{text: `[{"name":"","url":"x"},{"name":"B"}]`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(serve(tt.response), directoryURL, fixedClock)

			got := r.LoadChannels(context.Background())
			if diff := cmp.Diff(DefaultChannels(), got); diff != "" {
				t.Fatalf("expected fallback list (-want +got):\n%s", diff)
			}
			assert.Equal(t, StateFellBack, r.State())

			_, info, ok := r.Snapshot()
			require.True(t, ok)
			assert.Equal(t, models.SourceFallback, info.Source)
			assert.NotEmpty(t, info.Reason)
		})
	}
}

func TestLoadChannels_replacesSnapshot(t *testing.T) {
	f := serve(
		fakeResponse{text: `[{"id":"x","name":"X","url":"https://x"}]`},
		fakeResponse{err: errors.New("offline")},
		fakeResponse{text: `[{"id":"y","name":"Y","url":"https://y"}]`},
	)
	r := NewResolver(f, directoryURL, fixedClock)
	ctx := context.Background()

	r.LoadChannels(ctx)
	_, ok := r.GetByID("x")
	assert.True(t, ok)

	r.LoadChannels(ctx)
	_, ok = r.GetByID("x")
	assert.False(t, ok, "fallback replaces the remote snapshot")
	_, ok = r.GetByID("11")
	assert.True(t, ok)

	r.LoadChannels(ctx)
	_, ok = r.GetByID("11")
	assert.False(t, ok)
	ch, ok := r.GetByID("y")
	require.True(t, ok)
	assert.Equal(t, "Y", ch.Name)
}

func TestGetByID(t *testing.T) {
	r := NewResolver(serve(fakeResponse{text: `[{"id":"d","name":"First","url":"https://1"},{"id":"d","name":"Second","url":"https://2"}]`}), directoryURL)

	_, ok := r.GetByID("d")
	assert.False(t, ok, "no snapshot before the first load")
	assert.Equal(t, StateIdle, r.State())

	r.LoadChannels(context.Background())

	ch, ok := r.GetByID("d")
	require.True(t, ok)
	assert.Equal(t, "Second", ch.Name, "duplicate ids resolve to the last entry")

	_, ok = r.GetByID("missing")
	assert.False(t, ok)
}

func TestLoad_infoMatchesChannels(t *testing.T) {
	f := serve(
		fakeResponse{text: `[{"id":"a","name":"A","url":"https://a"}]`},
		fakeResponse{err: errors.New("offline")},
	)
	r := NewResolver(f, directoryURL, fixedClock)
	ctx := context.Background()

	channels, info := r.Load(ctx)
	assert.Equal(t, models.SourceRemote, info.Source)
	assert.Len(t, channels, info.Count)

	// A later load replaces the snapshot but not what was already returned.
	r.LoadChannels(ctx)
	assert.Equal(t, models.SourceRemote, info.Source)
	assert.Len(t, channels, 1)

	channels, info = r.Load(ctx)
	assert.Equal(t, models.SourceFallback, info.Source)
	assert.Len(t, channels, info.Count)
}

func TestLoadChannels_returnsCopy(t *testing.T) {
	r := NewResolver(serve(fakeResponse{text: `[{"id":"a","name":"A","url":"https://a"}]`}), directoryURL)
	got := r.LoadChannels(context.Background())
	got[0].Name = "mutated"

	ch, ok := r.GetByID("a")
	require.True(t, ok)
	assert.Equal(t, "A", ch.Name)
}

func TestLoadChannels_hooks(t *testing.T) {
	var seen []models.SnapshotInfo
	hook := func(_ context.Context, channels []models.Channel, info models.SnapshotInfo) {
		assert.Len(t, channels, info.Count)
		seen = append(seen, info)
	}
	f := serve(fakeResponse{text: `[{"name":"A","url":"https://a"}]`}, fakeResponse{err: errors.New("down")})
	r := NewResolver(f, directoryURL, WithLoadHook(hook))

	r.LoadChannels(context.Background())
	r.LoadChannels(context.Background())

	require.Len(t, seen, 2)
	assert.Equal(t, models.SourceRemote, seen[0].Source)
	assert.Equal(t, models.SourceFallback, seen[1].Source)
}

func TestLoadChannels_concurrent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := serve(fakeResponse{text: `[{"id":"a","name":"A","url":"https://a"},{"id":"b","name":"B","url":"https://b"}]`})
	f.delay = 20 * time.Millisecond
	r := NewResolver(f, directoryURL)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.Len(t, r.LoadChannels(context.Background()), 2)
		}()
		go func(i int) {
			defer wg.Done()
			// May run before or after the first snapshot is published.
			r.GetByID(fmt.Sprintf("%c", 'a'+i%2))
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, f.callCount(), 8)
	assert.GreaterOrEqual(t, f.callCount(), 1)
	_, ok := r.GetByID("a")
	assert.True(t, ok)
}

func TestLoadChannels_cancelledCallerStillLoads(t *testing.T) {
	r := NewResolver(serve(fakeResponse{text: `[{"name":"A","url":"https://a"}]`}), directoryURL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := r.LoadChannels(ctx)
	assert.NotEmpty(t, got)
}

func TestDefaultChannels(t *testing.T) {
	a := DefaultChannels()
	require.Len(t, a, 6)
	ids := make([]string, 0, len(a))
	for _, ch := range a {
		assert.True(t, ch.Valid(), ch.ID)
		ids = append(ids, ch.ID)
	}
	assert.Equal(t, []string{"11", "12", "13", "14", "99", "24"}, ids)

	a[0].Name = "changed"
	assert.Equal(t, "Kan 11", DefaultChannels()[0].Name)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "fell_back", StateFellBack.String())
	assert.Equal(t, "unknown", State(42).String())
}
