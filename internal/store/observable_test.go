package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagen/tvstreams/internal/models"
)

func receive(t *testing.T, ch <-chan []models.Favorite) []models.Favorite {
	t.Helper()
	select {
	case favs, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return favs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for favorites")
		return nil
	}
}

func TestObservable_WatchFavorites(t *testing.T) {
	o := NewObservable(newSQLite(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := o.WatchFavorites(ctx)
	assert.Empty(t, receive(t, ch))

	require.NoError(t, o.UpsertFavorite(ctx, models.Favorite{ID: "24", Name: "i24 News", StreamURL: "https://i24"}))
	favs := receive(t, ch)
	require.Len(t, favs, 1)
	assert.Equal(t, "24", favs[0].ID)

	require.NoError(t, o.DeleteFavorite(ctx, "24"))
	assert.Empty(t, receive(t, ch))

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

func TestObservable_slowReaderSeesLatest(t *testing.T) {
	o := NewObservable(newSQLite(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := o.WatchFavorites(ctx)
	for _, id := range []string{"11", "12", "13"} {
		require.NoError(t, o.UpsertFavorite(ctx, models.Favorite{ID: id, Name: "ch " + id, StreamURL: "https://s/" + id}))
	}
	assert.Len(t, receive(t, ch), 3)
}

// stallingStore delays the next ListFavorites after it has read the list,
// so the caller holds a stale result while other writes land.
type stallingStore struct {
	Store
	stall atomic.Int64
}

func (s *stallingStore) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	favs, err := s.Store.ListFavorites(ctx)
	if d := time.Duration(s.stall.Swap(0)); d > 0 {
		time.Sleep(d)
	}
	return favs, err
}

func TestObservable_overlappingWritesDeliverNewest(t *testing.T) {
	inner := &stallingStore{Store: newSQLite(t)}
	o := NewObservable(inner)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := o.WatchFavorites(ctx)
	assert.Empty(t, receive(t, ch))

	inner.stall.Store(int64(200 * time.Millisecond))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, o.UpsertFavorite(ctx, models.Favorite{ID: "a", Name: "A", StreamURL: "s"}))
	}()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, o.UpsertFavorite(ctx, models.Favorite{ID: "b", Name: "B", StreamURL: "s"}))
	wg.Wait()

	assert.Len(t, receive(t, ch), 2)
}
