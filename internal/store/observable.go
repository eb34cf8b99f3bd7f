package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	tvlog "github.com/voyagen/tvstreams/internal/log"
	"github.com/voyagen/tvstreams/internal/models"
)

// Observable wraps a Store and publishes the favorites list to watchers
// after every favorite write.
type Observable struct {
	Store

	// pubMu orders list reads with their delivery so a slower read never
	// overwrites a newer list.
	pubMu    sync.Mutex
	mu       sync.Mutex
	watchers map[chan []models.Favorite]struct{}
	log      zerolog.Logger
}

// NewObservable returns an Observable in front of inner.
func NewObservable(inner Store) *Observable {
	return &Observable{
		Store:    inner,
		watchers: make(map[chan []models.Favorite]struct{}),
		log:      tvlog.WithComponent("store.watch"),
	}
}

// WatchFavorites returns a channel that receives the current favorites list
// immediately and again after each change. Slow receivers only see the
// latest list. The channel is closed when ctx is done.
func (o *Observable) WatchFavorites(ctx context.Context) <-chan []models.Favorite {
	ch := make(chan []models.Favorite, 1)

	o.mu.Lock()
	o.watchers[ch] = struct{}{}
	o.mu.Unlock()

	o.pubMu.Lock()
	if favs, err := o.Store.ListFavorites(ctx); err == nil {
		o.mu.Lock()
		offer(ch, favs)
		o.mu.Unlock()
	} else {
		o.log.Warn().Err(err).Msg("initial favorites list")
	}
	o.pubMu.Unlock()

	go func() {
		<-ctx.Done()
		o.mu.Lock()
		delete(o.watchers, ch)
		close(ch)
		o.mu.Unlock()
	}()
	return ch
}

func (o *Observable) UpsertFavorite(ctx context.Context, f models.Favorite) error {
	if err := o.Store.UpsertFavorite(ctx, f); err != nil {
		return err
	}
	o.publish(ctx)
	return nil
}

func (o *Observable) DeleteFavorite(ctx context.Context, id string) error {
	if err := o.Store.DeleteFavorite(ctx, id); err != nil {
		return err
	}
	o.publish(ctx)
	return nil
}

func (o *Observable) publish(ctx context.Context) {
	o.pubMu.Lock()
	defer o.pubMu.Unlock()

	favs, err := o.Store.ListFavorites(ctx)
	if err != nil {
		o.log.Warn().Err(err).Msg("favorites list after write")
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for ch := range o.watchers {
		offer(ch, favs)
	}
}

// offer replaces any undelivered list in ch with favs. Caller holds o.mu.
func offer(ch chan []models.Favorite, favs []models.Favorite) {
	select {
	case <-ch:
	default:
	}
	ch <- favs
}
