package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/voyagen/tvstreams/internal/cache"
	tvlog "github.com/voyagen/tvstreams/internal/log"
	"github.com/voyagen/tvstreams/internal/models"
	"github.com/voyagen/tvstreams/internal/store"
)

const toggleLockTTL = 5 * time.Second

// ErrBusy is returned when another toggle for the same channel is in progress.
var ErrBusy = errors.New("favorite is being updated")

// Favorites implements favorite toggling on top of a Store.
type Favorites struct {
	store store.Store
	locks *cache.Redis // nil disables cross-instance locking
	log   zerolog.Logger
}

// NewFavorites returns a Favorites service. locks may be nil.
func NewFavorites(s store.Store, locks *cache.Redis) *Favorites {
	return &Favorites{store: s, locks: locks, log: tvlog.WithComponent("favorites")}
}

// Toggle removes ch from favorites if present and adds it otherwise.
// It returns whether ch is a favorite afterwards.
func (f *Favorites) Toggle(ctx context.Context, ch models.Channel) (bool, error) {
	if f.locks != nil {
		unlock, err := cache.TryLock(ctx, f.locks, "favorite:"+ch.ID, toggleLockTTL)
		if errors.Is(err, cache.ErrLocked) {
			return false, ErrBusy
		}
		if err != nil {
			return false, err
		}
		defer unlock()
	}

	exists, err := f.store.IsFavorite(ctx, ch.ID)
	if err != nil {
		return false, fmt.Errorf("IsFavorite: %w", err)
	}
	if exists {
		if err := f.store.DeleteFavorite(ctx, ch.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return true, fmt.Errorf("DeleteFavorite: %w", err)
		}
		f.log.Debug().Str("id", ch.ID).Msg("favorite removed")
		return false, nil
	}
	if err := f.store.UpsertFavorite(ctx, models.FavoriteFromChannel(ch)); err != nil {
		return false, fmt.Errorf("UpsertFavorite: %w", err)
	}
	f.log.Debug().Str("id", ch.ID).Msg("favorite added")
	return true, nil
}

// Add stores ch as a favorite, replacing any previous record.
func (f *Favorites) Add(ctx context.Context, ch models.Channel) error {
	return f.store.UpsertFavorite(ctx, models.FavoriteFromChannel(ch))
}
