package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/voyagen/tvstreams/internal/cache"
	tvlog "github.com/voyagen/tvstreams/internal/log"
	"github.com/voyagen/tvstreams/internal/models"
)

const (
	ttlFavorites = 1 * time.Minute
	ttlFavorite  = 5 * time.Minute
	ttlSetting   = 10 * time.Minute

	keyFavorites = "favorites:all"
)

// CachedStore wraps a Store with a Redis read cache. Reads are served from
// Redis when possible; writes invalidate the affected keys.
type CachedStore struct {
	inner Store
	cache *cache.Redis
	log   zerolog.Logger
}

// NewCachedStore returns a CachedStore in front of inner.
func NewCachedStore(inner Store, c *cache.Redis) *CachedStore {
	return &CachedStore{inner: inner, cache: c, log: tvlog.WithComponent("store.cache")}
}

// --- cached reads ---

func (c *CachedStore) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	if v, err := cache.Get[[]models.Favorite](ctx, c.cache, keyFavorites); err == nil {
		return v, nil
	}
	favs, err := c.inner.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, keyFavorites, favs, ttlFavorites)
	return favs, nil
}

func (c *CachedStore) GetFavorite(ctx context.Context, id string) (*models.Favorite, error) {
	key := favoriteKey(id)
	if v, err := cache.Get[models.Favorite](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	f, err := c.inner.GetFavorite(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, f, ttlFavorite)
	return f, nil
}

func (c *CachedStore) IsFavorite(ctx context.Context, id string) (bool, error) {
	_, err := c.GetFavorite(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// settingEntry caches both the value and whether it was set.
type settingEntry struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

func (c *CachedStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	ck := settingKey(key)
	if v, err := cache.Get[settingEntry](ctx, c.cache, ck); err == nil {
		return v.Value, v.Found, nil
	}
	value, found, err := c.inner.GetSetting(ctx, key)
	if err != nil {
		return "", false, err
	}
	c.set(ctx, ck, settingEntry{Value: value, Found: found}, ttlSetting)
	return value, found, nil
}

// --- writes with invalidation ---

func (c *CachedStore) UpsertFavorite(ctx context.Context, f models.Favorite) error {
	if err := c.inner.UpsertFavorite(ctx, f); err != nil {
		return err
	}
	c.invalidate(ctx, favoriteKey(f.ID), keyFavorites)
	return nil
}

func (c *CachedStore) DeleteFavorite(ctx context.Context, id string) error {
	if err := c.inner.DeleteFavorite(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, favoriteKey(id), keyFavorites)
	return nil
}

func (c *CachedStore) SetSetting(ctx context.Context, key, value string) error {
	if err := c.inner.SetSetting(ctx, key, value); err != nil {
		return err
	}
	c.invalidate(ctx, settingKey(key))
	return nil
}

func (c *CachedStore) Close() {
	c.inner.Close()
}

// --- helpers ---

func (c *CachedStore) set(ctx context.Context, key string, v any, ttl time.Duration) {
	if err := cache.Set(ctx, c.cache, key, v, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set")
	}
}

func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if err := cache.Del(ctx, c.cache, keys...); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("cache del")
	}
}

// FlushCache drops every cached favorite and setting.
func (c *CachedStore) FlushCache(ctx context.Context) {
	for _, p := range []string{"favorite:*", "favorites:*", "setting:*"} {
		if err := cache.DelPattern(ctx, c.cache, p); err != nil {
			c.log.Warn().Err(err).Str("pattern", p).Msg("cache del pattern")
		}
	}
}

func favoriteKey(id string) string { return fmt.Sprintf("favorite:%s", id) }

func settingKey(key string) string { return fmt.Sprintf("setting:%s", key) }
