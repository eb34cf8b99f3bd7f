package store

import (
	"context"
	"errors"

	"github.com/voyagen/tvstreams/internal/models"
)

// ErrNotFound is returned when a favorite does not exist.
var ErrNotFound = errors.New("not found")

// Store defines persistence for favorites and settings.
type Store interface {
	// UpsertFavorite inserts f or replaces the favorite with the same id.
	UpsertFavorite(ctx context.Context, f models.Favorite) error
	// DeleteFavorite removes the favorite with id. Returns ErrNotFound if there is none.
	DeleteFavorite(ctx context.Context, id string) error
	// IsFavorite reports whether a favorite with id exists.
	IsFavorite(ctx context.Context, id string) (bool, error)
	// GetFavorite returns a single favorite or ErrNotFound.
	GetFavorite(ctx context.Context, id string) (*models.Favorite, error)
	// ListFavorites returns all favorites ordered by creation time.
	ListFavorites(ctx context.Context) ([]models.Favorite, error)

	// GetSetting returns the stored value for key and whether it was set.
	GetSetting(ctx context.Context, key string) (string, bool, error)
	// SetSetting stores value under key.
	SetSetting(ctx context.Context, key, value string) error

	Close()
}
