package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagen/tvstreams/internal/models"
)

func newSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "tvstreams.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// storeContract exercises the behaviour every Store implementation shares.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	kan := models.Favorite{ID: "11", Name: "Kan 11", LogoURL: "kan_11_il", StreamURL: "https://kan/master.m3u8"}
	now := models.Favorite{ID: "14", Name: "Now 14", StreamURL: "https://now14/playlist.m3u8"}

	ok, err := s.IsFavorite(ctx, "11")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.UpsertFavorite(ctx, kan))
	require.NoError(t, s.UpsertFavorite(ctx, now))

	ok, err = s.IsFavorite(ctx, "11")
	require.NoError(t, err)
	assert.True(t, ok)

	// Insert-or-replace keeps a single row per id.
	renamed := kan
	renamed.Name = "Kan 11 HD"
	require.NoError(t, s.UpsertFavorite(ctx, renamed))

	got, err := s.GetFavorite(ctx, "11")
	require.NoError(t, err)
	assert.Equal(t, renamed, *got)

	list, err := s.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Favorite{renamed, now}, list)

	require.NoError(t, s.DeleteFavorite(ctx, "11"))
	assert.True(t, errors.Is(s.DeleteFavorite(ctx, "11"), ErrNotFound))
	_, err = s.GetFavorite(ctx, "11")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, found, err := s.GetSetting(ctx, models.SettingViewMode)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetSetting(ctx, models.SettingViewMode, models.ViewModeGrid))
	require.NoError(t, s.SetSetting(ctx, models.SettingViewMode, models.ViewModeList))
	v, found, err := s.GetSetting(ctx, models.SettingViewMode)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.ViewModeList, v)
}

func TestSQLite(t *testing.T) {
	storeContract(t, newSQLite(t))
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TVSTREAMS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TVSTREAMS_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, RunMigrations(dsn))
	pg, err := NewPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pg.Close)
	_, err = pg.pool.Exec(ctx, `TRUNCATE favorites, settings`)
	require.NoError(t, err)

	storeContract(t, pg)
}

func TestOpen_sqlitePath(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*SQLite)
	assert.True(t, ok, "want *SQLite, got %T", s)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t)

	got, err := LoadSettings(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, models.Settings{ViewMode: "list", AutoPlay: true}, got)

	require.NoError(t, SaveViewMode(ctx, s, "grid"))
	require.NoError(t, SaveAutoPlay(ctx, s, false))
	assert.Error(t, SaveViewMode(ctx, s, "carousel"))

	got, err = LoadSettings(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, models.Settings{ViewMode: "grid", AutoPlay: false}, got)

	// Garbage values fall back to defaults.
	require.NoError(t, s.SetSetting(ctx, models.SettingViewMode, "tiles"))
	require.NoError(t, s.SetSetting(ctx, models.SettingAutoPlay, "maybe"))
	got, err = LoadSettings(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
}
