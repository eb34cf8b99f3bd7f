package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagen/tvstreams/internal/fetcher"
	"github.com/voyagen/tvstreams/internal/models"
)

var sample = []models.Channel{
	{ID: "11", Name: "Kan 11", URL: "https://kan/master.m3u8", LogoURL: "https://logo/kan.png"},
	{
		ID: "b", Name: "Sport", URL: "http://sport/live.m3u8",
		Referer: models.OptionalString("https://ref.example"),
		Origin:  models.OptionalString("https://origin.example"),
	},
}

func TestWriteM3U(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteM3U(&sb, sample))

	want := `#EXTM3U
#EXTINF:-1 tvg-id="11" tvg-logo="https://logo/kan.png",Kan 11
https://kan/master.m3u8
#EXTINF:-1 tvg-id="b" tvg-logo="",Sport
#EXTVLCOPT:http-referrer=https://ref.example
#EXTVLCOPT:http-origin=https://origin.example
http://sport/live.m3u8
`
	assert.Equal(t, want, sb.String())
}

func TestWriteM3U_empty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteM3U(&sb, nil))
	assert.Equal(t, "#EXTM3U\n", sb.String())
}

func TestWriteM3U_sanitizes(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteM3U(&sb, []models.Channel{
		{ID: `x"y`, Name: "Two\nLines", URL: "https://u"},
	}))
	assert.Contains(t, sb.String(), `tvg-id="x'y"`)
	assert.Contains(t, sb.String(), ",Two Lines\n")
}

func TestWriteM3U_parsesBack(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteM3U(&sb, sample))

	got := fetcher.ParseM3U(sb.String())
	require.Len(t, got, len(sample))
	for i := range sample {
		assert.Equal(t, sample[i].Name, got[i].Name)
		assert.Equal(t, sample[i].URL, got[i].URL)
		assert.Equal(t, sample[i].LogoURL, got[i].LogoURL)
	}
}

func TestWriteM3U_commaInName(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteM3U(&sb, []models.Channel{
		{ID: "11", Name: "Kan 11, Israel", URL: "https://kan/master.m3u8", LogoURL: "kan_11_il"},
	}))

	got := fetcher.ParseM3U(sb.String())
	require.Len(t, got, 1)
	assert.Equal(t, "Kan 11\u201a Israel", got[0].Name)
	assert.Equal(t, "https://kan/master.m3u8", got[0].URL)
	assert.Equal(t, "kan_11_il", got[0].LogoURL)
}

func TestWriteM3U_skipsNonHTTP(t *testing.T) {
	channels := []models.Channel{
		{ID: "1", Name: "One", URL: "https://one/live.m3u8"},
		{ID: "2", Name: "Two", URL: "rtmp://r/2"},
		{ID: "3", Name: "Three", URL: "HTTP://three/live.m3u8"},
	}
	var sb strings.Builder
	require.NoError(t, WriteM3U(&sb, channels))
	assert.NotContains(t, sb.String(), "rtmp://")
	assert.NotContains(t, sb.String(), "HTTP://")

	got := fetcher.ParseM3U(sb.String())
	require.Len(t, got, 1)
	assert.Equal(t, "One", got[0].Name)
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.m3u")
	require.NoError(t, Export(path, sample[:1]))
	require.NoError(t, Export(path, sample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, fetcher.ParseM3U(string(data)), 2)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestExport_missingDir(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "missing", "channels.m3u"), sample)
	assert.Error(t, err)
}

func TestExportHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.m3u")
	ExportHook(path)(t.Context(), sample, models.SnapshotInfo{Source: models.SourceRemote, Count: 2})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#EXTM3U\n"))
}
