package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voyagen/tvstreams/internal/cache"
	"github.com/voyagen/tvstreams/internal/fetcher"
	"github.com/voyagen/tvstreams/internal/metrics"
	"github.com/voyagen/tvstreams/internal/models"
	"github.com/voyagen/tvstreams/internal/playlist"
	"github.com/voyagen/tvstreams/internal/service"
)

const maxPlaylistBytes = 16 << 20

type channelsResponse struct {
	Channels []models.Channel   `json:"channels"`
	Snapshot models.SnapshotInfo `json:"snapshot"`
}

// snapshot returns the resolver's current list, loading it first if no
// load has completed yet.
func (s *Server) snapshot(r *http.Request) ([]models.Channel, models.SnapshotInfo) {
	if channels, info, ok := s.Resolver.Snapshot(); ok {
		return channels, info
	}
	return s.Resolver.Load(r.Context())
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels, info := s.snapshot(r)
	writeJSON(w, http.StatusOK, channelsResponse{
		Channels: service.Search(channels, r.URL.Query().Get("q")),
		Snapshot: info,
	})
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ch, ok := s.Resolver.GetByID(id)
	if !ok {
		writeErr(w, r, http.StatusNotFound, fmt.Errorf("channel %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("async") == "true" {
		if s.Queue == nil {
			writeErr(w, r, http.StatusServiceUnavailable, errors.New("async refresh needs REDIS_URL"))
			return
		}
		job := cache.RefreshJob{ID: uuid.NewString(), RequestedAt: time.Now().UTC(), Reason: "api"}
		if err := cache.Enqueue(r.Context(), s.Queue, cache.RefreshQueue, job); err != nil {
			writeErr(w, r, http.StatusInternalServerError, fmt.Errorf("enqueue refresh: %w", err))
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"job_id": job.ID, "queued": true})
		return
	}

	channels, info := s.Resolver.Load(r.Context())
	writeJSON(w, http.StatusOK, channelsResponse{Channels: channels, Snapshot: info})
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	channels, _ := s.snapshot(r)
	var buf bytes.Buffer
	if err := playlist.WriteM3U(&buf, channels); err != nil {
		writeErr(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Header().Set("Content-Disposition", `inline; filename="channels.m3u"`)
	_, _ = buf.WriteTo(w)
}

// handleParsePlaylist parses a user-supplied M3U body. The result is
// returned to the caller only; it never replaces the resolver snapshot.
func (s *Server) handleParsePlaylist(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPlaylistBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("playlist exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeErr(w, r, http.StatusBadRequest, fmt.Errorf("read playlist: %w", err))
		return
	}

	channels := fetcher.ParseM3U(string(body))
	metrics.IncPlaylistImport()
	writeJSON(w, http.StatusOK, map[string]any{
		"channels": channels,
		"count":    len(channels),
	})
}
