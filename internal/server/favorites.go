package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voyagen/tvstreams/internal/models"
	"github.com/voyagen/tvstreams/internal/service"
	"github.com/voyagen/tvstreams/internal/store"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.Store.ListFavorites(r.Context())
	if err != nil {
		writeErr(w, r, http.StatusInternalServerError, err)
		return
	}
	if favs == nil {
		favs = []models.Favorite{}
	}
	writeJSON(w, http.StatusOK, favs)
}

func (s *Server) handleGetFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fav, err := s.Store.GetFavorite(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, r, http.StatusNotFound, fmt.Errorf("favorite %s not found", id))
			return
		}
		writeErr(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

func (s *Server) handlePutFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ch, ok := s.Resolver.GetByID(id)
	if !ok {
		writeErr(w, r, http.StatusNotFound, fmt.Errorf("channel %s not found", id))
		return
	}
	if err := s.Favorites.Add(r.Context(), ch); err != nil {
		writeErr(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, models.FavoriteFromChannel(ch))
}

func (s *Server) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Store.DeleteFavorite(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, r, http.StatusNotFound, fmt.Errorf("favorite %s not found", id))
			return
		}
		writeErr(w, r, http.StatusInternalServerError, err)
		return
	}
	writeNoContent(w)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ch, ok := s.Resolver.GetByID(id)
	if !ok {
		writeErr(w, r, http.StatusNotFound, fmt.Errorf("channel %s not found", id))
		return
	}
	on, err := s.Favorites.Toggle(r.Context(), ch)
	if err != nil {
		if errors.Is(err, service.ErrBusy) {
			writeErr(w, r, http.StatusConflict, err)
			return
		}
		writeErr(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"favorite": on,
	})
}

// handleFavoriteEvents streams the favorites list as server-sent events:
// once on connect and again after every change.
func (s *Server) handleFavoriteEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Streams outlive the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for favs := range s.Store.WatchFavorites(r.Context()) {
		if favs == nil {
			favs = []models.Favorite{}
		}
		data, err := json.Marshal(favs)
		if err != nil {
			s.log.Warn().Err(err).Msg("encode favorites event")
			continue
		}
		if _, err := fmt.Fprintf(w, "event: favorites\ndata: %s\n\n", data); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
