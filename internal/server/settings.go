package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/voyagen/tvstreams/internal/models"
	"github.com/voyagen/tvstreams/internal/store"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := store.LoadSettings(r.Context(), s.Store)
	if err != nil {
		writeErr(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type settingsPatch struct {
	ViewMode *string `json:"view_mode"`
	AutoPlay *bool   `json:"auto_play"`
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if req.ViewMode != nil && !models.ValidViewMode(*req.ViewMode) {
		writeErr(w, r, http.StatusBadRequest, fmt.Errorf("invalid view_mode %q (use %s or %s)",
			*req.ViewMode, models.ViewModeList, models.ViewModeGrid))
		return
	}

	ctx := r.Context()
	if req.ViewMode != nil {
		if err := store.SaveViewMode(ctx, s.Store, *req.ViewMode); err != nil {
			writeErr(w, r, http.StatusInternalServerError, err)
			return
		}
	}
	if req.AutoPlay != nil {
		if err := store.SaveAutoPlay(ctx, s.Store, *req.AutoPlay); err != nil {
			writeErr(w, r, http.StatusInternalServerError, err)
			return
		}
	}
	s.handleGetSettings(w, r)
}
