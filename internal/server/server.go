package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/voyagen/tvstreams/internal/cache"
	"github.com/voyagen/tvstreams/internal/config"
	tvlog "github.com/voyagen/tvstreams/internal/log"
	"github.com/voyagen/tvstreams/internal/service"
	"github.com/voyagen/tvstreams/internal/store"
)

// Deps are the collaborators the HTTP API serves.
type Deps struct {
	Resolver  *service.Resolver
	Store     *store.Observable
	Favorites *service.Favorites
	Queue     *cache.Redis // nil disables async refresh
}

// Server holds dependencies for the HTTP API.
type Server struct {
	Deps
	cfg    *config.Config
	router chi.Router
	log    zerolog.Logger
}

// New creates a Server and registers routes.
func New(cfg *config.Config, deps Deps) *Server {
	srv := &Server{Deps: deps, cfg: cfg, log: tvlog.WithComponent("http")}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, requestLogger(s.log), withCORS)

	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Channels
	r.Get("/api/channels", s.handleListChannels)
	r.With(refreshRateLimit()).Post("/api/channels/refresh", s.handleRefresh)
	r.Get("/api/channels/{id}", s.handleGetChannel)
	r.Post("/api/channels/{id}/favorite", s.handleToggleFavorite)
	r.Get("/api/playlist.m3u", s.handlePlaylist)
	r.Post("/api/playlists/parse", s.handleParsePlaylist)

	// Favorites
	r.Get("/api/favorites", s.handleListFavorites)
	r.Get("/api/favorites/events", s.handleFavoriteEvents)
	r.Get("/api/favorites/{id}", s.handleGetFavorite)
	r.Put("/api/favorites/{id}", s.handlePutFavorite)
	r.Delete("/api/favorites/{id}", s.handleDeleteFavorite)

	// Settings
	r.Get("/api/settings", s.handleGetSettings)
	r.Patch("/api/settings", s.handlePatchSettings)

	// Docs
	r.Get("/api/docs", handleSwaggerUI)
	r.Get("/api/docs/openapi.yaml", handleOpenAPISpec)

	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured port.
// It blocks until the server is shut down or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := ":" + s.cfg.ServerPort
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("server shutdown")
		}
	}()

	s.log.Info().Str("addr", addr).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ListenAndServe: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"resolver": s.Resolver.State().String(),
	})
}
