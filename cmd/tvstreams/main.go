package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/voyagen/tvstreams/internal/cache"
	"github.com/voyagen/tvstreams/internal/config"
	"github.com/voyagen/tvstreams/internal/fetcher"
	tvlog "github.com/voyagen/tvstreams/internal/log"
	"github.com/voyagen/tvstreams/internal/playlist"
	"github.com/voyagen/tvstreams/internal/server"
	"github.com/voyagen/tvstreams/internal/service"
	"github.com/voyagen/tvstreams/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Optional config file path (YAML); else use env CHANNELS_URL, DATABASE_URL, ...")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	tvlog.Configure(tvlog.Config{Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger := tvlog.WithComponent("main")
		logger.Error().Err(err).Msg("exiting")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := tvlog.WithComponent("main")

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()

	// Connect to Redis if REDIS_URL is configured.
	var rds *cache.Redis
	appStore := db
	if cfg.RedisURL != "" {
		rds, err = cache.New(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rds.Close()

		if err := rds.Ping(ctx); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		cached := store.NewCachedStore(db, rds)
		// Drop entries left by a previous run.
		cached.FlushCache(ctx)
		appStore = cached
		logger.Info().Msg("redis connected (caching, locking and async refresh enabled)")
	} else {
		logger.Info().Msg("redis disabled (REDIS_URL not set)")
	}
	observable := store.NewObservable(appStore)

	var opts []service.Option
	if cfg.PlaylistExportPath != "" {
		opts = append(opts, service.WithLoadHook(playlist.ExportHook(cfg.PlaylistExportPath)))
	}
	resolver := service.NewResolver(fetcher.NewClient(cfg.UserAgent, cfg.Timeout), cfg.ChannelsURL, opts...)

	channels, info := resolver.Load(ctx)
	logger.Info().Int("count", len(channels)).Str("source", info.Source).Msg("initial channel load")

	if rds != nil {
		go resolver.RunRefreshWorker(ctx, rds)
	}
	if cfg.RefreshInterval > 0 {
		logger.Info().Dur("interval", cfg.RefreshInterval).Msg("periodic refresh enabled")
		go resolver.RunPeriodic(ctx, cfg.RefreshInterval)
	}

	srv := server.New(cfg, server.Deps{
		Resolver:  resolver,
		Store:     observable,
		Favorites: service.NewFavorites(observable, rds),
		Queue:     rds,
	})
	return srv.ListenAndServe(ctx)
}
