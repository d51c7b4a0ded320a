package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/b3nnytran/ride-sharing/internal/config"
	"github.com/b3nnytran/ride-sharing/internal/distance"
	httpapi "github.com/b3nnytran/ride-sharing/internal/http"
	"github.com/b3nnytran/ride-sharing/internal/logging"
	"github.com/b3nnytran/ride-sharing/internal/matcher"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

func main() {
	cfg, err := config.LoadRiderServiceConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger("rider_service", cfg.LogLevel)

	var store storage.RiderStore = storage.NewMemoryRiderStore()
	if cfg.PGDSN != "" {
		db, err := storage.Open(cfg.PGDSN)
		if err != nil {
			logger.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if cfg.RunMigrations {
			if err := storage.ApplyMigrations(db, filepath.Join("migrations", "002_create_riders.sql")); err != nil {
				logger.Error("migrations failed", "error", err)
				os.Exit(1)
			}
		}
		store = storage.NewPostgresRiderStore(db)
		logger.Info("using postgres store")
	} else {
		logger.Info("PG_DSN not set, using in-memory store")
	}

	// Nearest-rider here answers from persisted distances only. A
	// Redis layer in front keeps hot pairs off the database.
	var provider distance.Provider = &distance.StoreProvider{Store: store}
	var cache httpapi.DistanceInvalidator
	if cfg.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rc.Close()
		cached := distance.NewCachedProvider(provider, rc, cfg.DistanceCacheTTL)
		provider = cached
		cache = cached
		logger.Info("distance cache enabled", "addr", cfg.RedisAddr)
	}

	m := matcher.New(store, provider, nil)
	srv := httpapi.NewRiderServer(store, m, cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpapi.Serve(ctx, cfg.HTTP, srv, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
