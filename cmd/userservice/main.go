package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/b3nnytran/ride-sharing/internal/auth"
	"github.com/b3nnytran/ride-sharing/internal/config"
	httpapi "github.com/b3nnytran/ride-sharing/internal/http"
	"github.com/b3nnytran/ride-sharing/internal/logging"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

func main() {
	cfg, err := config.LoadUserServiceConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger("user_service", cfg.LogLevel)

	var store storage.UserStore = storage.NewMemoryUserStore()
	if cfg.PGDSN != "" {
		db, err := storage.Open(cfg.PGDSN)
		if err != nil {
			logger.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if cfg.RunMigrations {
			if err := storage.ApplyMigrations(db, filepath.Join("migrations", "001_create_users.sql")); err != nil {
				logger.Error("migrations failed", "error", err)
				os.Exit(1)
			}
		}
		store = storage.NewPostgresUserStore(db)
		logger.Info("using postgres store")
	} else {
		logger.Info("PG_DSN not set, using in-memory store")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	srv := httpapi.NewUserServer(store, tokens, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpapi.Serve(ctx, cfg.HTTP, srv, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
