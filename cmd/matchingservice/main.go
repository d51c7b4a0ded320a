package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/b3nnytran/ride-sharing/internal/config"
	"github.com/b3nnytran/ride-sharing/internal/distance"
	httpapi "github.com/b3nnytran/ride-sharing/internal/http"
	"github.com/b3nnytran/ride-sharing/internal/logging"
	"github.com/b3nnytran/ride-sharing/internal/matcher"
)

func main() {
	cfg, err := config.LoadMatchingServiceConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger("ride_matching_service", cfg.LogLevel)

	riders := matcher.NewRiderServiceClient(cfg.RiderServiceURL)
	matrix := distance.NewMatrix(distance.DefaultEntries(), nil)
	m := matcher.New(riders, matrix, nil)
	srv := httpapi.NewMatchingServer(m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpapi.Serve(ctx, cfg.HTTP, srv, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
