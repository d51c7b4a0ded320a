package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/b3nnytran/ride-sharing/internal/config"
	httpapi "github.com/b3nnytran/ride-sharing/internal/http"
	"github.com/b3nnytran/ride-sharing/internal/logging"
)

func main() {
	cfg, err := config.LoadGatewayConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger("gateway", cfg.LogLevel)

	gw := httpapi.NewGateway(httpapi.GatewayTargets{
		UserService:     cfg.UserServiceURL,
		RiderService:    cfg.RiderServiceURL,
		BookingService:  cfg.BookingServiceURL,
		MatchingService: cfg.MatchingServiceURL,
	}, cfg.ProxyTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpapi.Serve(ctx, cfg.HTTP, gw, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
