package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/b3nnytran/ride-sharing/internal/booking"
	"github.com/b3nnytran/ride-sharing/internal/config"
	"github.com/b3nnytran/ride-sharing/internal/dispatch"
	"github.com/b3nnytran/ride-sharing/internal/events"
	httpapi "github.com/b3nnytran/ride-sharing/internal/http"
	"github.com/b3nnytran/ride-sharing/internal/logging"
	"github.com/b3nnytran/ride-sharing/internal/payments"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

func main() {
	cfg, err := config.LoadBookingServiceConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger("booking_service", cfg.LogLevel)

	var store storage.RideStore = storage.NewMemoryRideStore()
	if cfg.PGDSN != "" {
		db, err := storage.Open(cfg.PGDSN)
		if err != nil {
			logger.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if cfg.RunMigrations {
			if err := storage.ApplyMigrations(db, filepath.Join("migrations", "003_create_rides.sql")); err != nil {
				logger.Error("migrations failed", "error", err)
				os.Exit(1)
			}
		}
		store = storage.NewPostgresRideStore(db)
		logger.Info("using postgres store")
	} else {
		logger.Info("PG_DSN not set, using in-memory store")
	}

	svc := &booking.Service{
		Matching: booking.NewHTTPMatchClient(cfg.MatchingServiceURL),
		Rides:    store,
		Log:      logger,
	}
	if cfg.ReserveRiders {
		svc.Claims = booking.NewHTTPRiderClaimer(cfg.RiderServiceURL)
		logger.Info("rider reservation enabled")
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		svc.Events = producer
		logger.Info("kafka producer enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	wsreg := dispatch.NewWSRegistry(logger)
	svc.Dispatch = wsreg
	if client := payments.NewStripeClient(); client != nil {
		svc.Payments = payments.NewCoordinator(client, cfg.StripeCurrency, logger)
		logger.Info("stripe payments enabled", "currency", cfg.StripeCurrency)
	}

	srv := httpapi.NewBookingServer(svc, store, wsreg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpapi.Serve(ctx, cfg.HTTP, srv, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
