// Package config loads per-binary configuration from the environment.
// Values default so every service can run locally with nothing set.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// HTTPConfig captures the listener tunables shared by all services.
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func defaultHTTPConfig(addr string) HTTPConfig {
	return HTTPConfig{
		Addr:            addr,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

func loadHTTPConfig(cfg *HTTPConfig, errs *[]error) {
	setStringFromEnv(&cfg.Addr, "HTTP_ADDR")
	setDurationFromEnv(&cfg.ReadTimeout, "HTTP_READ_TIMEOUT", errs)
	setDurationFromEnv(&cfg.WriteTimeout, "HTTP_WRITE_TIMEOUT", errs)
	setDurationFromEnv(&cfg.IdleTimeout, "HTTP_IDLE_TIMEOUT", errs)
	setDurationFromEnv(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", errs)
}

type GatewayConfig struct {
	HTTP HTTPConfig

	UserServiceURL     string
	RiderServiceURL    string
	BookingServiceURL  string
	MatchingServiceURL string

	ProxyTimeout time.Duration
	LogLevel     string
}

func LoadGatewayConfig() (GatewayConfig, error) {
	cfg := GatewayConfig{
		HTTP:               defaultHTTPConfig(":8000"),
		UserServiceURL:     "http://localhost:8001",
		RiderServiceURL:    "http://localhost:8002",
		BookingServiceURL:  "http://localhost:8003",
		MatchingServiceURL: "http://localhost:8004",
		ProxyTimeout:       30 * time.Second,
		LogLevel:           "info",
	}
	var errs []error
	loadHTTPConfig(&cfg.HTTP, &errs)
	setStringFromEnv(&cfg.UserServiceURL, "USER_SERVICE_URL")
	setStringFromEnv(&cfg.RiderServiceURL, "RIDER_SERVICE_URL")
	setStringFromEnv(&cfg.BookingServiceURL, "BOOKING_SERVICE_URL")
	setStringFromEnv(&cfg.MatchingServiceURL, "MATCHING_SERVICE_URL")
	setDurationFromEnv(&cfg.ProxyTimeout, "PROXY_TIMEOUT", &errs)
	setLogLevel(&cfg.LogLevel)
	return cfg, errors.Join(errs...)
}

type UserServiceConfig struct {
	HTTP HTTPConfig

	PGDSN         string
	JWTSecret     string
	TokenTTL      time.Duration
	LogLevel      string
	RunMigrations bool
}

func LoadUserServiceConfig() (UserServiceConfig, error) {
	cfg := UserServiceConfig{
		HTTP:      defaultHTTPConfig(":8001"),
		JWTSecret: "dev-secret-change-me",
		TokenTTL:  30 * time.Minute,
		LogLevel:  "info",
	}
	var errs []error
	loadHTTPConfig(&cfg.HTTP, &errs)
	cfg.PGDSN = os.Getenv("PG_DSN")
	setStringFromEnv(&cfg.JWTSecret, "JWT_SECRET")
	setDurationFromEnv(&cfg.TokenTTL, "TOKEN_TTL", &errs)
	setLogLevel(&cfg.LogLevel)
	cfg.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")
	return cfg, errors.Join(errs...)
}

type RiderServiceConfig struct {
	HTTP HTTPConfig

	PGDSN            string
	RedisAddr        string
	RedisPassword    string
	DistanceCacheTTL time.Duration
	LogLevel         string
	RunMigrations    bool
}

func LoadRiderServiceConfig() (RiderServiceConfig, error) {
	cfg := RiderServiceConfig{
		HTTP:             defaultHTTPConfig(":8002"),
		DistanceCacheTTL: 5 * time.Minute,
		LogLevel:         "info",
	}
	var errs []error
	loadHTTPConfig(&cfg.HTTP, &errs)
	cfg.PGDSN = os.Getenv("PG_DSN")
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setDurationFromEnv(&cfg.DistanceCacheTTL, "DISTANCE_CACHE_TTL", &errs)
	setLogLevel(&cfg.LogLevel)
	cfg.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")
	return cfg, errors.Join(errs...)
}

type BookingServiceConfig struct {
	HTTP HTTPConfig

	PGDSN              string
	MatchingServiceURL string
	RiderServiceURL    string
	ReserveRiders      bool

	KafkaBrokers []string
	KafkaTopic   string

	StripeCurrency string

	LogLevel      string
	RunMigrations bool
}

func LoadBookingServiceConfig() (BookingServiceConfig, error) {
	cfg := BookingServiceConfig{
		HTTP:               defaultHTTPConfig(":8003"),
		MatchingServiceURL: "http://localhost:8004",
		RiderServiceURL:    "http://localhost:8002",
		KafkaTopic:         "ride-events",
		StripeCurrency:     "vnd",
		LogLevel:           "info",
	}
	var errs []error
	loadHTTPConfig(&cfg.HTTP, &errs)
	cfg.PGDSN = os.Getenv("PG_DSN")
	setStringFromEnv(&cfg.MatchingServiceURL, "MATCHING_SERVICE_URL")
	setStringFromEnv(&cfg.RiderServiceURL, "RIDER_SERVICE_URL")
	cfg.ReserveRiders = strings.EqualFold(os.Getenv("RESERVE_RIDERS"), "true")
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaTopic, "KAFKA_TOPIC")
	setStringFromEnv(&cfg.StripeCurrency, "STRIPE_CURRENCY")
	setLogLevel(&cfg.LogLevel)
	cfg.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")
	return cfg, errors.Join(errs...)
}

type MatchingServiceConfig struct {
	HTTP HTTPConfig

	RiderServiceURL string
	LogLevel        string
}

func LoadMatchingServiceConfig() (MatchingServiceConfig, error) {
	cfg := MatchingServiceConfig{
		HTTP:            defaultHTTPConfig(":8004"),
		RiderServiceURL: "http://localhost:8002",
		LogLevel:        "info",
	}
	var errs []error
	loadHTTPConfig(&cfg.HTTP, &errs)
	setStringFromEnv(&cfg.RiderServiceURL, "RIDER_SERVICE_URL")
	setLogLevel(&cfg.LogLevel)
	return cfg, errors.Join(errs...)
}

type ConsumerConfig struct {
	MetricsAddr string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	RedisAddr     string
	RedisPassword string
	LogLevel      string
}

func LoadConsumerConfig() (ConsumerConfig, error) {
	cfg := ConsumerConfig{
		MetricsAddr:  ":2112",
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "ride-events",
		KafkaGroup:   "ride-sharing-consumer",
		RedisAddr:    "localhost:6379",
		LogLevel:     "info",
	}
	setStringFromEnv(&cfg.MetricsAddr, "METRICS_ADDR")
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaTopic, "KAFKA_TOPIC")
	setStringFromEnv(&cfg.KafkaGroup, "KAFKA_GROUP")
	setStringFromEnv(&cfg.RedisAddr, "REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setLogLevel(&cfg.LogLevel)
	return cfg, nil
}

func setLogLevel(target *string) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		*target = strings.ToLower(v)
	}
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
