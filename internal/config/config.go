package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	NWSBaseURL   string
	NWSUserAgent string
	NWSTimeout   time.Duration

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	CollectInterval time.Duration
	RegionPacing    time.Duration

	// Optional record feed configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	nwsTimeout, err := parseDuration("NWS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	collectInterval, err := parseDuration("COLLECT_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	regionPacing, err := parseDuration("REGION_PACING", "1s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		NWSBaseURL:   envOrDefault("NWS_BASE_URL", "https://api.weather.gov"),
		NWSUserAgent: envOrDefault("NWS_USER_AGENT", "(weather-collector, ops@couchcryptid.dev)"),
		NWSTimeout:   nwsTimeout,

		S3Endpoint:  envOrDefault("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey: envOrDefault("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey: envOrDefault("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:    envOrDefault("S3_BUCKET", "weather-processed-data"),
		S3UseSSL:    os.Getenv("S3_USE_SSL") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CollectInterval: collectInterval,
		RegionPacing:    regionPacing,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "weather-records"),
	}

	if cfg.NWSBaseURL == "" {
		return nil, errors.New("NWS_BASE_URL is required")
	}
	if cfg.NWSUserAgent == "" {
		return nil, errors.New("NWS_USER_AGENT is required: the NWS API rejects anonymous clients")
	}
	if cfg.S3Endpoint == "" {
		return nil, errors.New("S3_ENDPOINT is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET is required")
	}
	if cfg.NWSTimeout <= 0 {
		return nil, errors.New("NWS_TIMEOUT must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.CollectInterval < time.Minute {
		return nil, errors.New("COLLECT_INTERVAL must be at least 1m")
	}
	if cfg.RegionPacing < 0 {
		return nil, errors.New("REGION_PACING must not be negative")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
		}
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
