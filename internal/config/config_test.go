package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.weather.gov", cfg.NWSBaseURL)
	assert.NotEmpty(t, cfg.NWSUserAgent)
	assert.Equal(t, 10*time.Second, cfg.NWSTimeout)
	assert.Equal(t, "localhost:9000", cfg.S3Endpoint)
	assert.Equal(t, "weather-processed-data", cfg.S3Bucket)
	assert.False(t, cfg.S3UseSSL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 15*time.Minute, cfg.CollectInterval)
	assert.Equal(t, time.Second, cfg.RegionPacing)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "weather-records", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("NWS_BASE_URL", "http://localhost:8181")
	t.Setenv("NWS_USER_AGENT", "(test-suite, test@example.com)")
	t.Setenv("NWS_TIMEOUT", "5s")
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_ACCESS_KEY", "access")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("S3_BUCKET", "custom-bucket")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("COLLECT_INTERVAL", "1h")
	t.Setenv("REGION_PACING", "2s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8181", cfg.NWSBaseURL)
	assert.Equal(t, "(test-suite, test@example.com)", cfg.NWSUserAgent)
	assert.Equal(t, 5*time.Second, cfg.NWSTimeout)
	assert.Equal(t, "minio:9000", cfg.S3Endpoint)
	assert.Equal(t, "access", cfg.S3AccessKey)
	assert.Equal(t, "secret", cfg.S3SecretKey)
	assert.Equal(t, "custom-bucket", cfg.S3Bucket)
	assert.True(t, cfg.S3UseSSL)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.CollectInterval)
	assert.Equal(t, 2*time.Second, cfg.RegionPacing)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
}

func TestLoad_InvalidNWSTimeout(t *testing.T) {
	t.Setenv("NWS_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NWS_TIMEOUT")
}

func TestLoad_NegativeNWSTimeout(t *testing.T) {
	t.Setenv("NWS_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NWS_TIMEOUT")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_CollectIntervalTooShort(t *testing.T) {
	t.Setenv("COLLECT_INTERVAL", "30s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLLECT_INTERVAL")
}

func TestLoad_NegativeRegionPacing(t *testing.T) {
	t.Setenv("REGION_PACING", "-500ms")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REGION_PACING")
}

func TestLoad_ZeroRegionPacingAllowed(t *testing.T) {
	t.Setenv("REGION_PACING", "0s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.RegionPacing)
}

func TestLoad_KafkaEnabledRequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
