package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/budget")
	t.Setenv("JWT_SECRET", "secret")
	for _, key := range []string{"HTTP_ADDR", "REDIS_ADDR", "ACTIVITY_LOG_SINK", "KAFKA_BROKERS", "DRIFT_AUDIT_REPAIR", "CATEGORY_CACHE_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, ActivitySinkPostgres, cfg.ActivityLogSink)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.DriftAuditRepair)
	assert.Equal(t, 15*time.Minute, cfg.CategoryCacheTTL)
	assert.Equal(t, float64(20), cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/budget")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACTIVITY_LOG_SINK", "Kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DRIFT_AUDIT_REPAIR", "true")
	t.Setenv("CATEGORY_CACHE_TTL", "not-a-duration")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, ActivitySinkKafka, cfg.ActivityLogSink)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.DriftAuditRepair)
	assert.Equal(t, 15*time.Minute, cfg.CategoryCacheTTL)
	assert.Equal(t, 7, cfg.RateLimitBurst)
}

func TestLoad_RequiredKeys(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load(zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingDBConnection)

	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/budget")
	t.Setenv("JWT_SECRET", "")
	_, err = Load(zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACTIVITY_LOG_SINK", "s3")
	_, err = Load(zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownActivitySink)
}
