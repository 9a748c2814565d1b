package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	ActivitySinkPostgres = "postgres"
	ActivitySinkKafka    = "kafka"
)

type AppConfig struct {
	HTTPAddr           string
	DBConnectionString string
	JWTSecret          string
	LogLevel           string

	RedisAddr    string
	RedisPass    string
	RedisChannel string

	ActivityLogSink    string
	KafkaBrokers       []string
	KafkaActivityTopic string

	DriftAuditSchedule string
	DriftAuditRepair   bool
	CategoryCacheTTL   time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

var (
	ErrMissingDBConnection = errors.New("no DB_CONNECTION_STRING provided")
	ErrMissingJWTSecret    = errors.New("no JWT_SECRET provided")
	ErrUnknownActivitySink = errors.New("ACTIVITY_LOG_SINK must be 'postgres' or 'kafka'")
)

// Load reads the process environment, after merging a .env file when present.
func Load(logger *zap.Logger) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded, continuing with system environment variables", zap.Error(err))
	}

	cfg := &AppConfig{
		HTTPAddr:           getEnv(logger, "HTTP_ADDR", ":8080"),
		DBConnectionString: os.Getenv("DB_CONNECTION_STRING"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		LogLevel:           getEnv(logger, "LOG_LEVEL", "info"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisChannel: getEnv(logger, "REDIS_CHANNEL", "finance_data_changed"),

		ActivityLogSink:    strings.ToLower(getEnv(logger, "ACTIVITY_LOG_SINK", ActivitySinkPostgres)),
		KafkaBrokers:       getEnvSlice(logger, "KAFKA_BROKERS", []string{"kafka:9092"}),
		KafkaActivityTopic: getEnv(logger, "KAFKA_ACTIVITY_TOPIC", "wallet_activity"),

		DriftAuditSchedule: getEnv(logger, "DRIFT_AUDIT_SCHEDULE", "@every 1h"),
		DriftAuditRepair:   getEnvAsBool(logger, "DRIFT_AUDIT_REPAIR", false),
		CategoryCacheTTL:   getEnvAsDuration(logger, "CATEGORY_CACHE_TTL", 15*time.Minute),

		RateLimitRPS:   getEnvAsFloat(logger, "RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvAsInt(logger, "RATE_LIMIT_BURST", 40),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.DBConnectionString == "" {
		return ErrMissingDBConnection
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.ActivityLogSink != ActivitySinkPostgres && c.ActivityLogSink != ActivitySinkKafka {
		return ErrUnknownActivitySink
	}
	return nil
}

func getEnv(logger *zap.Logger, key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	logger.Debug("environment variable not set, using default", zap.String("key", key), zap.String("default", fallback))
	return fallback
}

func getEnvSlice(logger *zap.Logger, key string, fallback []string) []string {
	raw := getEnv(logger, key, "")
	if raw == "" {
		return fallback
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func getEnvAsInt(logger *zap.Logger, key string, fallback int) int {
	valueStr := getEnv(logger, key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	logger.Warn("invalid integer value, using default", zap.String("key", key), zap.String("value", valueStr), zap.Int("default", fallback))
	return fallback
}

func getEnvAsFloat(logger *zap.Logger, key string, fallback float64) float64 {
	valueStr := getEnv(logger, key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value > 0 {
		return value
	}
	logger.Warn("invalid number value, using default", zap.String("key", key), zap.String("value", valueStr), zap.Float64("default", fallback))
	return fallback
}

func getEnvAsBool(logger *zap.Logger, key string, fallback bool) bool {
	valueStr := getEnv(logger, key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	logger.Warn("invalid boolean value, using default", zap.String("key", key), zap.String("value", valueStr), zap.Bool("default", fallback))
	return fallback
}

func getEnvAsDuration(logger *zap.Logger, key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(logger, key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	logger.Warn("invalid duration value, using default", zap.String("key", key), zap.String("value", valueStr), zap.Stringer("default", fallback))
	return fallback
}
