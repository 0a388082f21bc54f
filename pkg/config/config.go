package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sosodev/duration"
	"golang.org/x/exp/slog"
)

// Provider kinds
const (
	ProviderLocal = "local"
	ProviderREST  = "rest"
)

// Document store kinds
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreSQLite   = "sqlite"
)

// ProviderConfig selects and configures the auth provider
type ProviderConfig struct {
	Kind           string `env:"AUTH_PROVIDER" env-default:"local"`
	RESTBaseURL    string `env:"AUTH_REST_BASE_URL" env-default:"https://identitytoolkit.googleapis.com"`
	RESTAPIKey     string `env:"AUTH_REST_API_KEY"`
	RequestTimeout string `env:"AUTH_REQUEST_TIMEOUT" env-default:"PT30S"`
	TokenSecret    string `env:"AUTH_TOKEN_SECRET"`
	TokenTTL       string `env:"AUTH_TOKEN_TTL" env-default:"PT1H"`
	TokenIssuer    string `env:"AUTH_TOKEN_ISSUER" env-default:"bibermobil-local"`
}

// ParseTokenTTL parses the local provider's ID token lifetime
func (p ProviderConfig) ParseTokenTTL() (time.Duration, error) {
	return ParseDuration(p.TokenTTL)
}

// ParseRequestTimeout parses the REST provider's HTTP timeout
func (p ProviderConfig) ParseRequestTimeout() (time.Duration, error) {
	return ParseDuration(p.RequestTimeout)
}

// StoreConfig selects the document store backend
type StoreConfig struct {
	Kind       string `env:"DOCSTORE" env-default:"memory"`
	DataDir    string `env:"DOCSTORE_DATA_DIR" env-default:"./data"`
	SQLitePath string `env:"DOCSTORE_SQLITE_PATH" env-default:"./data/documents.db"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `env:"PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"PG_PORT" env-default:"5432"`
	Database string `env:"PG_DATABASE" env-default:"bibermobil"`
	User     string `env:"PG_USER" env-default:"bibermobil"`
	Password string `env:"PG_PASSWORD" env-default:"pwd"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" env-default:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" env-default:"bibermobil:"`
}

// RateLimitConfig holds request and sign-in throttling settings
type RateLimitConfig struct {
	Enabled         bool    `env:"RATELIMIT_ENABLED" env-default:"true"`
	Burst           int     `env:"RATELIMIT_BURST" env-default:"20"`
	PerSecond       float64 `env:"RATELIMIT_PER_SECOND" env-default:"5"`
	BucketTTL       string  `env:"RATELIMIT_BUCKET_TTL" env-default:"PT10M"`
	SignInBurst     int     `env:"RATELIMIT_SIGNIN_BURST" env-default:"5"`
	SignInPerSecond float64 `env:"RATELIMIT_SIGNIN_PER_SECOND" env-default:"0.1"`
}

// ParseBucketTTL parses how long idle limiter buckets are kept
func (r RateLimitConfig) ParseBucketTTL() (time.Duration, error) {
	return ParseDuration(r.BucketTTL)
}

// Config is the complete auth server configuration
type Config struct {
	Provider  ProviderConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// Load reads the configuration from the environment and validates it
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a .env file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Info("No .env file found", "path", path)
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	slog.Info("Configuration loaded from .env file", "path", path)
	return nil
}

// ParseDuration parses an ISO 8601 duration, falling back to Go syntax
func ParseDuration(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}
	return time.ParseDuration(s)
}
