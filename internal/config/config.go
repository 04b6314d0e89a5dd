// Package config provides application configuration through environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
)

// MinSigningSecretLength is the minimum AUTH_SIGNING_SECRET length in bytes.
const MinSigningSecretLength = 32

var supportedDrivers = map[string]bool{
	"postgres": true,
	"mysql":    true,
	"sqlite3":  true,
}

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver is the database driver to use ("postgres", "mysql" or "sqlite3").
	DBDriver string
	// DBConnectionString is the connection string for the database. Required.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// AuthSigningSecret signs and verifies bearer tokens. Required, never logged.
	AuthSigningSecret string
	// AuthTokenExpiration is the lifetime of tokens issued by the issue-token command.
	AuthTokenExpiration time.Duration

	// DefaultEncryptionType is the algorithm used when a request does not name one.
	DefaultEncryptionType string
	// DecryptWorkers bounds parallel decryption when listing a chat. 0 means runtime.NumCPU().
	DecryptWorkers int

	// RateLimitEnabled indicates whether per-sender rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per sender.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size per sender.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// RedisURL points at the Redis server that receives message events.
	// Empty means events are only logged.
	RedisURL string
	// RedisChannelPrefix prefixes the per-chat channels ("<prefix>:chat:<chatId>").
	RedisChannelPrefix string

	// WorkerInterval is the outbox polling interval.
	WorkerInterval time.Duration
	// WorkerBatchSize is the number of outbox events handled per round.
	WorkerBatchSize int
	// WorkerMaxRetries is the number of failed deliveries before an event is marked failed.
	WorkerMaxRetries int
	// WorkerRetryInterval is the minimum wait before a failed event is retried.
	WorkerRetryInterval time.Duration
}

// Load loads configuration from environment variables and .env file.
// Call Validate before using the result.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", "postgres"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", ""),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Auth
		AuthSigningSecret:   env.GetString("AUTH_SIGNING_SECRET", ""),
		AuthTokenExpiration: env.GetDuration("AUTH_TOKEN_EXPIRATION_SECONDS", 14400, time.Second),

		// Messages
		DefaultEncryptionType: env.GetString("DEFAULT_ENCRYPTION_TYPE", string(cryptoDomain.RC5)),
		DecryptWorkers:        env.GetInt("DECRYPT_WORKERS", 0),

		// Rate Limiting
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "cipherchat"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Event fan-out
		RedisURL:           env.GetString("REDIS_URL", ""),
		RedisChannelPrefix: env.GetString("REDIS_CHANNEL_PREFIX", "cipherchat"),

		// Outbox worker
		WorkerInterval:      env.GetDuration("WORKER_INTERVAL_SECONDS", 5, time.Second),
		WorkerBatchSize:     env.GetInt("WORKER_BATCH_SIZE", 10),
		WorkerMaxRetries:    env.GetInt("WORKER_MAX_RETRIES", 3),
		WorkerRetryInterval: env.GetDuration("WORKER_RETRY_INTERVAL_SECONDS", 60, time.Second),
	}
}

// Validate reports every configuration problem at once. Secret values are
// never included in the messages.
func (c *Config) Validate() error {
	var errs []error

	if !supportedDrivers[c.DBDriver] {
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported (postgres, mysql, sqlite3)", c.DBDriver))
	}

	if c.DBConnectionString == "" {
		errs = append(errs, errors.New("DB_CONNECTION_STRING is required"))
	}

	if c.AuthSigningSecret == "" {
		errs = append(errs, errors.New("AUTH_SIGNING_SECRET is required"))
	} else if len(c.AuthSigningSecret) < MinSigningSecretLength {
		errs = append(errs, fmt.Errorf("AUTH_SIGNING_SECRET must be at least %d bytes", MinSigningSecretLength))
	}

	if c.AuthTokenExpiration <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_EXPIRATION_SECONDS must be positive"))
	}

	if _, err := cryptoDomain.ParseAlgorithm(c.DefaultEncryptionType); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_ENCRYPTION_TYPE %q is not supported (rc5, rc6)", c.DefaultEncryptionType))
	}

	if c.DecryptWorkers < 0 {
		errs = append(errs, errors.New("DECRYPT_WORKERS must not be negative"))
	}

	if c.RateLimitEnabled && (c.RateLimitRequestsPerSec <= 0 || c.RateLimitBurst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS_PER_SEC and RATE_LIMIT_BURST must be positive"))
	}

	if c.WorkerInterval <= 0 || c.WorkerBatchSize <= 0 {
		errs = append(errs, errors.New("WORKER_INTERVAL_SECONDS and WORKER_BATCH_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// DefaultAlgorithm returns the parsed default algorithm tag. Call after Validate.
func (c *Config) DefaultAlgorithm() cryptoDomain.Algorithm {
	alg, err := cryptoDomain.ParseAlgorithm(c.DefaultEncryptionType)
	if err != nil {
		return cryptoDomain.RC5
	}
	return alg
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
