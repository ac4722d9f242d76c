package config

import (
	"fmt"
	"slices"
	"time"

	pkgconfig "github.com/srabonmojumder/velora-Ecommerce/pkg/config"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/database"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/tracing"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var drivers = []string{DriverMemory, DriverRedis, DriverSQLite, DriverPostgres}

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int      `env:"HTTP_PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimitRPS       float64  `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst     int      `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Storage slots
	StorageDriver      string        `env:"STORAGE_DRIVER" envDefault:"memory"`
	SessionCacheSize   int           `env:"SESSION_CACHE_SIZE" envDefault:"1024"`
	SlowQueryThreshold time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	// Redis
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string        `env:"REDIS_KEY_PREFIX" envDefault:"storefront:"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"0"`

	// SQLite
	SQLitePath string `env:"SQLITE_PATH" envDefault:"storefront.db"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storefront_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"storefront"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Catalog and checkout
	CatalogPath   string        `env:"CATALOG_PATH" envDefault:""`
	CheckoutDelay time.Duration `env:"CHECKOUT_DELAY" envDefault:"2s"`

	// Kafka
	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"false"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELInsecure   bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !slices.Contains(drivers, c.StorageDriver) {
		return fmt.Errorf("STORAGE_DRIVER must be one of %v, got %q", drivers, c.StorageDriver)
	}
	if c.SessionCacheSize < 0 {
		return fmt.Errorf("SESSION_CACHE_SIZE must not be negative, got %d", c.SessionCacheSize)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %f", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled, got %d", c.RateLimitBurst)
	}
	if c.CheckoutDelay < 0 {
		return fmt.Errorf("CHECKOUT_DELAY must not be negative, got %s", c.CheckoutDelay)
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("REDIS_TTL must not be negative, got %s", c.RedisTTL)
	}
	if c.StorageDriver == DriverSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when STORAGE_DRIVER is sqlite")
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_ENABLED is true")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// Redis returns the Redis connection settings.
func (c *Config) Redis() database.RedisConfig {
	rc := database.DefaultRedisConfig()
	rc.Host = c.RedisHost
	rc.Port = c.RedisPort
	rc.Password = c.RedisPassword
	rc.DB = c.RedisDB
	return rc
}

// Postgres returns the PostgreSQL connection settings.
func (c *Config) Postgres() database.PostgresConfig {
	pc := database.DefaultPostgresConfig()
	pc.Host = c.PostgresHost
	pc.Port = c.PostgresPort
	pc.User = c.PostgresUser
	pc.Password = c.PostgresPass
	pc.DBName = c.PostgresDB
	pc.SSLMode = c.PostgresSSL
	return pc
}

// Tracing returns the OpenTelemetry settings for serviceName.
func (c *Config) Tracing(serviceName, version string) tracing.Config {
	tc := tracing.DefaultConfig(serviceName)
	tc.ServiceVersion = version
	tc.Environment = c.Environment
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.Insecure = c.OTELInsecure
	tc.SampleRate = c.OTELSampleRate
	tc.Enabled = c.OTELEnabled
	return tc
}
