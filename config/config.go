package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DatabaseConfig selects the driver and connection string.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"` // pg|pgx|sqlite
	DSN    string `yaml:"dsn" env:"DATABASE_URL"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

// JWTConfig holds bearer token settings. An empty secret disables auth on
// mutating routes.
type JWTConfig struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer     string        `yaml:"issuer" env:"JWT_ISSUER"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"JWT_DEFAULT_TTL"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"` // text|json
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"METRICS_ENABLED"`
}

// Defaults applied to unset fields.
const (
	DefaultDriver          = "pg"
	DefaultHTTPAddr        = ":8080"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultRateLimitRPS    = 20
	DefaultRateLimitBurst  = 40
	DefaultShutdownTimeout = 10 * time.Second
	DefaultTokenTTL        = 24 * time.Hour
)

// LoadConfig loads the configuration from an optional .env file, then the
// YAML file at filename, then environment overrides. A missing YAML file
// falls back to the environment alone.
func LoadConfig(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.RateLimitRPS == 0 {
		c.HTTP.RateLimitRPS = DefaultRateLimitRPS
	}
	if c.HTTP.RateLimitBurst == 0 {
		c.HTTP.RateLimitBurst = DefaultRateLimitBurst
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.JWT.DefaultTTL == 0 {
		c.JWT.DefaultTTL = DefaultTokenTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required (set database.dsn or DATABASE_URL)")
	}
	switch c.Database.Driver {
	case "pg", "pgx", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if c.HTTP.RateLimitRPS < 0 || c.HTTP.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit settings must not be negative")
	}
	return nil
}
