package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL      string `env:"DATABASE_URL,required" validate:"required"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"10" validate:"min=1,max=200"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret        string `env:"JWT_SECRET,required"         validate:"required,min=32"`
	InternalAPIToken string `env:"INTERNAL_API_TOKEN,required" validate:"required,min=32"`
	BookingBaseURL   string `env:"BOOKING_BASE_URL"            envDefault:"http://localhost:3000" validate:"required,url"`
	Timezone         string `env:"TIMEZONE"                    envDefault:"America/Sao_Paulo" validate:"required"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Proxies whose X-Forwarded-For is believed. Empty means the peer address is the client IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,cidr|ip"`

	// REDIS_URL empty disables the per-IP throttle on token validation.
	RedisURL          string `env:"REDIS_URL"`
	ValidateRateLimit int    `env:"VALIDATE_RATE_LIMIT" envDefault:"30" validate:"min=1,max=10000"`

	// NATS_URL empty logs domain events instead of publishing them.
	NATSURL string `env:"NATS_URL"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	ReaperCron          string `env:"REAPER_CRON"           envDefault:"@every 15m" validate:"required"`
	TokenRetentionHours int    `env:"TOKEN_RETENTION_HOURS" envDefault:"24" validate:"min=0,max=8760"`

	location *time.Location
}

// Load reads an optional .env file, then the process environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Location is the business time zone used for slot grids and day boundaries.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) IsLocal() bool { return c.Env == "local" }

// TokenRetention is how long expired tokens are kept before the reaper deletes them.
func (c *Config) TokenRetention() time.Duration {
	return time.Duration(c.TokenRetentionHours) * time.Hour
}
