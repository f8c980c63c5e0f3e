package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	FleetAPI FleetAPIConfig
	Session  SessionConfig
	Redis    RedisConfig
	Table    TableConfig
}

// FleetAPIConfig points the portal at the remote fleet REST API.
type FleetAPIConfig struct {
	BaseURL      string        `env:"FLEET_API_BASE_URL, default=http://localhost:5153/api"`
	ImageBaseURL string        `env:"IMAGE_BASE_URL,     default=http://localhost:5153"`
	Timeout      time.Duration `env:"FLEET_API_TIMEOUT,  default=15s"`
	// RequestsPerSecond caps outbound calls to the fleet API.
	RequestsPerSecond float64 `env:"FLEET_API_RPS, default=25"`
}

type SessionConfig struct {
	// TTL bounds how long a persisted bearer token is kept server-side.
	TTL time.Duration `env:"SESSION_TTL, default=24h"`
	// Secure marks the session and browse cookies as HTTPS-only.
	Secure bool `env:"SESSION_SECURE_COOKIES, default=false"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type TableConfig struct {
	// DefaultPageSize applies to the inventory and rental-history tables.
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE, default=10"`
	// ViewIdleTTL is how long per-browser view state survives without a hit.
	ViewIdleTTL time.Duration `env:"VIEW_IDLE_TTL, default=1h"`
	// StagingTTL is how long an abandoned upload staging area is kept.
	StagingTTL time.Duration `env:"UPLOAD_STAGING_TTL, default=30m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
