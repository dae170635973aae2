package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server settings, populated from environment variables.
// cmd/server exposes a few of these as flags for local convenience.
type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	DBPath      string        `env:"DB_PATH" envDefault:"./grail.db"`
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"local-development-secret-please-change"`
	AccessTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"60m"`
	LogMode     string        `env:"LOG_MODE" envDefault:"dev"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:*"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
