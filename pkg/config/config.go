// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string        `env:"DATABASE_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	ListenAddr  string        `env:"LISTEN_ADDR" envDefault:":3000"`
	BasePath    string        `env:"AUTH_BASE_PATH" envDefault:"/api/auth"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogDev      bool          `env:"LOG_DEV" envDefault:"false"`
}

// Load reads .env if present, then parses the environment. A missing .env
// file is not an error; missing required variables are.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
