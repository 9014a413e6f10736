package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"course-helper"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Backend  Backend
	Redis    Redis
	Security Security
	Quiz     Quiz
	Poll     Poll
}

// Backend locates the remote course backend that owns all course data.
type Backend struct {
	BaseURL     string        `env:"BACKEND_BASE_URL,notEmpty"`
	HTTPTimeout time.Duration `env:"BACKEND_HTTP_TIMEOUT" envDefault:"10s"`
}

// Redis holds cache + session-state configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing session tokens.
type Security struct {
	JWTSecret  string        `env:"JWT_SECRET,notEmpty"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// Quiz groups view-rendering defaults.
type Quiz struct {
	QuestionCacheTTL time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"5m"`
	ViewTTL          time.Duration `env:"QUIZ_VIEW_TTL" envDefault:"2h"`
}

// Poll governs background status polling for export and processing tasks.
// The base interval matches the historical 3s tick; backoff and the total
// budget bound what used to be an unbounded loop.
type Poll struct {
	BaseInterval time.Duration `env:"POLL_BASE_INTERVAL" envDefault:"3s"`
	MaxInterval  time.Duration `env:"POLL_MAX_INTERVAL" envDefault:"30s"`
	MaxDuration  time.Duration `env:"POLL_MAX_DURATION" envDefault:"15m"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
