package web

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the web form server's environment-driven settings. The
// session secret has a development fallback so the form works out of the
// box; production deployments set their own.
type Config struct {
	Addr          string `env:"CUEPLAY_WEB_ADDR, default=:5000"`
	SessionSecret string `env:"CUEPLAY_WEB_SESSION_SECRET, default=dev-secret-key"`
	LogRequests   bool   `env:"CUEPLAY_WEB_LOG_REQUESTS, default=true"`
}

// NewConfigFromEnv reads the web configuration from the environment.
func NewConfigFromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
