package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	ServerURL      string         `env:"CAPSULE_SERVER_URL"`
	RequestTimeout *time.Duration `env:"CAPSULE_REQUEST_TIMEOUT"`
}

func parseEnv(cfg *Config) {
	ec := envConfig{}
	if err := env.Parse(&ec); err != nil {
		return
	}

	if ec.ServerURL != "" {
		cfg.ServerURL = ec.ServerURL
	}
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
}
