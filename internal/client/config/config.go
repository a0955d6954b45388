// Package config loads the client configuration. Values come from
// defaults, then an optional JSON file, then environment variables, then
// command-line flags, with later sources winning.
package config

import "time"

// Config holds runtime settings for the capsule CLI.
type Config struct {
	// ServerURL is the base URL of the capsule server API.
	ServerURL string
	// RequestTimeout bounds each HTTP round trip.
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
