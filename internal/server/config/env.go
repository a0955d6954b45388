package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing. Only variables that are
// actually set overlay the current values.
type envConfig struct {
	EndpointAddr                 string         `env:"ADDRESS"`
	DatabaseDSN                  string         `env:"DATABASE_DSN"`
	SecretKey                    string         `env:"SECRET_KEY"`
	AccessTokenValidityDuration  *time.Duration `env:"ACCESS_TOKEN_VALIDITY"`
	RefreshTokenValidityDuration *time.Duration `env:"REFRESH_TOKEN_VALIDITY"`
	BlobURLExpiry                *time.Duration `env:"BLOB_URL_EXPIRY"`
	S3RootUser                   string         `env:"S3_ROOT_USER"`
	S3RootPassword               string         `env:"S3_ROOT_PASSWORD"`
	S3Bucket                     string         `env:"S3_BUCKET"`
	S3Region                     string         `env:"S3_REGION"`
	S3BaseEndpoint               string         `env:"S3_BASE_ENDPOINT"`
}

func parseEnv(cfg *Config) {
	ec := envConfig{}
	if err := env.Parse(&ec); err != nil {
		return
	}

	if ec.EndpointAddr != "" {
		cfg.EndpointAddr = ec.EndpointAddr
	}
	if ec.DatabaseDSN != "" {
		cfg.DatabaseDSN = ec.DatabaseDSN
	}
	if ec.SecretKey != "" {
		cfg.SecretKey = ec.SecretKey
	}
	if ec.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = *ec.AccessTokenValidityDuration
	}
	if ec.RefreshTokenValidityDuration != nil {
		cfg.RefreshTokenValidityDuration = *ec.RefreshTokenValidityDuration
	}
	if ec.BlobURLExpiry != nil {
		cfg.BlobURLExpiry = *ec.BlobURLExpiry
	}
	if ec.S3RootUser != "" {
		cfg.S3RootUser = ec.S3RootUser
	}
	if ec.S3RootPassword != "" {
		cfg.S3RootPassword = ec.S3RootPassword
	}
	if ec.S3Bucket != "" {
		cfg.S3Bucket = ec.S3Bucket
	}
	if ec.S3Region != "" {
		cfg.S3Region = ec.S3Region
	}
	if ec.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = ec.S3BaseEndpoint
	}
}
