package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config values from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables win over .env entries (godotenv does not override them).
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString(&config.EndpointAddr, "STICKERFIND_ADDR")
	setString(&config.DatabaseDSN, "STICKERFIND_DATABASE_DSN")
	setString(&config.SecretKey, "STICKERFIND_SECRET_KEY")
	setDuration(&config.AccessTokenValidityDuration, "STICKERFIND_ACCESS_TOKEN_VALIDITY")
	setDuration(&config.RefreshTokenValidityDuration, "STICKERFIND_REFRESH_TOKEN_VALIDITY")
	setString(&config.ScanBaseURL, "STICKERFIND_SCAN_BASE_URL")
	setString(&config.AdminEmail, "STICKERFIND_ADMIN_EMAIL")
	setString(&config.AdminPassword, "STICKERFIND_ADMIN_PASSWORD")
}
