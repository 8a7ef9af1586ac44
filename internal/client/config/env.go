package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from environment variables. A .env
// file in the working directory is loaded first, if one exists; real
// environment variables win over it.
//
// Recognized variables:
//
//	CAPSEAL_SERVER_ADDR            base URL of the sealing service
//	CAPSEAL_DATABASE_PATH          path to the local capture database
//	CAPSEAL_TOKEN_PATH             path to the stored auth token
//	CAPSEAL_ONLINE_CHECK_INTERVAL  duration string, e.g. "3s"
//	CAPSEAL_SYNC_TIMEOUT           duration string, e.g. "30s"
func parseEnv(cfg *Config) {
	// absence of a .env file is the normal case
	_ = godotenv.Load()

	if v := os.Getenv("CAPSEAL_SERVER_ADDR"); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv("CAPSEAL_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("CAPSEAL_TOKEN_PATH"); v != "" {
		cfg.TokenPath = v
	}
	if v := os.Getenv("CAPSEAL_ONLINE_CHECK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OnlineCheckInterval = d
		}
	}
	if v := os.Getenv("CAPSEAL_SYNC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SyncTimeout = d
		}
	}
}
