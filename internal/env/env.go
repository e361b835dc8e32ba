// Package env centralizes environment configuration. Values come from the
// process environment, optionally preloaded from a .env file.
package env

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configuration keys.
const (
	KeyBackendURL  = "CANTEEN_BACKEND_URL"
	KeyDBPath      = "CANTEEN_DB_PATH"
	KeyHTTPTimeout = "CANTEEN_HTTP_TIMEOUT"
	KeyLogLevel    = "CANTEEN_LOG_LEVEL"
	KeySlowQueryMs = "CANTEEN_SLOW_QUERY_MS"
)

// Load reads a .env file into the process environment if one exists.
// A missing file is not an error; real environment variables win over
// file entries either way.
func Load() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("dotenv_load_failed", "error", err)
		}
		return
	}
	slog.Debug("dotenv_loaded")
}

// GetString returns the value of key, or fallback when unset or empty.
func GetString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetInt returns the integer value of key, or fallback when unset or
// unparsable.
func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("env_bad_int", "key", key, "value", v)
		return fallback
	}
	return n
}

// GetBool returns the boolean value of key, or fallback when unset or
// unparsable. Accepts the strconv.ParseBool forms.
func GetBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("env_bad_bool", "key", key, "value", v)
		return fallback
	}
	return b
}

// GetDuration returns the duration value of key (time.ParseDuration
// syntax), or fallback when unset or unparsable.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("env_bad_duration", "key", key, "value", v)
		return fallback
	}
	return d
}
