package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	Port         string
	Env          string
	HistoryLimit int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load reads configuration from the environment, falling back to defaults.
// CHAT_HISTORY_LIMIT caps each room's retained history; 0 keeps everything.
func Load() Config {
	port := getenv("APP_PORT", "8080")
	env := getenv("APP_ENV", "dev")
	limitStr := getenv("CHAT_HISTORY_LIMIT", "0")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		limit = 0
	}
	return Config{
		Port:         port,
		Env:          env,
		HistoryLimit: limit,
	}
}

// Validate rejects configurations the server cannot start with.
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("port must not be empty")
	}
	if cfg.Env == "" {
		return errors.New("env must not be empty")
	}
	if cfg.HistoryLimit < 0 {
		return errors.New("history limit must not be negative")
	}
	return nil
}
