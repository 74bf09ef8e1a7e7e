package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"mnemo/internal/logger"
)

// Config carries the application settings. Values come from the
// environment (optionally via a .env file) with built-in fallbacks;
// command line flags override them.
type Config struct {
	DecksDir     string
	Listen       string
	HistoryDB    string
	ForecastDays int
}

// Load reads configuration from .env and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		DecksDir:     getEnv("MNEMO_DECKS_DIR", "decks"),
		Listen:       getEnv("MNEMO_LISTEN", "localhost:7455"),
		HistoryDB:    getEnv("MNEMO_HISTORY_DB", "mnemo.history"),
		ForecastDays: getEnvInt("MNEMO_FORECAST_DAYS", 30),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Errorf("config: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
