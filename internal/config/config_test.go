package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MNEMO_DECKS_DIR", "MNEMO_LISTEN", "MNEMO_HISTORY_DB", "MNEMO_FORECAST_DAYS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.DecksDir != "decks" {
		t.Errorf("DecksDir = %q", cfg.DecksDir)
	}
	if cfg.Listen != "localhost:7455" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.ForecastDays != 30 {
		t.Errorf("ForecastDays = %d", cfg.ForecastDays)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MNEMO_DECKS_DIR", "/tmp/cards")
	t.Setenv("MNEMO_FORECAST_DAYS", "14")
	cfg := Load()
	if cfg.DecksDir != "/tmp/cards" {
		t.Errorf("DecksDir = %q", cfg.DecksDir)
	}
	if cfg.ForecastDays != 14 {
		t.Errorf("ForecastDays = %d", cfg.ForecastDays)
	}
}

func TestLoadBadNumberFallsBack(t *testing.T) {
	t.Setenv("MNEMO_FORECAST_DAYS", "soon")
	cfg := Load()
	if cfg.ForecastDays != 30 {
		t.Errorf("ForecastDays = %d, want fallback 30", cfg.ForecastDays)
	}
}
