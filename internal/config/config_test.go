package config_test

import (
	"strings"
	"testing"

	"github.com/ebalder/wmstudio/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"WMSTUDIO_DATA_DIR", "WMSTUDIO_ADDR", "WMSTUDIO_LOG_LEVEL",
		"WMSTUDIO_MAX_UPLOAD_MB", "WMSTUDIO_RATE_RPS", "WMSTUDIO_RATE_BURST",
		"WMSTUDIO_HISTORY_DAYS",
	} {
		t.Setenv(key, "")
	}

	cfg := config.Load()
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.MaxUploadBytes != 64*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want 64 MiB", cfg.MaxUploadBytes)
	}
	if cfg.RateRPS != 10 || cfg.RateBurst != 30 {
		t.Errorf("rate = %v/%d, want 10/30", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.HistoryDays != 90 {
		t.Errorf("HistoryDays = %d, want 90", cfg.HistoryDays)
	}
	if !strings.HasSuffix(cfg.DataDir, ".wmstudio") {
		t.Errorf("DataDir = %q, want a .wmstudio directory", cfg.DataDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WMSTUDIO_DATA_DIR", "/srv/wmstudio")
	t.Setenv("WMSTUDIO_ADDR", "127.0.0.1:9999")
	t.Setenv("WMSTUDIO_LOG_LEVEL", "debug")
	t.Setenv("WMSTUDIO_MAX_UPLOAD_MB", "8")
	t.Setenv("WMSTUDIO_RATE_RPS", "2.5")
	t.Setenv("WMSTUDIO_RATE_BURST", "5")
	t.Setenv("WMSTUDIO_HISTORY_DAYS", "7")

	cfg := config.Load()
	if cfg.DataDir != "/srv/wmstudio" {
		t.Errorf("DataDir = %q, want /srv/wmstudio", cfg.DataDir)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.MaxUploadBytes != 8*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want 8 MiB", cfg.MaxUploadBytes)
	}
	if cfg.RateRPS != 2.5 || cfg.RateBurst != 5 {
		t.Errorf("rate = %v/%d, want 2.5/5", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.HistoryDays != 7 {
		t.Errorf("HistoryDays = %d, want 7", cfg.HistoryDays)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("WMSTUDIO_RATE_RPS", "plenty")
	t.Setenv("WMSTUDIO_HISTORY_DAYS", "forever")

	cfg := config.Load()
	if cfg.RateRPS != 10 {
		t.Errorf("RateRPS = %v, want fallback 10", cfg.RateRPS)
	}
	if cfg.HistoryDays != 90 {
		t.Errorf("HistoryDays = %d, want fallback 90", cfg.HistoryDays)
	}
}
