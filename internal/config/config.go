package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DataDir        string
	ListenAddr     string
	LogLevel       string
	MaxUploadBytes int64
	RateRPS        float64
	RateBurst      int
	HistoryDays    int
}

func Load() *Config {
	return &Config{
		DataDir:        envOr("WMSTUDIO_DATA_DIR", defaultDataDir()),
		ListenAddr:     envOr("WMSTUDIO_ADDR", ":8080"),
		LogLevel:       envOr("WMSTUDIO_LOG_LEVEL", "info"),
		MaxUploadBytes: envInt64Or("WMSTUDIO_MAX_UPLOAD_MB", 64) * 1024 * 1024,
		RateRPS:        envFloatOr("WMSTUDIO_RATE_RPS", 10),
		RateBurst:      envIntOr("WMSTUDIO_RATE_BURST", 30),
		HistoryDays:    envIntOr("WMSTUDIO_HISTORY_DAYS", 90),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wmstudio"
	}
	return filepath.Join(home, ".wmstudio")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return fallback
}
