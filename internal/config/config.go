package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	NatsURL        string
	RedisURL       string
	HTTPPort       string
	LicenseKey     string
	WorkerCount    int
	EnrichTimeout  time.Duration
	SnapshotTTL    time.Duration
	RescanDebounce time.Duration
	ClickDelay     time.Duration
}

func Load() *Config {
	return &Config{
		NatsURL:        getEnv("NATS_URL", "nats://localhost:4222"),
		RedisURL:       getEnv("REDIS_URL", ""),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LicenseKey:     getEnv("LICENSE_KEY", ""),
		WorkerCount:    getEnvInt("WORKER_COUNT", 5),
		EnrichTimeout:  getEnvDuration("ENRICH_TIMEOUT", 10*time.Second),
		SnapshotTTL:    getEnvDuration("SNAPSHOT_TTL", 24*time.Hour),
		RescanDebounce: getEnvDuration("RESCAN_DEBOUNCE", 500*time.Millisecond),
		ClickDelay:     getEnvDuration("CLICK_DELAY", time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
