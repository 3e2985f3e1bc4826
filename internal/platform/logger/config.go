package logger

import (
	"os"
	"strings"
)

// Config holds logger settings, read from the environment.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
}

// DefaultConfig reads logger settings from LOG_LEVEL and LOG_FORMAT.
func DefaultConfig() *Config {
	return &Config{
		Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
