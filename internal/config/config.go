// Package config loads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	MaxURLs        int
	MaxURLsCeiling int
	FetchTimeout   time.Duration
	Concurrency    int
	AllowedOrigins []string
}

// Load reads configuration from the environment, with a .env file as a
// non-overriding fallback when one exists next to the binary.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8000"),
		MaxURLs:        getEnvInt("MAX_URLS", 20),
		MaxURLsCeiling: getEnvInt("MAX_URLS_CEILING", 100),
		FetchTimeout:   time.Duration(getEnvInt("FETCH_TIMEOUT", 10)) * time.Second,
		Concurrency:    getEnvInt("CRAWL_CONCURRENCY", 4),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
