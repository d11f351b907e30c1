// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the analytics server.
type Config struct {
	Port           string
	UseMemoryStore bool
	GCPProjectID   string
	AllowedOrigins []string
}

// Load reads configuration from the environment, with a .env file as an
// optional local override.
func Load() *Config {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8099"),
		UseMemoryStore: os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local",
		GCPProjectID:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
