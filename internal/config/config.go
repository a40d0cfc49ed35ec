package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env              string
	Port             string
	DatabaseURL      string
	ContentProjectID string
	ContentDataset   string
	ContentCDNURL    string
	APITokenHash     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		ContentProjectID: getEnv("CONTENT_PROJECT_ID", ""),
		ContentDataset:   getEnv("CONTENT_DATASET", ""),
		ContentCDNURL:    getEnv("CONTENT_CDN_URL", "https://cdn.sanity.io"),
		APITokenHash:     getEnv("API_TOKEN_HASH", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.APITokenHash == "" && !cfg.IsDevelopment() {
		return nil, fmt.Errorf("API_TOKEN_HASH is required outside development")
	}

	// CONTENT_PROJECT_ID and CONTENT_DATASET are deliberately optional:
	// without them image rendering is skipped, nothing else breaks.

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
