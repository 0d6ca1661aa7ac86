package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs to run. Values come from the
// environment, optionally overlaid on a YAML file named by CONFIG_FILE.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	JWTSecret   string `yaml:"jwt_secret"`

	NATSURL string `yaml:"nats_url"`

	MediaRoot    string `yaml:"media_root"`
	MediaBaseURL string `yaml:"media_base_url"`

	CookieSecure bool `yaml:"cookie_secure"`

	OutboxPollInterval time.Duration `yaml:"outbox_poll_interval"`
	OutboxBatchSize    int           `yaml:"outbox_batch_size"`
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		Port:               "8080",
		MediaRoot:          "./media",
		OutboxPollInterval: 5 * time.Second,
		OutboxBatchSize:    100,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.NATSURL = getEnv("NATS_URL", cfg.NATSURL)
	cfg.MediaRoot = getEnv("MEDIA_ROOT", cfg.MediaRoot)
	cfg.MediaBaseURL = getEnv("MEDIA_BASE_URL", cfg.MediaBaseURL)
	cfg.CookieSecure = getEnvAsBool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.OutboxBatchSize = getEnvAsInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	if v := os.Getenv("OUTBOX_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid OUTBOX_POLL_INTERVAL: %w", err)
		}
		cfg.OutboxPollInterval = d
	}

	if cfg.MediaBaseURL == "" {
		cfg.MediaBaseURL = "http://localhost:" + cfg.Port
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
