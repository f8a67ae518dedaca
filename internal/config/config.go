// Package config loads and validates application configuration from an
// optional YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the API server.
// Values are populated by Load; environment variables win over the file.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `yaml:"port"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `yaml:"database_url"`

	// JWTSecret is the HS256 key partner bearer tokens are signed with. Required.
	JWTSecret string `yaml:"jwt_secret"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (dashboard dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `yaml:"cors_origins"`

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// MigrateOnStart applies pending migrations before serving. Defaults to true.
	MigrateOnStart bool `yaml:"migrate_on_start"`

	// InsuranceWatch configures the insurance expiry job.
	InsuranceWatch InsuranceWatchConfig `yaml:"insurance_watch"`
}

// InsuranceWatchConfig schedules the insurance expiry job.
type InsuranceWatchConfig struct {
	// Schedule is a six-field cron expression (with seconds), evaluated in UTC.
	// An empty schedule disables the job. Defaults to 06:00 daily.
	Schedule string `yaml:"schedule"`

	// Days is how far ahead an insurance end date counts as expiring. Defaults to 30.
	Days int `yaml:"days"`
}

func defaults() Config {
	return Config{
		Port:           "8080",
		LogLevel:       "info",
		CORSOrigins:    []string{"http://localhost:5173"},
		MaxBodyBytes:   1 << 20,
		MigrateOnStart: true,
		InsuranceWatch: InsuranceWatchConfig{Schedule: "0 0 6 * * *", Days: 30},
	}
}

// Load builds the Config from defaults, then the YAML file named by
// CONFIG_FILE if set, then environment variables.
// Returns an error listing any required values that are not set.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	cfg.InsuranceWatch.Schedule = getEnv("INSURANCE_WATCH_SCHEDULE", cfg.InsuranceWatch.Schedule)

	var invalid []string
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			invalid = append(invalid, "MAX_BODY_BYTES")
		}
		cfg.MaxBodyBytes = n
	}
	if v := os.Getenv("MIGRATE_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "MIGRATE_ON_START")
		}
		cfg.MigrateOnStart = b
	}
	if v := os.Getenv("INSURANCE_WATCH_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			invalid = append(invalid, "INSURANCE_WATCH_DAYS")
		}
		cfg.InsuranceWatch.Days = n
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
