package config

import (
	"os"
	"strconv"
	"time"

	"timeclock/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Worker   WorkerConfig
	Report   ReportConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// WorkerConfig holds background report executor settings
type WorkerConfig struct {
	Workers          int
	MaxAttempts      int
	RetryBase        time.Duration
	ConcurrentBuilds int64
	QueueSize        int
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	Locale   string
	Timezone string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}

	config := &Config{
		Database: *dbConfig,
		Server:   *loadServerConfig(),
		Worker:   *loadWorkerConfig(),
		Report:   *loadReportConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{URL: url}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func loadWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		Workers:          getEnvIntOrDefault("WORKER_COUNT", 2),
		MaxAttempts:      getEnvIntOrDefault("WORKER_MAX_ATTEMPTS", 3),
		RetryBase:        getEnvDurationOrDefault("WORKER_RETRY_BASE", 2*time.Second),
		ConcurrentBuilds: int64(getEnvIntOrDefault("WORKER_CONCURRENT_BUILDS", 4)),
		QueueSize:        getEnvIntOrDefault("WORKER_QUEUE_SIZE", 256),
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		Locale:   getEnvOrDefault("REPORT_LOCALE", "en"),
		Timezone: getEnvOrDefault("REPORT_TIMEZONE", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Worker.Workers <= 0 {
		return errors.ConfigInvalid("WORKER_COUNT must be positive")
	}
	if config.Worker.MaxAttempts <= 0 {
		return errors.ConfigInvalid("WORKER_MAX_ATTEMPTS must be positive")
	}
	if config.Report.Timezone != "" {
		if _, err := time.LoadLocation(config.Report.Timezone); err != nil {
			return errors.ConfigInvalid("REPORT_TIMEZONE is not a valid IANA zone name")
		}
	}
	return nil
}

// Location resolves the configured report timezone, defaulting to the host zone.
func (c ReportConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
