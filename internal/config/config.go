package config

import (
	"os"
	"strconv"
	"time"

	"penguins/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Session   SessionConfig
	Page      PageConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds data source settings. File (CSV or XLSX) or DatabaseURL
// overrides the bundled dataset; Table names the PostgreSQL table to read.
type DataConfig struct {
	File        string
	DatabaseURL string
	Table       string
}

// SessionConfig holds dashboard session settings. EventKeepAlive is the ping
// interval on idle event streams.
type SessionConfig struct {
	TTL            time.Duration
	EventKeepAlive time.Duration
}

// PageConfig holds the dashboard page chrome
type PageConfig struct {
	Title     string
	GitHubURL string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Session:   *loadSessionConfig(),
		Page:      *loadPageConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:        getEnvOrDefault("PENGUINS_DATA_FILE", ""),
		DatabaseURL: getEnvOrDefault("PENGUINS_DATABASE_URL", ""),
		Table:       getEnvOrDefault("PENGUINS_TABLE", "penguins"),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL:            getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
		EventKeepAlive: getEnvDurationOrDefault("SSE_KEEPALIVE", 30*time.Second),
	}
}

func loadPageConfig() *PageConfig {
	return &PageConfig{
		Title:     getEnvOrDefault("PAGE_TITLE", "Mrs. Doodles Penguins"),
		GitHubURL: getEnvOrDefault("GITHUB_URL", "https://github.com/Ldooley32/cintel-02-data-doodles/tree/main"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric, got " + strconv.Quote(config.Server.Port))
	}
	if config.Data.File != "" && config.Data.DatabaseURL != "" {
		return errors.ConfigInvalid("set PENGUINS_DATA_FILE or PENGUINS_DATABASE_URL, not both")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Profiling.Enabled && config.Profiling.Port == config.Server.Port {
		return errors.ConfigInvalid("PPROF_PORT must differ from PORT")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
