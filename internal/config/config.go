package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"pspicdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Sheets    SheetsConfig
	Catalog   CatalogConfig
	Export    ExportConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// DatabaseConfig holds the preference store connection settings
type DatabaseConfig struct {
	URL string
}

// Driver returns the database/sql driver name for the configured URL
func (d DatabaseConfig) Driver() string {
	if strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port          string
	GinMode       string
	SessionCookie string
}

// SheetsConfig controls how published spreadsheets are read
type SheetsConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	// LocalDir, when set, replaces the network source with CSV/XLSX files on disk.
	LocalDir string
}

// CatalogConfig points at an optional catalog override
type CatalogConfig struct {
	File string
}

// ExportConfig holds report export settings
type ExportConfig struct {
	PDFCover bool
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

const defaultSQLiteDSN = "file:pspic.db?_pragma=busy_timeout(5000)"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database:  *loadDatabaseConfig(),
		Server:    *loadServerConfig(),
		Sheets:    *loadSheetsConfig(),
		Catalog:   CatalogConfig{File: getEnvOrDefault("CATALOG_FILE", "")},
		Export:    ExportConfig{PDFCover: getEnvBoolOrDefault("PDF_COVER", true)},
		Profiling: *loadProfilingConfig(),
		LogLevel:  strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL: getEnvOrDefault("DATABASE_URL", defaultSQLiteDSN),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          getEnvOrDefault("PORT", "8080"),
		GinMode:       getEnvOrDefault("GIN_MODE", "debug"),
		SessionCookie: getEnvOrDefault("SESSION_COOKIE", "pspic_session"),
	}
}

func loadSheetsConfig() *SheetsConfig {
	return &SheetsConfig{
		BaseURL:  strings.TrimRight(getEnvOrDefault("SHEETS_BASE_URL", "https://docs.google.com"), "/"),
		Timeout:  getEnvDurationOrDefault("SHEETS_TIMEOUT", 20*time.Second),
		CacheTTL: getEnvDurationOrDefault("SHEETS_CACHE_TTL", 2*time.Minute),
		LocalDir: getEnvOrDefault("SHEETS_LOCAL_DIR", ""),
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
		return errors.ConfigInvalid("PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Server.SessionCookie == "" {
		return errors.ConfigInvalid("session cookie name is required")
	}
	if config.Sheets.LocalDir == "" && !strings.HasPrefix(config.Sheets.BaseURL, "http") {
		return errors.ConfigInvalid("SHEETS_BASE_URL must be an http(s) URL")
	}
	if config.Sheets.Timeout <= 0 {
		return errors.ConfigInvalid("SHEETS_TIMEOUT must be positive")
	}
	if config.Sheets.CacheTTL < 0 {
		return errors.ConfigInvalid("SHEETS_CACHE_TTL cannot be negative")
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
		if value == "0" {
			return 0
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
