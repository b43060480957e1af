// Package config loads server configuration from flags, environment variables and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Uploads   UploadsConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	DataDir     string // Key file and default SQLite database live here
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// DatabaseConfig selects and configures the store.
type DatabaseConfig struct {
	Driver string // sqlite or postgres
	Path   string // SQLite file (default: {data}/gallery.db)
	DSN    string // Postgres connection string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	AccessTokenDuration time.Duration
	// AdminEmail is given the admin role on register or login.
	AdminEmail string
}

// StorageConfig holds S3-compatible image host configuration.
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional, for MinIO/R2 style hosts
	PublicBaseURL   string // Optional CDN prefix for stored objects
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	UploadURLExpiry time.Duration
}

// UploadsConfig holds upload limits and pending-record cleanup.
type UploadsConfig struct {
	MaxFileSize  int64
	PendingTTL   time.Duration
	ReapInterval time.Duration
}

// RateLimitConfig applies to the anonymous and login endpoints.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("gallery-server", flag.ContinueOnError)
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataDir := fs.String("data-dir", "", "Directory for the auth key and SQLite database")
	port := fs.String("port", "", "Server port (default: 8080)")
	dbDriver := fs.String("db-driver", "", "Database driver (sqlite, postgres)")
	dbPath := fs.String("db-path", "", "SQLite database file")
	adminEmail := fs.String("admin-email", "", "Email granted the admin role")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Missing .env files are fine; variables already set win.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			DataDir:     getConfigValue(*dataDir, "DATA_DIR", ""),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*port, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue("", "ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getConfigValue(*dbDriver, "DB_DRIVER", DriverSQLite)),
			Path:   getConfigValue(*dbPath, "DB_PATH", ""),
			DSN:    getConfigValue("", "DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			AdminEmail: getConfigValue(*adminEmail, "ADMIN_EMAIL", ""),
		},
		Storage: StorageConfig{
			Bucket:          getConfigValue("", "S3_BUCKET", ""),
			Region:          getConfigValue("", "S3_REGION", "us-east-1"),
			Endpoint:        getConfigValue("", "S3_ENDPOINT", ""),
			PublicBaseURL:   getConfigValue("", "S3_PUBLIC_BASE_URL", ""),
			AccessKeyID:     getConfigValue("", "S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getConfigValue("", "S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getBoolConfigValue("S3_USE_PATH_STYLE", false),
		},
	}

	var err error
	durations := []struct {
		dst *time.Duration
		key string
		def string
	}{
		{&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Auth.AccessTokenDuration, "ACCESS_TOKEN_DURATION", "24h"},
		{&cfg.Storage.UploadURLExpiry, "UPLOAD_URL_EXPIRY", "15m"},
		{&cfg.Uploads.PendingTTL, "PENDING_UPLOAD_TTL", "24h"},
		{&cfg.Uploads.ReapInterval, "PENDING_REAP_INTERVAL", "1h"},
	}
	for _, d := range durations {
		if *d.dst, err = getDurationConfigValue(d.key, d.def); err != nil {
			return nil, err
		}
	}

	if cfg.Uploads.MaxFileSize, err = getIntConfigValue("MAX_UPLOAD_SIZE", 5*1024*1024); err != nil {
		return nil, err
	}
	burst, err := getIntConfigValue("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}
	cfg.RateLimit.Burst = int(burst)
	rps := getConfigValue("", "RATE_LIMIT_RPS", "5")
	if cfg.RateLimit.RequestsPerSecond, err = strconv.ParseFloat(rps, 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", rps, err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("DB_PATH cannot be empty")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("invalid database driver: %q (must be sqlite or postgres)", c.Database.Driver)
	}

	if c.App.DataDir == "" {
		return errors.New("data dir cannot be empty after expansion")
	}
	if c.Storage.Bucket == "" {
		return errors.New("S3_BUCKET is required")
	}
	if (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
		return errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}

	if c.Auth.AccessTokenDuration <= 0 {
		return errors.New("ACCESS_TOKEN_DURATION must be positive")
	}
	if c.Storage.UploadURLExpiry <= 0 || c.Storage.UploadURLExpiry > 7*24*time.Hour {
		return errors.New("UPLOAD_URL_EXPIRY must be between 0 and 7 days")
	}
	if c.Uploads.MaxFileSize <= 0 {
		return errors.New("MAX_UPLOAD_SIZE must be positive")
	}
	if c.Uploads.PendingTTL <= 0 || c.Uploads.ReapInterval <= 0 {
		return errors.New("PENDING_UPLOAD_TTL and PENDING_REAP_INTERVAL must be positive")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	c.App.DataDir, err = expandPath(c.App.DataDir, filepath.Join(homeDir, "PromptGallery"))
	if err != nil {
		return fmt.Errorf("invalid data dir: %w", err)
	}
	c.Database.Path, err = expandPath(c.Database.Path, filepath.Join(c.App.DataDir, "gallery.db"))
	if err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (case-insensitive) as true.
func getBoolConfigValue(envKey string, defaultValue bool) bool {
	v := strings.ToLower(os.Getenv(envKey))
	if v == "" {
		return defaultValue
	}
	return v == "true" || v == "1" || v == "yes"
}

func getIntConfigValue(envKey string, defaultValue int64) (int64, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return n, nil
}

func getDurationConfigValue(envKey, defaultValue string) (time.Duration, error) {
	v := getConfigValue("", envKey, defaultValue)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return d, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
