package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development", DataDir: "/data"},
		Logger:   LoggerConfig{Level: "info"},
		Database: DatabaseConfig{Driver: DriverSQLite, Path: "/data/gallery.db"},
		Auth:     AuthConfig{AccessTokenDuration: time.Hour},
		Storage:  StorageConfig{Bucket: "images", UploadURLExpiry: 15 * time.Minute},
		Uploads: UploadsConfig{
			MaxFileSize:  5 * 1024 * 1024,
			PendingTTL:   24 * time.Hour,
			ReapInterval: time.Hour,
		},
		RateLimit: RateLimitConfig{RequestsPerSecond: 5, Burst: 20},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"warn", true},
		{"ERROR", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "invalid database driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, "DATABASE_URL"},
		{"missing bucket", func(c *Config) { c.Storage.Bucket = "" }, "S3_BUCKET"},
		{"half credentials", func(c *Config) { c.Storage.AccessKeyID = "key" }, "set together"},
		{"presign too long", func(c *Config) { c.Storage.UploadURLExpiry = 8 * 24 * time.Hour }, "UPLOAD_URL_EXPIRY"},
		{"zero upload size", func(c *Config) { c.Uploads.MaxFileSize = 0 }, "MAX_UPLOAD_SIZE"},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("S3_BUCKET", "images")
	dir := t.TempDir()

	cfg, err := LoadConfig([]string{"-data-dir", dir, "-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, filepath.Join(dir, "gallery.db"), cfg.Database.Path)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(5*1024*1024), cfg.Uploads.MaxFileSize)
	assert.Equal(t, 24*time.Hour, cfg.Uploads.PendingTTL)
	assert.Equal(t, 15*time.Minute, cfg.Storage.UploadURLExpiry)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := `# gallery settings
S3_BUCKET=from-file
LOG_LEVEL=warn
ALLOWED_ORIGINS=https://a.example, https://b.example
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SERVER_PORT", "9000")
	// godotenv skips keys that are already set, even to "".
	for _, key := range []string{"S3_BUCKET", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig([]string{"-data-dir", dir, "-env-file", envFile, "-port", "7000"})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)         // flag beats env
	assert.Equal(t, "error", cfg.Logger.Level)       // env beats .env
	assert.Equal(t, "from-file", cfg.Storage.Bucket) // .env beats default
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("S3_BUCKET", "images")
	t.Setenv("PENDING_UPLOAD_TTL", "forever")

	_, err := LoadConfig([]string{"-data-dir", t.TempDir(), "-env-file", "/nonexistent/.env"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PENDING_UPLOAD_TTL")
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/gallery", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "gallery"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
