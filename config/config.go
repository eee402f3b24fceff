package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Environment variables.
const (
	EnvBaseURL     = "LMS_BASE_URL"
	EnvStatePath   = "LMS_STATE_PATH"
	EnvLogLevel    = "LMS_LOG_LEVEL"
	EnvHTTPTimeout = "LMS_HTTP_TIMEOUT"
)

// Config holds the console configuration
type Config struct {
	// BaseURL is the default API base; empty means the stored one or the
	// built-in default.
	BaseURL string

	// StatePath is the sqlite file holding the session.
	StatePath string

	LogLevel zapcore.Level

	// HTTPTimeout bounds each request. Zero means no timeout.
	HTTPTimeout time.Duration
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{
		BaseURL:  strings.TrimSpace(os.Getenv(EnvBaseURL)),
		LogLevel: zapcore.WarnLevel,
	}

	config.StatePath = strings.TrimSpace(os.Getenv(EnvStatePath))
	if config.StatePath == "" {
		path, err := DefaultStatePath()
		if err != nil {
			return nil, err
		}
		config.StatePath = path
	}

	if s := strings.TrimSpace(os.Getenv(EnvLogLevel)); s != "" {
		level, err := zapcore.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		config.LogLevel = level
	}

	if s := strings.TrimSpace(os.Getenv(EnvHTTPTimeout)); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid %s: %s is negative", EnvHTTPTimeout, s)
		}
		config.HTTPTimeout = d
	}

	return config, nil
}

// DefaultStatePath is <user config dir>/lms/state.db.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "lms", "state.db"), nil
}
