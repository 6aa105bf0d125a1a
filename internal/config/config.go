package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/servicereport/internal/layout"
)

// Config represents the full application configuration surface.
type Config struct {
	LogLevel  string
	OutputDir string
	PixKey    string
	TermStyle string
}

// Load reads environment variables and materializes a Config instance. A
// named envFile must exist; with no name, a .env in the working directory is
// loaded when present.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
		}
	} else {
		// A missing .env is fine; the environment may carry everything.
		_ = godotenv.Load()
	}

	cfg := &Config{
		LogLevel:  getenvWithDefault("SERVICEREPORT_LOG_LEVEL", "info"),
		OutputDir: getenvWithDefault("SERVICEREPORT_OUTPUT_DIR", "."),
		PixKey:    getenvWithDefault("SERVICEREPORT_PIX_KEY", layout.DefaultPixKey),
		TermStyle: getenvWithDefault("SERVICEREPORT_TERM_STYLE", "dark"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that configuration values are usable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("SERVICEREPORT_LOG_LEVEL: %w", err)
	}
	if c.OutputDir == "" {
		return errors.New("SERVICEREPORT_OUTPUT_DIR must not be empty")
	}
	if _, err := uuid.Parse(c.PixKey); err != nil {
		return fmt.Errorf("SERVICEREPORT_PIX_KEY must be a UUID key: %w", err)
	}
	return nil
}

// LayoutOptions returns the static document content carried by the config.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{PixKey: c.PixKey}
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
