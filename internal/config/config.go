package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ZdruzenieSTROM/faktury/internal/logger"
	"github.com/ZdruzenieSTROM/faktury/internal/remote"
)

// Config holds settings supplied through the environment
type Config struct {
	// faktury-online.com credentials
	APIKey        string
	Email         string
	DestinationID string
	BaseURL       string
	Timeout       time.Duration

	InputDir  string
	OutputDir string

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("FAKTURY_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("FAKTURY_TIMEOUT: %w", err)
	}

	return &Config{
		APIKey:        getEnv("FAKTURY_API_KEY", ""),
		Email:         getEnv("FAKTURY_EMAIL", "info@strom.sk"),
		DestinationID: getEnv("FAKTURY_DESTINATION_ID", ""),
		BaseURL:       getEnv("FAKTURY_BASE_URL", remote.DefaultBaseURL),
		Timeout:       timeout,
		InputDir:      getEnv("FAKTURY_INPUT_DIR", "input"),
		OutputDir:     getEnv("FAKTURY_OUTPUT_DIR", "output"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}, nil
}

// ValidateRemote checks the settings needed to talk to the invoicing service
func (c *Config) ValidateRemote() error {
	if c.APIKey == "" {
		return fmt.Errorf("FAKTURY_API_KEY is required")
	}
	if c.Email == "" {
		return fmt.Errorf("FAKTURY_EMAIL is required")
	}
	if c.DestinationID == "" {
		return fmt.Errorf("FAKTURY_DESTINATION_ID is required")
	}
	return nil
}

// RemoteConfig returns the session configuration; debug enables the
// service's test mode
func (c *Config) RemoteConfig(debug bool) remote.Config {
	return remote.Config{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
		Email:   c.Email,
		Debug:   debug,
		Timeout: c.Timeout,
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
