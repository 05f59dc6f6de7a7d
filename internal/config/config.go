// Package config loads the client configuration from config.yaml, a .env
// file and STOCKDESK_-prefixed environment variables, in ascending priority.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the full client configuration.
type Config struct {
	API   APIConfig   `koanf:"api"`
	Table TableConfig `koanf:"table"`
	Log   LogConfig   `koanf:"log"`
}

// APIConfig describes the backend connection.
type APIConfig struct {
	BaseURL string        `koanf:"baseUrl"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

// TableConfig holds the data-table defaults.
type TableConfig struct {
	PageSize int `koanf:"pageSize"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"api.baseUrl":    "http://127.0.0.1:8080/api",
		"api.timeout":    "10s",
		"table.pageSize": 15,
		"log.level":      "info",
	}
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("\n--- API ---\n")
	b.WriteString(fmt.Sprintf("  api.baseUrl: %s\n", c.API.BaseURL))
	b.WriteString(fmt.Sprintf("  api.token: %s\n", maskToken(c.API.Token)))
	b.WriteString(fmt.Sprintf("  api.timeout: %s\n", c.API.Timeout))
	b.WriteString("\n--- Table ---\n")
	b.WriteString(fmt.Sprintf("  table.pageSize: %d\n", c.Table.PageSize))
	b.WriteString("\n--- Log ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	return b.String()
}

func maskToken(token string) string {
	if token == "" {
		return "<not configured>"
	}
	return "****"
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.baseUrl must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid api.timeout: %v", c.API.Timeout)
	}
	if c.Table.PageSize <= 0 {
		return fmt.Errorf("invalid table.pageSize: %d", c.Table.PageSize)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	return nil
}
