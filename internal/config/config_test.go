package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avollmer/stockdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 15, cfg.Table.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.API.Token)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
api:
  baseUrl: "http://backend:9000/api"
  timeout: 3s
table:
  pageSize: 25
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 25, cfg.Table.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	t.Setenv("STOCKDESK_LOG_LEVEL", "error")
	t.Setenv("STOCKDESK_API_TOKEN", "from-env")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.API.Token)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	t.Setenv("STOCKDESK_LOG_LEVEL", "loud")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			API:   config.APIConfig{BaseURL: "http://h/api", Timeout: time.Second},
			Table: config.TableConfig{PageSize: 15},
			Log:   config.LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "empty base url", mutate: func(c *config.Config) { c.API.BaseURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *config.Config) { c.API.Timeout = 0 }, wantErr: true},
		{name: "zero page size", mutate: func(c *config.Config) { c.Table.PageSize = 0 }, wantErr: true},
		{name: "unknown level", mutate: func(c *config.Config) { c.Log.Level = "chatty" }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_StringMasksToken(t *testing.T) {
	cfg := config.Config{API: config.APIConfig{Token: "super-secret"}}
	assert.NotContains(t, cfg.String(), "super-secret")
}
