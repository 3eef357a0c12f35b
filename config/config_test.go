package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gobd/reststeps/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reststeps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "application/json", cfg.Headers["Content-Type"])
	assert.NotNil(t, cfg.Services)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
baseURL: https://uat.bank.example
timeout: 5s
schemaDir: schemas
failOnMissingField: true
headers:
  token: abc
log:
  debug: true
services:
  AppServerBPTopupRequest:
    baseURL: https://appserver.bank.example
    headers:
      channel: mobile
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://uat.bank.example", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "schemas", cfg.SchemaDir)
	assert.True(t, cfg.FailOnMissingField)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "abc", cfg.Headers["token"])
	assert.Equal(t, "application/json", cfg.Headers["Content-Type"])
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "baseURL: https://uat.bank.example\n")
	t.Setenv("RESTSTEPS_BASE_URL", "https://sit.bank.example")
	t.Setenv("RESTSTEPS_HEADERS", "token:from-env,channel:web")
	t.Setenv("RESTSTEPS_TIMEOUT", "2s")
	t.Setenv("RESTSTEPS_DEBUG", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://sit.bank.example", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "from-env", cfg.Headers["token"])
	assert.Equal(t, "web", cfg.Headers["channel"])
	assert.True(t, cfg.Log.Debug)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "baseUrl: https://uat.bank.example\n"},
		{"not yaml", "baseURL: [\n"},
		{"relative base URL", "baseURL: uat.bank.example\n"},
		{"negative timeout", "timeout: -1s\n"},
		{"relative service path", "services:\n  x:\n    path: status\n"},
		{"blank header name", "headers:\n  ' ': x\n"},
		{"blank log output", "log:\n  outputPaths: ['']\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestService(t *testing.T) {
	cfg := config.Default()
	cfg.BaseURL = "https://uat.bank.example"
	cfg.Headers["token"] = "global"
	cfg.Services["AppServerBPTopupRequest"] = config.Service{
		BaseURL: "https://appserver.bank.example",
		Path:    "/v2/topup",
		Headers: map[string]string{"token": "own", "channel": "mobile"},
	}

	svc, err := cfg.Service("appserverbptopuprequest")
	require.NoError(t, err)
	assert.Equal(t, "https://appserver.bank.example", svc.BaseURL)
	assert.Equal(t, "/v2/topup", svc.Path)
	assert.Equal(t, map[string]string{
		"Content-Type": "application/json",
		"token":        "own",
		"channel":      "mobile",
	}, svc.Headers)

	svc, err = cfg.Service("consentProvisionProcessResult")
	require.NoError(t, err)
	assert.Equal(t, "https://uat.bank.example", svc.BaseURL)
	assert.Empty(t, svc.Path)
	assert.Equal(t, "global", svc.Headers["token"])

	_, err = config.Default().Service("consentProvisionProcessResult")
	assert.Error(t, err)
}
