package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Equal(t, ":8000", cfg.Addr())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := writeFile(t, `
server:
  port: 9090
  maxBodyBytes: 2048
  corsOrigins: ["http://localhost:5173"]
gemini:
  model: gemini-2.0-flash
  timeout: 5s
status:
  cacheTTL: 30s
logging:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, int64(2048), cfg.Server.MaxBodyBytes)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Status.CacheTTL)
	assert.Equal(t, "json", cfg.Logging.Format)
	// untouched sections keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", " abc123 ")
	t.Setenv("GEMINI_MODEL", "gemini-pro")
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeFile(t, "gemini:\n  apiKey: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "server: [unclosed"},
		{"port out of range", "server:\n  port: 70000\n"},
		{"non positive body limit", "server:\n  maxBodyBytes: 0\n"},
		{"unknown log format", "logging:\n  format: xml\n"},
		{"bad rate limit", "rateLimit:\n  enabled: true\n  burst: 0\n"},
		{"unparseable duration", "gemini:\n  timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
