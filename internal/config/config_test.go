package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "planet_config.json", cfg.Params.Path)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, "", cfg.Audit.Dir)
	assert.InDelta(t, 50.0, cfg.RateLimit.RPS, 0.001)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
server:
  port: 9191
params:
  path: /etc/planetforge/base.json
store:
  driver: sqlite
  database_url: audit.db
audit:
  dir: /var/lib/planetforge/sessions
ratelimit:
  rps: 5
  burst: 10
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "/etc/planetforge/base.json", cfg.Params.Path)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "audit.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "/var/lib/planetforge/sessions", cfg.Audit.Dir)
	assert.InDelta(t, 5.0, cfg.RateLimit.RPS, 0.001)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	chtemp(t)

	t.Setenv("PLANETFORGE_SERVER_PORT", "7070")
	t.Setenv("PLANETFORGE_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoadMalformedYAML(t *testing.T) {
	chtemp(t)

	require.NoError(t, os.WriteFile("config.yaml", []byte("server: [not: a map"), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	require.Error(t, err)
}

func TestLoadFromYAMLFileInSubdir(t *testing.T) {
	// Config discovery only checks the working directory.
	chtemp(t)
	require.NoError(t, os.MkdirAll("conf", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("conf", "config.yaml"), []byte("server:\n  port: 1\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
