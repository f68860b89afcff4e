package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.General.DefaultTarget = 75000
	cfg.General.CurrencySymbol = "$"
	cfg.Server.SessionTTL = Duration{2 * time.Hour}
	cfg.Archive.Path = "/tmp/sales.db"
	require.NoError(t, Save(cfg))

	info, err := os.Stat(filepath.Join(dir, "salesboard", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.True(t, Exists())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "salesboard"), 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[server]\nsession_ttl = \"5m\"\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Server.SessionTTL.Duration)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
	assert.Equal(t, 50000.0, cfg.General.DefaultTarget)
}

func TestLoadRejectsBadToml(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "salesboard"), 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[server\n"), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SALESBOARD_GENERAL_DEFAULT_TARGET", "120000")
	t.Setenv("SALESBOARD_SERVER_ADDR", ":9999")
	t.Setenv("SALESBOARD_SERVER_SESSION_TTL", "90s")
	t.Setenv("SALESBOARD_LOGGING_FORMAT", "json")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, 120000.0, cfg.General.DefaultTarget)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 90*time.Second, cfg.Server.SessionTTL.Duration)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Untouched values survive.
	assert.Equal(t, "₹", cfg.General.CurrencySymbol)
	assert.Equal(t, 200, cfg.Server.EventsBuffer)
}

func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("SALESBOARD_SERVER_EVENTS_BUFFER", "lots")

	cfg := DefaultConfig()
	assert.Error(t, ApplyEnv(&cfg))
}

func TestDerivedPaths(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataDir)

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(dataDir, "salesboard", "archive.db"), cfg.ArchivePath())
	assert.Equal(t, filepath.Join(dataDir, "salesboard", "serve.pid"), cfg.PIDPath())

	cfg.Archive.Path = "/srv/sales.db"
	assert.Equal(t, "/srv/sales.db", cfg.ArchivePath())
}
