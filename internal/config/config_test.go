package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embervale/engine/internal/config"
)

// writeConfig writes a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `
engine:
  tick_interval: 50ms
  spawn_delay_ticks: 20
  data_dir: content
  autosave_interval: 30s
  save_slots: 3
  seed: 42
database:
  host: db.local
  port: 5433
  user: ember
  password: secret
  name: embervale
  sslmode: disable
  max_conns: 8
  min_conns: 2
  max_conn_lifetime: 30m
logging:
  level: debug
  format: console
`

// TestLoad_Valid verifies a complete valid config loads with all values applied.
func TestLoad_Valid(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.Engine.TickInterval)
	assert.Equal(t, 20, cfg.Engine.SpawnDelayTicks)
	assert.Equal(t, "content", cfg.Engine.DataDir)
	assert.Equal(t, 30*time.Second, cfg.Engine.AutosaveInterval)
	assert.Equal(t, 3, cfg.Engine.SaveSlots)
	assert.Equal(t, int64(42), cfg.Engine.Seed)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

// TestLoad_Defaults verifies defaults are applied for omitted keys.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "engine:\n  data_dir: content\n"))
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.Engine.TickInterval)
	assert.Equal(t, 30, cfg.Engine.SpawnDelayTicks)
	assert.Equal(t, 5, cfg.Engine.SaveSlots)
	assert.Equal(t, time.Minute, cfg.Engine.AutosaveInterval)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

// TestLoad_MissingFile verifies a descriptive error for a nonexistent path.
func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

// TestValidate_CollectsAllViolations verifies Validate reports every section's
// violations in a single error rather than stopping at the first.
func TestValidate_CollectsAllViolations(t *testing.T) {
	cfg := config.Config{
		Engine: config.EngineConfig{
			TickInterval: 0,
			DataDir:      "",
			SaveSlots:    0,
		},
		Database: config.DatabaseConfig{
			Host:     "",
			Port:     0,
			User:     "",
			Name:     "",
			SSLMode:  "bogus",
			MaxConns: 0,
		},
		Logging: config.LoggingConfig{Level: "loud", Format: "xml"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "engine.tick_interval")
	assert.Contains(t, msg, "engine.data_dir")
	assert.Contains(t, msg, "engine.save_slots")
	assert.Contains(t, msg, "database.host")
	assert.Contains(t, msg, "database.sslmode")
	assert.Contains(t, msg, "logging.level")
}

// TestValidate_MinConnsExceedsMax verifies the pool bounds cross-check.
func TestValidate_MinConnsExceedsMax(t *testing.T) {
	cfg := config.Config{
		Engine: config.EngineConfig{
			TickInterval: time.Millisecond, DataDir: "content", SaveSlots: 1,
		},
		Database: config.DatabaseConfig{
			Host: "h", Port: 5432, User: "u", Name: "n", SSLMode: "disable",
			MaxConns: 2, MinConns: 5,
		},
		Logging: config.LoggingConfig{Level: "info", Format: "json"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.min_conns must not exceed database.max_conns")
}

// TestDSN verifies the connection string format.
func TestDSN(t *testing.T) {
	d := config.DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Name: "ember", SSLMode: "require",
	}
	assert.Equal(t, "postgres://u:p@db:5432/ember?sslmode=require", d.DSN())
}

// TestLoad_EnvOverride verifies EMBERVALE_-prefixed environment variables
// override file values.
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("EMBERVALE_LOGGING_LEVEL", "error")

	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

// TestLoad_InvalidTickInterval verifies a zero tick interval is rejected.
func TestLoad_InvalidTickInterval(t *testing.T) {
	yaml := `
engine:
  tick_interval: 0s
  data_dir: content
`
	_, err := config.Load(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine.tick_interval must be > 0")
}
