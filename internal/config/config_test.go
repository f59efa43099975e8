package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "> ", cfg.Prompt)
	assert.True(t, cfg.Color)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Zero(t, cfg.MaxBits)
	assert.NoError(t, cfg.Validate())
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
prompt: "calc> "
color: false
log_level: debug
max_bits: 4096
metrics: true
variables:
  a: 4
  big: "1122345679012234567890"
  neg: -7
`)
	cfg, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "calc> ", cfg.Prompt)
	assert.False(t, cfg.Color)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint(4096), cfg.MaxBits)
	assert.True(t, cfg.Metrics)
	require.NoError(t, cfg.Validate())

	vars := cfg.Vars()
	require.Len(t, vars, 3)
	assert.Equal(t, "4", vars["a"].String())
	assert.Equal(t, "1122345679012234567890", vars["big"].String())
	assert.Equal(t, "-7", vars["neg"].String())
}

func TestFromYAMLKeepsDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte("metrics: true\n"))
	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Prompt)
	assert.True(t, cfg.Color)
	assert.True(t, cfg.Metrics)
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := FromYAML([]byte("prompt: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "bad level",
			cfg:     Config{LogLevel: "loud"},
			wantErr: "unknown log level",
		},
		{
			name:    "bad name",
			cfg:     Config{Variables: map[string]string{"a1": "1"}},
			wantErr: "name must contain only letters",
		},
		{
			name:    "bad value",
			cfg:     Config{Variables: map[string]string{"a": "1.5"}},
			wantErr: "is not an integer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smartcalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\nvariables:\n  x: 3\n"), 0o644))

	t.Run("file", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, map[string]string{"x": "3"}, cfg.Variables)
	})

	t.Run("env path", func(t *testing.T) {
		t.Setenv(EnvConfig, path)
		t.Setenv(EnvLogLevel, "")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "error")
		t.Setenv(EnvLogFile, "/tmp/smartcalc.log")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, "/tmp/smartcalc.log", cfg.LogFile)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "loud")
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}
