package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paramunit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
format: json
filter: "Math/*"
progress: false
metrics_file: /tmp/paramunit.prom
allocator:
  backing: locked
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "Math/*", cfg.Filter)
	assert.False(t, cfg.Progress)
	assert.Equal(t, "/tmp/paramunit.prom", cfg.MetricsFile)
	assert.Equal(t, "locked", cfg.Allocator.Backing)
	assert.Equal(t, ColorAuto, cfg.Color, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "format: json\nlog_level: info\n")
	t.Setenv("PARAMUNIT_FORMAT", "yaml")
	t.Setenv("PARAMUNIT_LOG_LEVEL", "debug")
	t.Setenv("PARAMUNIT_PROGRESS", "false")
	t.Setenv("PARAMUNIT_ALLOCATOR__BACKING", "locked")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Progress)
	assert.Equal(t, "locked", cfg.Allocator.Backing)
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("PARAMUNIT_FORMAT", "yaml")

	cfg, err := Load("", map[string]any{
		"format":            "text",
		"color":             ColorNever,
		"allocator.backing": "heap",
	})
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.Equal(t, "heap", cfg.Allocator.Backing)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := Load("", map[string]any{
		"format":            "xml",
		"color":             "sometimes",
		"log_level":         "loud",
		"allocator.backing": "disk",
	})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `invalid format "xml"`)
	assert.Contains(t, msg, `invalid color "sometimes"`)
	assert.Contains(t, msg, `invalid log_level "loud"`)
	assert.Contains(t, msg, `unknown allocator backing "disk"`)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		cfg := Config{LogLevel: in}
		got, err := cfg.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestUseColor(t *testing.T) {
	assert.True(t, (&Config{Color: ColorAlways}).UseColor(false))
	assert.False(t, (&Config{Color: ColorNever}).UseColor(true))
	assert.True(t, (&Config{Color: ColorAuto}).UseColor(true))
	assert.False(t, (&Config{Color: ColorAuto}).UseColor(false))
}
