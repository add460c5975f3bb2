// Package config loads paramunit settings.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults
//  2. an optional YAML file
//  3. PARAMUNIT_* environment variables
//  4. explicit overrides, normally the command-line flags that were set
//
// Environment keys are lower-cased after the prefix is removed; a double
// underscore separates nested keys, so PARAMUNIT_ALLOCATOR__BACKING sets
// allocator.backing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/roach88/paramunit/internal/guardmem"
	"github.com/roach88/paramunit/internal/report"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "PARAMUNIT_"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds every setting of a run.
type Config struct {
	Format      string          `koanf:"format"`
	Color       string          `koanf:"color"`
	Filter      string          `koanf:"filter"`
	LogLevel    string          `koanf:"log_level"`
	Progress    bool            `koanf:"progress"`
	Table       bool            `koanf:"table"`
	MetricsFile string          `koanf:"metrics_file"`
	Allocator   AllocatorConfig `koanf:"allocator"`
}

// AllocatorConfig selects the memory behind T.Alloc.
type AllocatorConfig struct {
	Backing string `koanf:"backing"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format:    report.FormatText,
		Color:     ColorAuto,
		LogLevel:  "warn",
		Progress:  true,
		Table:     true,
		Allocator: AllocatorConfig{Backing: guardmem.BackingHeap},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when path is empty), the environment and overrides, then validates it.
// Override keys use the koanf dotted form, e.g. "allocator.backing".
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	for key, val := range overrides {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(report.Formats, c.Format) {
		errs = append(errs, fmt.Errorf("invalid format %q: must be one of %v", c.Format, report.Formats))
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		errs = append(errs, fmt.Errorf("invalid color %q: must be auto, always or never", c.Color))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := guardmem.BackingByName(c.Allocator.Backing); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// UseColor resolves the color mode given whether output is a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
