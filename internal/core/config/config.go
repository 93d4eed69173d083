// Package config loads tilecore's runtime tunables: the core's split
// and resize constants (spec.md §6) plus the ambient settings the
// daemon needs (data directory, log level, IPC listen address).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Tunables holds every tilecore tunable, layered (lowest to highest
// precedence) from built-in defaults, an optional YAML file, and
// TILECORE_-prefixed environment variables.
type Tunables struct {
	GapPX int `koanf:"gap_px"`

	MinRatio float64 `koanf:"min_ratio"`
	MaxRatio float64 `koanf:"max_ratio"`

	ResizeIntervalMS   int     `koanf:"resize_interval_ms"`
	ResizeMinPixels    float64 `koanf:"resize_min_pixels"`
	ResizeRatioEpsilon float64 `koanf:"resize_ratio_epsilon"`

	AspectWideThreshold   float64 `koanf:"aspect_wide_threshold"`
	AspectMediumThreshold float64 `koanf:"aspect_medium_threshold"`

	DataDir      string `koanf:"data_dir"`
	LogLevel     string `koanf:"log_level"`
	ListenSocket string `koanf:"listen_socket"`
}

func defaults() map[string]any {
	return map[string]any{
		"gap_px":                  0,
		"min_ratio":               0.05,
		"max_ratio":               0.95,
		"resize_interval_ms":      16,
		"resize_min_pixels":       1.0,
		"resize_ratio_epsilon":    0.0005,
		"aspect_wide_threshold":   3.2,
		"aspect_medium_threshold": 2.2,
		"data_dir":                defaultDataDir(),
		"log_level":               "info",
		"listen_socket":           "tilecore.sock",
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "tilecore")
	}
	return filepath.Join(home, ".local", "share", "tilecore")
}

// Load layers built-in defaults, then path (a YAML file, skipped if
// path is empty or does not exist), then TILECORE_-prefixed
// environment variables, and returns a clamped Tunables. Out-of-range
// values are clamped with a logged warning rather than rejected,
// matching the core's ClampedInput philosophy (spec.md §7) rather than
// failing daemon startup over a single bad knob.
func Load(path string) (*Tunables, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("TILECORE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TILECORE_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var t Tunables
	if err := k.Unmarshal("", &t); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	t.clamp()
	return &t, nil
}

// DBPath returns the path to the SQLite database file under DataDir.
func (t *Tunables) DBPath() string {
	return filepath.Join(t.DataDir, "tilecore.db")
}

// SocketPath returns the path to the Unix domain socket under
// DataDir, named by ListenSocket.
func (t *Tunables) SocketPath() string {
	return filepath.Join(t.DataDir, t.ListenSocket)
}

func (t *Tunables) clamp() {
	clampIntMin(&t.GapPX, 0, "gap_px")
	clampFloat(&t.MinRatio, 0.01, 0.49, "min_ratio")
	clampFloat(&t.MaxRatio, 0.51, 0.99, "max_ratio")
	clampIntMin(&t.ResizeIntervalMS, 0, "resize_interval_ms")
	clampFloatMin(&t.ResizeMinPixels, 0, "resize_min_pixels")
	clampFloatMin(&t.ResizeRatioEpsilon, 0, "resize_ratio_epsilon")
	if t.DataDir == "" {
		t.DataDir = defaultDataDir()
	}
	if t.ListenSocket == "" {
		t.ListenSocket = "tilecore.sock"
	}
}

func clampIntMin(v *int, min int, name string) {
	if *v < min {
		slog.Warn("tunable below minimum, clamping", "name", name, "value", *v, "min", min)
		*v = min
	}
}

func clampFloatMin(v *float64, min float64, name string) {
	if *v < min {
		slog.Warn("tunable below minimum, clamping", "name", name, "value", *v, "min", min)
		*v = min
	}
}

func clampFloat(v *float64, min, max float64, name string) {
	switch {
	case *v < min:
		slog.Warn("tunable below minimum, clamping", "name", name, "value", *v, "min", min)
		*v = min
	case *v > max:
		slog.Warn("tunable above maximum, clamping", "name", name, "value", *v, "max", max)
		*v = max
	}
}
