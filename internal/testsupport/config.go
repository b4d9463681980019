package testsupport

import (
	"path/filepath"
	"testing"

	"cratekeeper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatabaseDir = filepath.Join(base, "db")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithFuzzyThreshold overrides the default vetting threshold.
func WithFuzzyThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Vetting.FuzzyThreshold = threshold
	}
}

// WithFuzzyFloor overrides the fuzzy floor.
func WithFuzzyFloor(floor float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Vetting.FuzzyFloor = floor
	}
}
