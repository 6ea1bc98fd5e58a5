// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"elicitcam/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test,
// so runs never touch the real dataset layout.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatasetDir = filepath.Join(base, "dataset")
	cfg.Paths.ImagesDir = filepath.Join(base, "dataset", "images")
	cfg.Paths.PosesDir = filepath.Join(base, "dataset", "jsons")
	cfg.Paths.DescriptionsDir = filepath.Join(base, "data", "descriptions")
	cfg.Paths.PredictionsDir = filepath.Join(base, "data", "predictions")
	cfg.Paths.LogDir = filepath.Join(base, "data", "logs")
	cfg.Journal.Enabled = false
	cfg.Journal.Path = filepath.Join(base, "data", "logs", "journal.db")
	cfg.OpenAI.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WriteConfig serializes cfg to a TOML file under a temp directory and
// returns its path, for tests that exercise the CLI's --config flag.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal test config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

// WithJournal enables the attempt journal on the test config.
func WithJournal() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Journal.Enabled = true
	}
}

// WithSampleCap overrides the frame sample cap on the test config.
func WithSampleCap(cap int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Annotate.SampleCap = cap
	}
}
