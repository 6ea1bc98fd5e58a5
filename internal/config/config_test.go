package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.OpenAI.MaxTokens != 200 {
		t.Fatalf("unexpected model defaults %+v", cfg.OpenAI)
	}
	if cfg.Annotate.SampleCap != 50 {
		t.Fatalf("unexpected sample cap %d", cfg.Annotate.SampleCap)
	}
}

func TestLoadParsesTOMLAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "elicitcam.toml")
	content := strings.Join([]string{
		"[paths]",
		`images_dir = "frames"`,
		"[annotate]",
		"sample_cap = 25",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Annotate.SampleCap != 25 {
		t.Fatalf("sample cap not applied: %d", cfg.Annotate.SampleCap)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("log format not applied: %q", cfg.Logging.Format)
	}
	if !filepath.IsAbs(cfg.Paths.ImagesDir) || filepath.Base(cfg.Paths.ImagesDir) != "frames" {
		t.Fatalf("images dir should be expanded, got %q", cfg.Paths.ImagesDir)
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file should report exists=false")
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("defaults should apply, got model %q", cfg.OpenAI.Model)
	}
}

func TestNormalizeAppliesEnvFallbacks(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("AZURE_OPENAI_API_KEY", "")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")

	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.OpenAI.APIKey != "env-key" {
		t.Fatalf("env fallback not applied: %q", cfg.OpenAI.APIKey)
	}

	cfg = Default()
	cfg.OpenAI.APIKey = "file-key"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.OpenAI.APIKey != "file-key" {
		t.Fatalf("file value should win over env, got %q", cfg.OpenAI.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Annotate.SampleCap = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero sample cap")
	}

	cfg = Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = Default()
	cfg.Journal.Enabled = true
	cfg.Journal.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled journal without path")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(raw), "[openai]") {
		t.Fatal("sample should contain the openai section")
	}
}
