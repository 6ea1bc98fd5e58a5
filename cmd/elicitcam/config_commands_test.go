package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"elicitcam/internal/corpus"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestConfigInitRefusesExistingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config file")
	}

	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestPosesOutputFileNumbering(t *testing.T) {
	cases := map[string]string{
		"poses":     "d4_openai_poses_descriptions.csv",
		"landmarks": "d5_openai_landmarks_descriptions.csv",
		"combined":  "d6_openai_combined_descriptions.csv",
	}
	for stage, want := range cases {
		parsed, err := corpus.ParseStage(stage)
		if err != nil {
			t.Fatalf("parse stage %q: %v", stage, err)
		}
		if got := posesOutputFile(parsed); got != want {
			t.Errorf("stage %q: got %q, want %q", stage, got, want)
		}
	}
}
