package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"cratekeeper/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Vetting.FuzzyThreshold != 0.80 {
		t.Fatalf("expected default fuzzy threshold, got %v", cfg.Vetting.FuzzyThreshold)
	}
	if cfg.Vetting.FuzzyFloor != 0.70 {
		t.Fatalf("expected default fuzzy floor, got %v", cfg.Vetting.FuzzyFloor)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
database_dir = "` + dir + `/db"

[vetting]
fuzzy_threshold = 0.9
fuzzy_floor = 0.6

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Vetting.FuzzyThreshold != 0.9 {
		t.Fatalf("expected threshold 0.9, got %v", cfg.Vetting.FuzzyThreshold)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
	if cfg.Paths.DatabaseDir != filepath.Join(dir, "db") {
		t.Fatalf("unexpected database dir %q", cfg.Paths.DatabaseDir)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[vetting]
fuzzy_threshold = 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for threshold > 1")
	}
}

func TestNormalizeExtensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[library]
audio_extensions = ["MP3", ".Flac", " "]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{".mp3", ".flac"}
	if len(cfg.Library.AudioExtensions) != len(want) {
		t.Fatalf("unexpected extensions %v", cfg.Library.AudioExtensions)
	}
	for i, ext := range want {
		if cfg.Library.AudioExtensions[i] != ext {
			t.Fatalf("expected %q at %d, got %v", ext, i, cfg.Library.AudioExtensions)
		}
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample to load cleanly, exists=%v err=%v", exists, err)
	}
}
