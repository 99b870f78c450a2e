package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"morph/internal/config"
)

func TestDefaultsSurviveValidation(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config must validate: %v", err)
	}
	if cfg.MaxFileBytes() != 50<<20 {
		t.Errorf("MaxFileBytes = %d, want %d", cfg.MaxFileBytes(), 50<<20)
	}
}

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[limits]",
		"max_file_size_mb = 10",
		"workers = 2",
		"",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("Load should report the resolved file, got exists=%v path=%q", exists, resolved)
	}
	if cfg.Limits.MaxFileSizeMB != 10 || cfg.Limits.Workers != 2 {
		t.Errorf("limits = %+v, want overrides applied", cfg.Limits)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging.format = %q, want json", cfg.Logging.Format)
	}
	// Untouched sections keep defaults.
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Errorf("tools.ffmpeg = %q, want default", cfg.Tools.FFmpeg)
	}
}

func TestLoadExpandsTilde(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[paths]\ntemp_dir = \"~/morph-tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.HasPrefix(cfg.Paths.TempDir, "~") {
		t.Errorf("temp_dir %q not expanded", cfg.Paths.TempDir)
	}
	if !filepath.IsAbs(cfg.Paths.TempDir) {
		t.Errorf("temp_dir %q not absolute", cfg.Paths.TempDir)
	}
}

func TestLoadRejectsPartialMatrixSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[matrix]\nhomeserver = \"https://example.org\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for incomplete matrix section")
	}
}

func TestMatrixTokenEnvFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[matrix]\nhomeserver = \"https://example.org\"\nuser_id = \"@morph:example.org\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MORPH_MATRIX_TOKEN", "secret-token")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Matrix.AccessToken != "secret-token" {
		t.Errorf("access token = %q, want env fallback", cfg.Matrix.AccessToken)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config must load cleanly, got exists=%v err=%v", exists, err)
	}
}
