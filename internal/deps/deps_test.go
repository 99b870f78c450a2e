package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"morph/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unconfigured", Command: "   "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected unconfigured command to be reported, got %#v", results[2])
	}
}

func TestForConfigUsesConfiguredCommands(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFmpeg = "/opt/ffmpeg/bin/ffmpeg"
	cfg.Tools.Pandoc = "pandoc-3"

	reqs := ForConfig(&cfg)
	byName := make(map[string]Requirement, len(reqs))
	for _, req := range reqs {
		byName[req.Name] = req
	}

	if byName["FFmpeg"].Command != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("FFmpeg command = %q", byName["FFmpeg"].Command)
	}
	if byName["Pandoc"].Command != "pandoc-3" {
		t.Fatalf("Pandoc command = %q", byName["Pandoc"].Command)
	}
	if !byName["XeLaTeX"].Optional {
		t.Fatal("expected xelatex to be optional")
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "FFmpeg", Available: true},
		{Name: "Pandoc", Available: false, Detail: `binary "pandoc" not found`},
		{Name: "XeLaTeX", Available: false, Optional: true, Detail: `binary "xelatex" not found`},
	}

	err := MissingRequired(statuses)
	if err == nil {
		t.Fatal("expected error for missing required binary")
	}
	if !strings.Contains(err.Error(), "Pandoc") {
		t.Fatalf("error %q should name Pandoc", err)
	}
	if strings.Contains(err.Error(), "XeLaTeX") {
		t.Fatalf("error %q must not name optional tools", err)
	}

	statuses[1].Available = true
	if err := MissingRequired(statuses); err != nil {
		t.Fatalf("expected nil when required tools present, got %v", err)
	}
}
