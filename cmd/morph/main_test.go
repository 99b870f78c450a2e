package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, history bool) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "morph.toml")
	content := fmt.Sprintf(`[paths]
temp_dir = %q
log_dir = %q

[history]
enabled = %v
path = %q
`,
		filepath.Join(dir, "tmp"),
		filepath.Join(dir, "logs"),
		history,
		filepath.Join(dir, "history.db"),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestFormatsCommandListsCategories(t *testing.T) {
	out, err := runCommand(t, "formats")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	for _, want := range []string{"image", "audio", "video", "document", "spreadsheet", "jpg", "mp3", "xlsx"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Fatalf("formats output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertCommandRejectsIllegalTarget(t *testing.T) {
	cfgPath := writeTestConfig(t, false)
	input := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(input, []byte("not really a png"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	_, err := runCommand(t, "--config", cfgPath, "convert", input, "mp3")
	if err == nil {
		t.Fatal("expected error for illegal target")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("legal targets")) {
		t.Fatalf("error %q should list legal targets", err)
	}
}

func TestConvertCommandRejectsUnsupportedSource(t *testing.T) {
	cfgPath := writeTestConfig(t, false)
	input := filepath.Join(t.TempDir(), "archive.tar")
	if err := os.WriteFile(input, []byte("data"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	_, err := runCommand(t, "--config", cfgPath, "convert", input, "pdf")
	if err == nil {
		t.Fatal("expected error for unsupported source format")
	}
}

func TestHistoryCommandRequiresEnabledLedger(t *testing.T) {
	cfgPath := writeTestConfig(t, false)
	_, err := runCommand(t, "--config", cfgPath, "history")
	if err == nil {
		t.Fatal("expected error when ledger disabled")
	}
}

func TestHistoryCommandEmptyLedger(t *testing.T) {
	cfgPath := writeTestConfig(t, true)
	out, err := runCommand(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("No conversions recorded")) {
		t.Fatalf("unexpected history output:\n%s", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("Wrote sample configuration")) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists without --overwrite")
	}
}
