package daemon

import (
	"testing"

	"morph/internal/config"
	"morph/internal/logging"
	"morph/internal/workerpool"
)

func TestNewRequiresDependencies(t *testing.T) {
	cfg := config.Default()
	logger := logging.NewNop()
	pool := workerpool.New(1, logger)

	if _, err := New(nil, nil, pool, nil, nil, logger); err == nil {
		t.Fatal("expected error for missing config")
	}
	if _, err := New(&cfg, nil, nil, nil, nil, logger); err == nil {
		t.Fatal("expected error for missing pool")
	}
	if _, err := New(&cfg, nil, pool, nil, nil, logger); err == nil {
		t.Fatal("expected error for missing bot")
	}
}

func TestLockPathUnderLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Matrix.Homeserver = "https://matrix.example.org"
	cfg.Matrix.UserID = "@morph:example.org"
	cfg.Matrix.AccessToken = "token"

	// Bot construction only needs valid client parameters, no network.
	b := newTestBot(t, &cfg)

	d, err := New(&cfg, nil, workerpool.New(1, logging.NewNop()), b, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Running() {
		t.Fatal("daemon must not report running before Run")
	}
	if d.LockPath() == "" {
		t.Fatal("expected lock path")
	}
}
