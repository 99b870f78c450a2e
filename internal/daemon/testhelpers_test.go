package daemon

import (
	"testing"

	"morph/internal/bot"
	"morph/internal/config"
	"morph/internal/logging"
	"morph/internal/session"
)

func newTestBot(t *testing.T, cfg *config.Config) *bot.Bot {
	t.Helper()
	sessions := session.NewManager(cfg.MaxFileBytes(), logging.NewNop())
	b, err := bot.New(cfg, sessions, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("bot.New: %v", err)
	}
	return b
}
