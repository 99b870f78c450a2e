package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"morph/internal/bot"
	"morph/internal/config"
	"morph/internal/daemon"
	"morph/internal/deps"
	"morph/internal/history"
	"morph/internal/logging"
	"morph/internal/notifications"
	"morph/internal/services"
	"morph/internal/session"
	"morph/internal/tempfiles"
	"morph/internal/workerpool"
	"morph/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if strings.TrimSpace(cfg.Matrix.Homeserver) == "" {
		log.Fatal("matrix.homeserver is not configured; the daemon needs a homeserver to connect to")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	statuses := deps.CheckBinaries(deps.ForConfig(cfg))
	for _, status := range statuses {
		if !status.Available {
			logger.Warn("external tool unavailable",
				logging.String("tool", status.Name),
				logging.String("detail", status.Detail),
				logging.Bool("optional", status.Optional))
		}
	}
	if err := deps.MissingRequired(statuses); err != nil {
		logger.Error("preflight failed", logging.Error(err))
		log.Fatalf("preflight: %v", err)
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg)
		if err != nil {
			log.Fatalf("open history ledger: %v", err)
		}
	}

	temp, err := tempfiles.NewManager(cfg.Paths.TempDir, logger)
	if err != nil {
		log.Fatalf("prepare temp workspace: %v", err)
	}

	notifier := notifications.NewService(cfg)
	pool := workerpool.New(cfg.Limits.Workers, logger)
	dispatcher := services.BuildDispatcher(cfg)
	wf := workflow.NewManager(
		dispatcher,
		pool,
		temp,
		store,
		notifier,
		time.Duration(cfg.Limits.TimeoutSeconds)*time.Second,
		logger,
	)
	sessions := session.NewManager(cfg.MaxFileBytes(), logger)

	b, err := bot.New(cfg, sessions, wf, logger)
	if err != nil {
		log.Fatalf("create bot: %v", err)
	}

	d, err := daemon.New(cfg, store, pool, b, notifier, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("daemon exited", logging.Error(err))
		log.Fatalf("daemon: %v", err)
	}
	logger.Info("morphd shut down")
}
