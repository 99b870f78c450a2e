package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"morph/internal/bot"
	"morph/internal/config"
	"morph/internal/history"
	"morph/internal/logging"
	"morph/internal/notifications"
	"morph/internal/workerpool"
)

// Daemon coordinates the bot and its supporting services and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *history.Store
	pool     *workerpool.Pool
	bot      *bot.Bot
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon with initialized dependencies. store may be nil
// when the ledger is disabled.
func New(cfg *config.Config, store *history.Store, pool *workerpool.Pool, b *bot.Bot, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || pool == nil || b == nil || logger == nil {
		return nil, errors.New("daemon requires config, pool, bot, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "morphd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		pool:     pool,
		bot:      b,
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run acquires the instance lock, starts the pool and blocks in the bot's
// sync loop until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another morph daemon instance is already running")
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	d.running.Store(true)
	defer d.running.Store(false)

	d.pool.Start()
	defer d.pool.Close()

	d.logger.Info("morph daemon started", logging.String("lock", d.lockPath))
	if d.notifier != nil {
		if nerr := d.notifier.NotifyDaemonStarted(ctx, d.cfg.Matrix.Homeserver); nerr != nil {
			d.logger.Warn("startup notification failed", logging.Error(nerr))
		}
	}

	runErr := d.bot.Run(ctx)

	if d.notifier != nil {
		if nerr := d.notifier.NotifyDaemonStopped(context.Background()); nerr != nil {
			d.logger.Warn("shutdown notification failed", logging.Error(nerr))
		}
	}
	d.logger.Info("morph daemon stopped")
	return runErr
}

// Running reports whether the daemon currently holds the lifecycle.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the path of the single-instance lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
