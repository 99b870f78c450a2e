package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"morph/internal/convert"
	"morph/internal/fileutil"
	"morph/internal/history"
	"morph/internal/logging"
	"morph/internal/notifications"
	"morph/internal/session"
	"morph/internal/tempfiles"
	"morph/internal/workerpool"
)

// Fetch writes the source bytes to the allocated input path. The transport
// supplies it, keeping download mechanics out of the workflow.
type Fetch func(ctx context.Context, inputPath string) error

// Deliver hands the finished artifact back to the transport before the temp
// files are released.
type Deliver func(ctx context.Context, outputPath string) error

// Request is one confirmed conversion to carry out.
type Request struct {
	Selection session.Selection
	SizeHint  int64
	Fetch     Fetch
	Deliver   Deliver
}

// Result summarizes a successful conversion.
type Result struct {
	OutputBytes int64
	Duration    time.Duration
}

// Manager coordinates temp allocation, pooled execution, ledger recording
// and delivery for confirmed selections.
type Manager struct {
	dispatcher *convert.Dispatcher
	pool       *workerpool.Pool
	temp       *tempfiles.Manager
	store      *history.Store
	notifier   notifications.Service
	timeout    time.Duration
	logger     *slog.Logger
}

// NewManager constructs a workflow manager. store may be nil when the ledger
// is disabled; timeout zero means conversions run unbounded.
func NewManager(
	dispatcher *convert.Dispatcher,
	pool *workerpool.Pool,
	temp *tempfiles.Manager,
	store *history.Store,
	notifier notifications.Service,
	timeout time.Duration,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		dispatcher: dispatcher,
		pool:       pool,
		temp:       temp,
		store:      store,
		notifier:   notifier,
		timeout:    timeout,
		logger:     logging.NewComponentLogger(logger, "workflow"),
	}
}

// Execute carries out one confirmed selection end to end. Errors come back
// classified; the caller renders them for the user. Temp files never outlive
// the call.
func (m *Manager) Execute(ctx context.Context, req Request) (Result, error) {
	sel := req.Selection
	start := time.Now()

	alloc, err := m.temp.Allocate(sel.OwnerID, sel.SourceExt, sel.TargetExt, req.SizeHint)
	if err != nil {
		err = ensureClassified("allocate workspace", err)
		m.finishFailure(ctx, sel, 0, time.Since(start), err)
		return Result{}, err
	}
	defer m.temp.Release(alloc.InputPath, alloc.OutputPath)

	logger := m.logger.With(
		logging.String("job_id", alloc.JobID),
		logging.String("owner", sel.OwnerID),
		logging.String("source", sel.SourceExt),
		logging.String("target", sel.TargetExt),
	)
	logger.Info("conversion started", logging.String("file", sel.FileName))

	if req.Fetch == nil {
		err = convert.Wrap(convert.ErrUnexpectedFault, "workflow", "no fetch callback", nil)
		m.finishFailure(ctx, sel, 0, time.Since(start), err)
		return Result{}, err
	}
	if err := req.Fetch(ctx, alloc.InputPath); err != nil {
		err = ensureClassified("fetch source", err)
		logger.Error("source fetch failed", logging.Error(err))
		m.finishFailure(ctx, sel, fileutil.FileSize(alloc.InputPath), time.Since(start), err)
		return Result{}, err
	}
	inputBytes := fileutil.FileSize(alloc.InputPath)

	err = m.pool.Do(ctx, func(ctx context.Context) error {
		if m.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}
		return m.runConversion(ctx, convert.Job{
			InputPath:  alloc.InputPath,
			OutputPath: alloc.OutputPath,
			SourceExt:  sel.SourceExt,
			TargetExt:  sel.TargetExt,
		})
	})
	if err != nil {
		err = ensureClassified("convert", err)
		logger.Error("conversion failed",
			logging.String("kind", convert.Kind(err)),
			logging.Error(err))
		m.finishFailure(ctx, sel, inputBytes, time.Since(start), err)
		return Result{}, err
	}

	outputBytes := fileutil.FileSize(alloc.OutputPath)
	if req.Deliver != nil {
		if err := req.Deliver(ctx, alloc.OutputPath); err != nil {
			err = ensureClassified("deliver artifact", err)
			logger.Error("artifact delivery failed", logging.Error(err))
			m.finishFailure(ctx, sel, inputBytes, time.Since(start), err)
			return Result{}, err
		}
	}

	duration := time.Since(start)
	logger.Info("conversion completed",
		logging.Int64("output_bytes", outputBytes),
		logging.Duration("duration", duration))
	m.record(ctx, sel, history.OutcomeCompleted, "", inputBytes, outputBytes, duration)
	if m.notifier != nil {
		if nerr := m.notifier.NotifyConversionCompleted(ctx, sel.OwnerID, sel.FileName, sel.TargetExt); nerr != nil {
			m.logger.Warn("completion notification failed", logging.Error(nerr))
		}
	}
	return Result{OutputBytes: outputBytes, Duration: duration}, nil
}

// runConversion guards against converter panics so one corrupt input cannot
// take the worker down.
func (m *Manager) runConversion(ctx context.Context, job convert.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("converter panicked", logging.Any("panic", r))
			err = convert.Wrap(convert.ErrUnexpectedFault, "workflow", "converter panic", nil)
		}
	}()
	if _, err := m.dispatcher.Dispatch(ctx, job); err != nil {
		return err
	}
	return convert.VerifyOutput(job.OutputPath)
}

func (m *Manager) finishFailure(ctx context.Context, sel session.Selection, inputBytes int64, duration time.Duration, err error) {
	m.record(ctx, sel, history.OutcomeFailed, convert.Kind(err), inputBytes, 0, duration)
	if m.notifier != nil {
		if nerr := m.notifier.NotifyConversionFailed(ctx, sel.OwnerID, sel.FileName, convert.Kind(err)); nerr != nil {
			m.logger.Warn("failure notification failed", logging.Error(nerr))
		}
	}
}

func (m *Manager) record(ctx context.Context, sel session.Selection, outcome history.Outcome, errorKind string, inputBytes, outputBytes int64, duration time.Duration) {
	if m.store == nil {
		return
	}
	if _, err := m.store.Record(ctx, history.Entry{
		OwnerID:     sel.OwnerID,
		FileName:    sel.FileName,
		SourceExt:   sel.SourceExt,
		TargetExt:   sel.TargetExt,
		Outcome:     outcome,
		ErrorKind:   errorKind,
		InputBytes:  inputBytes,
		OutputBytes: outputBytes,
		Duration:    duration,
	}); err != nil {
		m.logger.Warn("ledger record failed", logging.Error(err))
	}
}

func ensureClassified(operation string, err error) error {
	if err == nil {
		return nil
	}
	if kind := convert.Kind(err); kind != "unexpected_fault" {
		return err
	}
	if errors.Is(err, convert.ErrUnexpectedFault) {
		return err
	}
	return convert.Wrap(convert.ErrUnexpectedFault, "workflow", operation, err)
}
