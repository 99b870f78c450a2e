// Package tempfiles owns the temporary artifacts of conversion jobs.
//
// Every job gets a paired input/output path whose names embed the owning user
// and a fresh uuid, so concurrent jobs can never collide, including multiple
// jobs for the same user. Release is best-effort: deletion failures are
// logged, never raised, because cleanup runs on every exit path and must not
// mask the primary error.
package tempfiles

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"morph/internal/logging"
	"morph/internal/registry"
)

// floor below which Allocate refuses to place new artifacts, regardless of
// the size hint.
const minFreeBytes = 64 << 20

// Allocation is one job's paired temp paths.
type Allocation struct {
	JobID      string
	InputPath  string
	OutputPath string
}

// Manager allocates and reclaims per-job temp paths under a single directory.
type Manager struct {
	dir    string
	logger *slog.Logger
}

// NewManager ensures the temp directory exists and returns a manager for it.
func NewManager(dir string, logger *slog.Logger) (*Manager, error) {
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir %q: %w", dir, err)
	}
	return &Manager{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "tempfiles"),
	}, nil
}

// Dir returns the managed directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Allocate reserves collision-resistant input and output paths for one job.
// sizeHint is the expected input size in bytes; the temp volume must have
// room for the input, the output, and headroom, or allocation fails before
// any download starts.
func (m *Manager) Allocate(userID, sourceExt, targetExt string, sizeHint int64) (Allocation, error) {
	required := sizeHint * 3
	if required < minFreeBytes {
		required = minFreeBytes
	}
	if err := m.checkFreeSpace(uint64(required)); err != nil {
		return Allocation{}, err
	}

	jobID := uuid.NewString()
	owner := sanitizeOwner(userID)
	alloc := Allocation{
		JobID:      jobID,
		InputPath:  filepath.Join(m.dir, fmt.Sprintf("in_%s_%s.%s", owner, jobID, registry.NormalizeExtension(sourceExt))),
		OutputPath: filepath.Join(m.dir, fmt.Sprintf("out_%s_%s.%s", owner, jobID, registry.NormalizeExtension(targetExt))),
	}
	return alloc, nil
}

// Release deletes the given paths, logging anything that refuses to go away.
// Missing paths are fine; the conversion may never have produced them.
func (m *Manager) Release(paths ...string) {
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		err := os.Remove(path)
		switch {
		case err == nil:
			m.logger.Debug("temp file removed", logging.String("path", path))
		case errors.Is(err, os.ErrNotExist):
		default:
			m.logger.Warn("temp file not removed", logging.String("path", path), logging.Error(err))
		}
	}
}

func (m *Manager) checkFreeSpace(required uint64) error {
	var stat unix.Statfs_t
	if err := unix.Statfs(m.dir, &stat); err != nil {
		// Treat an unreadable filesystem as full rather than guessing.
		return fmt.Errorf("statfs %q: %w", m.dir, err)
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < required {
		return fmt.Errorf("temp volume %q has %d bytes free, need %d", m.dir, free, required)
	}
	return nil
}

// sanitizeOwner keeps temp names filesystem-safe; chat user ids carry
// characters like '@' and ':'.
func sanitizeOwner(userID string) string {
	var builder strings.Builder
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}
	if builder.Len() == 0 {
		return "anon"
	}
	return builder.String()
}
