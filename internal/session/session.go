package session

import (
	"log/slog"
	"sync"
	"time"

	"morph/internal/convert"
	"morph/internal/logging"
	"morph/internal/registry"
)

// PendingRequest records a submitted file awaiting a target-format choice.
// Owned exclusively by the Manager; never mutated after creation.
type PendingRequest struct {
	OwnerID    string
	FileHandle string
	FileName   string
	SourceExt  string
	Size       int64
	CreatedAt  time.Time
}

// Offer is returned when a supported file arrives: the stored request plus
// the ordered target list for presentation.
type Offer struct {
	Category registry.Category
	Emoji    string
	Targets  []registry.Format
}

// Selection is returned when a valid format choice resolves a pending
// request. It carries everything dispatch needs; the session slot is already
// clear by the time the caller sees it.
type Selection struct {
	OwnerID    string
	FileHandle string
	FileName   string
	SourceExt  string
	TargetExt  string
	Size       int64
}

// Manager owns the per-user pending-request table.
type Manager struct {
	maxFileBytes int64
	logger       *slog.Logger

	mu      sync.Mutex
	pending map[string]PendingRequest
}

// NewManager constructs a session manager enforcing the given size limit.
func NewManager(maxFileBytes int64, logger *slog.Logger) *Manager {
	return &Manager{
		maxFileBytes: maxFileBytes,
		logger:       logging.NewComponentLogger(logger, "session"),
		pending:      make(map[string]PendingRequest),
	}
}

// MaxFileBytes reports the configured size limit.
func (m *Manager) MaxFileBytes() int64 {
	return m.maxFileBytes
}

// OnFileReceived validates an incoming file and stores a pending request for
// the user, overwriting any prior one. The size limit applies before
// classification.
func (m *Manager) OnFileReceived(userID, handle, fileName, ext string, size int64) (Offer, error) {
	if m.maxFileBytes > 0 && size > m.maxFileBytes {
		return Offer{}, convert.Wrap(convert.ErrSizeExceeded, "session", fileName, nil)
	}

	normalized := registry.NormalizeExtension(ext)
	category := registry.Classify(normalized)
	targets := registry.LegalTargets(normalized)
	if !category.Known() || len(targets) == 0 {
		return Offer{}, convert.Wrap(convert.ErrUnsupportedFormat, "session", fileName, nil)
	}

	request := PendingRequest{
		OwnerID:    userID,
		FileHandle: handle,
		FileName:   fileName,
		SourceExt:  normalized,
		Size:       size,
		CreatedAt:  time.Now().UTC(),
	}

	m.mu.Lock()
	_, replaced := m.pending[userID]
	m.pending[userID] = request
	m.mu.Unlock()

	m.logger.Info("pending request stored",
		logging.String("user", userID),
		logging.String("ext", normalized),
		logging.Bool("replaced", replaced),
	)

	return Offer{
		Category: category,
		Emoji:    registry.Emoji(category),
		Targets:  targets,
	}, nil
}

// OnFormatChosen resolves the user's pending request against the chosen
// target. The legal set is recomputed from the stored source extension, so a
// target that is legal for some other format still fails here. On success the
// slot is cleared before returning, which makes a repeated selection stale
// rather than re-entrant.
func (m *Manager) OnFormatChosen(userID, targetExt string) (Selection, error) {
	target := registry.NormalizeExtension(targetExt)

	m.mu.Lock()
	request, ok := m.pending[userID]
	if ok {
		delete(m.pending, userID)
	}
	m.mu.Unlock()

	if !ok {
		return Selection{}, convert.Wrap(convert.ErrStaleSelection, "session", "no pending request", nil)
	}
	if !registry.IsLegalTarget(request.SourceExt, target) {
		m.logger.Warn("illegal target for stored request",
			logging.String("user", userID),
			logging.String("source", request.SourceExt),
			logging.String("target", target),
		)
		return Selection{}, convert.Wrap(convert.ErrStaleSelection, "session", "target not in legal set", nil)
	}

	return Selection{
		OwnerID:    request.OwnerID,
		FileHandle: request.FileHandle,
		FileName:   request.FileName,
		SourceExt:  request.SourceExt,
		TargetExt:  target,
		Size:       request.Size,
	}, nil
}

// OnCancel clears any pending request for the user. It never fails; the
// return value reports whether a request existed.
func (m *Manager) OnCancel(userID string) bool {
	m.mu.Lock()
	_, existed := m.pending[userID]
	delete(m.pending, userID)
	m.mu.Unlock()
	return existed
}

// Pending reports whether the user currently has a request awaiting a choice.
func (m *Manager) Pending(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[userID]
	return ok
}
