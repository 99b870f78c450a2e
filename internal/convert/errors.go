package convert

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying every failure the conversion core can surface.
// Callers test with errors.Is; user-facing rendering happens at the transport
// boundary.
var (
	ErrSizeExceeded      = errors.New("file size exceeded")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrStaleSelection    = errors.New("stale selection")
	ErrToolFailure       = errors.New("conversion tool failure")
	ErrUnexpectedFault   = errors.New("unexpected fault")
)

// Wrap tags err with the provided sentinel marker and contextual detail.
// A nil marker defaults to ErrUnexpectedFault.
func Wrap(marker error, component, operation string, err error) error {
	if marker == nil {
		marker = ErrUnexpectedFault
	}
	detail := buildDetail(component, operation)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Terminal reports whether the error is a validation outcome that should be
// shown to the user as-is, with no conversion attempted and nothing retried.
func Terminal(err error) bool {
	return errors.Is(err, ErrSizeExceeded) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrStaleSelection)
}

// Kind returns the taxonomy name for an error, for logging and the history
// ledger. Unclassified errors report as unexpected faults.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSizeExceeded):
		return "size_exceeded"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrStaleSelection):
		return "stale_selection"
	case errors.Is(err, ErrToolFailure):
		return "tool_failure"
	default:
		return "unexpected_fault"
	}
}

func buildDetail(component, operation string) string {
	parts := make([]string, 0, 2)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "conversion failure"
	}
	return strings.Join(parts, ": ")
}
