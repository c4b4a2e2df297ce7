package search

import "errors"

// Sentinel errors returned by search backends.
var (
	ErrBackendUnavailable = errors.New("search backend unavailable")
	ErrInvalidQuery       = errors.New("invalid search query")
	ErrIndexingFailed     = errors.New("failed to index verses")
)

// Error records a failed search operation.
type Error struct {
	Op  string // Operation that failed (e.g., "Search", "Build")
	Err error  // Underlying error
	Msg string // Optional context
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Op + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
