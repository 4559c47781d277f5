package domain

import "errors"

// Sentinel errors for the collaborators around the matching core. The
// core itself never returns errors for business-rule failures; those
// are Rejected events (see RejectReason).
var (
	ErrBookNotFound      = errors.New("book_not_found")
	ErrBookAlreadyExists = errors.New("book_already_exists")
	ErrSequencerStopped  = errors.New("sequencer_stopped")
)

// ValidationError represents a malformed inbound request, detected
// before a command is even constructed. The handler layer maps these
// to HTTP status codes.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
