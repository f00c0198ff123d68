package draft

import (
	"errors"
	"fmt"
)

// FieldError names a missing or invalid draft field, surfaced verbatim to
// the client.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError wraps the first violated submission rule.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code, msg string) error {
	return &ValidationError{Code: code, Message: msg}
}

var (
	// ErrDraftNotFound means the session expired or never existed.
	ErrDraftNotFound = errors.New("booking draft not found or expired")

	// ErrDraftTerminal means the draft already submitted successfully.
	ErrDraftTerminal = errors.New("booking draft already submitted")

	// ErrSubmissionInFlight means a submission for this draft is already
	// running; the second attempt is a no-op.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrStepLocked means a forward step's prerequisites are not met.
	ErrStepLocked = errors.New("previous steps incomplete")

	// ErrUploadAborted means the caller chose to abort after an image
	// upload failure.
	ErrUploadAborted = errors.New("submission aborted after image upload failure")
)
