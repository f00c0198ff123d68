package orders

import (
	"errors"
	"fmt"
	"strings"

	"homely/models"
)

var (
	// ErrInternal is returned on client-side request failures.
	ErrInternal = errors.New("orders client: internal error")

	// ErrUnavailable is returned when the submission endpoint cannot be
	// reached at all.
	ErrUnavailable = errors.New("orders service unavailable")

	// ErrRecurringTimeout is returned for a 504-class timeout on a
	// recurring submission. The series may have been partially created
	// server-side, so the caller must tell the user to verify order state
	// out-of-band instead of retrying.
	ErrRecurringTimeout = errors.New("recurring submission timed out; order state unknown")
)

// SubmissionError is a structured failure from the submission endpoint.
// The server responds with one of four shapes, parsed in order of
// specificity: field-level validation messages, per-worker scheduling
// conflicts, a generic error list, or a single message with a machine code.
type SubmissionError struct {
	FieldErrors []string                `json:"errors,omitempty"`
	Conflicts   []models.WorkerConflict `json:"conflicts,omitempty"`
	Messages    []string                `json:"messages,omitempty"`
	Message     string                  `json:"message,omitempty"`
	Code        string                  `json:"code,omitempty"`
	Status      int                     `json:"-"`
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed (%d): %s", e.Status, e.UserMessage())
}

// UserMessage picks the most specific message available, falling back to a
// generic one when the response carried nothing usable.
func (e *SubmissionError) UserMessage() string {
	switch {
	case len(e.FieldErrors) > 0:
		return strings.Join(e.FieldErrors, "; ")
	case len(e.Conflicts) > 0:
		parts := make([]string, 0, len(e.Conflicts))
		for _, c := range e.Conflicts {
			parts = append(parts, fmt.Sprintf("%s: %s", c.WorkerID, c.Reason))
		}
		return strings.Join(parts, "; ")
	case len(e.Messages) > 0:
		return strings.Join(e.Messages, "; ")
	case e.Message != "":
		return e.Message
	}
	return "The booking could not be submitted. Please try again."
}
