package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Outcome labels used by run history and metrics.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeTimedOut  = "timed_out"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	wrapped := &detailError{marker: marker, detail: detail, message: strings.TrimSpace(message), cause: err}
	return wrapped
}

// Details returns the user-facing message carried by an error built with Wrap,
// falling back to the full error text.
func Details(err error) string {
	if err == nil {
		return ""
	}
	var de *detailError
	if errors.As(err, &de) && de.message != "" {
		return de.message
	}
	return err.Error()
}

// OutcomeFor maps a pipeline error to its outcome label.
func OutcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, ErrValidation):
		return OutcomeRejected
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimedOut
	default:
		return OutcomeFailed
	}
}

type detailError struct {
	marker  error
	detail  string
	message string
	cause   error
}

func (e *detailError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.marker, e.detail, e.cause)
	}
	return fmt.Sprintf("%v: %s", e.marker, e.detail)
}

func (e *detailError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.marker}
	}
	return []error{e.marker, e.cause}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
