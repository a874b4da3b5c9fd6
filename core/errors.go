package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMailboxFull is returned by a send when the target lane is at
	// capacity and no room frees up within the backpressure timeout.
	ErrMailboxFull = errors.New("mailbox full")
	// ErrMailboxClosed is returned once a mailbox has been shut down; queued
	// entries are discarded and blocked takers are unblocked with it.
	ErrMailboxClosed = errors.New("mailbox closed")
)

// AlreadyExistsError reports a create for a runtime id that is currently
// alive in the registry.
type AlreadyExistsError struct {
	ID string
}

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("runtime %q already exists", e.ID)
}

// NotFoundError reports an operation against a runtime id that is absent
// from the registry.
type NotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("runtime %q not found", e.ID)
}

// ProcessingError is the failure a reducer surfaces for a single activity.
// It is captured into the runtime state and never propagated to the sender;
// the processing loop continues after recording it.
type ProcessingError struct {
	Message string
	Cause   error
}

// NewProcessingError creates a processing error with the given message.
func NewProcessingError(message string) *ProcessingError {
	return &ProcessingError{Message: message}
}

// NewProcessingErrorf creates a processing error from a format string.
func NewProcessingErrorf(format string, args ...any) *ProcessingError {
	return &ProcessingError{Message: fmt.Sprintf(format, args...)}
}

// WrapProcessingError wraps an underlying cause so callers can still reach it
// through errors.Is / errors.As.
func WrapProcessingError(message string, cause error) *ProcessingError {
	return &ProcessingError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *ProcessingError) Unwrap() error { return e.Cause }

// AsProcessingError normalizes any reducer error into a ProcessingError so
// state bookkeeping has a single error shape to record.
func AsProcessingError(err error) *ProcessingError {
	if err == nil {
		return nil
	}
	var perr *ProcessingError
	if errors.As(err, &perr) {
		return perr
	}
	return &ProcessingError{Message: err.Error(), Cause: err}
}
