package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals malformed document or token input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidConfig signals an out-of-domain configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoSignal signals an absent semantic signal. Consumers treat it as weight 0.
	ErrNoSignal = errors.New("no semantic signal")
	// ErrSignalProvider signals a semantic provider failure.
	ErrSignalProvider = errors.New("signal provider error")
	// ErrInvariantViolation signals a candidate that breaks a pipeline invariant.
	ErrInvariantViolation = errors.New("invariant violation")
)

// InputError wraps ErrInvalidInput with the offending document.
type InputError struct {
	DocID  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: document %q: %s", ErrInvalidInput.Error(), e.DocID, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// NewInputError creates a per-document input error.
func NewInputError(docID, reason string) error {
	return &InputError{DocID: docID, Reason: reason}
}

// InvariantError wraps ErrInvariantViolation with the offending document.
type InvariantError struct {
	DocID  string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: document %q: %s", ErrInvariantViolation.Error(), e.DocID, e.Reason)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

// NewInvariantError creates a per-document invariant error.
func NewInvariantError(docID, reason string) error {
	return &InvariantError{DocID: docID, Reason: reason}
}
