package errors

import (
	"errors"
	"fmt"
)

// Domain error types for the analysis core

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrUnavailable indicates a backing service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Analysis-specific errors
//
// Sentinel values for the core's "nothing to report" outcomes. None of
// them is fatal: the evaluation pipeline maps each one to an absent
// result rather than a failure.

var (
	// ErrInsufficientData indicates too few bars for a method to run
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoAnchor indicates no confirmed swing point was found
	ErrNoAnchor = errors.New("no anchor swing point")

	// ErrNoConvergence indicates forecasts exist but none cluster
	ErrNoConvergence = errors.New("no forecast convergence")

	// ErrGateRejected indicates a candidate failed a validation gate
	ErrGateRejected = errors.New("candidate rejected by gate")

	// ErrDegenerateInput indicates zero-range or zero-price bars
	ErrDegenerateInput = errors.New("degenerate price input")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
