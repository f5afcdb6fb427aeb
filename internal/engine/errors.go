package engine

import (
	"errors"
	"fmt"
	"strings"
)

// RegistrationError represents an error detected while registering a report.
//
// Registration errors include:
//   - Empty input: no scanners at all
//   - Empty cloud: a scanner reports no beacons
//   - Invalid config: threshold, strategy or reference out of range
//   - Disconnected: some scanners could not be linked to the reference
type RegistrationError struct {
	// Code identifies the error category.
	Code RegistrationErrorCode

	// Message is a human-readable description.
	Message string

	// Unresolved lists scanner ids with no pose (DISCONNECTED only).
	Unresolved []int

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RegistrationErrorCode categorizes registration errors.
type RegistrationErrorCode string

const (
	// ErrCodeEmptyInput indicates the report contains no scanners.
	ErrCodeEmptyInput RegistrationErrorCode = "EMPTY_INPUT"

	// ErrCodeEmptyCloud indicates a scanner reports no beacons.
	ErrCodeEmptyCloud RegistrationErrorCode = "EMPTY_CLOUD"

	// ErrCodeInvalidInput indicates scanner ids are not 0..n-1 in order.
	ErrCodeInvalidInput RegistrationErrorCode = "INVALID_INPUT"

	// ErrCodeInvalidConfig indicates the configuration cannot be used.
	ErrCodeInvalidConfig RegistrationErrorCode = "INVALID_CONFIG"

	// ErrCodeDisconnected indicates the link graph does not reach every scanner.
	ErrCodeDisconnected RegistrationErrorCode = "DISCONNECTED"
)

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// DisconnectedError reports scanners that normalization could not reach.
type DisconnectedError struct {
	// Reference is the scanner the walk started from.
	Reference int

	// Unresolved is sorted ascending.
	Unresolved []int
}

// Error implements the error interface.
func (e *DisconnectedError) Error() string {
	ids := make([]string, len(e.Unresolved))
	for i, id := range e.Unresolved {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("scanners not linked to reference %d: %s", e.Reference, strings.Join(ids, ", "))
}

// IsDisconnected returns true if err is, or wraps, a disconnection.
// Uses errors.As to handle wrapped errors.
func IsDisconnected(err error) bool {
	var de *DisconnectedError
	return errors.As(err, &de)
}

// UnresolvedScanners returns the unreachable scanner ids carried by err,
// or nil if err is not a disconnection.
func UnresolvedScanners(err error) []int {
	var de *DisconnectedError
	if errors.As(err, &de) {
		return de.Unresolved
	}
	return nil
}

// NewDisconnectedError wraps a DisconnectedError in a RegistrationError.
func NewDisconnectedError(de *DisconnectedError) *RegistrationError {
	return &RegistrationError{
		Code:       ErrCodeDisconnected,
		Message:    fmt.Sprintf("%d scanner(s) could not be registered", len(de.Unresolved)),
		Unresolved: de.Unresolved,
		Err:        de,
	}
}

// NewEmptyCloudError creates a RegistrationError for a scanner with no beacons.
func NewEmptyCloudError(id int, label string) *RegistrationError {
	return &RegistrationError{
		Code:    ErrCodeEmptyCloud,
		Message: fmt.Sprintf("scanner %s reports no beacons", label),
		Details: map[string]string{
			"scanner": fmt.Sprintf("%d", id),
		},
	}
}

// HasCode returns true if err is a RegistrationError with the given code.
func HasCode(err error, code RegistrationErrorCode) bool {
	var re *RegistrationError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
