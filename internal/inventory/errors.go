package inventory

import (
	"errors"
	"fmt"
)

// Error is a collaborator failure surfaced by a run.
//
// The reconciliation logic raises no errors of its own; every Error carries
// the code of the collaborator that failed so the CLI can map it to an exit
// status without string matching.
type Error struct {
	// Code identifies the failing collaborator.
	Code ErrorCode

	// Op names the operation that failed, e.g. "read snapshot".
	Op string

	// Err is the underlying driver, transport, or parse error.
	Err error
}

// ErrorCode categorizes run failures.
type ErrorCode string

const (
	// ErrCodeConfigInvalid indicates missing or malformed settings.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// ErrCodeSourceUnavailable indicates the inventory data source could not be read.
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"

	// ErrCodeStoreUnavailable indicates the baseline store could not be read or written.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// ErrCodeDeliveryFailed indicates the notification could not be delivered.
	ErrCodeDeliveryFailed ErrorCode = "DELIVERY_FAILED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Op)
	}
	return string(e.Code)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ConfigInvalid wraps err as a configuration failure.
func ConfigInvalid(op string, err error) *Error {
	return &Error{Code: ErrCodeConfigInvalid, Op: op, Err: err}
}

// SourceUnavailable wraps err as an inventory source failure.
func SourceUnavailable(op string, err error) *Error {
	return &Error{Code: ErrCodeSourceUnavailable, Op: op, Err: err}
}

// StoreUnavailable wraps err as a baseline store failure.
func StoreUnavailable(op string, err error) *Error {
	return &Error{Code: ErrCodeStoreUnavailable, Op: op, Err: err}
}

// DeliveryFailed wraps err as a notification failure.
func DeliveryFailed(op string, err error) *Error {
	return &Error{Code: ErrCodeDeliveryFailed, Op: op, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfigInvalid reports whether err is a configuration failure.
func IsConfigInvalid(err error) bool { return CodeOf(err) == ErrCodeConfigInvalid }

// IsSourceUnavailable reports whether err is an inventory source failure.
func IsSourceUnavailable(err error) bool { return CodeOf(err) == ErrCodeSourceUnavailable }

// IsStoreUnavailable reports whether err is a baseline store failure.
func IsStoreUnavailable(err error) bool { return CodeOf(err) == ErrCodeStoreUnavailable }

// IsDeliveryFailed reports whether err is a notification failure.
func IsDeliveryFailed(err error) bool { return CodeOf(err) == ErrCodeDeliveryFailed }
