package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Exchange error code for an unknown order on query endpoints.
const codeOrderNotFound = -2013

// ValidationError reports malformed input detected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// NewValidationError creates a field-tagged validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// CredentialError reports missing or unusable API credentials.
// Fatal at construction time, never retried.
type CredentialError struct {
	Reason string
}

func (e *CredentialError) Error() string {
	return "credential error: " + e.Reason
}

// TransportError wraps a network or protocol failure during dispatch.
type TransportError struct {
	Op  string // operation that failed, e.g. "submit_order"
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error for the given operation.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// ExchangeRejection is a semantic rejection by the exchange: the request was
// well-formed but refused (insufficient balance, bad price band, unknown
// order, ...). Raw carries the exchange's response body verbatim.
type ExchangeRejection struct {
	Code int
	Msg  string
	Raw  json.RawMessage
}

func (e *ExchangeRejection) Error() string {
	return fmt.Sprintf("exchange rejection: code=%d msg=%s", e.Code, e.Msg)
}

// IsOrderNotFound reports whether err is the exchange's unknown-order
// rejection, so callers can distinguish "not found" from other failures.
func IsOrderNotFound(err error) bool {
	var rej *ExchangeRejection
	return errors.As(err, &rej) && rej.Code == codeOrderNotFound
}
