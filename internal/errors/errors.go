// Package errors provides error handling utilities.
package errors

import (
	"errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeCatalog indicates a catalog construction error (fatal for the run)
	TypeCatalog Type = "CATALOG_ERROR"

	// TypeSizing indicates no catalog offering satisfies a requirement
	TypeSizing Type = "SIZE_NOT_FOUND"

	// TypeInventory indicates an invalid machine or disk record
	TypeInventory Type = "INVALID_RECORD"

	// TypeColumn indicates a required table column was not found
	TypeColumn Type = "MISSING_COLUMN"

	// TypePricing indicates a pricing resolution error
	TypePricing Type = "PRICING_ERROR"

	// TypeAuth indicates a non-retryable auth/config error from the
	// price source (fatal for the run)
	TypeAuth Type = "AUTH_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error (or any error it wraps) is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// EmptyCatalog creates the fatal empty-catalog error
func EmptyCatalog() *Error {
	return New(TypeCatalog, "catalog contains no offerings")
}

// Catalogf creates a formatted catalog error
func Catalogf(format string, args ...interface{}) *Error {
	return Newf(TypeCatalog, format, args...)
}

// SizeNotFound creates a per-machine sizing error
func SizeNotFound(cpu int, ramGiB float64) *Error {
	return Newf(TypeSizing, "no offering satisfies cpu=%d ram=%.1fGiB", cpu, ramGiB).
		WithContext("cpu", cpu).
		WithContext("ram_gib", ramGiB)
}

// InvalidMachineRecord creates a per-machine record error
func InvalidMachineRecord(message string) *Error {
	return New(TypeInventory, message)
}

// InvalidMachineRecordf creates a formatted per-machine record error
func InvalidMachineRecordf(format string, args ...interface{}) *Error {
	return Newf(TypeInventory, format, args...)
}

// MissingColumn creates a column-discovery error
func MissingColumn(titles ...string) *Error {
	return Newf(TypeColumn, "no column header found containing any of %v", titles)
}

// Pricing creates a pricing error
func Pricing(message string, cause error) *Error {
	return Wrap(TypePricing, message, cause)
}

// Auth creates a fatal price-source auth/config error
func Auth(message string, cause error) *Error {
	return Wrap(TypeAuth, message, cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
