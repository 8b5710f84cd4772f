// Package tserrors provides structured error types for truespec.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers (most importantly the HTTP adapter) to map
// engine failures onto the right response without string matching.
//
// # Error Categories
//
//   - LoadError: JSON/YAML parsing failures in the spec loader
//   - StoreError: report store construction or I/O failures
//
// # Usage with errors.Is
//
//	doc, err := specdoc.Load(body)
//	if err != nil {
//	    if errors.Is(err, tserrors.ErrYAMLUnavailable) {
//	        // 400 with the parser message
//	    }
//	}
package tserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrInputInvalid indicates a spec input that did not load to a document map.
	ErrInputInvalid = errors.New("input invalid")

	// ErrYAMLUnavailable indicates YAML content that could not be decoded.
	ErrYAMLUnavailable = errors.New("yaml unavailable")

	// ErrStoreUnavailable indicates the report store cannot be constructed or contacted.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStoreConflict indicates a duplicate row on insert. Callers treat it as success.
	ErrStoreConflict = errors.New("store conflict")

	// ErrUnexpected indicates a programmer error or impossible state.
	ErrUnexpected = errors.New("unexpected error")
)

// LoadError represents a failure to decode a spec document.
// This covers YAML deserialization errors; JSON failures fall through to
// the YAML decoder first, so a LoadError always carries the YAML cause.
type LoadError struct {
	// Format is the format that failed to decode ("json" or "yaml")
	Format string
	// Message describes the decoding failure
	Message string
	// Cause is the underlying decoder error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrYAMLUnavailable
}

// StoreError represents a report store failure.
type StoreError struct {
	// Op identifies the store operation: "connect", "put", "list", or "get",
	// or "call" when the circuit breaker rejected the operation
	Op string
	// Table is the target table name, if known
	Table string
	// IsConflict is true when the failure was a duplicate-row conflict
	IsConflict bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *StoreError) Error() string {
	msg := "store error"
	if e.IsConflict {
		msg = "store conflict"
	}
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Table != "" {
		msg += fmt.Sprintf(" on table %q", e.Table)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrStoreUnavailable, or ErrStoreConflict when IsConflict is set.
func (e *StoreError) Is(target error) bool {
	if target == ErrStoreConflict {
		return e.IsConflict
	}
	return target == ErrStoreUnavailable && !e.IsConflict
}
