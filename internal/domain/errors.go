package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, colour outside the palette).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned when a reference item already exists in its list.
// Handlers should map this to HTTP 409 Conflict.
var ErrDuplicate = errors.New("already exists")

// ErrUnsupportedFormat is returned when an import file is neither
// comma-separated nor line-delimited text.
// Handlers should map this to HTTP 415 Unsupported Media Type.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// StoreErrorKind classifies a storage failure so callers can decide whether
// to fall back without inspecting error text.
type StoreErrorKind int

const (
	// KindUnknown is any failure not covered below. It is surfaced to callers.
	KindUnknown StoreErrorKind = iota
	// KindNotConfigured means the backend has no configuration at all.
	KindNotConfigured
	// KindNotFound means a backend resource (table, bucket) is not provisioned.
	KindNotFound
	// KindTransient means the backend could not be reached.
	KindTransient
)

func (k StoreErrorKind) String() string {
	switch k {
	case KindNotConfigured:
		return "not_configured"
	case KindNotFound:
		return "not_found"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// StoreError is the structured error returned by storage collaborators.
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

// NewStoreError wraps err with a classification.
func NewStoreError(kind StoreErrorKind, op string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// KindOf returns the classification carried by err, or KindUnknown when err
// holds no StoreError.
func KindOf(err error) StoreErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
