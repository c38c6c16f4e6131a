// Package cgerrors defines the error taxonomy of §7: a closed set of kinds
// wrapped in a single error struct, in the style of the teacher's
// internal/errors package.
package cgerrors

import (
	"fmt"
	"time"
)

// Kind is one of the error categories named in spec §7.
type Kind string

const (
	KindIO                 Kind = "io"
	KindParse              Kind = "parse"
	KindAnalyze            Kind = "analyze"
	KindStore              Kind = "store"
	KindTypeIDOverflow     Kind = "type_id_overflow"
	KindCancelled          Kind = "cancelled"
	KindManifestCorruption Kind = "manifest_corruption"
)

// Error wraps an underlying error with the context §7 requires: what kind
// of failure it was, what operation was running, which file (if any) it
// concerned, and whether the caller may retry or must abort.
type Error struct {
	Kind        Kind
	Operation   string
	FilePath    string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// New creates an Error of the given kind for the given operation.
func New(kind Kind, op string, err error) *Error {
	return &Error{
		Kind:       kind,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithFile attaches a file path to the error.
func (e *Error) WithFile(path string) *Error {
	e.FilePath = path
	return e
}

// WithRecoverable marks the error recoverable (the caller may skip and
// continue) or not (the caller must abort the enclosing job).
func (e *Error) WithRecoverable(recoverable bool) *Error {
	e.Recoverable = recoverable
	return e
}

func (e *Error) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Kind, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Kind, e.Operation, e.Underlying)
}

// Unwrap allows errors.Is / errors.As to see through to the cause.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// IsRecoverable reports whether the caller may skip this error and
// continue processing (per-file errors) rather than abort the job.
func (e *Error) IsRecoverable() bool {
	return e.Recoverable
}
