// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

import "fmt"

// SyntaxError reports input that does not form structurally valid JSON at
// the current read position. The Path field locates the failure in JSONPath
// form.
type SyntaxError struct {
	Message string
	Path    string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s at path %s", s.Message, s.Path)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// DataError reports a well-formed token stream whose requested
// interpretation is invalid: a type mismatch, a failed numeric parse, an
// inexact narrowing, a duplicate object key, nesting beyond MaxDepth, or a
// skip attempted while the reader is configured to fail on unknown content.
type DataError struct {
	Message string

	err error
}

// Error satisfies the error interface.
func (d *DataError) Error() string { return d.Message }

// Unwrap supports error wrapping.
func (d *DataError) Unwrap() error { return d.err }

// A StateError reports an operation that no rule of the reader contract
// permits, such as reading from a closed reader, advancing a stale lookahead
// snapshot, or materializing a value where a structural end token stands.
// State errors are defects in the calling code and are delivered by panic,
// never as returned errors.
type StateError struct {
	Message string
}

// Error satisfies the error interface.
func (s *StateError) Error() string { return s.Message }

func dataErrorf(msg string, args ...any) *DataError {
	return &DataError{Message: fmt.Sprintf(msg, args...)}
}

func stateErrorf(msg string, args ...any) *StateError {
	return &StateError{Message: fmt.Sprintf(msg, args...)}
}
