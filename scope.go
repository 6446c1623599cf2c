// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

import (
	"fmt"
	"strings"
)

// MaxDepth is the maximum supported structural nesting depth, counting the
// document level. Documents nested deeper are rejected with a data error,
// not truncated.
const MaxDepth = 256

// A scope is the nesting state of one open array, object, or document
// level. The scope stack always holds at least the document level; its
// depth equals the structural nesting depth plus one.
type scope int8

const (
	scopeEmptyArray       scope = iota + 1 // inside [, no element read yet
	scopeNonemptyArray                     // inside [, at least one element read
	scopeEmptyObject                       // inside {, no name read yet
	scopeDanglingName                      // a name has been read, its value has not
	scopeNonemptyObject                    // inside {, at least one member read
	scopeEmptyDocument                     // top level, no value read yet
	scopeNonemptyDocument                  // top level, a value has been read
	scopeClosed                            // the reader has been closed
)

// state holds the positional state shared by every reader implementation:
// the scope stack, the per-level path entries mutated in lockstep with it,
// the mode flags, and the tag store. Concrete readers embed a state and
// keep it consistent across error paths, so that Path remains usable for
// diagnostics after a failure.
//
// The three stacks are manual parallel slices with explicit capacity
// doubling. Growth is amortized O(1); the hard cap is MaxDepth, and
// exceeding it is a terminal data error for the document.
type state struct {
	stackSize   int
	scopes      []scope
	pathNames   []string
	pathIndices []int

	lenient       bool // accept non-standard JSON syntax
	failOnUnknown bool // turn skips into data errors

	tags map[any]any
}

func newState() state {
	st := state{
		scopes:      make([]scope, 32),
		pathNames:   make([]string, 32),
		pathIndices: make([]int, 32),
	}
	st.scopes[0] = scopeEmptyDocument
	st.stackSize = 1
	return st
}

// copyFrom deep-copies positional state and mode flags from src. The tag
// store is deliberately not copied: tags configure a reader instance, not a
// read position.
func (st *state) copyFrom(src *state) {
	st.stackSize = src.stackSize
	st.scopes = append([]scope(nil), src.scopes...)
	st.pathNames = append([]string(nil), src.pathNames...)
	st.pathIndices = append([]int(nil), src.pathIndices...)
	st.lenient = src.lenient
	st.failOnUnknown = src.failOnUnknown
}

// pushScope appends a nesting level, doubling the stack arrays when full.
// The cap check precedes growth so the grow and reject thresholds stay
// distinct.
func (st *state) pushScope(sc scope) error {
	if st.stackSize == len(st.scopes) {
		if st.stackSize == MaxDepth {
			return dataErrorf("Nesting too deep at %s", st.Path())
		}
		st.scopes = append(st.scopes, make([]scope, len(st.scopes))...)
		st.pathNames = append(st.pathNames, make([]string, len(st.pathNames))...)
		st.pathIndices = append(st.pathIndices, make([]int, len(st.pathIndices))...)
	}
	st.scopes[st.stackSize] = sc
	st.stackSize++
	return nil
}

// Path returns a JSONPath locating the current read position, for use in
// diagnostics. It is side-effect free and callable at any time, including
// while constructing an error. Array levels render as "[index]" and object
// levels as ".name", with an empty name before the first name of a level
// has been read.
func (st *state) Path() string {
	var sb strings.Builder
	sb.WriteByte('$')
	for i := 0; i < st.stackSize; i++ {
		switch st.scopes[i] {
		case scopeEmptyArray, scopeNonemptyArray:
			fmt.Fprintf(&sb, "[%d]", st.pathIndices[i])
		case scopeEmptyObject, scopeDanglingName, scopeNonemptyObject:
			sb.WriteByte('.')
			sb.WriteString(st.pathNames[i])
		}
	}
	return sb.String()
}

// SetLenient configures whether the reader is liberal in what it accepts.
// By default only JSON as specified by RFC 8259 is accepted. In lenient
// mode the reader ignores the following deviations:
//
//   - streams holding multiple top-level values
//   - numbers that are NaN or infinities
//   - end-of-line comments starting with // or #
//   - C-style /* ... */ comments (non-nesting)
//   - names and strings that are unquoted or 'single quoted'
//   - array elements and name/value pairs separated by ; instead of ,
//   - unnecessary array separators, read as omitted null values
//   - names and values separated by = or => instead of :
func (st *state) SetLenient(lenient bool) { st.lenient = lenient }

// Lenient reports whether the reader is liberal in what it accepts.
func (st *state) Lenient() bool { return st.lenient }

// SetFailOnUnknown configures whether SkipName and SkipValue report a data
// error instead of discarding content. Failing on skips surfaces unhandled
// names early during development; by default skipping is permitted.
func (st *state) SetFailOnUnknown(fail bool) { st.failOnUnknown = fail }

// FailOnUnknown reports whether the reader forbids skipping names and
// values.
func (st *state) FailOnUnknown() bool { return st.failOnUnknown }

// SetTag associates value with key on this reader, replacing any value
// stored under the same key. Keys must be comparable; by convention a key
// is an unexported sentinel type owned by the caller, so distinct callers
// cannot collide.
func (st *state) SetTag(key, value any) {
	if st.tags == nil {
		st.tags = make(map[any]any)
	}
	st.tags[key] = value
}

// Tag returns the value stored under key, or nil if none is stored.
func (st *state) Tag(key any) any { return st.tags[key] }

func (st *state) syntaxErrorf(msg string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(msg, args...), Path: st.Path()}
}

// expected reports a token-level type mismatch as a data error.
func (st *state) expected(want string, got Token) *DataError {
	return dataErrorf("Expected %s but was %v at path %s", want, got, st.Path())
}

// typeMismatch reports a value-level type mismatch, naming the observed
// value and its runtime type.
func (st *state) typeMismatch(value any, want string) *DataError {
	if value == nil {
		return dataErrorf("Expected %s but was null at path %s", want, st.Path())
	}
	return dataErrorf("Expected %s but was %v, a %T, at path %s", want, value, value, st.Path())
}
