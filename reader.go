// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

// A Reader presents a JSON document as a stream of tokens in depth-first
// order. Consumers drive it as a recursive-descent walk: BeginArray, a
// HasNext loop, EndArray for arrays; BeginObject, a HasNext loop reading a
// name then a value, EndObject for objects.
//
// Exactly one token is current at a time. Peek reports it without consuming
// and is idempotent until a consuming operation runs. A Reader is bound to
// one input source, consumed destructively and sequentially, and is not
// safe for concurrent use.
//
// Numeric/string duality: a scalar literal may be read as either a string
// or a number regardless of its lexical form. Both elements of [1, "1"] can
// be read with NextInt32 or with NextString. This exists to avoid precision
// loss for integers too large to round-trip through a binary floating
// representation; such values should travel as strings.
//
// Errors are one of three kinds: *SyntaxError for malformed input,
// *DataError for a well-formed stream read under an invalid interpretation,
// and *StateError, delivered by panic, for operations the contract never
// permits.
type Reader interface {
	// BeginArray consumes the next token, asserting that it begins an array.
	BeginArray() error

	// EndArray consumes the next token, asserting that it ends the current
	// array. It reports a data error if unread elements remain.
	EndArray() error

	// BeginObject consumes the next token, asserting that it begins an
	// object.
	BeginObject() error

	// EndObject consumes the next token, asserting that it ends the current
	// object. It reports a data error if unread members remain.
	EndObject() error

	// HasNext reports whether the current array or object has another
	// element or member before its end token. It does not consume input.
	HasNext() (bool, error)

	// Peek reports the type of the next token without consuming it.
	// Repeated calls without an intervening consuming operation return the
	// same token. At top level, after the single permitted value (or after
	// the last value in lenient mode), Peek returns EndDocument.
	Peek() (Token, error)

	// NextName consumes a property name token and returns its decoded text.
	// It reports a data error if the next token is not a name.
	NextName() (string, error)

	// SelectName behaves like NextName restricted to a closed set: if the
	// next token is a name matching one of opts' candidates, it is consumed
	// and the candidate's index returned. Otherwise SelectName returns -1
	// and consumes nothing, leaving the name readable by NextName.
	SelectName(opts *Options) (int, error)

	// SkipName consumes and discards a property name. If the reader is
	// configured to fail on unknown content, SkipName reports a data error
	// instead.
	SkipName() error

	// NextString consumes a string token and returns its decoded text. If
	// the next token is a number, NextString returns its canonical string
	// form instead of failing.
	NextString() (string, error)

	// SelectString behaves like NextString restricted to a closed set, with
	// the same consume-on-match contract as SelectName.
	SelectString(opts *Options) (int, error)

	// NextBool consumes a boolean token and returns its value.
	NextBool() (bool, error)

	// NextNull consumes exactly one null token.
	NextNull() error

	// NextFloat64 consumes a numeric token and returns its value. If the
	// next token is a string, its text is parsed as a number. Non-finite
	// results are a data error unless the reader is lenient.
	NextFloat64() (float64, error)

	// NextInt64 consumes a numeric token and returns it as an int64. String
	// tokens are parsed; values with a fractional or exponent part are
	// accepted only when exactly representable as an int64.
	NextInt64() (int64, error)

	// NextInt32 is NextInt64 narrowed to int32, failing with a data error
	// when the exact value does not fit.
	NextInt32() (int32, error)

	// NextSource consumes the next value, scalar or composite, and returns
	// its exact raw bytes, including original interior whitespace. The
	// boundary is found by structural token counting only; the bytes are
	// not validated. The returned window is invalidated by the next
	// operation on this reader, and closing it does not close the reader.
	NextSource() (*ValueSource, error)

	// PromoteNameToValue reinterprets a pending property name as a string
	// value, so that NextString can read it. Generic map decoders use this
	// to treat object keys uniformly as values.
	PromoteNameToValue() error

	// SkipValue consumes and discards the next value in its entirety,
	// recursing through nested elements of composite values without
	// materializing them. If the reader is configured to fail on unknown
	// content, SkipValue reports a data error instead.
	SkipValue() error

	// PeekReader returns an independent reader positioned at the current
	// unconsumed token, for non-destructive lookahead. The snapshot carries
	// deep copies of the scope stack, path entries, and mode flags, but not
	// the tag store. It becomes invalid as soon as this reader is advanced
	// or closed; using a stale snapshot panics with a *StateError.
	PeekReader() Reader

	// Path returns a JSONPath ("$", ".name", "[index]") describing the
	// current read position, for diagnostics only.
	Path() string

	// SetLenient configures whether non-standard JSON syntax is accepted; see
	// the state documentation for the accepted deviations.
	SetLenient(lenient bool)

	// Lenient reports whether the reader is liberal in what it accepts.
	Lenient() bool

	// SetFailOnUnknown configures whether SkipName and SkipValue report a
	// data error instead of discarding content.
	SetFailOnUnknown(fail bool)

	// FailOnUnknown reports whether the reader forbids skipping.
	FailOnUnknown() bool

	// SetTag associates value with key on this reader, replacing any prior
	// value under the same key.
	SetTag(key, value any)

	// Tag returns the value stored under key, or nil.
	Tag(key any) any

	// Close releases the underlying source. Operations on a closed reader
	// panic with a *StateError.
	Close() error
}
