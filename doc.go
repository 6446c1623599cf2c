// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

// Package jtoken implements a streaming, token-at-a-time JSON reader.
//
// # Reading
//
// A Reader presents a JSON document as a stream of tokens in depth-first
// order. Construct a StreamReader from an io.Reader and drive it as a
// recursive-descent walk: begin a composite, loop while HasNext reports
// more content, end the composite.
//
//	r := jtoken.NewReader(input)
//	if err := r.BeginArray(); err != nil {
//	   log.Fatalf("Read failed: %v", err)
//	}
//	for {
//	   more, err := r.HasNext()
//	   if err != nil || !more {
//	      break
//	   }
//	   v, err := r.NextString()
//	   ...
//	}
//	if err := r.EndArray(); err != nil {
//	   log.Fatalf("Read failed: %v", err)
//	}
//
// Peek reports the type of the next token without consuming it, which is
// how a caller dispatches on heterogeneous content. SkipValue discards the
// next value wholesale, however deeply nested, and ReadValue materializes
// it as native Go data.
//
// # Selective matching
//
// When the expected names or string values are drawn from a fixed set,
// compile them once into an Options table and use SelectName or
// SelectString. A hit consumes the token and returns its table index; a
// miss consumes nothing and returns -1, leaving the token readable by the
// general methods. Matching against a table avoids allocating for text
// that will only be compared and thrown away.
//
// # Lenient mode
//
// By default the reader accepts only JSON as specified by RFC 8259. After
// SetLenient(true) it also tolerates common deviations: comments, unquoted
// and single-quoted strings, semicolon separators, omitted array elements,
// multiple top-level values, and non-finite numbers. The state
// documentation for SetLenient lists the exact set.
//
// # Errors
//
// Failures divide into three kinds. A *SyntaxError means the input is not
// structurally valid JSON; a *DataError means the stream is well formed but
// the requested interpretation is invalid, for example reading a boolean
// where a string stands or narrowing a number inexactly. Both are returned.
// A *StateError means the calling code broke the reader contract, such as
// using a closed reader or a stale lookahead snapshot, and is delivered by
// panic.
package jtoken
