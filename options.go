// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

import (
	"go4.org/mem"

	"github.com/hollen/jtoken/internal/escape"
)

// Options is a precompiled, immutable set of candidate strings for matching
// with SelectName or SelectString without allocating. Each candidate is
// stored in its wire-quoted encoding with the leading quotation mark
// stripped and the trailing one retained, so the encoded bytes can be
// compared as an immediate continuation of input positioned just past an
// opening quote.
//
// An Options table is built once and may be shared freely across readers
// and match attempts. The fast path is purely an allocation optimization:
// its absence never changes observable results.
type Options struct {
	strings []string
	encoded [][]byte
}

// OptionsOf compiles the candidate strings into an Options table.
func OptionsOf(strings ...string) *Options {
	o := &Options{
		strings: append([]string(nil), strings...),
		encoded: make([][]byte, len(strings)),
	}
	for i, s := range strings {
		enc := escape.Quote(mem.S(s))
		o.encoded[i] = append(enc, '"')
	}
	return o
}

// Strings returns a copy of the candidate strings, in table order.
func (o *Options) Strings() []string { return append([]string(nil), o.strings...) }

// index reports the table position of the decoded string s, or -1.
func (o *Options) index(s string) int {
	for i, c := range o.strings {
		if c == s {
			return i
		}
	}
	return -1
}
