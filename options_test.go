// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollen/jtoken"
)

func TestOptionsStrings(t *testing.T) {
	opts := jtoken.OptionsOf("a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, opts.Strings())

	// The returned slice is a copy.
	s := opts.Strings()
	s[0] = "mutated"
	assert.Equal(t, []string{"a", "b", "c"}, opts.Strings())
}

func TestOptionsShared(t *testing.T) {
	// One table may serve many readers concurrently constructed.
	opts := jtoken.OptionsOf("x", "y")
	for _, input := range []string{`{"x": 1}`, `{"y": 2}`, `{"z": 3}`} {
		r := jtoken.NewReader(strings.NewReader(input))
		require.NoError(t, r.BeginObject())
		if _, err := r.SelectName(opts); err != nil {
			t.Errorf("SelectName(%#q): %v", input, err)
		}
	}
}

func TestOptionsSpecialCharacters(t *testing.T) {
	// Candidates that require escaping still match their wire form.
	opts := jtoken.OptionsOf("tab\there", "plain")
	r := jtoken.NewReader(strings.NewReader(`{"tab\there": 1}`))
	require.NoError(t, r.BeginObject())
	got, err := r.SelectName(opts)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	n, err := r.NextInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOptionsEmpty(t *testing.T) {
	opts := jtoken.OptionsOf()
	r := jtoken.NewReader(strings.NewReader(`{"a": 1}`))
	require.NoError(t, r.BeginObject())
	got, err := r.SelectName(opts)
	require.NoError(t, err)
	assert.Equal(t, -1, got)
	name, err := r.NextName()
	require.NoError(t, err)
	assert.Equal(t, "a", name)
}
