// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollen/jtoken"
)

func readValue(t *testing.T, input string) any {
	t.Helper()
	v, err := jtoken.ReadValue(jtoken.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	return v
}

func makeObject(pairs ...any) *jtoken.Object {
	obj := jtoken.NewObject()
	for i := 0; i < len(pairs); i += 2 {
		obj.Set(pairs[i].(string), pairs[i+1])
	}
	return obj
}

func TestReadValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{`null`, nil},
		{`true`, true},
		{`false`, false},
		{`"str"`, "str"},
		{`15`, float64(15)},
		{`-2.5e2`, float64(-250)},
		{`[]`, []any{}},
		{`[1, "two", null]`, []any{float64(1), "two", nil}},
		{`{}`, makeObject()},
		{`{"a": 1, "b": [true]}`, makeObject("a", float64(1), "b", []any{true})},
		{`{"outer": {"inner": "v"}}`, makeObject("outer", makeObject("inner", "v"))},
	}
	for _, test := range tests {
		got := readValue(t, test.input)
		assert.Equal(t, test.want, got, "input %#q", test.input)
	}
}

func TestReadValue_keyOrder(t *testing.T) {
	v := readValue(t, `{"z": 1, "a": 2, "m": 3}`)
	obj, ok := v.(*jtoken.Object)
	require.True(t, ok, "got %T, want *Object", v)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	m, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, float64(2), m)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestReadValue_duplicateKey(t *testing.T) {
	_, err := jtoken.ReadValue(jtoken.NewReader(strings.NewReader(`{"a": 1, "a": 2}`)))
	require.Error(t, err)
	var derr *jtoken.DataError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Map key 'a' has multiple values at path $.a: 1 and 2", err.Error())
}

func TestReadValue_partial(t *testing.T) {
	// ReadValue consumes exactly one value and leaves the reader usable.
	r := jtoken.NewReader(strings.NewReader(`{"head": [1, 2], "tail": true}`))
	require.NoError(t, r.BeginObject())

	name, err := r.NextName()
	require.NoError(t, err)
	assert.Equal(t, "head", name)

	v, err := jtoken.ReadValue(r)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, v)

	name, err = r.NextName()
	require.NoError(t, err)
	assert.Equal(t, "tail", name)

	b, err := r.NextBool()
	require.NoError(t, err)
	assert.True(t, b)
	require.NoError(t, r.EndObject())
}

func TestObjectSet(t *testing.T) {
	obj := jtoken.NewObject()
	prev, replaced := obj.Set("k", 1)
	assert.Nil(t, prev)
	assert.False(t, replaced)

	prev, replaced = obj.Set("k", 2)
	assert.Equal(t, 1, prev)
	assert.True(t, replaced)
	assert.Equal(t, 1, obj.Len())

	obj.Set("j", 3)
	assert.Equal(t, []string{"k", "j"}, obj.Keys())
	assert.Equal(t, []jtoken.Member{{Key: "k", Value: 2}, {Key: "j", Value: 3}}, obj.Members())
}
