// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tailscale/hujson"
	"github.com/theory/jsonpath"

	"github.com/hollen/jtoken"
)

// The lenient dialect overlaps HuJSON on comments: a commented document must
// read identically to its standardized form.
func TestLenientHuJSON(t *testing.T) {
	docs := []string{
		"// leading comment\n{\"a\": 1}",
		"{\n  \"a\": 1, // member comment\n  \"b\": [2, /* inline */ 3]\n}",
		"/* block\n   comment */\n[true, false]",
		"[1, 2] // trailing comment",
	}
	for _, doc := range docs {
		std, err := hujson.Standardize([]byte(doc))
		require.NoError(t, err, "standardize %#q", doc)

		r := jtoken.NewReader(strings.NewReader(doc))
		r.SetLenient(true)
		got, err := jtoken.ReadValue(r)
		require.NoError(t, err, "lenient read %#q", doc)

		want, err := jtoken.ReadValue(jtoken.NewReader(strings.NewReader(string(std))))
		require.NoError(t, err, "strict read %#q", std)

		assert.Equal(t, want, got, "document %#q", doc)
	}
}

// Paths reported during a read are valid JSONPath queries that locate the
// value being read.
func TestPathsAreQueryable(t *testing.T) {
	const doc = `{"a": [1, 2, {"b": "x"}], "c": {"d": [true, null]}}`

	type at struct {
		path string
		want any
	}
	var found []at

	var walk func(r jtoken.Reader)
	walk = func(r jtoken.Reader) {
		tok, err := r.Peek()
		require.NoError(t, err)
		switch tok {
		case jtoken.BeginArray:
			require.NoError(t, r.BeginArray())
			for {
				more, err := r.HasNext()
				require.NoError(t, err)
				if !more {
					break
				}
				walk(r)
			}
			require.NoError(t, r.EndArray())
		case jtoken.BeginObject:
			require.NoError(t, r.BeginObject())
			for {
				more, err := r.HasNext()
				require.NoError(t, err)
				if !more {
					break
				}
				_, err = r.NextName()
				require.NoError(t, err)
				walk(r)
			}
			require.NoError(t, r.EndObject())
		default:
			path := r.Path()
			v, err := jtoken.ReadValue(r)
			require.NoError(t, err)
			found = append(found, at{path, v})
		}
	}
	walk(jtoken.NewReader(strings.NewReader(doc)))
	require.NotEmpty(t, found)

	var data any
	require.NoError(t, json.Unmarshal([]byte(doc), &data))

	for _, f := range found {
		p, err := jsonpath.Parse(f.path)
		require.NoError(t, err, "parse path %q", f.path)
		res := p.Select(data)
		require.Len(t, res, 1, "path %q", f.path)
		assert.Equal(t, f.want, res[0], "path %q", f.path)
	}
}

// The lenient corpus pairs each non-standard document with its strict rendering.
func TestLenientCorpus(t *testing.T) {
	raw, err := os.ReadFile("testdata/lenient.yaml")
	require.NoError(t, err)

	var cases []struct {
		Name    string `yaml:"name"`
		Lenient string `yaml:"lenient"`
		Strict  string `yaml:"strict"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			r := jtoken.NewReader(strings.NewReader(tc.Lenient))
			r.SetLenient(true)
			got, err := jtoken.ReadValue(r)
			require.NoError(t, err, "lenient read %#q", tc.Lenient)

			want, err := jtoken.ReadValue(jtoken.NewReader(strings.NewReader(tc.Strict)))
			require.NoError(t, err, "strict read %#q", tc.Strict)

			assert.Equal(t, want, got)

			// The lenient form must not parse strictly unless the two
			// coincide.
			if tc.Lenient != tc.Strict {
				_, err := jtoken.ReadValue(jtoken.NewReader(strings.NewReader(tc.Lenient)))
				assert.Error(t, err, "strict read of %#q", tc.Lenient)
			}
		})
	}
}
