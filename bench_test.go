// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"

	"github.com/hollen/jtoken"
)

func BenchmarkReader(b *testing.B) {
	input, err := os.ReadFile("testdata/input.json")
	if err != nil {
		b.Fatalf("Reading test input: %v", err)
	}
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Reader", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			r := jtoken.NewReader(bytes.NewReader(input))
			if err := consumeValue(r); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("SkipValue", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			r := jtoken.NewReader(bytes.NewReader(input))
			if err := r.SkipValue(); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("Fastjson", func(b *testing.B) {
		var p fastjson.Parser
		for i := 0; i < b.N; i++ {
			if _, err := p.ParseBytes(input); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("JSONIter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			it := jsoniter.ParseBytes(jsoniter.ConfigDefault, input)
			it.Skip()
			if it.Error != nil && it.Error != io.EOF {
				b.Fatalf("Unexpected error: %v", it.Error)
			}
		}
	})
}

// consumeValue reads one complete value, decoding every scalar it contains.
// The standard library Decoder converts tokens to values, so for a fair
// comparison the reader does the same.
func consumeValue(r jtoken.Reader) error {
	tok, err := r.Peek()
	if err != nil {
		return err
	}
	switch tok {
	case jtoken.BeginArray:
		if err := r.BeginArray(); err != nil {
			return err
		}
		for {
			more, err := r.HasNext()
			if err != nil {
				return err
			}
			if !more {
				break
			}
			if err := consumeValue(r); err != nil {
				return err
			}
		}
		return r.EndArray()
	case jtoken.BeginObject:
		if err := r.BeginObject(); err != nil {
			return err
		}
		for {
			more, err := r.HasNext()
			if err != nil {
				return err
			}
			if !more {
				break
			}
			if _, err := r.NextName(); err != nil {
				return err
			}
			if err := consumeValue(r); err != nil {
				return err
			}
		}
		return r.EndObject()
	case jtoken.String:
		_, err := r.NextString()
		return err
	case jtoken.Number:
		_, err := r.NextFloat64()
		return err
	case jtoken.Boolean:
		_, err := r.NextBool()
		return err
	case jtoken.Null:
		return r.NextNull()
	}
	return nil
}
