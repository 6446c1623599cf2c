// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

import (
	"errors"
	"testing"
)

func TestStatePath(t *testing.T) {
	st := newState()
	if got := st.Path(); got != "$" {
		t.Errorf("Path: got %q, want %q", got, "$")
	}

	if err := st.pushScope(scopeEmptyArray); err != nil {
		t.Fatalf("pushScope failed: %v", err)
	}
	if got := st.Path(); got != "$[0]" {
		t.Errorf("Path: got %q, want %q", got, "$[0]")
	}
	st.pathIndices[1] = 3
	if got := st.Path(); got != "$[3]" {
		t.Errorf("Path: got %q, want %q", got, "$[3]")
	}

	if err := st.pushScope(scopeEmptyObject); err != nil {
		t.Fatalf("pushScope failed: %v", err)
	}
	if got := st.Path(); got != "$[3]." {
		t.Errorf("Path: got %q, want %q", got, "$[3].")
	}
	st.scopes[2] = scopeNonemptyObject
	st.pathNames[2] = "key"
	if got := st.Path(); got != "$[3].key" {
		t.Errorf("Path: got %q, want %q", got, "$[3].key")
	}
}

func TestStateGrowth(t *testing.T) {
	st := newState()
	// Push one level short of the cap, through several doublings.
	for i := 1; i < MaxDepth; i++ {
		if err := st.pushScope(scopeEmptyArray); err != nil {
			t.Fatalf("pushScope #%d failed: %v", i, err)
		}
	}
	if st.stackSize != MaxDepth {
		t.Errorf("stackSize: got %d, want %d", st.stackSize, MaxDepth)
	}

	var derr *DataError
	if err := st.pushScope(scopeEmptyArray); !errors.As(err, &derr) {
		t.Errorf("pushScope past cap: got %v, want *DataError", err)
	}
}

func TestStateCopy(t *testing.T) {
	st := newState()
	st.SetLenient(true)
	st.SetFailOnUnknown(true)
	if err := st.pushScope(scopeEmptyArray); err != nil {
		t.Fatalf("pushScope failed: %v", err)
	}
	st.pathIndices[1] = 7

	var cp state
	cp.copyFrom(&st)
	if got, want := cp.Path(), st.Path(); got != want {
		t.Errorf("Copied path: got %q, want %q", got, want)
	}
	if !cp.Lenient() || !cp.FailOnUnknown() {
		t.Error("Copied state lost mode flags")
	}

	// The copies do not share backing arrays.
	cp.pathIndices[1] = 8
	if st.pathIndices[1] != 7 {
		t.Errorf("Source pathIndices mutated: got %d, want 7", st.pathIndices[1])
	}
}
