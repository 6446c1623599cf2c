// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

// A Member is one name/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// An Object is a JSON object materialized by ReadValue. It preserves the
// insertion order of its members while still answering key lookups in
// constant time.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Len reports the number of members.
func (o *Object) Len() int { return len(o.members) }

// Keys returns the member keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the value stored under key and whether the key is present.
func (o *Object) Get(key string) (any, bool) {
	if i, ok := o.index[key]; ok {
		return o.members[i].Value, true
	}
	return nil, false
}

// Set stores value under key, keeping the key's original position if it is
// already present. It returns the previous value and whether one was
// replaced.
func (o *Object) Set(key string, value any) (prev any, replaced bool) {
	if i, ok := o.index[key]; ok {
		prev = o.members[i].Value
		o.members[i].Value = value
		return prev, true
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
	return nil, false
}

// Members returns the name/value pairs in insertion order. The slice is a
// copy; the values are not.
func (o *Object) Members() []Member {
	return append([]Member(nil), o.members...)
}

// ReadValue consumes the next value from r and materializes it as native Go
// data: arrays become []any, objects become *Object, strings become string,
// numbers become float64, booleans become bool, and null becomes nil.
// Object keys keep their wire order, and a key appearing twice in one object
// is a data error naming both values.
//
// Calling ReadValue where the next token is not a value, for example at an
// array end or at end of document, panics with a *StateError.
func ReadValue(r Reader) (any, error) {
	tok, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch tok {
	case BeginArray:
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		list := []any{}
		for {
			more, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			v, err := ReadValue(r)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if err := r.EndArray(); err != nil {
			return nil, err
		}
		return list, nil

	case BeginObject:
		if err := r.BeginObject(); err != nil {
			return nil, err
		}
		obj := NewObject()
		for {
			more, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			name, err := r.NextName()
			if err != nil {
				return nil, err
			}
			v, err := ReadValue(r)
			if err != nil {
				return nil, err
			}
			if prev, replaced := obj.Set(name, v); replaced {
				return nil, dataErrorf("Map key '%s' has multiple values at path %s: %v and %v",
					name, r.Path(), prev, v)
			}
		}
		if err := r.EndObject(); err != nil {
			return nil, err
		}
		return obj, nil

	case String:
		return r.NextString()

	case Number:
		return r.NextFloat64()

	case Boolean:
		return r.NextBool()

	case Null:
		if err := r.NextNull(); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		panic(stateErrorf("Expected a value but was %v at path %s", tok, r.Path()))
	}
}
