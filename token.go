// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

// Token is the type of a single element of the depth-first token stream.
// Structural delimiters, property names, and literal values each occupy one
// token; within objects, a name and its value are separate tokens.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid     Token = iota // invalid token
	BeginArray               // the opening "[" of an array
	EndArray                 // the closing "]" of an array
	BeginObject              // the opening "{" of an object
	EndObject                // the closing "}" of an object
	Name                     // an object property name
	String                   // a string value
	Number                   // a numeric value
	Boolean                  // a true or false value
	Null                     // a null value
	EndDocument              // sentinel: the stream has no more tokens
)

var tokenStr = [...]string{
	Invalid:     "invalid token",
	BeginArray:  "BEGIN_ARRAY",
	EndArray:    "END_ARRAY",
	BeginObject: "BEGIN_OBJECT",
	EndObject:   "END_OBJECT",
	Name:        "NAME",
	String:      "STRING",
	Number:      "NUMBER",
	Boolean:     "BOOLEAN",
	Null:        "NULL",
	EndDocument: "END_DOCUMENT",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}
