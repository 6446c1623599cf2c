// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

import (
	"io"
	"math"
	"strconv"

	"go4.org/mem"

	"github.com/hollen/jtoken/internal/escape"
)

// Internal classification of the one peeked-but-unconsumed token. The name
// kinds and the string kinds are each kept contiguous for range checks.
const (
	pkNone = iota
	pkBeginObject
	pkEndObject
	pkBeginArray
	pkEndArray
	pkTrue
	pkFalse
	pkNull
	pkSingleQuoted
	pkDoubleQuoted
	pkUnquoted
	pkBuffered
	pkSingleQuotedName
	pkDoubleQuotedName
	pkUnquotedName
	pkBufferedName
	pkInt
	pkNumber
	pkEOF
)

// tokenOf maps a peeked kind to the Token a consumer observes.
func tokenOf(pk int) Token {
	switch pk {
	case pkBeginObject:
		return BeginObject
	case pkEndObject:
		return EndObject
	case pkBeginArray:
		return BeginArray
	case pkEndArray:
		return EndArray
	case pkTrue, pkFalse:
		return Boolean
	case pkNull:
		return Null
	case pkSingleQuoted, pkDoubleQuoted, pkUnquoted, pkBuffered:
		return String
	case pkSingleQuotedName, pkDoubleQuotedName, pkUnquotedName, pkBufferedName:
		return Name
	case pkInt, pkNumber:
		return Number
	case pkEOF:
		return EndDocument
	}
	return Invalid
}

// A StreamReader reads a stream of UTF-8 JSON text as tokens. It implements
// the Reader contract; see Reader for the operation semantics.
//
// The reader owns its input exclusively. Lookahead snapshots produced by
// PeekReader read through the same buffered source without advancing it and
// are invalidated as soon as the owning reader moves.
type StreamReader struct {
	state

	src   *source
	pos   int64 // absolute offset of the next unconsumed byte
	owner bool  // whether this reader commits consumption to src
	gen   int64 // src generation this snapshot was taken at (owner: unused)

	peeked       int
	peekedInt    int64  // value when peeked == pkInt
	peekedNumLen int    // unconsumed byte length when peeked == pkNumber
	peekedStr    string // decoded text when peeked == pkBuffered(Name)

	closed bool
}

// NewReader returns a StreamReader consuming UTF-8 JSON text from r. If r
// implements io.Closer, closing the reader closes it.
func NewReader(r io.Reader) *StreamReader {
	return &StreamReader{state: newState(), src: newSource(r), owner: true}
}

// check guards every operation against programmer misuse: a closed reader,
// or a lookahead snapshot whose source reader has since advanced.
func (r *StreamReader) check() {
	if r.closed || r.scopes[r.stackSize-1] == scopeClosed {
		panic(stateErrorf("reader is closed"))
	}
	if !r.owner && r.gen != r.src.gen {
		panic(stateErrorf("stale lookahead reader: the source reader has advanced"))
	}
}

// advance consumes n buffered bytes. Only the owning reader commits the new
// consumption point to the source; snapshots track position privately.
func (r *StreamReader) advance(n int) {
	r.pos += int64(n)
	if r.owner {
		r.src.commit(r.pos)
	}
}

// byteAt returns the byte i positions past the next unconsumed byte without
// consuming anything. ok is false at end of input.
func (r *StreamReader) byteAt(i int) (b byte, ok bool, err error) {
	w, err := r.src.window(r.pos+int64(i), 1)
	if err != nil {
		return 0, false, err
	}
	if len(w) == 0 {
		return 0, false, nil
	}
	return w[0], true, nil
}

func (r *StreamReader) setPeeked(pk int) int {
	r.peeked = pk
	return pk
}

func (r *StreamReader) checkLenient() error {
	if !r.lenient {
		return r.syntaxErrorf("Use SetLenient(true) to accept malformed JSON")
	}
	return nil
}

func (r *StreamReader) eofError() error {
	return &SyntaxError{Message: "Unexpected end of input", Path: r.Path(), err: io.ErrUnexpectedEOF}
}

// isLiteralByte reports whether b can continue an unquoted literal. The
// bytes that only a lenient document may contain outside a literal trigger
// the lenient check.
func (r *StreamReader) isLiteralByte(b byte) (bool, error) {
	switch b {
	case '/', '\\', ';', '#', '=':
		if err := r.checkLenient(); err != nil {
			return false, err
		}
		return false, nil
	case '{', '}', '[', ']', ':', ',', ' ', '\t', '\f', '\r', '\n':
		return false, nil
	default:
		return true, nil
	}
}

// nextNonWhitespace skips whitespace and (in lenient mode) comments, and
// returns the next significant byte without consuming it. ok is false at
// end of input.
func (r *StreamReader) nextNonWhitespace() (byte, bool, error) {
	for {
		b, ok, err := r.byteAt(0)
		if err != nil || !ok {
			return 0, false, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			r.advance(1)
		case '/':
			b2, ok2, err := r.byteAt(1)
			if err != nil {
				return 0, false, err
			}
			if !ok2 {
				return b, true, nil
			}
			switch b2 {
			case '*':
				if err := r.checkLenient(); err != nil {
					return 0, false, err
				}
				r.advance(2)
				if err := r.skipBlockComment(); err != nil {
					return 0, false, err
				}
			case '/':
				if err := r.checkLenient(); err != nil {
					return 0, false, err
				}
				r.advance(2)
				if err := r.skipToEndOfLine(); err != nil {
					return 0, false, err
				}
			default:
				return b, true, nil
			}
		case '#':
			if err := r.checkLenient(); err != nil {
				return 0, false, err
			}
			r.advance(1)
			if err := r.skipToEndOfLine(); err != nil {
				return 0, false, err
			}
		default:
			return b, true, nil
		}
	}
}

func (r *StreamReader) skipToEndOfLine() error {
	for {
		b, ok, err := r.byteAt(0)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		r.advance(1)
		if b == '\n' || b == '\r' {
			return nil
		}
	}
}

func (r *StreamReader) skipBlockComment() error {
	for {
		b, ok, err := r.byteAt(0)
		if err != nil {
			return err
		}
		if !ok {
			return r.syntaxErrorf("Unterminated comment")
		}
		r.advance(1)
		if b != '*' {
			continue
		}
		b2, ok2, err := r.byteAt(0)
		if err != nil {
			return err
		}
		if ok2 && b2 == '/' {
			r.advance(1)
			return nil
		}
	}
}

// doPeek classifies the next unconsumed token, consuming any separators and
// structural prefix bytes it needs. It is idempotent: once a token is
// peeked, further calls return the same classification until a consuming
// operation clears it.
func (r *StreamReader) doPeek() (int, error) {
	if r.peeked != pkNone {
		return r.peeked, nil
	}

	top := r.scopes[r.stackSize-1]
	switch top {
	case scopeEmptyArray:
		r.scopes[r.stackSize-1] = scopeNonemptyArray

	case scopeNonemptyArray:
		c, ok, err := r.nextNonWhitespace()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, r.eofError()
		}
		switch c {
		case ']':
			r.advance(1)
			return r.setPeeked(pkEndArray), nil
		case ';':
			if err := r.checkLenient(); err != nil {
				return 0, err
			}
			r.advance(1)
		case ',':
			r.advance(1)
		default:
			return 0, r.syntaxErrorf("Unterminated array")
		}

	case scopeEmptyObject, scopeNonemptyObject:
		r.scopes[r.stackSize-1] = scopeDanglingName
		if top == scopeNonemptyObject {
			c, ok, err := r.nextNonWhitespace()
			if err != nil {
				return 0, err
			}
			if !ok {
				return 0, r.eofError()
			}
			switch c {
			case '}':
				r.advance(1)
				return r.setPeeked(pkEndObject), nil
			case ';':
				if err := r.checkLenient(); err != nil {
					return 0, err
				}
				r.advance(1)
			case ',':
				r.advance(1)
			default:
				return 0, r.syntaxErrorf("Unterminated object")
			}
		}
		c, ok, err := r.nextNonWhitespace()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, r.eofError()
		}
		switch c {
		case '"':
			r.advance(1)
			return r.setPeeked(pkDoubleQuotedName), nil
		case '\'':
			if err := r.checkLenient(); err != nil {
				return 0, err
			}
			r.advance(1)
			return r.setPeeked(pkSingleQuotedName), nil
		case '}':
			// Only an empty object may close without a member.
			if top == scopeNonemptyObject {
				return 0, r.syntaxErrorf("Expected name")
			}
			r.advance(1)
			return r.setPeeked(pkEndObject), nil
		default:
			if err := r.checkLenient(); err != nil {
				return 0, err
			}
			lit, err := r.isLiteralByte(c)
			if err != nil {
				return 0, err
			}
			if !lit {
				return 0, r.syntaxErrorf("Expected name")
			}
			return r.setPeeked(pkUnquotedName), nil
		}

	case scopeDanglingName:
		r.scopes[r.stackSize-1] = scopeNonemptyObject
		c, ok, err := r.nextNonWhitespace()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, r.eofError()
		}
		switch c {
		case ':':
			r.advance(1)
		case '=':
			if err := r.checkLenient(); err != nil {
				return 0, err
			}
			r.advance(1)
			if b, ok, err := r.byteAt(0); err != nil {
				return 0, err
			} else if ok && b == '>' {
				r.advance(1)
			}
		default:
			return 0, r.syntaxErrorf("Expected ':'")
		}

	case scopeEmptyDocument:
		// Skip a UTF-8 byte order mark, if present.
		if w, err := r.src.window(r.pos, 3); err != nil {
			return 0, err
		} else if len(w) == 3 && w[0] == 0xEF && w[1] == 0xBB && w[2] == 0xBF {
			r.advance(3)
		}
		r.scopes[r.stackSize-1] = scopeNonemptyDocument

	case scopeNonemptyDocument:
		_, ok, err := r.nextNonWhitespace()
		if err != nil {
			return 0, err
		}
		if !ok {
			return r.setPeeked(pkEOF), nil
		}
		// Multiple top-level values are a lenient extension.
		if err := r.checkLenient(); err != nil {
			return 0, err
		}

	case scopeClosed:
		panic(stateErrorf("reader is closed"))
	}

	c, ok, err := r.nextNonWhitespace()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, r.eofError()
	}
	switch c {
	case ']':
		if top == scopeEmptyArray {
			r.advance(1)
			return r.setPeeked(pkEndArray), nil
		}
		fallthrough
	case ';', ',':
		// An omitted array element reads as null in lenient mode. The
		// separator is left in place for the next peek.
		if top == scopeEmptyArray || top == scopeNonemptyArray {
			if err := r.checkLenient(); err != nil {
				return 0, err
			}
			return r.setPeeked(pkNull), nil
		}
		return 0, r.syntaxErrorf("Unexpected value")
	case '\'':
		if err := r.checkLenient(); err != nil {
			return 0, err
		}
		r.advance(1)
		return r.setPeeked(pkSingleQuoted), nil
	case '"':
		r.advance(1)
		return r.setPeeked(pkDoubleQuoted), nil
	case '[':
		r.advance(1)
		return r.setPeeked(pkBeginArray), nil
	case '{':
		r.advance(1)
		return r.setPeeked(pkBeginObject), nil
	}

	if pk, err := r.peekKeyword(); err != nil {
		return 0, err
	} else if pk != pkNone {
		return pk, nil
	}
	if pk, err := r.peekNumber(); err != nil {
		return 0, err
	} else if pk != pkNone {
		return pk, nil
	}

	lit, err := r.isLiteralByte(c)
	if err != nil {
		return 0, err
	}
	if !lit {
		return 0, r.syntaxErrorf("Expected value")
	}
	if err := r.checkLenient(); err != nil {
		return 0, err
	}
	return r.setPeeked(pkUnquoted), nil
}

// peekKeyword matches true, false, or null at the read position, consuming
// the keyword on success. A following literal character defeats the match
// so that e.g. "nullx" stays a single unquoted literal.
func (r *StreamReader) peekKeyword() (int, error) {
	b, ok, err := r.byteAt(0)
	if err != nil || !ok {
		return pkNone, err
	}
	var kw, kwUpper string
	var pk int
	switch b {
	case 't', 'T':
		kw, kwUpper, pk = "true", "TRUE", pkTrue
	case 'f', 'F':
		kw, kwUpper, pk = "false", "FALSE", pkFalse
	case 'n', 'N':
		kw, kwUpper, pk = "null", "NULL", pkNull
	default:
		return pkNone, nil
	}
	for i := 1; i < len(kw); i++ {
		c, ok, err := r.byteAt(i)
		if err != nil {
			return 0, err
		}
		if !ok || (c != kw[i] && c != kwUpper[i]) {
			return pkNone, nil
		}
	}
	if c, ok, err := r.byteAt(len(kw)); err != nil {
		return 0, err
	} else if ok {
		lit, err := r.isLiteralByte(c)
		if err != nil {
			return 0, err
		}
		if lit {
			return pkNone, nil
		}
	}
	r.advance(len(kw))
	return r.setPeeked(pk), nil
}

// peekNumber classifies a numeric literal structurally, without allocating.
// An integer that fits an int64 is decoded during the scan and consumed; a
// floating or oversized number is left unconsumed with its byte length
// recorded. Anything malformed is left for the unquoted-literal fallback.
func (r *StreamReader) peekNumber() (int, error) {
	const (
		numNone = iota
		numSign
		numDigit
		numDecimal
		numFraction
		numExpE
		numExpSign
		numExpDigit
	)
	last := numNone
	fitsInInt64 := true
	negative := false
	value := int64(0) // accumulated negatively, to absorb math.MinInt64
	i := 0

scan:
	for ; ; i++ {
		b, ok, err := r.byteAt(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		switch b {
		case '-':
			if last == numNone {
				negative = true
				last = numSign
				continue
			}
			if last == numExpE {
				last = numExpSign
				continue
			}
			return pkNone, nil
		case '+':
			if last == numExpE {
				last = numExpSign
				continue
			}
			return pkNone, nil
		case 'e', 'E':
			if last == numDigit || last == numFraction {
				last = numExpE
				continue
			}
			return pkNone, nil
		case '.':
			if last == numDigit {
				last = numDecimal
				continue
			}
			return pkNone, nil
		default:
			if b < '0' || b > '9' {
				lit, err := r.isLiteralByte(b)
				if err != nil {
					return 0, err
				}
				if lit {
					return pkNone, nil
				}
				break scan
			}
			switch last {
			case numNone, numSign:
				value = -int64(b - '0')
				last = numDigit
			case numDigit:
				if value == 0 {
					return pkNone, nil // leading zeroes are not a number
				}
				nv := value*10 - int64(b-'0')
				fitsInInt64 = fitsInInt64 && (value > math.MinInt64/10 ||
					(value == math.MinInt64/10 && nv < value))
				value = nv
			case numDecimal:
				last = numFraction
			case numExpE, numExpSign:
				last = numExpDigit
			}
		}
	}

	switch {
	case last == numDigit && fitsInInt64 &&
		(value != math.MinInt64 || negative) && (value != 0 || !negative):
		if !negative {
			value = -value
		}
		r.peekedInt = value
		r.advance(i)
		return r.setPeeked(pkInt), nil
	case last == numDigit || last == numFraction || last == numExpDigit:
		r.peekedNumLen = i
		return r.setPeeked(pkNumber), nil
	default:
		return pkNone, nil
	}
}

// scanString returns the position (relative to the read position) just past
// the closing quote of a string whose opening quote is already consumed and
// whose contents begin at offset at. Escape sequences are honored but not
// decoded.
func (r *StreamReader) scanString(at int, quote byte) (int, error) {
	i := at
	for {
		b, ok, err := r.byteAt(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, r.syntaxErrorf("Unterminated string")
		}
		switch b {
		case '\\':
			i += 2
		case quote:
			return i + 1, nil
		case '\n':
			return 0, r.syntaxErrorf("Unterminated string")
		default:
			i++
		}
	}
}

func (r *StreamReader) nextQuotedValue(quote byte) (string, error) {
	end, err := r.scanString(0, quote)
	if err != nil {
		return "", err
	}
	w, err := r.src.window(r.pos, end-1)
	if err != nil {
		return "", err
	}
	dec, err := escape.Unquote(mem.B(w), r.lenient)
	if err != nil {
		return "", r.syntaxErrorf("%s", err)
	}
	r.advance(end)
	return string(dec), nil
}

func (r *StreamReader) skipQuotedValue(quote byte) error {
	end, err := r.scanString(0, quote)
	if err != nil {
		return err
	}
	r.advance(end)
	return nil
}

// scanUnquoted returns the byte length of the unquoted literal at the read
// position.
func (r *StreamReader) scanUnquoted() (int, error) {
	i := 0
	for {
		b, ok, err := r.byteAt(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			return i, nil
		}
		lit, err := r.isLiteralByte(b)
		if err != nil {
			return 0, err
		}
		if !lit {
			return i, nil
		}
		i++
	}
}

func (r *StreamReader) nextUnquotedValue() (string, error) {
	n, err := r.scanUnquoted()
	if err != nil {
		return "", err
	}
	w, err := r.src.window(r.pos, n)
	if err != nil {
		return "", err
	}
	s := string(w)
	r.advance(n)
	return s, nil
}

func (r *StreamReader) skipUnquotedValue() error {
	n, err := r.scanUnquoted()
	if err != nil {
		return err
	}
	r.advance(n)
	return nil
}

// Peek implements part of the Reader interface.
func (r *StreamReader) Peek() (Token, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return Invalid, err
	}
	return tokenOf(p), nil
}

// HasNext implements part of the Reader interface.
func (r *StreamReader) HasNext() (bool, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return false, err
	}
	return p != pkEndArray && p != pkEndObject && p != pkEOF, nil
}

// BeginArray implements part of the Reader interface.
func (r *StreamReader) BeginArray() error {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return err
	}
	if p != pkBeginArray {
		return r.expected("BEGIN_ARRAY", tokenOf(p))
	}
	if err := r.pushScope(scopeEmptyArray); err != nil {
		return err
	}
	r.pathIndices[r.stackSize-1] = 0
	r.peeked = pkNone
	return nil
}

// EndArray implements part of the Reader interface.
func (r *StreamReader) EndArray() error {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return err
	}
	if p != pkEndArray {
		return r.expected("END_ARRAY", tokenOf(p))
	}
	r.stackSize--
	r.pathIndices[r.stackSize-1]++
	r.peeked = pkNone
	return nil
}

// BeginObject implements part of the Reader interface.
func (r *StreamReader) BeginObject() error {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return err
	}
	if p != pkBeginObject {
		return r.expected("BEGIN_OBJECT", tokenOf(p))
	}
	if err := r.pushScope(scopeEmptyObject); err != nil {
		return err
	}
	r.peeked = pkNone
	return nil
}

// EndObject implements part of the Reader interface.
func (r *StreamReader) EndObject() error {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return err
	}
	if p != pkEndObject {
		return r.expected("END_OBJECT", tokenOf(p))
	}
	r.stackSize--
	r.pathNames[r.stackSize] = ""
	r.pathIndices[r.stackSize-1]++
	r.peeked = pkNone
	return nil
}

// NextName implements part of the Reader interface.
func (r *StreamReader) NextName() (string, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return "", err
	}
	var result string
	switch p {
	case pkUnquotedName:
		result, err = r.nextUnquotedValue()
	case pkSingleQuotedName:
		result, err = r.nextQuotedValue('\'')
	case pkDoubleQuotedName:
		result, err = r.nextQuotedValue('"')
	case pkBufferedName:
		result, r.peekedStr = r.peekedStr, ""
	default:
		return "", r.expected("a name", tokenOf(p))
	}
	if err != nil {
		return "", err
	}
	r.peeked = pkNone
	r.pathNames[r.stackSize-1] = result
	return result, nil
}

// SelectName implements part of the Reader interface. A fast path compares
// the upcoming bytes literally against the table's wire encodings; a miss
// there, for example a semantically equal alternate escaping, falls back to
// a decoded comparison, stashing the decoded name on failure so that the
// attempt observably consumes nothing.
func (r *StreamReader) SelectName(opts *Options) (int, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return -1, err
	}
	if p < pkSingleQuotedName || p > pkBufferedName {
		return -1, nil
	}
	if p == pkBufferedName {
		if i := opts.index(r.peekedStr); i >= 0 {
			r.pathNames[r.stackSize-1] = r.peekedStr
			r.peeked = pkNone
			r.peekedStr = ""
			return i, nil
		}
		return -1, nil
	}
	if p == pkDoubleQuotedName {
		if i, n, err := r.selectEncoded(opts); err != nil {
			return -1, err
		} else if i >= 0 {
			r.advance(n)
			r.peeked = pkNone
			r.pathNames[r.stackSize-1] = opts.strings[i]
			return i, nil
		}
	}
	lastPathName := r.pathNames[r.stackSize-1]
	name, err := r.NextName()
	if err != nil {
		return -1, err
	}
	if i := opts.index(name); i >= 0 {
		return i, nil
	}
	r.peeked = pkBufferedName
	r.peekedStr = name
	r.pathNames[r.stackSize-1] = lastPathName
	return -1, nil
}

// SkipName implements part of the Reader interface.
func (r *StreamReader) SkipName() error {
	r.check()
	if r.failOnUnknown {
		tok, err := r.Peek()
		if err != nil {
			return err
		}
		return dataErrorf("Cannot skip unexpected %v at %s", tok, r.Path())
	}
	p, err := r.doPeek()
	if err != nil {
		return err
	}
	switch p {
	case pkUnquotedName:
		err = r.skipUnquotedValue()
	case pkSingleQuotedName:
		err = r.skipQuotedValue('\'')
	case pkDoubleQuotedName:
		err = r.skipQuotedValue('"')
	case pkBufferedName:
		r.peekedStr = ""
	default:
		return r.expected("a name", tokenOf(p))
	}
	if err != nil {
		return err
	}
	r.peeked = pkNone
	r.pathNames[r.stackSize-1] = "null"
	return nil
}

// NextString implements part of the Reader interface.
func (r *StreamReader) NextString() (string, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return "", err
	}
	var result string
	switch p {
	case pkUnquoted:
		result, err = r.nextUnquotedValue()
	case pkSingleQuoted:
		result, err = r.nextQuotedValue('\'')
	case pkDoubleQuoted:
		result, err = r.nextQuotedValue('"')
	case pkBuffered:
		result, r.peekedStr = r.peekedStr, ""
	case pkInt:
		result = strconv.FormatInt(r.peekedInt, 10)
	case pkNumber:
		w, werr := r.src.window(r.pos, r.peekedNumLen)
		if werr != nil {
			return "", werr
		}
		result = string(w)
		r.advance(r.peekedNumLen)
	default:
		return "", r.expected("a string", tokenOf(p))
	}
	if err != nil {
		return "", err
	}
	r.peeked = pkNone
	r.pathIndices[r.stackSize-1]++
	return result, nil
}

// SelectString implements part of the Reader interface, with the same
// fast-path-then-fallback behavior as SelectName.
func (r *StreamReader) SelectString(opts *Options) (int, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return -1, err
	}
	if p < pkSingleQuoted || p > pkBuffered {
		return -1, nil
	}
	if p == pkBuffered {
		if i := opts.index(r.peekedStr); i >= 0 {
			r.peeked = pkNone
			r.peekedStr = ""
			r.pathIndices[r.stackSize-1]++
			return i, nil
		}
		return -1, nil
	}
	if p == pkDoubleQuoted {
		if i, n, err := r.selectEncoded(opts); err != nil {
			return -1, err
		} else if i >= 0 {
			r.advance(n)
			r.peeked = pkNone
			r.pathIndices[r.stackSize-1]++
			return i, nil
		}
	}
	s, err := r.NextString()
	if err != nil {
		return -1, err
	}
	if i := opts.index(s); i >= 0 {
		return i, nil
	}
	r.peeked = pkBuffered
	r.peekedStr = s
	r.pathIndices[r.stackSize-1]--
	return -1, nil
}

// selectEncoded compares the buffered input, positioned just past an
// opening double quote, against each candidate's encoded bytes. It reports
// the matched index and encoded length, or -1 without consuming anything.
func (r *StreamReader) selectEncoded(opts *Options) (int, int, error) {
	for i, enc := range opts.encoded {
		w, err := r.src.window(r.pos, len(enc))
		if err != nil {
			return -1, 0, err
		}
		if len(w) == len(enc) && mem.B(w).Equal(mem.B(enc)) {
			return i, len(enc), nil
		}
	}
	return -1, 0, nil
}

// NextBool implements part of the Reader interface.
func (r *StreamReader) NextBool() (bool, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return false, err
	}
	switch p {
	case pkTrue, pkFalse:
		r.peeked = pkNone
		r.pathIndices[r.stackSize-1]++
		return p == pkTrue, nil
	}
	return false, r.expected("a boolean", tokenOf(p))
}

// NextNull implements part of the Reader interface.
func (r *StreamReader) NextNull() error {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return err
	}
	if p != pkNull {
		return r.expected("null", tokenOf(p))
	}
	r.peeked = pkNone
	r.pathIndices[r.stackSize-1]++
	return nil
}

// NextFloat64 implements part of the Reader interface.
func (r *StreamReader) NextFloat64() (float64, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return 0, err
	}
	switch p {
	case pkInt:
		r.peeked = pkNone
		r.pathIndices[r.stackSize-1]++
		return float64(r.peekedInt), nil
	case pkNumber:
		w, werr := r.src.window(r.pos, r.peekedNumLen)
		if werr != nil {
			return 0, werr
		}
		r.peekedStr = string(w)
		r.advance(r.peekedNumLen)
	case pkSingleQuoted:
		if r.peekedStr, err = r.nextQuotedValue('\''); err != nil {
			return 0, err
		}
	case pkDoubleQuoted:
		if r.peekedStr, err = r.nextQuotedValue('"'); err != nil {
			return 0, err
		}
	case pkUnquoted:
		if r.peekedStr, err = r.nextUnquotedValue(); err != nil {
			return 0, err
		}
	case pkBuffered:
		// the stashed text is parsed below
	default:
		return 0, r.expected("a double", tokenOf(p))
	}

	// The text stays buffered on failure so the value can be re-read, for
	// example as a string.
	r.peeked = pkBuffered
	f, perr := strconv.ParseFloat(r.peekedStr, 64)
	if perr != nil {
		return 0, r.typeMismatch(r.peekedStr, "a double")
	}
	if !r.lenient && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return 0, r.syntaxErrorf("JSON forbids NaN and infinities: %v", f)
	}
	r.peeked = pkNone
	r.peekedStr = ""
	r.pathIndices[r.stackSize-1]++
	return f, nil
}

// NextInt64 implements part of the Reader interface.
func (r *StreamReader) NextInt64() (int64, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return 0, err
	}
	switch p {
	case pkInt:
		r.peeked = pkNone
		r.pathIndices[r.stackSize-1]++
		return r.peekedInt, nil
	case pkNumber:
		w, werr := r.src.window(r.pos, r.peekedNumLen)
		if werr != nil {
			return 0, werr
		}
		r.peekedStr = string(w)
		r.advance(r.peekedNumLen)
	case pkSingleQuoted, pkDoubleQuoted, pkUnquoted:
		switch p {
		case pkSingleQuoted:
			r.peekedStr, err = r.nextQuotedValue('\'')
		case pkDoubleQuoted:
			r.peekedStr, err = r.nextQuotedValue('"')
		case pkUnquoted:
			r.peekedStr, err = r.nextUnquotedValue()
		}
		if err != nil {
			return 0, err
		}
		if i, perr := strconv.ParseInt(r.peekedStr, 10, 64); perr == nil {
			r.peeked = pkNone
			r.peekedStr = ""
			r.pathIndices[r.stackSize-1]++
			return i, nil
		}
	case pkBuffered:
		if i, perr := strconv.ParseInt(r.peekedStr, 10, 64); perr == nil {
			r.peeked = pkNone
			r.peekedStr = ""
			r.pathIndices[r.stackSize-1]++
			return i, nil
		}
	default:
		return 0, r.expected("a long", tokenOf(p))
	}

	// Reinterpretation through a double is accepted only when the result is
	// exactly representable.
	r.peeked = pkBuffered
	f, perr := strconv.ParseFloat(r.peekedStr, 64)
	if perr != nil {
		return 0, r.typeMismatch(r.peekedStr, "a long")
	}
	i := int64(f)
	if math.IsNaN(f) || math.IsInf(f, 0) || float64(i) != f {
		return 0, r.typeMismatch(r.peekedStr, "a long")
	}
	r.peeked = pkNone
	r.peekedStr = ""
	r.pathIndices[r.stackSize-1]++
	return i, nil
}

// NextInt32 implements part of the Reader interface.
func (r *StreamReader) NextInt32() (int32, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return 0, err
	}
	switch p {
	case pkInt:
		if int64(int32(r.peekedInt)) != r.peekedInt {
			return 0, r.typeMismatch(r.peekedInt, "an int")
		}
		r.peeked = pkNone
		r.pathIndices[r.stackSize-1]++
		return int32(r.peekedInt), nil
	case pkNumber:
		w, werr := r.src.window(r.pos, r.peekedNumLen)
		if werr != nil {
			return 0, werr
		}
		r.peekedStr = string(w)
		r.advance(r.peekedNumLen)
	case pkSingleQuoted, pkDoubleQuoted, pkUnquoted:
		switch p {
		case pkSingleQuoted:
			r.peekedStr, err = r.nextQuotedValue('\'')
		case pkDoubleQuoted:
			r.peekedStr, err = r.nextQuotedValue('"')
		case pkUnquoted:
			r.peekedStr, err = r.nextUnquotedValue()
		}
		if err != nil {
			return 0, err
		}
		if i, perr := strconv.ParseInt(r.peekedStr, 10, 32); perr == nil {
			r.peeked = pkNone
			r.peekedStr = ""
			r.pathIndices[r.stackSize-1]++
			return int32(i), nil
		}
	case pkBuffered:
		if i, perr := strconv.ParseInt(r.peekedStr, 10, 32); perr == nil {
			r.peeked = pkNone
			r.peekedStr = ""
			r.pathIndices[r.stackSize-1]++
			return int32(i), nil
		}
	default:
		return 0, r.expected("an int", tokenOf(p))
	}

	r.peeked = pkBuffered
	f, perr := strconv.ParseFloat(r.peekedStr, 64)
	if perr != nil {
		return 0, r.typeMismatch(r.peekedStr, "an int")
	}
	i := int32(f)
	if math.IsNaN(f) || math.IsInf(f, 0) || float64(i) != f {
		return 0, r.typeMismatch(r.peekedStr, "an int")
	}
	r.peeked = pkNone
	r.peekedStr = ""
	r.pathIndices[r.stackSize-1]++
	return i, nil
}

// PromoteNameToValue implements part of the Reader interface.
func (r *StreamReader) PromoteNameToValue() error {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return err
	}
	switch p {
	case pkDoubleQuotedName:
		r.peeked = pkDoubleQuoted
	case pkSingleQuotedName:
		r.peeked = pkSingleQuoted
	case pkUnquotedName:
		r.peeked = pkUnquoted
	case pkBufferedName:
		r.peeked = pkBuffered
	default:
		return r.expected("a name", tokenOf(p))
	}
	return nil
}

// SkipValue implements part of the Reader interface.
func (r *StreamReader) SkipValue() error {
	r.check()
	if r.failOnUnknown {
		tok, err := r.Peek()
		if err != nil {
			return err
		}
		return dataErrorf("Cannot skip unexpected %v at %s", tok, r.Path())
	}
	count := 0
	for {
		p, err := r.doPeek()
		if err != nil {
			return err
		}
		switch p {
		case pkBeginArray:
			if err := r.pushScope(scopeEmptyArray); err != nil {
				return err
			}
			count++
		case pkBeginObject:
			if err := r.pushScope(scopeEmptyObject); err != nil {
				return err
			}
			count++
		case pkEndArray, pkEndObject:
			if count == 0 {
				return r.expected("a value", tokenOf(p))
			}
			r.stackSize--
			count--
		case pkUnquoted, pkUnquotedName:
			if err := r.skipUnquotedValue(); err != nil {
				return err
			}
		case pkSingleQuoted, pkSingleQuotedName:
			if err := r.skipQuotedValue('\''); err != nil {
				return err
			}
		case pkDoubleQuoted, pkDoubleQuotedName:
			if err := r.skipQuotedValue('"'); err != nil {
				return err
			}
		case pkNumber:
			r.advance(r.peekedNumLen)
		case pkBuffered, pkBufferedName:
			r.peekedStr = ""
		case pkEOF:
			return r.expected("a value", EndDocument)
		}
		r.peeked = pkNone
		if count == 0 {
			break
		}
	}
	r.pathIndices[r.stackSize-1]++
	r.pathNames[r.stackSize-1] = "null"
	return nil
}

// NextSource implements part of the Reader interface. The value's boundary
// is found by structural counting only; strings, escapes, and (in lenient
// mode) comments are honored, but the bytes are not validated.
func (r *StreamReader) NextSource() (*ValueSource, error) {
	r.check()
	p, err := r.doPeek()
	if err != nil {
		return nil, err
	}
	var data []byte
	switch p {
	case pkBeginArray, pkBeginObject:
		n, serr := r.scanBalanced()
		if serr != nil {
			return nil, serr
		}
		w, werr := r.src.window(r.pos, n)
		if werr != nil {
			return nil, werr
		}
		data = make([]byte, 0, n+1)
		if p == pkBeginArray {
			data = append(data, '[')
		} else {
			data = append(data, '{')
		}
		data = append(data, w...)
		r.advance(n)
	case pkDoubleQuoted, pkSingleQuoted:
		q := byte('"')
		if p == pkSingleQuoted {
			q = '\''
		}
		end, serr := r.scanString(0, q)
		if serr != nil {
			return nil, serr
		}
		w, werr := r.src.window(r.pos, end)
		if werr != nil {
			return nil, werr
		}
		data = append(append(make([]byte, 0, end+1), q), w...)
		r.advance(end)
	case pkUnquoted:
		n, serr := r.scanUnquoted()
		if serr != nil {
			return nil, serr
		}
		w, werr := r.src.window(r.pos, n)
		if werr != nil {
			return nil, werr
		}
		data = append([]byte(nil), w...)
		r.advance(n)
	case pkNumber:
		w, werr := r.src.window(r.pos, r.peekedNumLen)
		if werr != nil {
			return nil, werr
		}
		data = append([]byte(nil), w...)
		r.advance(r.peekedNumLen)
	case pkInt:
		data = strconv.AppendInt(nil, r.peekedInt, 10)
	case pkTrue:
		data = []byte("true")
	case pkFalse:
		data = []byte("false")
	case pkNull:
		data = []byte("null")
	case pkBuffered:
		data = append(append([]byte{'"'}, escape.Quote(mem.S(r.peekedStr))...), '"')
		r.peekedStr = ""
	default:
		return nil, r.expected("a value", tokenOf(p))
	}
	r.peeked = pkNone
	r.pathIndices[r.stackSize-1]++
	return &ValueSource{src: r.src, gen: r.src.gen, data: data}, nil
}

// scanBalanced returns the byte length from the read position to the end of
// the composite value whose opening delimiter has just been consumed,
// inclusive of the closing delimiter.
func (r *StreamReader) scanBalanced() (int, error) {
	depth := 1
	i := 0
	for {
		b, ok, err := r.byteAt(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, r.eofError()
		}
		switch b {
		case '[', '{':
			depth++
			i++
		case ']', '}':
			depth--
			i++
			if depth == 0 {
				return i, nil
			}
		case '"':
			end, err := r.scanString(i+1, '"')
			if err != nil {
				return 0, err
			}
			i = end
		case '\'':
			if !r.lenient {
				i++
				continue
			}
			end, err := r.scanString(i+1, '\'')
			if err != nil {
				return 0, err
			}
			i = end
		case '/':
			if !r.lenient {
				i++
				continue
			}
			b2, ok2, err := r.byteAt(i + 1)
			if err != nil {
				return 0, err
			}
			switch {
			case ok2 && b2 == '/':
				if i, err = r.scanPastLine(i + 2); err != nil {
					return 0, err
				}
			case ok2 && b2 == '*':
				if i, err = r.scanPastBlockComment(i + 2); err != nil {
					return 0, err
				}
			default:
				i++
			}
		case '#':
			if !r.lenient {
				i++
				continue
			}
			var err error
			if i, err = r.scanPastLine(i + 1); err != nil {
				return 0, err
			}
		default:
			i++
		}
	}
}

func (r *StreamReader) scanPastLine(at int) (int, error) {
	for i := at; ; i++ {
		b, ok, err := r.byteAt(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			return i, nil
		}
		if b == '\n' || b == '\r' {
			return i + 1, nil
		}
	}
}

func (r *StreamReader) scanPastBlockComment(at int) (int, error) {
	for i := at; ; i++ {
		b, ok, err := r.byteAt(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, r.syntaxErrorf("Unterminated comment")
		}
		if b != '*' {
			continue
		}
		b2, ok2, err := r.byteAt(i + 1)
		if err != nil {
			return 0, err
		}
		if ok2 && b2 == '/' {
			return i + 2, nil
		}
	}
}

// PeekReader implements part of the Reader interface.
func (r *StreamReader) PeekReader() Reader {
	r.check()
	cp := &StreamReader{
		src:          r.src,
		pos:          r.pos,
		gen:          r.src.gen,
		peeked:       r.peeked,
		peekedInt:    r.peekedInt,
		peekedNumLen: r.peekedNumLen,
		peekedStr:    r.peekedStr,
	}
	cp.state.copyFrom(&r.state)
	return cp
}

// Close implements part of the Reader interface. Closing a lookahead
// snapshot never closes the shared source; closing the owning reader
// invalidates all snapshots.
func (r *StreamReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.peeked = pkNone
	r.peekedStr = ""
	r.scopes[0] = scopeClosed
	r.stackSize = 1
	if r.owner {
		return r.src.close()
	}
	return nil
}
