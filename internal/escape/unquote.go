// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes the interior of a JSON string, with the enclosing
// quotation marks already removed. Escape sequences are replaced with their
// unescaped equivalents, and a pair of Unicode escapes encoding a UTF-16
// surrogate pair is combined into the rune it designates. An unpaired
// surrogate decodes as the Unicode replacement rune.
//
// In lenient mode the non-standard escapes \' and an escaped literal line
// feed are also accepted. Any other unknown or incomplete escape sequence
// is an error.
func Unquote(src mem.RO, lenient bool) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}

	putRune := func(r rune) {
		var buf [4]byte
		n := utf8.EncodeRune(buf[:], r)
		dec = append(dec, buf[:n]...)
	}
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		c := src.At(0)
		src = src.SliceFrom(1)
		switch c {
		case '"', '\\', '/':
			dec = append(dec, c)
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case '\'':
			if !lenient {
				return nil, errors.New(`invalid escape sequence \'`)
			}
			dec = append(dec, '\'')
		case '\n':
			if !lenient {
				return nil, errors.New("invalid escaped line feed")
			}
			dec = append(dec, '\n')
		case 'u':
			r, rest, err := decodeHex16(src)
			if err != nil {
				return nil, err
			}
			src = rest
			if !utf16.IsSurrogate(r) {
				putRune(r)
				break
			}
			// A high surrogate may be completed by an immediately following
			// \uXXXX low surrogate. Anything else decodes as a replacement.
			if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
				r2, rest2, err := decodeHex16(src.SliceFrom(2))
				if err == nil {
					if cp := utf16.DecodeRune(r, r2); cp != utf8.RuneError {
						putRune(cp)
						src = rest2
						break
					}
				}
			}
			putRune(utf8.RuneError)
		default:
			return nil, fmt.Errorf("invalid escape sequence \\%c", rune(c))
		}

		// Look for the next escape sequence, and if one is not found we can
		// blit the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// decodeHex16 decodes exactly 4 hexadecimal digits from the front of src.
func decodeHex16(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	v, err := parseHex(src.SliceTo(4))
	if err != nil {
		return 0, src, err
	}
	return rune(v), src.SliceFrom(4), nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
