// Copyright (C) 2025 The jtoken Authors. All Rights Reserved.

package jtoken

import (
	"io"
)

// A source owns an underlying byte stream and buffers unconsumed input so
// that more than one cursor can observe the same upcoming bytes: the owning
// reader, any lookahead snapshots, and raw value windows. Offsets are
// absolute positions in the stream.
//
// The owning reader commits its consumption point as it advances; bytes
// below the commit point may be discarded. Every commit bumps a generation
// counter, which snapshots and value windows compare against to detect that
// the owner has moved past them.
type source struct {
	r      io.Reader
	buf    []byte // buffered bytes, covering [base, base+len(buf))
	base   int64  // stream offset of buf[0]
	mark   int64  // owner consumption point; bytes below may be dropped
	gen    int64
	eof    bool
	err    error // sticky read error (never io.EOF)
	closed bool
}

func newSource(r io.Reader) *source { return &source{r: r} }

// fill reads from the underlying stream until the buffer covers offsets up
// to at least upto, or the stream ends.
func (s *source) fill(upto int64) error {
	if s.err != nil {
		return s.err
	}
	for !s.eof && s.base+int64(len(s.buf)) < upto {
		// Drop bytes the owner has consumed before growing the buffer.
		if drop := s.mark - s.base; drop > 0 {
			s.buf = append(s.buf[:0], s.buf[drop:]...)
			s.base = s.mark
		}
		n := len(s.buf)
		if cap(s.buf)-n < 512 {
			size := 2 * cap(s.buf)
			if size < 4096 {
				size = 4096
			}
			nb := make([]byte, n, size)
			copy(nb, s.buf)
			s.buf = nb
		}
		m, err := s.r.Read(s.buf[n:cap(s.buf)])
		s.buf = s.buf[:n+m]
		if err == io.EOF {
			s.eof = true
		} else if err != nil {
			s.err = err
			return err
		}
	}
	return nil
}

// window returns up to n buffered bytes starting at absolute offset off,
// filling from the stream as needed. The result is shorter than n only at
// end of input. The returned slice is valid only until the next fill or
// commit.
func (s *source) window(off int64, n int) ([]byte, error) {
	if err := s.fill(off + int64(n)); err != nil {
		return nil, err
	}
	lo := off - s.base
	if lo < 0 {
		panic(stateErrorf("read at offset %d below consumption point %d", off, s.base))
	}
	if lo > int64(len(s.buf)) {
		return nil, nil
	}
	hi := lo + int64(n)
	if hi > int64(len(s.buf)) {
		hi = int64(len(s.buf))
	}
	return s.buf[lo:hi], nil
}

// commit advances the owner consumption point and invalidates outstanding
// snapshots and value windows.
func (s *source) commit(off int64) {
	s.mark = off
	s.gen++
}

func (s *source) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.gen++
	s.buf = nil
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// A ValueSource is a short-lived window over the exact raw bytes of one
// value, as returned by Reader.NextSource. It must be fully consumed or
// discarded before any other operation on the reader that produced it:
// reading from a window after the reader has advanced panics with a
// *StateError. Closing a ValueSource never closes or otherwise affects the
// reader.
type ValueSource struct {
	src    *source
	gen    int64
	data   []byte
	off    int
	closed bool
}

// Read satisfies io.Reader.
func (v *ValueSource) Read(p []byte) (int, error) {
	rest := v.rest()
	if len(rest) == 0 {
		return 0, io.EOF
	}
	n := copy(p, rest)
	v.off += n
	return n, nil
}

// Bytes returns the unread remainder of the window without consuming it.
// The slice is valid only until the reader that produced the window is
// advanced.
func (v *ValueSource) Bytes() []byte { return v.rest() }

// Close discards the window. It is always safe to call, never affects the
// reader, and is not required: an abandoned window is simply garbage.
func (v *ValueSource) Close() error {
	v.closed = true
	v.data = nil
	return nil
}

func (v *ValueSource) rest() []byte {
	if v.closed {
		return nil
	}
	if v.src.gen != v.gen {
		panic(stateErrorf("value source used after the reader advanced"))
	}
	return v.data[v.off:]
}
