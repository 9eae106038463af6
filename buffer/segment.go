/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package buffer implements the fixed-capacity shared byte arena that
// backs every command's send/receive path: a bounded pool of reusable
// segments plus an overflow path for messages larger than the pool's
// per-segment cutoff.
package buffer

import (
	"bytes"

	iobuf "github.com/nabbar/kvasync/ioutils/bufferReadCloser"
)

// Segment is a byte range a command writes its request into and reads its
// response from. Segments checked out of a Pool are capped at the pool's
// cutoff; oversized segments (built by Pool.GetOversized) are never
// returned to the pool.
type Segment struct {
	iobuf.Buffer

	raw      *bytes.Buffer
	capacity int
	pooled   bool
	gen      uint64
}

// Capacity returns the maximum number of bytes this segment can hold
// without growing (pool segments never grow past the cutoff).
func (s *Segment) Capacity() int {
	return s.capacity
}

// Pooled reports whether this segment came from a Pool free-list (and
// therefore must be returned via Pool.Put rather than discarded).
func (s *Segment) Pooled() bool {
	return s.pooled
}

// EnsureCapacity grows the segment's backing buffer to at least n bytes.
// Pool segments refuse to grow past the configured cutoff; callers must
// fall back to Pool.GetOversized when this returns ErrorBufferTooSmall.
func (s *Segment) EnsureCapacity(n int) error {
	if n <= s.capacity {
		return nil
	}
	if s.pooled {
		return ErrorBufferTooSmall.Error()
	}
	s.capacity = n
	return nil
}

// Bytes returns the segment's current content. The returned slice is only
// valid until the next Write or Reset on this segment.
func (s *Segment) Bytes() []byte {
	return s.raw.Bytes()
}

// Reset clears the segment's content in place, without returning it to
// its pool, so one segment can be reused across a header read and the
// body read that follows it.
func (s *Segment) Reset() {
	s.raw.Reset()
}

// Grow extends the segment's content by n zero bytes and returns a slice
// view onto the newly added region, backed by the same array as Bytes.
// Callers that need to read a known-length payload straight off a
// connection use this to land the bytes directly in the segment's
// storage instead of an intermediate allocation; the returned slice is
// only valid until the next Write, Grow or Reset on this segment.
func (s *Segment) Grow(n int) []byte {
	off := s.raw.Len()
	s.raw.Write(make([]byte, n))
	return s.raw.Bytes()[off:]
}

// rebind re-wraps the segment's raw buffer with a fresh Close callback,
// invoked once by the owning command on release.
func (s *Segment) rebind(onClose func() error) {
	s.Buffer = iobuf.NewBuffer(s.raw, onClose)
}

func newSegment(capacity int, pooled bool, gen uint64) *Segment {
	raw := bytes.NewBuffer(make([]byte, 0, capacity))
	return &Segment{
		Buffer:   iobuf.NewBuffer(raw, nil),
		raw:      raw,
		capacity: capacity,
		pooled:   pooled,
		gen:      gen,
	}
}
