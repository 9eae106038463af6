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

package buffer

import (
	"context"
	"sync/atomic"
)

// Pool is a finite, fixed-capacity arena of Segments. Segments at or below
// Cutoff are drawn from (and returned to) a bounded free-list; requests
// above Cutoff bypass the pool entirely via GetOversized.
type Pool struct {
	free chan *Segment
	gen  uint64
	cut  int
	size int
}

// NewPool preallocates size segments of cutoff bytes each.
func NewPool(size, cutoff int) *Pool {
	p := &Pool{
		free: make(chan *Segment, size),
		cut:  cutoff,
		size: size,
	}

	for i := 0; i < size; i++ {
		p.free <- p.newPooled()
	}

	return p
}

func (p *Pool) newPooled() *Segment {
	return newSegment(p.cut, true, atomic.LoadUint64(&p.gen))
}

// Cutoff returns the maximum size, in bytes, a pooled segment may hold.
func (p *Pool) Cutoff() int {
	return p.cut
}

// Get blocks until a pooled segment is available or ctx is done.
func (p *Pool) Get(ctx context.Context) (*Segment, error) {
	select {
	case s := <-p.free:
		p.rebind(s)
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryGet returns a pooled segment without blocking, or ok=false if the
// pool is currently exhausted.
func (p *Pool) TryGet() (s *Segment, ok bool) {
	select {
	case s = <-p.free:
		p.rebind(s)
		return s, true
	default:
		return nil, false
	}
}

// GetOversized allocates a standalone segment for a message larger than
// Cutoff. The returned segment is never pooled; Put silently drops it.
func (p *Pool) GetOversized(size int) *Segment {
	return newSegment(size, false, atomic.LoadUint64(&p.gen))
}

// rebind installs the release-to-pool close callback on a freshly
// checked-out pooled segment; Close (called by the command on command
// completion) both resets the backing bytes.Buffer and returns the
// segment to the free-list exactly once.
func (p *Pool) rebind(s *Segment) {
	s.rebind(func() error {
		p.free <- s
		return nil
	})
}

// HasBufferChanged reports whether the pool's generation advanced since
// the segment was issued (e.g. after Resize); the caller must discard its
// offset bookkeeping and re-acquire.
func (p *Pool) HasBufferChanged(s *Segment) bool {
	return s.gen != atomic.LoadUint64(&p.gen)
}

// Resize replaces the pool's generation marker, invalidating every
// outstanding segment's offset cache without touching in-flight buffers.
func (p *Pool) Resize() {
	atomic.AddUint64(&p.gen, 1)
}

// Put returns a segment to its origin: pooled segments go back on the
// free-list (via their Close callback), oversized segments are dropped
// for the garbage collector.
func (p *Pool) Put(s *Segment) {
	if s == nil {
		return
	}
	if !s.pooled {
		return
	}
	_ = s.Close()
}
