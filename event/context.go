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

// Package event implements the reusable I/O handle a command acquires for
// the lifetime of one attempt. The source system threads a socket-args
// struct through IOCP completion callbacks and alternates its "user token"
// between the owning command and its resting buffer segment; Go has no
// completion callback to carry that token through, so Context narrows to
// exactly the state that survives the collapse: the buffer segment bound
// to the attempt, and a back-reference to whichever owner currently holds
// it, cleared on release so a stale pointer can't leak to the next user.
package event

import (
	"context"

	"github.com/nabbar/kvasync/buffer"
)

// Owner is the minimal identity a Context needs from whatever acquired it,
// used only for diagnostics (log fields, trace correlation).
type Owner interface {
	TraceID() string
}

// Context is exclusively owned by at most one caller at a time. Pool.Get
// hands out a Context with no owner bound; the caller must Bind itself
// before using the segment and Pool.Put clears the binding on return.
type Context struct {
	Segment *buffer.Segment

	owner Owner
}

// Bind attaches o as the current owner of this context.
func (c *Context) Bind(o Owner) {
	c.owner = o
}

// Owner returns the currently bound owner, or nil if the context is idle.
func (c *Context) Owner() Owner {
	return c.owner
}

// EnsureSegment returns the buffer segment bound to this context,
// acquiring one from pool on first use. If pool's generation has moved
// on since the segment was bound (e.g. the pool was resized), the stale
// segment is released and a fresh one acquired, matching the source
// system's has_buffer_changed reset.
func (c *Context) EnsureSegment(ctx context.Context, pool *buffer.Pool) (*buffer.Segment, error) {
	if c.Segment != nil && pool.HasBufferChanged(c.Segment) {
		pool.Put(c.Segment)
		c.Segment = nil
	}

	if c.Segment == nil {
		s, err := pool.Get(ctx)
		if err != nil {
			return nil, err
		}
		c.Segment = s
	}

	return c.Segment, nil
}

// reset clears ownership and returns the bound segment to bufPool, ready
// for Pool to recycle the Context itself.
func (c *Context) reset(bufPool *buffer.Pool) {
	c.owner = nil

	if c.Segment != nil {
		bufPool.Put(c.Segment)
		c.Segment = nil
	}
}
