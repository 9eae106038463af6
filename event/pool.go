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

package event

import (
	"context"

	"github.com/nabbar/kvasync/buffer"
)

// Pool hands out a bounded set of Context values, the same channel-backed
// free-list shape as buffer.Pool. A command that cannot acquire a Context
// within its deadline must fail rather than block the caller forever.
type Pool struct {
	free    chan *Context
	bufPool *buffer.Pool
}

// NewPool preallocates size Context values, each initially unbound and
// without a buffer segment; segments are acquired lazily on first use via
// Context.EnsureSegment against bufPool.
func NewPool(size int, bufPool *buffer.Pool) *Pool {
	p := &Pool{
		free:    make(chan *Context, size),
		bufPool: bufPool,
	}

	for i := 0; i < size; i++ {
		p.free <- &Context{}
	}

	return p
}

// Get blocks until a Context is available or ctx is done.
func (p *Pool) Get(ctx context.Context) (*Context, error) {
	select {
	case c := <-p.free:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryGet returns immediately, reporting false if the pool is exhausted.
func (p *Pool) TryGet() (*Context, bool) {
	select {
	case c := <-p.free:
		return c, true
	default:
		return nil, false
	}
}

// Put releases c's owner and buffer segment, then returns it to the pool.
// A nil Context is ignored; if the pool already holds size idle contexts,
// c is dropped instead of being returned.
func (p *Pool) Put(c *Context) {
	if c == nil {
		return
	}

	c.reset(p.bufPool)

	select {
	case p.free <- c:
	default:
	}
}

// Len reports the number of currently idle contexts, for tests and metrics.
func (p *Pool) Len() int {
	return len(p.free)
}
