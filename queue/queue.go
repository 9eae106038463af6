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

// Package queue implements admission control in front of a bounded
// event.Pool: when every Context is checked out, a blocking caller parks
// on a FIFO instead of failing, and the next Put to release a Context
// hands it straight to the oldest parked waiter before the Context ever
// reaches the pool's own free list. A non-blocking caller (TryGet) instead
// gets false immediately and the rejection is counted, mirroring the
// source system's COMMAND_REJECTED path; ErrorRejected is the error code
// registered for that outcome, and TryGet itself returns no error value.
package queue

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/nabbar/kvasync/buffer"
	"github.com/nabbar/kvasync/event"
)

// parked is one blocking Get call waiting its turn on the FIFO. cancelled
// is set by a Get that gave up on ctx, so a concurrent Put skips it
// instead of delivering into a channel nobody will ever read from.
type parked struct {
	deliver   chan *event.Context
	cancelled atomic.Bool
}

// Queue wraps an event.Pool with FIFO-fair blocking admission and a
// rejecting non-blocking path, plus the live counters an introspection
// endpoint can read.
type Queue struct {
	pool *event.Pool

	mu   sync.Mutex
	fifo *list.List

	parkedCount   atomic.Int64
	rejectedCount atomic.Int64
	inFlightCount atomic.Int64
}

// New builds a Queue whose underlying event.Pool preallocates size
// Contexts drawing buffer segments from bufPool.
func New(size int, bufPool *buffer.Pool) *Queue {
	return &Queue{
		pool: event.NewPool(size, bufPool),
		fifo: list.New(),
	}
}

// Get acquires a Context, blocking on the FIFO if the pool is exhausted
// until one is released or ctx is done. Every waiter is served in the
// order it parked: no caller can be overtaken indefinitely.
func (q *Queue) Get(ctx context.Context) (*event.Context, error) {
	if ec, ok := q.pool.TryGet(); ok {
		q.inFlightCount.Add(1)
		return ec, nil
	}

	p := &parked{deliver: make(chan *event.Context, 1)}

	q.mu.Lock()
	el := q.fifo.PushBack(p)
	q.mu.Unlock()
	q.parkedCount.Add(1)

	select {
	case ec := <-p.deliver:
		q.parkedCount.Add(-1)
		q.inFlightCount.Add(1)
		return ec, nil
	case <-ctx.Done():
		p.cancelled.Store(true)
		q.parkedCount.Add(-1)

		q.mu.Lock()
		q.fifo.Remove(el)
		q.mu.Unlock()

		// a concurrent Put may have already dequeued el and handed it a
		// Context, crediting inFlightCount for this waiter; drain it and
		// release it back through Put so that credit isn't leaked.
		select {
		case ec := <-p.deliver:
			q.Put(ec)
		default:
		}

		return nil, ctx.Err()
	}
}

// TryGet acquires a Context without blocking, reporting false (and
// counting a rejection) if the pool is currently exhausted.
func (q *Queue) TryGet() (*event.Context, bool) {
	ec, ok := q.pool.TryGet()
	if !ok {
		q.rejectedCount.Add(1)
		return nil, false
	}

	q.inFlightCount.Add(1)
	return ec, true
}

// Put releases ec. If a blocking Get is parked on the FIFO, ec is handed
// straight to the oldest one instead of ever touching the free list,
// preserving FIFO fairness; otherwise it returns to the pool as usual.
func (q *Queue) Put(ec *event.Context) {
	q.inFlightCount.Add(-1)

	for {
		q.mu.Lock()
		front := q.fifo.Front()
		if front == nil {
			q.mu.Unlock()
			break
		}
		q.fifo.Remove(front)
		q.mu.Unlock()

		p := front.Value.(*parked)
		if p.cancelled.Load() {
			continue
		}

		p.deliver <- ec
		q.inFlightCount.Add(1)
		return
	}

	q.pool.Put(ec)
}

// Stats is a point-in-time snapshot of the queue's admission counters.
type Stats struct {
	Parked   int64 `json:"parked"`
	Rejected int64 `json:"rejected"`
	InFlight int64 `json:"inFlight"`
}

// Stats returns the queue's current counters, for tests and the optional
// introspection endpoint.
func (q *Queue) Stats() Stats {
	return Stats{
		Parked:   q.parkedCount.Load(),
		Rejected: q.rejectedCount.Load(),
		InFlight: q.inFlightCount.Load(),
	}
}
