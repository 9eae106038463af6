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

package multi

import (
	"context"
	"sync"
)

// item wraps one RecordSet slot: either a Result or the end-of-stream
// sentinel, which carries the run's first error, if any.
type item struct {
	res Result
	end bool
}

// RecordSet is the bounded producer/consumer queue parser goroutines push
// decoded records into and a single caller drains via Next. Close aborts
// an in-progress run early: every child still in flight observes the
// cancellation at its next record boundary instead of running to
// completion.
type RecordSet struct {
	ch chan item

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewRecordSet allocates a RecordSet buffering up to size pending items.
func NewRecordSet(size int) *RecordSet {
	if size < 1 {
		size = 1
	}
	return &RecordSet{ch: make(chan item, size)}
}

// bindCancel records the cancel func of the run this RecordSet backs, so
// a later Close can reach it.
func (rs *RecordSet) bindCancel(cancel context.CancelFunc) {
	rs.mu.Lock()
	rs.cancel = cancel
	rs.mu.Unlock()
}

// Close aborts the run this RecordSet is attached to, if any is still in
// flight. Safe to call more than once, and safe to call after the run has
// already finished on its own.
func (rs *RecordSet) Close() {
	rs.mu.Lock()
	cancel := rs.cancel
	rs.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// push enqueues one record, blocking until there is room or ctx is done.
func (rs *RecordSet) push(ctx context.Context, r Result) error {
	select {
	case rs.ch <- item{res: r}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pushEnd enqueues the terminal sentinel, carrying err if the run failed.
// It blocks until the channel has room for the end marker; no slot is
// reserved for it, so it waits for a reader if the RecordSet is full.
func (rs *RecordSet) pushEnd(err error) {
	rs.ch <- item{end: true, res: Result{Err: err}}
}

// Next blocks for the next record, reporting ok=false once the end
// sentinel is reached (with the run's first error, if any) or ctx is
// done first.
func (rs *RecordSet) Next(ctx context.Context) (Result, bool, error) {
	select {
	case it := <-rs.ch:
		if it.end {
			return Result{}, false, it.res.Err
		}
		return it.res, true, nil
	case <-ctx.Done():
		return Result{}, false, ctx.Err()
	}
}
