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

// Package listener defines the completion contract an AsyncCommand
// invokes once (see Listener for the one exception), from whichever
// goroutine first wins the command's terminal CAS. Callers who want a request/response shape instead of a
// callback get ExecuteAsync, a thin adapter to a buffered channel.
package listener

import (
	"context"

	"github.com/nabbar/kvasync/record"
)

// Listener receives exactly one call, OnSuccess or OnFailure, with one
// exception: if OnSuccess panics, the command recovers the panic and then
// calls OnFailure with a command.ErrorListenerPanic error, so both fire.
// Implementations must not assume a particular goroutine.
type Listener interface {
	OnSuccess(rec *record.Record)
	OnFailure(err error)
}

// Func adapts two plain functions to the Listener interface.
type Func struct {
	Success func(rec *record.Record)
	Failure func(err error)
}

func (f Func) OnSuccess(rec *record.Record) {
	if f.Success != nil {
		f.Success(rec)
	}
}

func (f Func) OnFailure(err error) {
	if f.Failure != nil {
		f.Failure(err)
	}
}

// result carries whichever of the two outcomes a channel-backed Listener
// observed.
type result struct {
	rec *record.Record
	err error
}

// channelListener is a one-shot Listener that publishes its single call to
// a buffered channel of capacity 1, so OnSuccess/OnFailure never block
// even if nobody is waiting yet.
type channelListener struct {
	ch chan result
}

// NewChannel returns a Listener and the channel its single completion will
// be published on. Used to build ExecuteAsync-style call sites without
// duplicating the completion bookkeeping per caller.
func NewChannel() (Listener, <-chan result) {
	ch := make(chan result, 1)
	return &channelListener{ch: ch}, ch
}

func (c *channelListener) OnSuccess(rec *record.Record) {
	c.ch <- result{rec: rec}
}

func (c *channelListener) OnFailure(err error) {
	c.ch <- result{err: err}
}

// ExecuteAsync adapts a callback-style submit function (typically a
// Command's Execute method) to a single request/response call: it builds
// a one-shot channel Listener, hands it to submit, then waits for either
// the completion or ctx's cancellation. submit must invoke the Listener
// exactly once, synchronously or from another goroutine.
func ExecuteAsync(ctx context.Context, submit func(Listener)) (*record.Record, error) {
	l, ch := NewChannel()
	submit(l)

	select {
	case r := <-ch:
		return r.rec, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
