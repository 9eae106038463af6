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

// Package timeout implements the single supervisor goroutine that walks
// every in-flight command with a deadline and forces a timeout transition
// once it elapses. It is the same ticker/select shape the connpool
// package's idle tender uses, a ticker/Done/close three-way select loop,
// scanning a registered set of handles each tick instead of evicting idle
// connections. The registered set itself is a libctx.Config[uuid.UUID],
// the same generic registry ioutils/mapCloser keys off its own model's
// lifetime, rather than a hand-rolled mutex-guarded map.
package timeout

import (
	"context"
	"sync/atomic"
	"time"

	libctx "github.com/nabbar/kvasync/context"

	"github.com/google/uuid"
)

// Handle is the minimal surface a Supervisor needs from a command: its
// deadline, whether it already terminated, and the single operation the
// supervisor is allowed to perform on it.
type Handle interface {
	// Deadline returns the command's deadline and whether one is set; a
	// handle with ok=false is never expired, only dropped once Done.
	Deadline() (deadline time.Time, ok bool)
	// Done reports whether the command already reached a terminal state,
	// in which case the supervisor stops watching it.
	Done() bool
	// Expire is called at most meaningfully once: it attempts the
	// IN_PROGRESS -> FAIL_TIMEOUT CAS and, if it wins, forces the
	// in-flight I/O to unwind by closing the connection. It never
	// notifies a listener; that is the losing goroutine's job.
	Expire()
}

// Supervisor runs one goroutine that periodically inspects every
// registered Handle and expires the ones past their deadline.
type Supervisor struct {
	handles libctx.Config[uuid.UUID]

	closed      atomic.Bool
	closeTender chan struct{}
}

// New starts a Supervisor ticking every period until ctx is done or
// Close is called.
func New(ctx context.Context, period time.Duration) *Supervisor {
	s := &Supervisor{
		handles:     libctx.NewConfig[uuid.UUID](func() context.Context { return ctx }),
		closeTender: make(chan struct{}),
	}

	go s.tender(ctx, period)

	return s
}

// Register adds h to the watch list under id, typically the owning
// command's trace id. A command with no timeout policy should not call
// this at all.
func (s *Supervisor) Register(id uuid.UUID, h Handle) {
	s.handles.Store(id, h)
}

// Unregister removes id from the watch list; commands call this on their
// own terminal completion to avoid the supervisor doing useless work.
func (s *Supervisor) Unregister(id uuid.UUID) {
	s.handles.Delete(id)
}

// Len reports the number of currently watched handles, for tests and
// metrics.
func (s *Supervisor) Len() int {
	n := 0
	s.handles.Walk(func(_ uuid.UUID, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func (s *Supervisor) tender(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = 10 * time.Millisecond
	}

	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			s.sweep()
		case <-ctx.Done():
			return
		case <-s.closeTender:
			return
		}
	}
}

func (s *Supervisor) sweep() {
	now := time.Now()

	due := make([]uuid.UUID, 0)
	expired := make([]Handle, 0)

	s.handles.Walk(func(id uuid.UUID, val interface{}) bool {
		h, ok := val.(Handle)
		if !ok {
			return true
		}
		if h.Done() {
			due = append(due, id)
			return true
		}
		if dl, ok := h.Deadline(); ok && now.After(dl) {
			due = append(due, id)
			expired = append(expired, h)
		}
		return true
	})

	for _, id := range due {
		s.handles.Delete(id)
	}

	for _, h := range expired {
		h.Expire()
	}
}

// Close stops the tender goroutine. Already-registered handles stay
// registered but are no longer swept, so none of them is expired. Safe to
// call more than once.
func (s *Supervisor) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.closeTender)
	}
}
