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

// Package connpool implements a bounded per-node pool of conn.Conn, with a
// background tender evicting idle connections and a circuit breaker
// shedding a node that is failing to connect. The idle tender is a
// ticker/select loop that expires idle connections.
package connpool

import (
	"context"
	"sync"
	"time"

	"github.com/nabbar/kvasync/conn"
	"github.com/sony/gobreaker"
)

// Pool is a bounded connection pool for one node endpoint.
type Pool struct {
	addr        string
	maxSize     int
	maxIdle     time.Duration
	mu          sync.Mutex
	idle        []*conn.Conn
	breaker     *gobreaker.CircuitBreaker[*conn.Conn]
	closeTender chan struct{}
}

// New creates a Pool for addr, bounded to maxSize idle connections and
// evicting any connection idle longer than maxIdle. The tender goroutine
// runs until Close is called.
func New(ctx context.Context, addr string, maxSize int, maxIdle time.Duration) *Pool {
	p := &Pool{
		addr:        addr,
		maxSize:     maxSize,
		maxIdle:     maxIdle,
		closeTender: make(chan struct{}),
	}

	p.breaker = gobreaker.NewCircuitBreaker[*conn.Conn](gobreaker.Settings{
		Name: addr,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	go p.tender(ctx, maxIdle)

	return p
}

// tender evicts idle connections on a fixed period, mirroring the cache
// package's ticker/Done/close three-way select loop.
func (p *Pool) tender(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = time.Second
	}

	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			p.evictIdle()
		case <-ctx.Done():
			p.drain()
			return
		case <-p.closeTender:
			p.drain()
			return
		}
	}
}

func (p *Pool) evictIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.idle[:0]
	for _, c := range p.idle {
		if c.IdleSince() > p.maxIdle {
			_ = c.Close()
			continue
		}
		kept = append(kept, c)
	}
	p.idle = kept
}

func (p *Pool) drain() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.idle {
		_ = c.Close()
	}
	p.idle = nil
}

// Get returns an idle connection if one is available, or nil if the
// caller must dial a new one.
func (p *Pool) Get() *conn.Conn {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.idle)
	if n == 0 {
		return nil
	}

	c := p.idle[n-1]
	p.idle = p.idle[:n-1]
	return c
}

// Put returns a healthy connection to the idle list; if the pool is full
// or the connection is already closed, it is closed instead.
func (p *Pool) Put(c *conn.Conn) {
	if c == nil || c.Closed() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle) >= p.maxSize {
		_ = c.Close()
		return
	}

	c.UpdateLastUsed()
	p.idle = append(p.idle, c)
}

// Dial opens a new connection through the circuit breaker, so a node
// seeing a run of consecutive connect failures is shed from rotation
// instead of retried command after command.
func (p *Pool) Dial(ctx context.Context) (*conn.Conn, error) {
	return p.breaker.Execute(func() (*conn.Conn, error) {
		return conn.Dial(ctx, p.addr)
	})
}

// Close stops the idle tender and closes every pooled connection.
func (p *Pool) Close() {
	close(p.closeTender)
}

// Len reports the current idle connection count, for tests and metrics.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
