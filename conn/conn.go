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

// Package conn wraps a single server TCP connection. Unlike the IOCP-based
// source this module generalizes, there is no separate synchronous/
// asynchronous completion path: each command owns a goroutine, so a plain
// blocking net.Conn already gives the asynchronous behavior the rest of the
// engine expects, scoped by context deadlines instead of callback objects.
package conn

import (
	"context"
	"net"
	"sync/atomic"
	"time"
)

// Conn wraps one live connection to a node's endpoint.
type Conn struct {
	nc       net.Conn
	addr     string
	lastUsed atomic.Int64 // unix nano
	closed   atomic.Bool
}

// Dial opens a new connection to addr, honoring ctx's deadline.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	d := net.Dialer{}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, ErrorConnectFailed.Error(err)
	}

	c := &Conn{nc: nc, addr: addr}
	c.UpdateLastUsed()
	return c, nil
}

// Addr returns the node endpoint this connection is bound to.
func (c *Conn) Addr() string {
	return c.addr
}

// UpdateLastUsed stamps the connection as used right now; the node pool's
// idle tender reads this to decide eviction.
func (c *Conn) UpdateLastUsed() {
	c.lastUsed.Store(time.Now().UnixNano())
}

// IdleSince returns how long this connection has sat unused.
func (c *Conn) IdleSince() time.Duration {
	return time.Since(time.Unix(0, c.lastUsed.Load()))
}

// Send writes the whole buffer, honoring ctx's deadline; it loops on short
// writes the way the source's non-blocking send_async loop advances its
// offset by BytesTransferred.
func (c *Conn) Send(ctx context.Context, buf []byte) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.nc.SetWriteDeadline(dl)
	} else {
		_ = c.nc.SetWriteDeadline(time.Time{})
	}

	off := 0
	for off < len(buf) {
		n, err := c.nc.Write(buf[off:])
		if err != nil {
			return ErrorIOFailed.Error(err)
		}
		off += n
	}

	return nil
}

// Recv reads exactly len(buf) bytes, honoring ctx's deadline. A read of
// zero bytes before the buffer is full means the peer closed the
// connection; this is reported as a retryable IO error, matching the
// source's "BytesTransferred == 0 ⇒ peer closed" contract.
func (c *Conn) Recv(ctx context.Context, buf []byte) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.nc.SetReadDeadline(dl)
	} else {
		_ = c.nc.SetReadDeadline(time.Time{})
	}

	off := 0
	for off < len(buf) {
		n, err := c.nc.Read(buf[off:])
		if n == 0 && err == nil {
			return ErrorIOFailed.Error()
		}
		if err != nil {
			return ErrorIOFailed.Error(err)
		}
		off += n
	}

	return nil
}

// Close closes the underlying socket; safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.nc.Close()
}

// Closed reports whether Close has already run.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}
