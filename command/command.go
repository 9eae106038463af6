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

// Package command implements the per-command state machine: connect,
// send, receive, parse, then complete, retry, or fail, exactly once,
// under concurrent cancellation from the timeout supervisor. The state
// itself lives in the generic atomic.Value wrapper's CompareAndSwap
// rather than a hand-rolled atomic.Int32 dance, mirroring how the rest of
// this module threads CAS-based coordination through that package.
package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	katomic "github.com/nabbar/kvasync/atomic"
	"github.com/nabbar/kvasync/buffer"
	"github.com/nabbar/kvasync/cluster"
	"github.com/nabbar/kvasync/conn"
	"github.com/nabbar/kvasync/event"
	"github.com/nabbar/kvasync/listener"
	"github.com/nabbar/kvasync/logger"
	"github.com/nabbar/kvasync/policy"
	"github.com/nabbar/kvasync/record"
	"github.com/nabbar/kvasync/timeout"
	"github.com/nabbar/kvasync/wire"

	"github.com/google/uuid"
)

// Command is one attempt, or chain of retried attempts, executing a
// Request against a Cluster. Each retry allocates a fresh Command sharing
// the original's id, iteration counter, and EventContext; the superseded
// Command becomes unreachable as soon as the clone starts running.
type Command struct {
	id     uuid.UUID
	req    Request
	pol    policy.Policy
	clu    cluster.Cluster
	events *event.Pool
	log    logger.FuncLog
	sup    *timeout.Supervisor

	state      katomic.Value[State]
	iterations int
	startedAt  time.Time

	mu       sync.Mutex
	lst      listener.Listener
	ectx     *event.Context
	node     *cluster.Node
	conn     *conn.Conn
	deadline time.Time
}

// New builds the first attempt of a command chain. lst is invoked exactly
// once, from whichever goroutine this attempt (or one of its retries)
// terminates on. sup may be nil, in which case timeouts rely solely on
// ctx cancellation rather than a supervisor-forced socket close.
func New(req Request, pol policy.Policy, clu cluster.Cluster, events *event.Pool, lst listener.Listener, log logger.FuncLog, sup *timeout.Supervisor) *Command {
	c := &Command{
		id:     uuid.New(),
		req:    req,
		pol:    pol,
		clu:    clu,
		events: events,
		lst:    lst,
		log:    log,
		sup:    sup,
		state:  katomic.NewValueDefault[State](StateInProgress, StateInProgress),
	}
	c.state.Store(StateInProgress)
	return c
}

// TraceID implements event.Owner, used only for log correlation.
func (c *Command) TraceID() string {
	return c.id.String()
}

// State returns the command's current lifecycle state.
func (c *Command) State() State {
	return c.state.Load()
}

// Execute runs this command to completion, invoking the bound Listener
// exactly once. It blocks until the command has completed; ExecuteAsync
// below adapts the listener-based completion to a call that returns the
// record and error directly.
func (c *Command) Execute(ctx context.Context) {
	c.startedAt = time.Now()
	c.run(ctx)
}

// ExecuteAsync adapts Execute's listener-based completion to a blocking
// call, sharing the same state machine and resource lifecycle.
func ExecuteAsync(ctx context.Context, req Request, pol policy.Policy, clu cluster.Cluster, events *event.Pool, log logger.FuncLog, sup *timeout.Supervisor) (*record.Record, error) {
	return listener.ExecuteAsync(ctx, func(l listener.Listener) {
		New(req, pol, clu, events, l, log, sup).Execute(ctx)
	})
}

// Deadline implements timeout.Handle.
func (c *Command) Deadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline, !c.deadline.IsZero()
}

// Done implements timeout.Handle: once true, the supervisor drops this
// command from its watch list.
func (c *Command) Done() bool {
	return c.state.Load().Terminal()
}

// Expire implements timeout.Handle. It is the supervisor's only lever on
// a command: win the CAS to FAIL_TIMEOUT, then close whatever connection
// is currently in flight so the blocked I/O call unwinds with an error.
// It never touches the listener; whichever goroutine observes the lost
// race (run, below) is the one that publishes completion.
func (c *Command) Expire() {
	if !c.state.CompareAndSwap(StateInProgress, StateFailTimeout) {
		return
	}

	c.mu.Lock()
	cn := c.conn
	c.mu.Unlock()

	if cn != nil {
		_ = cn.Close()
	}
}

// run executes one attempt. Each attempt, including retries, decides its
// own deadline: the first attempt always starts a fresh stopwatch, a
// retry only does so when the policy asks for it, otherwise it inherits
// whatever was left on the previous attempt's clock.
func (c *Command) run(rootCtx context.Context) {
	attemptCtx := rootCtx

	if d := c.pol.Timeout(); d > 0 {
		if c.deadline.IsZero() || c.pol.RetryOnTimeout {
			c.mu.Lock()
			c.deadline = time.Now().Add(d)
			c.mu.Unlock()
		}

		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithDeadline(rootCtx, c.deadline)
		defer cancel()

		if c.sup != nil {
			c.sup.Register(c.id, c)
			defer c.sup.Unregister(c.id)
		}
	}

	rec, err := c.attempt(attemptCtx)

	if err == nil {
		c.complete(StateSuccess, rec, nil, true)
		return
	}

	st, keep := classify(attemptCtx, err)

	// FAIL_TIMEOUT is retryable only when the policy explicitly asks for
	// it; every other retryable state (the network-class failures) is
	// governed purely by the remaining iteration budget.
	retryable := st.Retryable() || (st == StateFailTimeout && c.pol.RetryOnTimeout)

	if !retryable || c.iterations >= c.pol.MaxRetries {
		c.complete(st, nil, err, keep)
		return
	}

	clone, ok := c.req.Clone()
	if !ok {
		c.complete(st, nil, err, keep)
		return
	}

	if !c.state.CompareAndSwap(StateInProgress, StateRetry) {
		c.alreadyCompleted()
		return
	}

	if c.log != nil {
		c.log().Warning("command attempt failed, retrying", err, "iteration", c.iterations)
	}

	c.release(keep)

	if d := c.pol.SleepBetweenRetries(); d > 0 {
		time.Sleep(d)
	}

	next := &Command{
		id:         c.id,
		req:        clone,
		pol:        c.pol,
		clu:        c.clu,
		events:     c.events,
		lst:        c.lst,
		log:        c.log,
		sup:        c.sup,
		state:      katomic.NewValueDefault[State](StateInProgress, StateInProgress),
		iterations: c.iterations + 1,
		startedAt:  c.startedAt,
		deadline:   c.deadline,
	}
	next.state.Store(StateInProgress)

	// next.run re-derives its own deadline (fresh or inherited, per
	// RetryOnTimeout) and re-registers with the supervisor under the
	// shared id, overwriting this attempt's now-stale entry. It is handed
	// rootCtx, not this attempt's deadline-bound context, so a fresh
	// stopwatch on retry is not capped by the expired attempt's deadline.
	next.run(rootCtx)
}

// complete wins (or tries to win) the terminal CAS, releases every
// resource this attempt held, and publishes exactly one listener call.
// If the CAS is lost, the supervisor got there first: this attempt
// becomes the "already completed" branch instead.
func (c *Command) complete(st State, rec *record.Record, err error, keepConn bool) {
	if !c.state.CompareAndSwap(StateInProgress, st) {
		c.alreadyCompleted()
		return
	}

	if err != nil && c.log != nil {
		c.log().Error("command failed terminally", err, "state", st.String())
	}

	c.release(keepConn)
	c.notify(rec, err)
}

// alreadyCompleted handles the race where this attempt's own CAS lost to
// a concurrent supervisor timeout: the command is a timeout from the
// caller's perspective regardless of what this attempt observed.
func (c *Command) alreadyCompleted() {
	c.release(false)
	c.notify(nil, ErrorTimeout.Error())
}

func (c *Command) release(keepConn bool) {
	c.mu.Lock()
	cn := c.conn
	nd := c.node
	ec := c.ectx
	c.conn, c.node, c.ectx = nil, nil, nil
	c.mu.Unlock()

	if cn != nil {
		if keepConn && nd != nil {
			cn.UpdateLastUsed()
			nd.Pool.Put(cn)
		} else {
			_ = cn.Close()
		}
	}

	if ec != nil {
		c.events.Put(ec)
	}
}

// notify publishes this command's single terminal call. A panic while
// delivering OnSuccess is recovered and followed by an OnFailure call on
// the same listener, the one documented corner where both callbacks fire.
func (c *Command) notify(rec *record.Record, err error) {
	if c.lst == nil {
		return
	}

	if err != nil {
		c.safeFailure(err)
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				c.safeFailure(ErrorListenerPanic.Error(fmt.Errorf("%v", r)))
			}
		}()
		c.lst.OnSuccess(rec)
	}()
}

func (c *Command) safeFailure(err error) {
	defer func() { _ = recover() }()
	c.lst.OnFailure(err)
}

func (c *Command) attempt(ctx context.Context) (*record.Record, error) {
	ec, err := c.events.Get(ctx)
	if err != nil {
		return nil, ErrorCommandRejected.Error(err)
	}
	ec.Bind(c)

	c.mu.Lock()
	c.ectx = ec
	c.mu.Unlock()

	seg, err := ec.EnsureSegment(ctx, c.clu.Buffers())
	if err != nil {
		return nil, err
	}

	node, err := c.clu.Node(c.req.Key().Digest(), c.pol.Replica)
	if err != nil {
		return nil, ErrorInvalidNode.Error(err)
	}

	c.mu.Lock()
	c.node = node
	c.mu.Unlock()

	cn := node.Pool.Get()
	if cn == nil {
		cn, err = node.Pool.Dial(ctx)
		if err != nil {
			return nil, ErrorConnection.Error(err)
		}
	}

	c.mu.Lock()
	c.conn = cn
	c.mu.Unlock()

	seg, err = c.send(ctx, seg, cn)
	if err != nil {
		return nil, err
	}

	return c.receiveAndParse(ctx, seg, cn)
}

// send encodes the request into seg's own backing storage and writes
// seg's bytes to cn. A pooled seg that cannot grow to hold the frame is
// swapped for an oversized segment drawn straight from the pool's
// overflow path; the swap is local to this attempt and never touches
// the EventContext's cached segment, which stays the small pooled one
// for the next attempt to reuse.
func (c *Command) send(ctx context.Context, seg *buffer.Segment, cn *conn.Conn) (*buffer.Segment, error) {
	seg.Reset()

	body, info1, info2, info3, fieldCount, opCount, err := c.req.Encode(nil)
	if err != nil {
		return seg, ErrorSerialize.Error(err)
	}

	h := wire.MsgHeader{
		HeaderLen:  wire.MsgHeaderSize,
		Info1:      info1,
		Info2:      info2,
		Info3:      info3,
		Generation: c.pol.Generation,
		Expiration: c.pol.ExpirationSeconds,
		TransactionTTL: uint32(c.pol.TimeoutMS),
		FieldCount: fieldCount,
		OpCount:    opCount,
	}

	frameLen := wire.ProtoHeaderSize + wire.MsgHeaderSize + len(body)

	if err = seg.EnsureCapacity(frameLen); err != nil {
		seg = c.clu.Buffers().GetOversized(frameLen)
	}

	var hdr [wire.ProtoHeaderSize + wire.MsgHeaderSize]byte
	wire.EncodeProtoHeader(hdr[:wire.ProtoHeaderSize], uint64(wire.MsgHeaderSize+len(body)))
	wire.EncodeMsgHeader(hdr[wire.ProtoHeaderSize:], h)

	if _, err = seg.Write(hdr[:]); err != nil {
		return seg, ErrorSerialize.Error(err)
	}
	if _, err = seg.Write(body); err != nil {
		return seg, ErrorSerialize.Error(err)
	}

	if err = cn.Send(ctx, seg.Bytes()); err != nil {
		return seg, ErrorConnection.Error(err)
	}

	return seg, nil
}

// receiveAndParse reads the response header off cn, then lands the
// response body directly in seg's storage (swapping to an oversized
// segment when the pooled one can't grow that far) before handing the
// decoded bytes to the request's own Decode.
func (c *Command) receiveAndParse(ctx context.Context, seg *buffer.Segment, cn *conn.Conn) (*record.Record, error) {
	var hdr [wire.ProtoHeaderSize]byte

	for {
		if err := cn.Recv(ctx, hdr[:]); err != nil {
			return nil, ErrorConnection.Error(err)
		}

		ph, err := wire.DecodeProtoHeader(hdr[:])
		if err != nil {
			return nil, ErrorParse.Error(err)
		}

		if ph.Length == 0 {
			continue // keep-alive: restart the header read
		}

		if err = seg.EnsureCapacity(int(ph.Length)); err != nil {
			seg = c.clu.Buffers().GetOversized(int(ph.Length))
		}

		seg.Reset()
		body := seg.Grow(int(ph.Length))

		if err = cn.Recv(ctx, body); err != nil {
			return nil, ErrorConnection.Error(err)
		}

		if len(body) < wire.MsgHeaderSize {
			return nil, ErrorParse.Error()
		}

		mh, err := wire.DecodeMsgHeader(body)
		if err != nil {
			return nil, ErrorParse.Error(err)
		}

		rec, err := c.req.Decode(mh, body[wire.MsgHeaderSize:])
		if err != nil {
			return nil, err
		}

		return rec, nil
	}
}
