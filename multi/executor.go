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
	"fmt"

	"github.com/nabbar/kvasync/buffer"
	"github.com/nabbar/kvasync/cluster"
	"github.com/nabbar/kvasync/command"
	"github.com/nabbar/kvasync/conn"
	"github.com/nabbar/kvasync/event"
	"github.com/nabbar/kvasync/logger"
	"github.com/nabbar/kvasync/wire"

	"golang.org/x/sync/errgroup"
)

// Executor fans a set of Child requests out in parallel, one goroutine per
// child, collecting their decoded records onto a shared RecordSet. It
// plays the role the source system's MultiExecutor gives its dedicated
// parser threads, replacing the hand-rolled lock-guarded "first exception
// wins" field with errgroup.Group's own error slot.
type Executor struct {
	clu           cluster.Cluster
	events        *event.Pool
	log           logger.FuncLog
	maxConcurrent int
}

// NewExecutor builds an Executor drawing buffers and connections from clu
// and event contexts from events. maxConcurrent follows the batch policy's
// max_concurrent_threads convention: 0 means unlimited (every child runs
// at once), 1 serializes children one at a time, n>1 bounds the fan-out to
// n concurrent children.
func NewExecutor(clu cluster.Cluster, events *event.Pool, log logger.FuncLog, maxConcurrent int) *Executor {
	return &Executor{clu: clu, events: events, log: log, maxConcurrent: maxConcurrent}
}

// Run dispatches one goroutine per child, each streaming records onto rs
// until it errors or its response reaches the INFO3_LAST message. It
// returns once every child has finished; the first failure cancels the
// rest (errgroup.WithContext) and is the error returned. rs still receives every
// record a child managed to decode before that point; pushEnd runs in its
// own goroutine so a RecordSet nobody is draining cannot wedge Run itself.
func (e *Executor) Run(ctx context.Context, children []Child, rs *RecordSet) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	rs.bindCancel(cancel)

	g, gctx := errgroup.WithContext(runCtx)
	if e.maxConcurrent > 0 {
		g.SetLimit(e.maxConcurrent)
	}

	for _, child := range children {
		child := child
		g.Go(func() error {
			return e.runChild(gctx, child, rs)
		})
	}

	err := g.Wait()
	go rs.pushEnd(err)

	if err != nil && e.log != nil {
		e.log().Error("multi-executor child failed", err)
	}

	return err
}

// runChild executes one child end to end: acquire an event context and
// buffer segment, borrow or dial a connection to child.Node, send the
// encoded request, then parse the multi-record response stream.
func (e *Executor) runChild(ctx context.Context, child Child, rs *RecordSet) error {
	ec, err := e.events.Get(ctx)
	if err != nil {
		return ErrorChildFailed.Error(err)
	}
	defer e.events.Put(ec)

	seg, err := ec.EnsureSegment(ctx, e.clu.Buffers())
	if err != nil {
		return ErrorChildFailed.Error(err)
	}

	cn := child.Node.Pool.Get()
	if cn == nil {
		cn, err = child.Node.Pool.Dial(ctx)
		if err != nil {
			return ErrorChildFailed.Error(err)
		}
	}

	keepConn := true
	defer func() {
		if keepConn {
			cn.UpdateLastUsed()
			child.Node.Pool.Put(cn)
		} else {
			_ = cn.Close()
		}
	}()

	seg, err = e.sendChild(ctx, seg, cn, child.Req)
	if err != nil {
		keepConn = false
		return err
	}

	if err = e.parseChild(ctx, seg, cn, child.Req, rs); err != nil {
		keepConn = false
		return err
	}

	return nil
}

// sendChild encodes req into seg's own backing storage and writes seg's
// bytes to cn, swapping to an oversized segment (local to this child,
// never written back onto the EventContext) when the pooled one can't
// grow to hold the frame.
func (e *Executor) sendChild(ctx context.Context, seg *buffer.Segment, cn *conn.Conn, req ChildRequest) (*buffer.Segment, error) {
	seg.Reset()

	body, info1, info2, info3, fieldCount, opCount, err := req.Encode(nil)
	if err != nil {
		return seg, ErrorChildFailed.Error(err)
	}

	h := wire.MsgHeader{
		HeaderLen:  wire.MsgHeaderSize,
		Info1:      info1,
		Info2:      info2,
		Info3:      info3,
		FieldCount: fieldCount,
		OpCount:    opCount,
	}

	frameLen := wire.ProtoHeaderSize + wire.MsgHeaderSize + len(body)

	if err = seg.EnsureCapacity(frameLen); err != nil {
		seg = e.clu.Buffers().GetOversized(frameLen)
	}

	var hdr [wire.ProtoHeaderSize + wire.MsgHeaderSize]byte
	wire.EncodeProtoHeader(hdr[:wire.ProtoHeaderSize], uint64(wire.MsgHeaderSize+len(body)))
	wire.EncodeMsgHeader(hdr[wire.ProtoHeaderSize:], h)

	if _, err = seg.Write(hdr[:]); err != nil {
		return seg, ErrorChildFailed.Error(err)
	}
	if _, err = seg.Write(body); err != nil {
		return seg, ErrorChildFailed.Error(err)
	}

	if err = cn.Send(ctx, seg.Bytes()); err != nil {
		return seg, ErrorChildFailed.Error(err)
	}

	return seg, nil
}

// parseChild reads repeated 22-byte message headers off cn until the
// INFO3_LAST bit marks the final record of this child's stream,
// forwarding each decoded record onto rs as it arrives.
func (e *Executor) parseChild(ctx context.Context, seg *buffer.Segment, cn *conn.Conn, req ChildRequest, rs *RecordSet) error {
	var hdr [wire.ProtoHeaderSize]byte

	for {
		if err := cn.Recv(ctx, hdr[:]); err != nil {
			return ErrorChildFailed.Error(err)
		}

		ph, err := wire.DecodeProtoHeader(hdr[:])
		if err != nil {
			return ErrorChildFailed.Error(err)
		}

		if ph.Length == 0 {
			continue // keep-alive: restart the header read
		}

		if err = seg.EnsureCapacity(int(ph.Length)); err != nil {
			seg = e.clu.Buffers().GetOversized(int(ph.Length))
		}

		seg.Reset()
		body := seg.Grow(int(ph.Length))

		if err = cn.Recv(ctx, body); err != nil {
			return ErrorChildFailed.Error(err)
		}

		if len(body) < wire.MsgHeaderSize {
			return ErrorChildFailed.Error()
		}

		mh, err := wire.DecodeMsgHeader(body)
		if err != nil {
			return ErrorChildFailed.Error(err)
		}

		if mh.IsLast() {
			return nil
		}

		if mh.ResultCode != wire.ResultOK && mh.ResultCode != wire.ResultKeyNotFound {
			return ErrorChildFailed.Error(fmt.Errorf("result code %d", mh.ResultCode))
		}

		k, rec, ok, err := req.DecodeOne(mh, body[wire.MsgHeaderSize:])
		if err != nil {
			return ErrorChildFailed.Error(err)
		}

		if !ok {
			continue
		}

		if err = rs.push(ctx, Result{Key: k, Rec: rec}); err != nil {
			return command.ErrorQueryTerminated.Error(err)
		}
	}
}
