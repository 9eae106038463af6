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

// Package multi fans a batch, scan, or query out to one child command per
// node, gathering the resulting per-record stream into a single RecordSet.
// Where command is a single request/response round trip, multi is a
// bounded number of children each reading a stream of messages terminated
// by the wire INFO3_LAST bit.
package multi

import (
	"github.com/nabbar/kvasync/cluster"
	"github.com/nabbar/kvasync/key"
	"github.com/nabbar/kvasync/record"
	"github.com/nabbar/kvasync/wire"
)

// ChildRequest is the per-node behavior a scan, query, or batch read
// delegates to: how to fill one child's outgoing frame, and how to make
// sense of one record within its response stream. It plays the same role
// command.Request does for a single-record command, minus Clone: a child
// mid-stream is never retried, it is simply reported as failed.
type ChildRequest interface {
	// Encode appends this child's fields and ops to dst and returns the
	// extended slice along with the info1/info2/info3 flags and the field
	// and op counts to stamp into the message header.
	Encode(dst []byte) (out []byte, info1, info2, info3 byte, fieldCount, opCount uint16, err error)

	// DecodeOne parses one record's key and bins out of a parser loop
	// iteration. A key with no record (h's result code is
	// wire.ResultKeyNotFound) reports ok=false with a nil error.
	DecodeOne(h wire.MsgHeader, body []byte) (k key.Key, rec *record.Record, ok bool, err error)
}

// Child pairs one ChildRequest with the node it targets, the unit of work
// MultiExecutor.Run dispatches one goroutine per.
type Child struct {
	Node *cluster.Node
	Req  ChildRequest
}

// Result is one record, or a not-found marker, emitted by a child onto a
// RecordSet. Err is set only on the final item a failed run ever pushes.
type Result struct {
	Key key.Key
	Rec *record.Record
	Err error
}
