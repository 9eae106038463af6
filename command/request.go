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

package command

import (
	"github.com/nabbar/kvasync/key"
	"github.com/nabbar/kvasync/record"
	"github.com/nabbar/kvasync/wire"
)

// Request is the per-opcode behavior an AsyncCommand delegates to: how to
// fill the outgoing frame and how to make sense of the response. It plays
// the role the source system gives its command subclasses via
// write_buffer/parse_command/clone_command.
type Request interface {
	// Key identifies the record this request targets, used to resolve the
	// owning node and to stamp the digest field on the wire.
	Key() key.Key

	// Encode appends this request's fields and ops to dst and returns the
	// extended slice along with the info1/info2/info3 flags and the field
	// and op counts to stamp into the message header.
	Encode(dst []byte) (out []byte, info1, info2, info3 byte, fieldCount, opCount uint16, err error)

	// Decode parses one response message into a Record. A non-zero,
	// non-retryable server result code should surface as an error built
	// with ServerError so the command can decide connection disposition.
	Decode(h wire.MsgHeader, body []byte) (*record.Record, error)

	// Clone returns a fresh Request for a retry attempt sharing this
	// request's target, or ok=false if this command cannot be retried
	// (e.g. a multi-command already mid-stream).
	Clone() (req Request, ok bool)
}
