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
	"context"
	"errors"

	"github.com/nabbar/kvasync/cluster"
	"github.com/nabbar/kvasync/conn"
	kerrors "github.com/nabbar/kvasync/errors"
	"github.com/nabbar/kvasync/wire"
)

// classify maps an attempt's error into the terminal state it should
// drive the command toward, and whether the connection that produced it
// may still be trusted and returned to its pool. ctx is the attempt's own
// deadline-bound context: a socket deadline expiring surfaces as a plain
// net.OpError, never as context.DeadlineExceeded, so an attempt whose
// context already expired is classified as a timeout before its error's
// specific shape is consulted at all.
func classify(ctx context.Context, err error) (State, bool) {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return StateFailTimeout, false
	}

	switch {
	case hasCode(err, ErrorCommandRejected):
		return StateFailApplicationInit, false
	case hasCode(err, ErrorInvalidNode):
		return StateFailNetworkInit, false
	case hasCode(err, conn.ErrorConnectFailed):
		return StateFailNetworkInit, false
	case hasCode(err, conn.ErrorIOFailed):
		return StateFailNetworkError, false
	case hasCode(err, cluster.ErrorNoNodeForPartition), hasCode(err, cluster.ErrorUnknownNode):
		return StateFailNetworkInit, false
	case hasCode(err, wire.ErrorShortHeader), hasCode(err, wire.ErrorShortField), hasCode(err, ErrorParse):
		return StateFailApplicationError, false
	case hasCode(err, ErrorSerialize):
		return StateFailApplicationInit, false
	case hasCode(err, ErrorServer):
		return StateFailApplicationError, true
	default:
		return StateFailNetworkError, false
	}
}

func hasCode(err error, code kerrors.CodeError) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(kerrors.Error); ok {
		return e.HasCode(code)
	}

	return false
}
