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
	"fmt"

	"github.com/nabbar/kvasync/errors"
)

const (
	ErrorTimeout errors.CodeError = iota + errors.MinPkgCommand
	ErrorConnection
	ErrorInvalidNode
	ErrorParse
	ErrorSerialize
	ErrorScanTerminated
	ErrorQueryTerminated
	ErrorCommandRejected
	ErrorServer
	ErrorListenerPanic
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorTimeout)
	errors.RegisterIdFctMessage(ErrorTimeout, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorTimeout:
		return "command deadline exceeded"
	case ErrorConnection:
		return "connection I/O failure"
	case ErrorInvalidNode:
		return "node absent from cluster map"
	case ErrorParse:
		return "malformed server message"
	case ErrorSerialize:
		return "client-side encoding failure"
	case ErrorScanTerminated:
		return "scan aborted before completion"
	case ErrorQueryTerminated:
		return "query aborted before completion"
	case ErrorCommandRejected:
		return "event context pool exhausted"
	case ErrorServer:
		return "server returned a non-zero result code"
	case ErrorListenerPanic:
		return "listener panicked while handling a successful result"
	}

	return ""
}

// ServerError wraps a non-zero result code as the parent of ErrorServer,
// so callers can recover the raw code via errors.Error's parent chain.
func ServerError(resultCode byte) errors.Error {
	return ErrorServer.Error(fmt.Errorf("result code %d", resultCode))
}
