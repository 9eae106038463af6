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

// Package logger exposes the leveled, structured logging surface that
// command and multi thread through as a lazily-resolved FuncLog, so a
// caller that never needs logging pays nothing beyond a nil check.
package logger

import (
	"io"

	loglvl "github.com/nabbar/kvasync/logger/level"
)

// FuncLog lazily resolves the Logger a component should use. A nil
// FuncLog, or one returning nil, means logging is disabled for that
// component; every call site guards on this before invoking it.
type FuncLog func() Logger

// Logger is the leveled logging surface. Each level method attaches an
// optional data value and extra args as structured fields rather than
// interpolating them into the message string.
type Logger interface {
	io.Writer

	// SetLevel changes the minimum level that reaches the underlying
	// writer.
	SetLevel(lvl loglvl.Level)

	// GetLevel returns the current minimum level.
	GetLevel() loglvl.Level

	Debug(message string, data interface{}, args ...interface{})
	Info(message string, data interface{}, args ...interface{})
	Warning(message string, data interface{}, args ...interface{})
	Error(message string, data interface{}, args ...interface{})
	Fatal(message string, data interface{}, args ...interface{})
	Panic(message string, data interface{}, args ...interface{})

	// Clone returns an independent Logger sharing this one's output and
	// level, for a caller that wants to attach its own fields without
	// mutating the original.
	Clone() Logger
}
