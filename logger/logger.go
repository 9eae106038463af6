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

package logger

import (
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	loglvl "github.com/nabbar/kvasync/logger/level"
)

type logger struct {
	mu  sync.RWMutex
	lvl loglvl.Level
	out *logrus.Logger
}

// New builds a Logger writing to out at lvl, formatted as logfmt text with
// no color codes, matching the shape the rest of this module expects from
// a FuncLog result: one struct it can call leveled methods on directly.
func New(out io.Writer, lvl loglvl.Level) Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl.Logrus())
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	return &logger{lvl: lvl, out: l}
}

// NewConsole builds a Logger writing colorized text to stdout, through
// go-colorable so the ANSI codes render correctly on a Windows console as
// well as a plain terminal. Intended for interactive/CLI use; long-running
// servers should use New against a file or aggregator instead.
func NewConsole(lvl loglvl.Level) Logger {
	l := logrus.New()
	l.SetOutput(colorable.NewColorableStdout())
	l.SetLevel(lvl.Logrus())
	l.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})

	return &logger{lvl: lvl, out: l}
}

func (o *logger) SetLevel(lvl loglvl.Level) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.lvl = lvl
	o.out.SetLevel(lvl.Logrus())
}

func (o *logger) GetLevel() loglvl.Level {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.lvl
}

func (o *logger) entry(data interface{}, args ...interface{}) *logrus.Entry {
	o.mu.RLock()
	e := o.out.WithFields(logrus.Fields{})
	o.mu.RUnlock()

	if data != nil {
		e = e.WithField("data", data)
	}
	if len(args) > 0 {
		e = e.WithField("args", args)
	}

	return e
}

func (o *logger) Debug(message string, data interface{}, args ...interface{}) {
	o.entry(data, args...).Debug(message)
}

func (o *logger) Info(message string, data interface{}, args ...interface{}) {
	o.entry(data, args...).Info(message)
}

func (o *logger) Warning(message string, data interface{}, args ...interface{}) {
	o.entry(data, args...).Warning(message)
}

func (o *logger) Error(message string, data interface{}, args ...interface{}) {
	o.entry(data, args...).Error(message)
}

func (o *logger) Fatal(message string, data interface{}, args ...interface{}) {
	o.entry(data, args...).Fatal(message)
}

func (o *logger) Panic(message string, data interface{}, args ...interface{}) {
	o.entry(data, args...).Panic(message)
}

// Write implements io.Writer so a Logger can back a standard *log.Logger
// or any other io.Writer-based sink; each write becomes one Info entry
// with the trailing newline trimmed.
func (o *logger) Write(p []byte) (int, error) {
	o.entry(nil).Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (o *logger) Clone() Logger {
	o.mu.RLock()
	defer o.mu.RUnlock()

	n := logrus.New()
	n.SetOutput(o.out.Out)
	n.SetLevel(o.out.Level)
	n.SetFormatter(o.out.Formatter)

	return &logger{lvl: o.lvl, out: n}
}
