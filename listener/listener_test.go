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

package listener_test

import (
	"context"
	"errors"
	"time"

	"github.com/nabbar/kvasync/listener"
	"github.com/nabbar/kvasync/record"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Listener", func() {
	It("invokes Func.Success on OnSuccess", func() {
		var got *record.Record
		f := listener.Func{Success: func(r *record.Record) { got = r }}

		want := record.New(nil, 1, 0)
		f.OnSuccess(want)

		Expect(got).To(BeIdenticalTo(want))
	})

	It("invokes Func.Failure on OnFailure", func() {
		var got error
		f := listener.Func{Failure: func(err error) { got = err }}

		want := errors.New("boom")
		f.OnFailure(want)

		Expect(got).To(MatchError("boom"))
	})

	It("tolerates a Func with nil callbacks", func() {
		f := listener.Func{}
		Expect(func() { f.OnSuccess(nil) }).ToNot(Panic())
		Expect(func() { f.OnFailure(nil) }).ToNot(Panic())
	})

	It("ExecuteAsync returns the record published via OnSuccess", func() {
		want := record.New(nil, 1, 0)

		rec, err := listener.ExecuteAsync(context.Background(), func(l listener.Listener) {
			l.OnSuccess(want)
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(rec).To(BeIdenticalTo(want))
	})

	It("ExecuteAsync returns the error published via OnFailure", func() {
		boom := errors.New("boom")

		rec, err := listener.ExecuteAsync(context.Background(), func(l listener.Listener) {
			l.OnFailure(boom)
		})

		Expect(err).To(MatchError("boom"))
		Expect(rec).To(BeNil())
	})

	It("ExecuteAsync returns the context error if ctx is done before completion", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()

		_, err := listener.ExecuteAsync(ctx, func(l listener.Listener) {
			// never calls back
		})

		Expect(err).To(Equal(context.DeadlineExceeded))
	})
})
