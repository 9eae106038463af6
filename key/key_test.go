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

package key_test

import (
	"github.com/nabbar/kvasync/key"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Key", func() {
	Context("New", func() {
		It("computes a stable digest for the same set and user key", func() {
			k1, err := key.New("ns", "set", "putgetkey")
			Expect(err).ToNot(HaveOccurred())

			k2, err := key.New("ns", "set", "putgetkey")
			Expect(err).ToNot(HaveOccurred())

			Expect(k1.Digest()).To(Equal(k2.Digest()))
			Expect(k1.Equal(k2)).To(BeTrue())
		})

		It("produces different digests for different user keys", func() {
			k1, err := key.New("ns", "set", "a")
			Expect(err).ToNot(HaveOccurred())

			k2, err := key.New("ns", "set", "b")
			Expect(err).ToNot(HaveOccurred())

			Expect(k1.Digest()).ToNot(Equal(k2.Digest()))
		})

		It("accepts integer user keys", func() {
			k, err := key.New("ns", "set", 42)
			Expect(err).ToNot(HaveOccurred())
			Expect(k.Digest().IsZero()).To(BeFalse())
		})

		It("rejects unsupported user key types", func() {
			_, err := key.New("ns", "set", 3.14)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("NewWithDigest", func() {
		It("round-trips a digest without recomputation", func() {
			var d key.Digest
			d[0] = 0xAB

			k := key.NewWithDigest("ns", "set", "x", d)
			Expect(k.Digest()).To(Equal(d))
		})
	})
})
