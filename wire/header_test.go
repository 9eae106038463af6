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

package wire_test

import (
	"github.com/nabbar/kvasync/wire"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProtoHeader", func() {
	It("round-trips version, type and a 48-bit length", func() {
		dst := make([]byte, wire.ProtoHeaderSize)
		wire.EncodeProtoHeader(dst, 123456)

		h, err := wire.DecodeProtoHeader(dst)
		Expect(err).ToNot(HaveOccurred())
		Expect(h.Version).To(Equal(byte(wire.ProtoVersion)))
		Expect(h.Type).To(Equal(byte(wire.ProtoType)))
		Expect(h.Length).To(Equal(uint64(123456)))
	})

	It("does not terminate reading on a zero length (keep-alive)", func() {
		dst := make([]byte, wire.ProtoHeaderSize)
		wire.EncodeProtoHeader(dst, 0)

		h, err := wire.DecodeProtoHeader(dst)
		Expect(err).ToNot(HaveOccurred())
		Expect(h.Length).To(Equal(uint64(0)))
	})

	It("errors on a short buffer", func() {
		_, err := wire.DecodeProtoHeader(make([]byte, 4))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("MsgHeader", func() {
	It("round-trips all fields", func() {
		dst := make([]byte, wire.MsgHeaderSize)
		h := wire.MsgHeader{
			HeaderLen:      22,
			Info1:          wire.Info1Read,
			Info3:          wire.Info3Last,
			ResultCode:     0,
			Generation:     7,
			Expiration:     100,
			TransactionTTL: 1000,
			FieldCount:     2,
			OpCount:        3,
		}
		wire.EncodeMsgHeader(dst, h)

		got, err := wire.DecodeMsgHeader(dst)
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(h))
		Expect(got.IsLast()).To(BeTrue())
	})
})

var _ = Describe("Field and Op", func() {
	It("round-trips a field", func() {
		var dst []byte
		dst = wire.AppendField(dst, wire.Field{Type: wire.FieldNamespace, Payload: []byte("ns")})

		f, next, err := wire.ReadField(dst, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(f.Type).To(Equal(byte(wire.FieldNamespace)))
		Expect(string(f.Payload)).To(Equal("ns"))
		Expect(next).To(Equal(len(dst)))
	})

	It("round-trips an op", func() {
		var dst []byte
		dst = wire.AppendOp(dst, wire.Op{OpType: 1, ParticleType: 3, Name: "bin1", Value: []byte("value1")})

		o, next, err := wire.ReadOp(dst, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(o.Name).To(Equal("bin1"))
		Expect(string(o.Value)).To(Equal("value1"))
		Expect(next).To(Equal(len(dst)))
	})

	It("errors reading a truncated field", func() {
		_, _, err := wire.ReadField([]byte{0, 0, 0, 10}, 0)
		Expect(err).To(HaveOccurred())
	})
})
