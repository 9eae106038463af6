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

// Package wire implements the length-framed binary protocol the command
// engine speaks to a node: the 8-byte proto header, the 22-byte message
// header, and the field/op encoding carried in its payload.
package wire

import "encoding/binary"

const (
	ProtoVersion = 2
	ProtoType    = 3

	// ProtoHeaderSize is the fixed size of the outer (version|type|length) header.
	ProtoHeaderSize = 8

	// MsgHeaderSize is the fixed size of the per-message header that follows
	// the proto header in the first bytes of the payload.
	MsgHeaderSize = 22
)

// info1 flags.
const (
	Info1Read      = 0x01
	Info1GetAll    = 0x02
	Info1NoBinData = 0x20
)

// info2 flags.
const (
	Info2Write        = 0x01
	Info2Delete       = 0x02
	Info2Generation   = 0x04
	Info2GenerationGT = 0x08
	Info2GenerationDup = 0x10
	Info2WriteUnique  = 0x20
)

// info3 flags.
const (
	Info3Last = 0x01
)

// result codes carried in a response's MsgHeader.ResultCode byte.
const (
	ResultOK          = 0
	ResultKeyNotFound = 2
)

// op types carried in an Op's OpType byte.
const (
	OpRead   = 1
	OpWrite  = 2
	OpAppend = 9
)

// field types carried in a request/response field.
const (
	FieldNamespace       = 0
	FieldTable           = 1
	FieldDigestRIPE      = 4
	FieldDigestRIPEArray = 5
	FieldUDFPackageName  = 6
	FieldUDFFunction     = 7
	FieldUDFArgList      = 8
	FieldScanOptions     = 9
)

// ProtoHeader is the 8-byte frame prefix preceding every message.
type ProtoHeader struct {
	Version byte
	Type    byte
	Length  uint64 // 48-bit value; top 16 bits always zero
}

// EncodeProtoHeader writes the 8-byte (version|type|length:48) header into
// dst, which must be at least ProtoHeaderSize bytes.
func EncodeProtoHeader(dst []byte, length uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], length&0x0000FFFFFFFFFFFF)
	b[0] = ProtoVersion
	b[1] = ProtoType
	copy(dst[:ProtoHeaderSize], b[:])
}

// DecodeProtoHeader parses the 8-byte frame prefix from src.
func DecodeProtoHeader(src []byte) (ProtoHeader, error) {
	if len(src) < ProtoHeaderSize {
		return ProtoHeader{}, ErrorShortHeader.Error()
	}

	var b [8]byte
	copy(b[:], src[:ProtoHeaderSize])

	length := binary.BigEndian.Uint64(b[:]) & 0x0000FFFFFFFFFFFF

	return ProtoHeader{
		Version: b[0],
		Type:    b[1],
		Length:  length,
	}, nil
}

// MsgHeader is the 22-byte per-message header that follows the proto
// header and precedes field/op data.
type MsgHeader struct {
	HeaderLen      byte
	Info1          byte
	Info2          byte
	Info3          byte
	ResultCode     byte
	Generation     uint32
	Expiration     uint32
	TransactionTTL uint32
	FieldCount     uint16
	OpCount        uint16
}

// IsLast reports whether the Info3Last bit is set, marking the final
// message of a multi-record stream.
func (h MsgHeader) IsLast() bool {
	return h.Info3&Info3Last != 0
}

// EncodeMsgHeader writes the 22-byte message header into dst.
func EncodeMsgHeader(dst []byte, h MsgHeader) {
	_ = dst[:MsgHeaderSize]
	dst[0] = h.HeaderLen
	dst[1] = h.Info1
	dst[2] = h.Info2
	dst[3] = h.Info3
	dst[4] = 0 // unused
	dst[5] = h.ResultCode
	binary.BigEndian.PutUint32(dst[6:10], h.Generation)
	binary.BigEndian.PutUint32(dst[10:14], h.Expiration)
	binary.BigEndian.PutUint32(dst[14:18], h.TransactionTTL)
	binary.BigEndian.PutUint16(dst[18:20], h.FieldCount)
	binary.BigEndian.PutUint16(dst[20:22], h.OpCount)
}

// DecodeMsgHeader parses the 22-byte message header from src.
func DecodeMsgHeader(src []byte) (MsgHeader, error) {
	if len(src) < MsgHeaderSize {
		return MsgHeader{}, ErrorShortHeader.Error()
	}

	return MsgHeader{
		HeaderLen:      src[0],
		Info1:          src[1],
		Info2:          src[2],
		Info3:          src[3],
		ResultCode:     src[5],
		Generation:     binary.BigEndian.Uint32(src[6:10]),
		Expiration:     binary.BigEndian.Uint32(src[10:14]),
		TransactionTTL: binary.BigEndian.Uint32(src[14:18]),
		FieldCount:     binary.BigEndian.Uint16(src[18:20]),
		OpCount:        binary.BigEndian.Uint16(src[20:22]),
	}, nil
}
