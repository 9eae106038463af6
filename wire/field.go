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

package wire

import "encoding/binary"

// Field is one `len(4) | type(1) | payload(len-1)` block.
type Field struct {
	Type    byte
	Payload []byte
}

// AppendField appends the wire encoding of f to dst and returns the result.
func AppendField(dst []byte, f Field) []byte {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(f.Payload)+1))
	dst = append(dst, l[:]...)
	dst = append(dst, f.Type)
	dst = append(dst, f.Payload...)
	return dst
}

// ReadField parses one field starting at offset off in src, returning the
// field and the offset of the next one.
func ReadField(src []byte, off int) (Field, int, error) {
	if off+4 > len(src) {
		return Field{}, off, ErrorShortField.Error()
	}

	l := int(binary.BigEndian.Uint32(src[off : off+4]))
	off += 4

	if l < 1 || off+l > len(src) {
		return Field{}, off, ErrorShortField.Error()
	}

	f := Field{Type: src[off], Payload: src[off+1 : off+l]}
	return f, off + l, nil
}

// Op is one `op_size(4) | op_type(1) | particle_type(1) | version(1) |
// name_len(1) | name(name_len) | value(...)` block.
type Op struct {
	OpType       byte
	ParticleType byte
	Name         string
	Value        []byte
}

// AppendOp appends the wire encoding of o to dst and returns the result.
func AppendOp(dst []byte, o Op) []byte {
	nameLen := len(o.Name)
	size := 4 + nameLen + len(o.Value)

	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(size))
	dst = append(dst, l[:]...)
	dst = append(dst, o.OpType, o.ParticleType, 0, byte(nameLen))
	dst = append(dst, o.Name...)
	dst = append(dst, o.Value...)
	return dst
}

// ReadOp parses one op starting at offset off in src, returning the op and
// the offset of the next one.
func ReadOp(src []byte, off int) (Op, int, error) {
	if off+4 > len(src) {
		return Op{}, off, ErrorShortField.Error()
	}

	opSize := int(binary.BigEndian.Uint32(src[off : off+4]))
	off += 4

	if opSize < 4 || off+opSize > len(src) {
		return Op{}, off, ErrorShortField.Error()
	}

	opType := src[off]
	particleType := src[off+1]
	nameLen := int(src[off+3])

	nameStart := off + 4
	nameEnd := nameStart + nameLen
	if nameEnd > off+opSize {
		return Op{}, off, ErrorShortField.Error()
	}

	name := string(src[nameStart:nameEnd])
	value := src[nameEnd : off+opSize]

	return Op{OpType: opType, ParticleType: particleType, Name: name, Value: value}, off + opSize, nil
}
