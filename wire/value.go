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

// particle types carried in an Op's ParticleType byte.
const (
	ParticleNull    = 0
	ParticleInteger = 1
	ParticleString  = 3
	ParticleBlob    = 4
)

// EncodeValue maps a bin value to the particle type and payload bytes an
// Op carries on the wire. Op.AppendOp/ReadOp only know how to move bytes
// around; EncodeValue/DecodeValue are what give those bytes meaning.
func EncodeValue(v any) (particleType byte, payload []byte, err error) {
	switch t := v.(type) {
	case nil:
		return ParticleNull, nil, nil
	case int64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(t))
		return ParticleInteger, b[:], nil
	case int:
		return EncodeValue(int64(t))
	case string:
		return ParticleString, []byte(t), nil
	case []byte:
		return ParticleBlob, t, nil
	default:
		return 0, nil, ErrorUnsupportedValue.Error()
	}
}

// DecodeValue is the inverse of EncodeValue: it rebuilds a bin value from
// its wire particle type and payload.
func DecodeValue(particleType byte, payload []byte) (any, error) {
	switch particleType {
	case ParticleNull:
		return nil, nil
	case ParticleInteger:
		if len(payload) != 8 {
			return nil, ErrorShortField.Error()
		}
		return int64(binary.BigEndian.Uint64(payload)), nil
	case ParticleString:
		return string(payload), nil
	case ParticleBlob:
		return append([]byte(nil), payload...), nil
	default:
		return nil, ErrorUnsupportedValue.Error()
	}
}
