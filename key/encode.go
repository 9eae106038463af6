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

package key

import (
	"encoding/binary"
	"fmt"
)

// particle type tags, matching the single byte prepended to a user key
// before hashing so that keys of different types never collide.
const (
	particleString byte = 3
	particleInt    byte = 1
	particleBlob   byte = 4
)

type encodedKey struct {
	typeByte []byte
	payload  []byte
}

func encodeUserKey(userKey any) (encodedKey, error) {
	switch v := userKey.(type) {
	case string:
		return encodedKey{typeByte: []byte{particleString}, payload: []byte(v)}, nil
	case []byte:
		return encodedKey{typeByte: []byte{particleBlob}, payload: v}, nil
	case int:
		return encodeInt(int64(v)), nil
	case int32:
		return encodeInt(int64(v)), nil
	case int64:
		return encodeInt(v), nil
	case uint32:
		return encodeInt(int64(v)), nil
	case uint64:
		return encodeInt(int64(v)), nil
	default:
		return encodedKey{}, ErrorUnsupportedKeyType.Error(fmt.Errorf("type %T", userKey))
	}
}

func encodeInt(v int64) encodedKey {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return encodedKey{typeByte: []byte{particleInt}, payload: b}
}
