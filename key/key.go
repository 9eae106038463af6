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

// Package key defines the record identity used across the command engine:
// a (namespace, set, userKey) triple plus the 20-byte digest that uniquely
// identifies a record within a namespace and drives partition routing.
package key

import (
	"fmt"

	"golang.org/x/crypto/ripemd160"
)

// DigestSize is the fixed length, in bytes, of a Key digest.
const DigestSize = 20

// Digest is the 20-byte hash of (set, userKey) that the cluster map and the
// wire protocol use to identify a record; two keys with the same digest
// address the same record regardless of the original user-key encoding.
type Digest [DigestSize]byte

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) String() string {
	return fmt.Sprintf("%x", [DigestSize]byte(d))
}

// Key identifies one record by namespace, set and user key. Digest is
// computed once, eagerly, by New and is immutable afterward.
type Key struct {
	namespace string
	set       string
	userKey   any
	digest    Digest
}

// New builds a Key and computes its digest from set and userKey. namespace
// does not participate in the digest: it only selects which partition map
// the digest is looked up against.
func New(namespace, set string, userKey any) (Key, error) {
	d, err := computeDigest(set, userKey)
	if err != nil {
		return Key{}, err
	}

	return Key{
		namespace: namespace,
		set:       set,
		userKey:   userKey,
		digest:    d,
	}, nil
}

// NewWithDigest builds a Key from an already-known digest, bypassing
// recomputation; used when rehydrating a key carried over the wire.
func NewWithDigest(namespace, set string, userKey any, digest Digest) Key {
	return Key{namespace: namespace, set: set, userKey: userKey, digest: digest}
}

func (k Key) Namespace() string { return k.namespace }
func (k Key) Set() string       { return k.set }
func (k Key) UserKey() any      { return k.userKey }
func (k Key) Digest() Digest    { return k.digest }

// Equal compares two keys by namespace and digest, the same identity rule
// the server applies.
func (k Key) Equal(o Key) bool {
	return k.namespace == o.namespace && k.digest == o.digest
}

func computeDigest(set string, userKey any) (Digest, error) {
	b, err := encodeUserKey(userKey)
	if err != nil {
		return Digest{}, err
	}

	h := ripemd160.New()
	_, _ = h.Write([]byte(set))
	_, _ = h.Write(b.typeByte)
	_, _ = h.Write(b.payload)

	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}
