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

package multi_test

import (
	"github.com/nabbar/kvasync/key"
	"github.com/nabbar/kvasync/record"
	"github.com/nabbar/kvasync/wire"
)

// fakeChildRequest is a minimal multi.ChildRequest: an empty-body scan
// whose DecodeOne manufactures one key per call, counting how many
// records it has produced so each gets a distinct user key.
type fakeChildRequest struct {
	namespace string
	set       string
	next      int
}

func (r *fakeChildRequest) Encode(dst []byte) ([]byte, byte, byte, byte, uint16, uint16, error) {
	return dst, wire.Info1Read | wire.Info1GetAll, 0, 0, 0, 0, nil
}

func (r *fakeChildRequest) DecodeOne(h wire.MsgHeader, _ []byte) (key.Key, *record.Record, bool, error) {
	if h.ResultCode == wire.ResultKeyNotFound {
		return key.Key{}, nil, false, nil
	}

	r.next++
	k, err := key.New(r.namespace, r.set, r.next)
	if err != nil {
		panic(err)
	}

	return k, record.New(nil, h.Generation, h.Expiration), true, nil
}
