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

package command

import (
	"github.com/nabbar/kvasync/key"
	"github.com/nabbar/kvasync/policy"
	"github.com/nabbar/kvasync/record"
	"github.com/nabbar/kvasync/wire"
)

// encodeKeyFields appends the namespace, set and digest fields every
// single-record request carries, in the order the server expects them.
func encodeKeyFields(dst []byte, k key.Key) ([]byte, uint16) {
	dst = wire.AppendField(dst, wire.Field{Type: wire.FieldNamespace, Payload: []byte(k.Namespace())})
	dst = wire.AppendField(dst, wire.Field{Type: wire.FieldTable, Payload: []byte(k.Set())})
	d := k.Digest()
	dst = wire.AppendField(dst, wire.Field{Type: wire.FieldDigestRIPE, Payload: d[:]})
	return dst, 3
}

func encodeBinOp(dst []byte, opType byte, b record.Bin) ([]byte, error) {
	pt, payload, err := wire.EncodeValue(b.Value)
	if err != nil {
		return dst, err
	}
	return wire.AppendOp(dst, wire.Op{OpType: opType, ParticleType: pt, Name: b.Name, Value: payload}), nil
}

func decodeBins(body []byte, off int, opCount uint16) ([]record.Bin, error) {
	bins := make([]record.Bin, 0, opCount)
	for i := uint16(0); i < opCount; i++ {
		op, next, err := wire.ReadOp(body, off)
		if err != nil {
			return nil, err
		}
		off = next

		v, err := wire.DecodeValue(op.ParticleType, op.Value)
		if err != nil {
			return nil, err
		}
		bins = append(bins, record.Bin{Name: op.Name, Value: v})
	}
	return bins, nil
}

// GetRequest reads every bin of one record.
type GetRequest struct {
	K key.Key
}

func (r *GetRequest) Key() key.Key { return r.K }

func (r *GetRequest) Encode(dst []byte) ([]byte, byte, byte, byte, uint16, uint16, error) {
	dst, fieldCount := encodeKeyFields(dst, r.K)
	return dst, wire.Info1Read | wire.Info1GetAll, 0, 0, fieldCount, 0, nil
}

func (r *GetRequest) Decode(h wire.MsgHeader, body []byte) (*record.Record, error) {
	if h.ResultCode != wire.ResultOK {
		return nil, ServerError(h.ResultCode)
	}

	bins, err := decodeBins(body, 0, h.OpCount)
	if err != nil {
		return nil, ErrorParse.Error(err)
	}
	return record.New(bins, h.Generation, h.Expiration), nil
}

func (r *GetRequest) Clone() (Request, bool) {
	return &GetRequest{K: r.K}, true
}

// PutRequest writes a full set of bins to a record, creating it if absent.
// Exists governs how the write reacts to the record's current generation,
// stamped onto the info2 byte alongside the base write flag.
type PutRequest struct {
	K      key.Key
	Bins   []record.Bin
	Exists policy.RecordExistsAction
}

func (r *PutRequest) Key() key.Key { return r.K }

// info2ForExists maps a RecordExistsAction onto the info2 generation
// flags the server checks before applying a write. Update carries no
// extra flag: it writes unconditionally, creating the record if absent.
func info2ForExists(a policy.RecordExistsAction) byte {
	switch a {
	case policy.ExpectGenEqual:
		return wire.Info2Write | wire.Info2Generation
	case policy.ExpectGenGreaterThan:
		return wire.Info2Write | wire.Info2GenerationGT
	case policy.Fail:
		return wire.Info2Write | wire.Info2WriteUnique
	default:
		return wire.Info2Write
	}
}

func (r *PutRequest) Encode(dst []byte) ([]byte, byte, byte, byte, uint16, uint16, error) {
	dst, fieldCount := encodeKeyFields(dst, r.K)

	var err error
	for _, b := range r.Bins {
		if dst, err = encodeBinOp(dst, wire.OpWrite, b); err != nil {
			return nil, 0, 0, 0, 0, 0, err
		}
	}

	return dst, 0, info2ForExists(r.Exists), 0, fieldCount, uint16(len(r.Bins)), nil
}

func (r *PutRequest) Decode(h wire.MsgHeader, _ []byte) (*record.Record, error) {
	if h.ResultCode != wire.ResultOK {
		return nil, ServerError(h.ResultCode)
	}
	return record.New(nil, h.Generation, h.Expiration), nil
}

func (r *PutRequest) Clone() (Request, bool) {
	return &PutRequest{K: r.K, Bins: r.Bins, Exists: r.Exists}, true
}

// AppendRequest appends to an existing string or blob bin.
type AppendRequest struct {
	K   key.Key
	Bin record.Bin
}

func (r *AppendRequest) Key() key.Key { return r.K }

func (r *AppendRequest) Encode(dst []byte) ([]byte, byte, byte, byte, uint16, uint16, error) {
	dst, fieldCount := encodeKeyFields(dst, r.K)

	dst, err := encodeBinOp(dst, wire.OpAppend, r.Bin)
	if err != nil {
		return nil, 0, 0, 0, 0, 0, err
	}

	return dst, 0, wire.Info2Write, 0, fieldCount, 1, nil
}

func (r *AppendRequest) Decode(h wire.MsgHeader, _ []byte) (*record.Record, error) {
	if h.ResultCode != wire.ResultOK {
		return nil, ServerError(h.ResultCode)
	}
	return record.New(nil, h.Generation, h.Expiration), nil
}

// Clone refuses: a network failure after the server applied an append but
// before the client saw the response would double it on retry.
func (r *AppendRequest) Clone() (Request, bool) {
	return nil, false
}
