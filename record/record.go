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

// Package record defines the result of a read: a set of named
// bins plus the generation/expiration metadata the server attaches to it.
package record

// Bin is one named field of a record. Value holds a tagged variant:
// nil, int64, uint64, string, []byte, []any (list) or map[string]any (map).
type Bin struct {
	Name  string
	Value any
}

// Record is the result of a read. Bins preserves insertion/wire
// order; Get is the convenience lookup most callers want, and Set
// modifies the record in place.
type Record struct {
	Bins       []Bin
	Generation uint32
	Expiration uint32
}

// New builds a Record from an ordered bin slice.
func New(bins []Bin, generation, expiration uint32) *Record {
	return &Record{Bins: bins, Generation: generation, Expiration: expiration}
}

// Get returns the value of the named bin, or nil and false if absent.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, b := range r.Bins {
		if b.Name == name {
			return b.Value, true
		}
	}
	return nil, false
}

// Set replaces or appends a bin value, preserving existing order.
func (r *Record) Set(name string, value any) {
	for i := range r.Bins {
		if r.Bins[i].Name == name {
			r.Bins[i].Value = value
			return
		}
	}
	r.Bins = append(r.Bins, Bin{Name: name, Value: value})
}

// Len reports the number of bins carried by the record.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Bins)
}
