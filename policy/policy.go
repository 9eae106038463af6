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

// Package policy carries the per-command configuration knobs: timeout,
// retry budget, replica preference and record-exists semantics. Policy
// values can be checked with go-playground/validator through Validate; the
// command engine does not call Validate itself.
package policy

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// RecordExistsAction governs how a write reacts to the current generation
// of the target record.
type RecordExistsAction int

const (
	// Update writes unconditionally, creating the record if absent.
	Update RecordExistsAction = iota
	// ExpectGenEqual writes only if Generation matches the server's.
	ExpectGenEqual
	// ExpectGenGreaterThan writes only if Generation is less than the server's.
	ExpectGenGreaterThan
	// Fail rejects the write if the record already exists.
	Fail
)

// Replica selects which copy of a partition serves a read.
type Replica int

const (
	Master Replica = iota
	MasterProles
)

// Policy configures one command's execution. The zero value is a usable
// policy: unlimited timeout, a single attempt, master-only reads.
type Policy struct {
	TimeoutMS             int64              `validate:"gte=0"`
	MaxRetries            int                `validate:"gte=0"`
	RetryOnTimeout        bool
	SleepBetweenRetriesMS int64              `validate:"gte=0"`
	RecordExistsAction    RecordExistsAction `validate:"gte=0,lte=3"`
	Generation            uint32
	ExpirationSeconds     uint32
	Replica               Replica `validate:"gte=0,lte=1"`

	// Scan/query-only fields; ignored by single-record commands.
	ConcurrentNodes    int
	IncludeBinData     bool
	ScanPercent        int `validate:"gte=0,lte=100"`
	FailOnClusterChange bool
	MaxConcurrentThreads int `validate:"gte=0"`
}

// Default returns the zero-value policy (no timeout, single attempt) with
// ScanPercent set to 100 and IncludeBinData set to true.
func Default() Policy {
	return Policy{ScanPercent: 100, IncludeBinData: true}
}

// Timeout returns the configured timeout as a time.Duration, or zero if
// TimeoutMS is not set (meaning: no deadline).
func (p Policy) Timeout() time.Duration {
	if p.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

func (p Policy) SleepBetweenRetries() time.Duration {
	return time.Duration(p.SleepBetweenRetriesMS) * time.Millisecond
}

var validate = validator.New()

// Validate enforces the struct tags above; a policy with a negative
// timeout or an out-of-range enum value is rejected with
// ErrorInvalidPolicy.
func (p Policy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return ErrorInvalidPolicy.Error(err)
	}
	return nil
}

// Clone returns a copy, matching the config-struct convention used across
// this module.
func (p Policy) Clone() Policy {
	return p
}
