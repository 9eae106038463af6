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

// State is one point in a Command's lifecycle. The zero value is
// intentionally unused (StateInProgress starts at 1) so a zero-valued
// State never collides with the atomic.Value wrapper's empty-value
// substitution.
type State int32

const (
	StateInProgress State = iota + 1
	StateSuccess
	StateRetry
	StateFailTimeout
	StateFailNetworkInit
	StateFailNetworkError
	StateFailApplicationInit
	StateFailApplicationError
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "IN_PROGRESS"
	case StateSuccess:
		return "SUCCESS"
	case StateRetry:
		return "RETRY"
	case StateFailTimeout:
		return "FAIL_TIMEOUT"
	case StateFailNetworkInit:
		return "FAIL_NETWORK_INIT"
	case StateFailNetworkError:
		return "FAIL_NETWORK_ERROR"
	case StateFailApplicationInit:
		return "FAIL_APPLICATION_INIT"
	case StateFailApplicationError:
		return "FAIL_APPLICATION_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether s ends the command's lifecycle (anything but
// IN_PROGRESS and RETRY, the latter being an internal pivot to a clone).
func (s State) Terminal() bool {
	return s != StateInProgress && s != StateRetry
}

// Retryable reports whether s is a network-class failure eligible for a
// retry attempt, subject to the command's remaining iteration budget.
func (s State) Retryable() bool {
	return s == StateFailNetworkInit || s == StateFailNetworkError
}
