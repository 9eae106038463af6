/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// Each package of this module reserves a range of 100 codes for its own
// CodeError constants, following the teacher's convention of namespacing
// error codes per package to keep them globally unique.
const (
	MinPkgIOUtils  = 1400
	MinPkgLogger   = 1600
	MinPkgBuffer   = 2000
	MinPkgCluster  = 2100
	MinPkgConn     = 2200
	MinPkgCommand  = 2300
	MinPkgMulti    = 2400
	MinPkgQueue    = 2500
	MinPkgWire     = 2600
	MinPkgPolicy   = 2700
	MinPkgClient   = 2800
	MinPkgTimeout  = 2900
	MinPkgKey      = 3000
	MinPkgRecord   = 3100
	MinPkgEvent    = 3200

	MinAvailable = 3300

	// MIN_AVAILABLE @Deprecated use MinAvailable constant
	MIN_AVAILABLE = MinAvailable
)
