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
	"io"
	"net"
	"sync"

	"github.com/nabbar/kvasync/wire"
)

// scriptFunc is what a fake node does with one accepted connection.
type scriptFunc func(nc net.Conn)

// fakeServer is a bare TCP listener driving a scriptFunc per accepted
// connection, playing the role of the node a child command streams from.
type fakeServer struct {
	ln net.Listener

	mu    sync.Mutex
	conns []net.Conn
}

func newFakeServer(script scriptFunc) *fakeServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}

	s := &fakeServer{ln: ln}

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.conns = append(s.conns, c)
			s.mu.Unlock()
			go script(c)
		}
	}()

	return s
}

func (s *fakeServer) addr() string {
	return s.ln.Addr().String()
}

func (s *fakeServer) close() {
	_ = s.ln.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
}

// writeRecord frames one 22-byte multi-record message header, with no
// field/op payload following it.
func writeRecord(nc net.Conn, resultCode, info3 byte) {
	body := make([]byte, wire.MsgHeaderSize)
	wire.EncodeMsgHeader(body, wire.MsgHeader{ResultCode: resultCode, Info3: info3})

	frame := make([]byte, wire.ProtoHeaderSize+len(body))
	wire.EncodeProtoHeader(frame, uint64(len(body)))
	copy(frame[wire.ProtoHeaderSize:], body)

	_, _ = nc.Write(frame)
}

func drain(nc net.Conn) {
	_, _ = io.Copy(io.Discard, nc)
}

// scriptStream writes n "found" records followed by a final LAST record,
// the shape of a healthy multi-record child response.
func scriptStream(n int) scriptFunc {
	return func(nc net.Conn) {
		defer func() { _ = nc.Close() }()
		go drain(nc)

		for i := 0; i < n; i++ {
			writeRecord(nc, wire.ResultOK, 0)
		}
		writeRecord(nc, wire.ResultOK, wire.Info3Last)
	}
}

// scriptStreamWithError writes n good records, then one record carrying a
// result code outside {OK, KEY_NOT_FOUND}, which should terminate the
// child with an error instead of reaching the LAST marker.
func scriptStreamWithError(n int, badCode byte) scriptFunc {
	return func(nc net.Conn) {
		defer func() { _ = nc.Close() }()
		go drain(nc)

		for i := 0; i < n; i++ {
			writeRecord(nc, wire.ResultOK, 0)
		}
		writeRecord(nc, badCode, 0)
	}
}

func scriptHangUp() scriptFunc {
	return func(nc net.Conn) {
		_ = nc.Close()
	}
}
