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

package cluster_test

import (
	"context"
	"time"

	"github.com/nabbar/kvasync/cluster"
	"github.com/nabbar/kvasync/key"
	"github.com/nabbar/kvasync/policy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Local", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		addrs  = []string{"node-a:3000", "node-b:3000", "node-c:3000"}
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	It("enumerates every configured node", func() {
		c := cluster.NewLocal(ctx, addrs, 4, time.Minute, 8, 1024)
		defer c.Close()

		Expect(c.Nodes()).To(HaveLen(len(addrs)))
	})

	It("routes the same digest to the same node on every call", func() {
		c := cluster.NewLocal(ctx, addrs, 4, time.Minute, 8, 1024)
		defer c.Close()

		k, err := key.New("test", "users", "alice")
		Expect(err).ToNot(HaveOccurred())

		first, err := c.Node(k.Digest(), policy.Master)
		Expect(err).ToNot(HaveOccurred())

		for i := 0; i < 10; i++ {
			again, err := c.Node(k.Digest(), policy.Master)
			Expect(err).ToNot(HaveOccurred())
			Expect(again.Name).To(Equal(first.Name))
		}
	})

	It("resolves a node by name", func() {
		c := cluster.NewLocal(ctx, addrs, 4, time.Minute, 8, 1024)
		defer c.Close()

		n, err := c.NodeByName("node-b:3000")
		Expect(err).ToNot(HaveOccurred())
		Expect(n.Addr).To(Equal("node-b:3000"))
	})

	It("rejects an unknown node name", func() {
		c := cluster.NewLocal(ctx, addrs, 4, time.Minute, 8, 1024)
		defer c.Close()

		_, err := c.NodeByName("no-such-node:3000")
		Expect(err).To(HaveOccurred())
	})

	It("shares one buffer pool across the cluster", func() {
		c := cluster.NewLocal(ctx, addrs, 4, time.Minute, 8, 1024)
		defer c.Close()

		Expect(c.Buffers()).ToNot(BeNil())
	})

	It("releases every node's connection pool on Close", func() {
		c := cluster.NewLocal(ctx, addrs, 4, time.Minute, 8, 1024)
		c.Close()
	})
})
