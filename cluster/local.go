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

package cluster

import (
	"context"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/nabbar/kvasync/buffer"
	"github.com/nabbar/kvasync/connpool"
	"github.com/nabbar/kvasync/key"
	"github.com/nabbar/kvasync/policy"
)

// local is a static, single-process Cluster: every node is given a
// contiguous slice of the partition space up front (no gossip, no map
// refresh). It exists so the command engine can be exercised and tested
// without a topology-discovery subsystem, which is explicitly out of
// scope for this module.
type local struct {
	nodes   map[string]*Node
	order   []string
	mastery map[string]*bitset.BitSet
	buffers *buffer.Pool
}

// NewLocal builds a Cluster that assigns PartitionCount partitions evenly,
// in order, across addrs. Each node's owned partitions are tracked in a
// bitset.BitSet, one bit per partition, set for the partitions it masters.
func NewLocal(ctx context.Context, addrs []string, poolSize int, maxIdle time.Duration, bufPoolSize, bufCutoff int) Cluster {
	c := &local{
		nodes:   make(map[string]*Node, len(addrs)),
		mastery: make(map[string]*bitset.BitSet, len(addrs)),
		buffers: buffer.NewPool(bufPoolSize, bufCutoff),
	}

	n := len(addrs)
	if n == 0 {
		return c
	}

	share := PartitionCount / n
	for i, addr := range addrs {
		name := addr
		c.order = append(c.order, name)
		c.nodes[name] = &Node{
			Name: name,
			Addr: addr,
			Pool: connpool.New(ctx, addr, poolSize, maxIdle),
		}

		bs := bitset.New(PartitionCount)
		start := i * share
		end := start + share
		if i == n-1 {
			end = PartitionCount
		}
		for p := start; p < end; p++ {
			bs.Set(uint(p))
		}
		c.mastery[name] = bs
	}

	return c
}

func (c *local) Node(digest key.Digest, _ policy.Replica) (*Node, error) {
	part := uint(partitionOf(digest))

	for _, name := range c.order {
		if c.mastery[name].Test(part) {
			return c.nodes[name], nil
		}
	}

	return nil, ErrorNoNodeForPartition.Error()
}

func (c *local) NodeByName(name string) (*Node, error) {
	n, ok := c.nodes[name]
	if !ok {
		return nil, ErrorUnknownNode.Error()
	}
	return n, nil
}

func (c *local) Nodes() []*Node {
	res := make([]*Node, 0, len(c.order))
	for _, name := range c.order {
		res = append(res, c.nodes[name])
	}
	return res
}

func (c *local) Buffers() *buffer.Pool {
	return c.buffers
}

func (c *local) Close() {
	for _, n := range c.nodes {
		n.Pool.Close()
	}
}
