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

// Package cluster resolves a record digest (or an explicit node name) to
// the node that should serve a command, and owns the shared BufferPool
// every command on the cluster draws from. The out-of-scope concern is
// topology *discovery*; this package only consumes a partition map, which
// the Local implementation below builds statically for single-process
// testing and the examples.
package cluster

import (
	"github.com/nabbar/kvasync/buffer"
	"github.com/nabbar/kvasync/connpool"
	"github.com/nabbar/kvasync/key"
	"github.com/nabbar/kvasync/policy"
)

// PartitionCount is the fixed number of partitions a namespace is sharded
// into, matching the source system's partition map size.
const PartitionCount = 4096

// Node is one server the cluster can route commands to.
type Node struct {
	Name string
	Addr string
	Pool *connpool.Pool
}

// Cluster resolves nodes and owns cluster-wide pooled resources.
type Cluster interface {
	// Node resolves the node that owns digest's partition for the given
	// replica preference.
	Node(digest key.Digest, replica policy.Replica) (*Node, error)
	// NodeByName looks up a node directly, used by multi-node fan-out
	// once the caller already knows which nodes participate.
	NodeByName(name string) (*Node, error)
	// Nodes returns every node currently known to the cluster.
	Nodes() []*Node
	// Buffers returns the BufferPool shared by every command on this
	// cluster.
	Buffers() *buffer.Pool
	// Close releases cluster-wide resources (connection pools, tenders).
	Close()
}

// partitionOf maps a digest to a partition index using its leading two
// bytes, the same coarse sharding the source's hash-based partition map
// performs.
func partitionOf(d key.Digest) int {
	return (int(d[0])<<8 | int(d[1])) % PartitionCount
}
