// Copyright 2025 ngn Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package iobuf

// PrependChain splices the entire chain of other immediately before this
// node. Ownership of every node in other transfers to this chain; the
// caller must not use the other handle afterwards.
//
// Since chains are circular, head.PrependChain(other) appends other at the
// very end of the chain identified by head: (A,B,C) + (D,E,F) via
// A.PrependChain(D) yields (A,B,C,D,E,F).
func (b *Buf) PrependChain(other *Buf) {
	if other == nil {
		panic("iobuf: prepend nil chain")
	}
	otherTail := other.prev
	b.prev.next = other
	other.prev = b.prev
	otherTail.next = b
	b.prev = otherTail
}

// AppendChain splices the entire chain of other immediately after this
// node, consuming the handle like PrependChain.
func (b *Buf) AppendChain(other *Buf) {
	b.next.PrependChain(other)
}

// Unlink detaches this node from its chain and returns it as a solitary
// owning handle; its former neighbours are joined around it. Do not call
// Unlink on a node whose chain you own through the same pointer - use Pop
// for that.
func (b *Buf) Unlink() *Buf {
	b.next.prev = b.prev
	b.prev.next = b.next
	b.next = b
	b.prev = b
	return b
}

// Pop is Unlink plus a handle to the chain that remains: it detaches this
// node and returns the former next node as the owner of the remaining
// chain, or nil if this node was solitary.
func (b *Buf) Pop() *Buf {
	next := b.next
	b.next.prev = b.prev
	b.prev.next = b.next
	b.next = b
	b.prev = b
	if next == b {
		return nil
	}
	return next
}

// SeparateChain removes the sub-chain [head .. tail] from this chain and
// returns it as an owning handle. head and tail must belong to this chain,
// neither may equal this node, and tail must be reachable from head via
// Next without passing through this node. head and tail may be the same
// node.
func (b *Buf) SeparateChain(head, tail *Buf) *Buf {
	if head == b || tail == b {
		panic("iobuf: separate chain bounds include the owner")
	}
	head.prev.next = tail.next
	tail.next.prev = head.prev
	head.prev = tail
	tail.next = head
	return head
}

// CountChainElements walks the chain and returns the number of nodes.
// Use IsChained to merely test for a multi-node chain.
func (b *Buf) CountChainElements() int {
	n := 1
	for cur := b.next; cur != b; cur = cur.next {
		n++
	}
	return n
}

// ChainDataLength walks the chain and returns the total data length across
// all nodes.
func (b *Buf) ChainDataLength() int {
	total := b.length
	for cur := b.next; cur != b; cur = cur.next {
		total += cur.length
	}
	return total
}

// Empty reports whether every node in the chain has a zero-length data
// window. It short-circuits on the first non-empty node, so it is cheaper
// than ChainDataLength() == 0.
func (b *Buf) Empty() bool {
	cur := b
	for {
		if cur.length != 0 {
			return false
		}
		cur = cur.next
		if cur == b {
			return true
		}
	}
}
