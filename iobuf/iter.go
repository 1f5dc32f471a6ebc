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

// Iterator walks the segments of a chain in forward order, yielding each
// node's data window. Chains are circular with no guard node, so the
// iterator must remember its origin as well as its position: equality
// compares both, and the end sentinel has both cleared. Iterators are
// invalidated if the node they point at is removed from the chain.
type Iterator struct {
	pos    *Buf
	origin *Buf
}

// Begin returns an iterator positioned at this node.
func (b *Buf) Begin() Iterator {
	return Iterator{pos: b, origin: b}
}

// End returns the past-the-end sentinel iterator.
func (b *Buf) End() Iterator {
	return Iterator{}
}

// Valid reports whether the iterator points at a segment.
func (it Iterator) Valid() bool { return it.pos != nil }

// Bytes returns the data window of the current segment.
func (it Iterator) Bytes() []byte { return it.pos.Bytes() }

// Next advances to the following segment, becoming the end sentinel after
// the last one.
func (it *Iterator) Next() {
	it.pos = it.pos.next
	if it.pos == it.origin {
		it.pos = nil
		it.origin = nil
	}
}

// Equal reports whether two iterators are at the same position in a walk
// that started at the same node. Comparing positions alone is not enough:
// without the origin, "back at the start" and "still at the only node" are
// indistinguishable.
func (it Iterator) Equal(other Iterator) bool {
	return it.pos == other.pos && it.origin == other.origin
}

// Do calls f on each node's data window in chain order, starting at this
// node, until f returns false or the walk completes.
func (b *Buf) Do(f func(p []byte) bool) {
	cur := b
	for {
		if !f(cur.Bytes()) {
			return
		}
		cur = cur.next
		if cur == b {
			return
		}
	}
}
