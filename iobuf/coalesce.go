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

// Coalesce fuses the whole chain into a single contiguous buffer and
// returns the resulting data window. A solitary node is returned as-is.
// The fused node keeps the head's original headroom and the last node's
// original tailroom; all other nodes are destroyed and their references
// released. Returns ErrOverflow, with the chain unmodified, if the total
// length exceeds MaxCoalesceLength.
func (b *Buf) Coalesce() ([]byte, error) {
	if b.IsChained() {
		if err := b.coalesceSlow(maxInt); err != nil {
			return nil, err
		}
	}
	return b.store[b.off : b.off+b.length], nil
}

// Gather coalesces a prefix of the chain until this node's data window
// holds at least maxLength contiguous bytes or the chain is exhausted.
// Nodes beyond the coalesced prefix are left in place, directly following
// this node. The fused region keeps this node's original headroom and the
// last fused node's original tailroom. Returns ErrOverflow, with the chain
// unmodified, if the fused prefix would exceed MaxCoalesceLength.
func (b *Buf) Gather(maxLength int) error {
	if !b.IsChained() || b.length >= maxLength {
		return nil
	}
	return b.coalesceSlow(maxLength)
}

// coalesceSlow fuses nodes starting at b until the accumulated length
// reaches maxLength or the walk comes back around to b.
func (b *Buf) coalesceSlow(maxLength int) error {
	newLength := 0
	end := b
	for {
		newLength += end.length
		end = end.next
		if newLength >= maxLength || end == b {
			break
		}
	}
	newHeadroom := b.off
	newTailroom := end.prev.Tailroom()
	if int64(newLength) > MaxCoalesceLength ||
		int64(newHeadroom)+int64(newLength)+int64(newTailroom) > MaxCoalesceLength {
		return ErrOverflow
	}
	b.coalesceAndReallocate(newHeadroom, newLength, end, newTailroom)
	return nil
}

// coalesceAndReallocate copies the data of [b .. end) into one fresh
// buffer, retargets b onto it and destroys the other fused nodes. end may
// be b itself, meaning the entire chain.
func (b *Buf) coalesceAndReallocate(newHeadroom, newLength int, end *Buf, newTailroom int) {
	store := allocStorage(newHeadroom + newLength + newTailroom)
	p := newHeadroom
	cur := b
	for {
		p += copy(store[p:], cur.store[cur.off:cur.off+cur.length])
		cur = cur.next
		if cur == end {
			break
		}
	}
	// Detach the fused nodes (everything between b and end) into their
	// own ring and destroy them, releasing their buffer references.
	if b.next != end {
		first := b.next
		last := end.prev
		b.next = end
		end.prev = b
		first.prev = last
		last.next = first
		first.Release()
	}
	// Retarget this descriptor onto the merged buffer.
	b.releaseBacking()
	b.shared = &sharedInfo{refcnt: 1}
	b.store = store
	b.off = newHeadroom
	b.length = newLength
	b.flags = flagFreeSharedInfo
	b.kind = kindAllocated
}
