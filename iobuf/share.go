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

import "sync/atomic"

// IsSharedOne reports whether other descriptors also view this node's
// backing buffer. User-owned backings (WrapBuffer) are always considered
// shared. When the maybe-shared hint is clear the refcount is known to be
// 1 and the atomic load is skipped; when the load observes a count of 1,
// the hint self-corrects.
func (b *Buf) IsSharedOne() bool {
	if b.flags&(flagUserOwned|flagMaybeShared) == 0 {
		return false
	}
	if b.flags&flagUserOwned != 0 {
		return true
	}
	shared := atomic.LoadInt32(&b.shared.refcnt) > 1
	if !shared {
		// last reference left; cheap to answer without the atomic
		// next time
		b.flags &^= flagMaybeShared
	}
	return shared
}

// IsShared reports whether any node in the chain is shared.
func (b *Buf) IsShared() bool {
	cur := b
	for {
		if cur.IsSharedOne() {
			return true
		}
		cur = cur.next
		if cur == b {
			return false
		}
	}
}

// UnshareOne gives this node a private backing buffer, copying the current
// one if it is shared. Other nodes in the chain are not touched. Headroom
// and tailroom are preserved.
func (b *Buf) UnshareOne() {
	if b.IsSharedOne() {
		b.unshareOneSlow()
	}
}

func (b *Buf) unshareOneSlow() {
	store := allocStorage(len(b.store))
	copy(store, b.store)
	b.releaseBacking()
	b.shared = &sharedInfo{refcnt: 1}
	b.store = store
	b.flags = flagFreeSharedInfo
	b.kind = kindAllocated
}

// Unshare makes every buffer viewed by this chain private. A solitary node
// is unshared in place; a chain with shared nodes is coalesced into one
// private buffer, destroying the other nodes. Returns ErrOverflow, with the
// chain unmodified, if coalescing would exceed MaxCoalesceLength.
func (b *Buf) Unshare() error {
	if b.IsChained() {
		return b.unshareChained()
	}
	b.UnshareOne()
	return nil
}

func (b *Buf) unshareChained() error {
	cur := b
	for {
		if cur.IsSharedOne() {
			break
		}
		cur = cur.next
		if cur == b {
			// all nodes already private
			return nil
		}
	}
	_, err := b.Coalesce()
	return err
}

// Reserve guarantees Headroom() >= minHeadroom and Tailroom() >=
// minTailroom, preserving the data bytes. An empty window is rebased
// without allocating when the total room suffices; otherwise the node is
// retargeted onto a fresh private buffer. The node must be writable: call
// UnshareOne first if it may be shared.
func (b *Buf) Reserve(minHeadroom, minTailroom int) {
	if minHeadroom < 0 || minTailroom < 0 {
		panic("iobuf: negative reserve")
	}
	if b.off >= minHeadroom && b.Tailroom() >= minTailroom {
		return
	}
	if b.length == 0 && b.off+b.Tailroom() >= minHeadroom+minTailroom {
		b.off = minHeadroom
		return
	}
	b.reserveSlow(minHeadroom, minTailroom)
}

func (b *Buf) reserveSlow(minHeadroom, minTailroom int) {
	store := allocStorage(minHeadroom + b.length + minTailroom)
	copy(store[minHeadroom:], b.store[b.off:b.off+b.length])
	b.releaseBacking()
	b.shared = &sharedInfo{refcnt: 1}
	b.store = store
	b.off = minHeadroom
	b.flags = flagFreeSharedInfo
	b.kind = kindAllocated
}
