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

// CloneOne returns a new solitary descriptor viewing the same backing
// buffer and the same data window as this node, bumping the backing
// refcount. Both descriptors are marked maybe-shared. User-owned backings
// have no refcount; the clone is user-owned too.
func (b *Buf) CloneOne() *Buf {
	if b.shared != nil {
		b.flags |= flagMaybeShared
	}
	c := &Buf{
		store:  b.store,
		off:    b.off,
		length: b.length,
		flags:  b.flags,
		kind:   b.kind,
		shared: b.shared,
	}
	c.next, c.prev = c, c
	if b.shared != nil {
		b.shared.ref()
	}
	return c
}

// Clone returns a new chain sharing the same backing buffers as this one,
// node for node in the same order.
func (b *Buf) Clone() *Buf {
	head := b.CloneOne()
	for cur := b.next; cur != b; cur = cur.next {
		head.PrependChain(cur.CloneOne())
	}
	return head
}
