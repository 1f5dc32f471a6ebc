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

// Package iobuf provides a zero-copy buffer primitive for networking code,
// modelled after BSD's mbuf and Linux's sk_buff.
//
// A Buf is a small descriptor pointing at a section of a reference-counted
// backing buffer:
//
//	+------------+--------------------+-----------+
//	|  headroom  |        data        |  tailroom |
//	+------------+--------------------+-----------+
//	^            ^                    ^           ^
//	Buffer()   Bytes()         WritableTail()   capacity end
//
// Multiple descriptors may view the same backing buffer (see CloneOne); the
// buffer is released when the last reference drops. Descriptors also link
// into circular chains so that one logical byte stream can live across
// several non-contiguous blocks, e.g. to slice several protocol messages out
// of a single read without copying.
//
// Chains are always circular and any node may be treated as the head. The
// head owns every other node: Release on the head tears down the whole
// chain, and the chain-splicing methods take ownership of their argument.
// Within a chain, next/prev pointers are plain back-references; exactly one
// owning handle exists per chain.
//
// A single Buf must only be used by one goroutine at a time. Two descriptors
// sharing a backing buffer may live in different goroutines; writers must
// call UnshareOne first to get a private copy.
package iobuf

import (
	"errors"
	"math"
)

const (
	// flagUserOwned marks a backing buffer the caller kept ownership of
	// (WrapBuffer). It is never released by this package and the
	// descriptor is perpetually reported as shared.
	flagUserOwned = 1 << 0
	// flagFreeSharedInfo records that the sharedInfo was allocated
	// separately from the descriptor.
	flagFreeSharedInfo = 1 << 1
	// flagMaybeShared is a fast-path hint: when clear, the refcount is
	// known to be 1 and IsSharedOne skips the atomic load.
	flagMaybeShared = 1 << 2
)

// Backing buffer provenance, kept for debugging.
const (
	kindAllocated    = 0 // allocated by us, separate from the descriptor
	kindUserSupplied = 1 // transferred by the caller with TakeOwnership
	kindUserOwned    = 2 // wrapped, still owned by the caller
	kindCombined     = 3 // descriptor and sharedInfo share one allocation
)

// MaxCoalesceLength bounds the data length a single backing buffer may
// reach through Coalesce, Gather or Unshare. Lengths and capacities are
// plain ints in this package, but the single-buffer cap is kept at the
// 32-bit limit of the wire-level formats this package feeds.
const MaxCoalesceLength int64 = math.MaxUint32

const maxInt = int(^uint(0) >> 1)

// ErrOverflow is returned when coalescing would produce a single buffer
// longer than MaxCoalesceLength. The chain is left unmodified.
var ErrOverflow = errors.New("iobuf: coalesced length exceeds maximum buffer capacity")

// Buf is one descriptor node. The zero value is not usable; construct
// through the factory functions. A *Buf returned by a factory, Unlink, Pop,
// SeparateChain, Clone or CloneOne is an owning handle; methods that accept
// a *Buf chain argument consume the handle passed to them.
type Buf struct {
	next *Buf
	prev *Buf

	// store spans the whole backing region; the valid-data window is
	// store[off : off+length]. All descriptors sharing one backing hold
	// identical store slices and differ only in their windows.
	store  []byte
	off    int
	length int

	flags  uint32
	kind   uint8
	shared *sharedInfo
}

func newBuf(store []byte, kind uint8, flags uint32, info *sharedInfo) *Buf {
	b := &Buf{store: store, kind: kind, flags: flags, shared: info}
	b.next, b.prev = b, b
	return b
}

// New allocates a descriptor with a fresh backing buffer of at least the
// requested capacity. The data window starts empty at the head of the
// buffer. Capacity may be rounded up to the allocator's size class.
func New(capacity int) *Buf {
	return newBuf(allocStorage(capacity), kindAllocated, flagFreeSharedInfo, &sharedInfo{refcnt: 1})
}

// NewCombined is like New but allocates the descriptor and its refcount
// bookkeeping in a single allocation. Cheaper when the descriptor and the
// data have similar lifetimes; wasteful if the buffer is later regrown with
// Reserve, since the combined block lives until the descriptor dies.
func NewCombined(capacity int) *Buf {
	c := &combined{}
	c.info.refcnt = 1
	c.b = Buf{store: allocStorage(capacity), kind: kindCombined, shared: &c.info}
	c.b.next, c.b.prev = &c.b, &c.b
	return &c.b
}

// NewChain builds a chain with at least totalCapacity bytes of capacity,
// requesting no more than maxBufCapacity for any one node. A node's
// Capacity may exceed maxBufCapacity after size-class rounding.
func NewChain(totalCapacity, maxBufCapacity int) *Buf {
	if maxBufCapacity <= 0 {
		panic("iobuf: non-positive max node capacity")
	}
	n := totalCapacity
	if n > maxBufCapacity {
		n = maxBufCapacity
	}
	head := New(n)
	allocated := head.Capacity()
	for allocated < totalCapacity {
		n = totalCapacity - allocated
		if n > maxBufCapacity {
			n = maxBufCapacity
		}
		node := NewCombined(n)
		allocated += node.Capacity()
		head.PrependChain(node)
	}
	return head
}

// TakeOwnership wraps an existing buffer, transferring ownership to the
// returned descriptor. When the last reference drops, freeFn is called
// exactly once with the buffer and userData; a nil freeFn leaves the block
// to the garbage collector. The data window covers buf[:length].
func TakeOwnership(buf []byte, length int, freeFn FreeFunction, userData interface{}) *Buf {
	if length < 0 || length > len(buf) {
		panic("iobuf: take ownership length out of range")
	}
	info := &sharedInfo{freeFn: freeFn, userData: userData, refcnt: 1}
	b := newBuf(buf, kindUserSupplied, flagFreeSharedInfo, info)
	b.length = length
	return b
}

// WrapBuffer points a new descriptor at a buffer the caller keeps ownership
// of. The buffer is never freed by this package and the caller must keep it
// alive for as long as any descriptor views it. A wrapped descriptor is
// always reported as shared; UnshareOne produces a private copy.
// The data window covers the whole buffer.
func WrapBuffer(buf []byte) *Buf {
	b := newBuf(buf, kindUserOwned, flagUserOwned, nil)
	b.length = len(buf)
	return b
}

// CopyBuffer allocates a fresh descriptor and copies p into it, leaving the
// requested headroom before the data and at least minTailroom after it.
func CopyBuffer(p []byte, headroom, minTailroom int) *Buf {
	b := New(headroom + len(p) + minTailroom)
	b.off = headroom
	copy(b.store[b.off:], p)
	b.length = len(p)
	return b
}

// CopyString is CopyBuffer for strings.
func CopyString(s string, headroom, minTailroom int) *Buf {
	b := New(headroom + len(s) + minTailroom)
	b.off = headroom
	copy(b.store[b.off:], s)
	b.length = len(s)
	return b
}

// MaybeCopyString is CopyString, except that it returns nil for an empty
// input instead of allocating.
func MaybeCopyString(s string, headroom, minTailroom int) *Buf {
	if len(s) == 0 {
		return nil
	}
	return CopyString(s, headroom, minTailroom)
}

// Bytes returns the valid-data window. The slice stays writable in the Go
// type system; callers must ensure the node is unshared before mutating it.
func (b *Buf) Bytes() []byte {
	return b.store[b.off : b.off+b.length]
}

// Buffer returns the whole backing region, from the start of the headroom
// to the end of the tailroom.
func (b *Buf) Buffer() []byte {
	return b.store
}

// WritableTail returns the tailroom window, for filling data in place
// before committing it with Append. The caller must ensure the node is
// unshared.
func (b *Buf) WritableTail() []byte {
	return b.store[b.off+b.length:]
}

// Length returns the size of the valid-data window of this node only.
func (b *Buf) Length() int { return b.length }

// Capacity returns the total usable size of the backing buffer.
func (b *Buf) Capacity() int { return len(b.store) }

// Headroom returns the unused capacity before the data window.
func (b *Buf) Headroom() int { return b.off }

// Tailroom returns the unused capacity after the data window.
func (b *Buf) Tailroom() int { return len(b.store) - b.off - b.length }

// Next returns the following node in the chain (itself if solitary).
func (b *Buf) Next() *Buf { return b.next }

// Prev returns the preceding node in the chain (itself if solitary).
func (b *Buf) Prev() *Buf { return b.prev }

// IsChained reports whether this node is part of a chain of more than one.
func (b *Buf) IsChained() bool { return b.next != b }

// Prepend grows the data window backwards into the headroom. The caller is
// responsible for having filled those bytes. Panics if n exceeds the
// headroom.
func (b *Buf) Prepend(n int) {
	if n < 0 || n > b.off {
		panic("iobuf: prepend exceeds headroom")
	}
	b.off -= n
	b.length += n
}

// Append grows the data window forwards into the tailroom. The caller is
// responsible for having filled those bytes. Panics if n exceeds the
// tailroom.
func (b *Buf) Append(n int) {
	if n < 0 || n > b.Tailroom() {
		panic("iobuf: append exceeds tailroom")
	}
	b.length += n
}

// TrimStart drops the first n bytes from the data window. Panics if n
// exceeds the data length.
func (b *Buf) TrimStart(n int) {
	if n < 0 || n > b.length {
		panic("iobuf: trim start exceeds length")
	}
	b.off += n
	b.length -= n
}

// TrimEnd drops the last n bytes from the data window. Panics if n exceeds
// the data length.
func (b *Buf) TrimEnd(n int) {
	if n < 0 || n > b.length {
		panic("iobuf: trim end exceeds length")
	}
	b.length -= n
}

// Clear empties the data window and rewinds it to the start of the buffer.
func (b *Buf) Clear() {
	b.off = 0
	b.length = 0
}

// Advance shifts the data window forwards by n bytes, moving the data if
// the window is non-empty. Commonly used to open headroom in a fresh
// buffer. The caller must ensure the node is unshared when data moves.
// Panics if n exceeds the tailroom.
func (b *Buf) Advance(n int) {
	if n < 0 || n > b.Tailroom() {
		panic("iobuf: advance exceeds tailroom")
	}
	if b.length > 0 {
		copy(b.store[b.off+n:], b.store[b.off:b.off+b.length])
	}
	b.off += n
}

// Retreat shifts the data window backwards by n bytes, moving the data if
// the window is non-empty. The caller must ensure the node is unshared when
// data moves. Panics if n exceeds the headroom.
func (b *Buf) Retreat(n int) {
	if n < 0 || n > b.off {
		panic("iobuf: retreat exceeds headroom")
	}
	if b.length > 0 {
		copy(b.store[b.off-n:], b.store[b.off:b.off+b.length])
	}
	b.off -= n
}

// Release drops the owning handle. Every node of the chain is destroyed and
// each backing buffer's refcount decremented, freeing buffers whose last
// reference this was. Only the owner of a chain may call Release, and the
// chain must not be used afterwards. Release of a nil *Buf is a no-op.
func (b *Buf) Release() {
	if b == nil {
		return
	}
	cur := b
	for {
		next := cur.next
		cur.releaseBacking()
		cur.next, cur.prev = cur, cur
		cur.store = nil
		cur.shared = nil
		cur.off, cur.length = 0, 0
		if next == b {
			return
		}
		cur = next
	}
}
