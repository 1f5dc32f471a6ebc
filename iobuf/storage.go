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

import (
	"math/bits"
	"sync/atomic"

	"github.com/bytedance/gopkg/lang/mcache"
)

// FreeFunction releases a backing buffer that was handed to TakeOwnership.
// It receives the original buffer and the userData value supplied at
// transfer time. It is invoked exactly once, from whichever goroutine drops
// the last reference, and must not panic.
type FreeFunction func(buf []byte, userData interface{})

// sharedInfo tracks how many descriptors reference one backing buffer.
// refcnt is the only cross-goroutine state in the package and is only
// touched through sync/atomic.
type sharedInfo struct {
	freeFn   FreeFunction
	userData interface{}
	refcnt   int32
}

// combined fuses the descriptor and its sharedInfo into a single allocation.
// The bytes stay in their own mcache block: the collector does not allow a
// pointer-bearing struct to live inside raw byte storage.
type combined struct {
	b    Buf
	info sharedInfo
}

// allocStorage grabs a backing block of at least capacity bytes from mcache.
// The block is extended to its full size-class capacity so that rounding is
// observable through Capacity().
func allocStorage(capacity int) []byte {
	if capacity < 0 {
		panic("iobuf: negative capacity")
	}
	block := mcache.Malloc(capacity)
	return block[:cap(block)]
}

// GoodSize returns the usable capacity that a backing block of at least n
// bytes will occupy once rounded up to the allocator's size class.
func GoodSize(n int) int {
	if n <= 1 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	return 1 << bits.Len(uint(n))
}

// ref bumps the backing refcount. The caller already holds a reference, so
// no ordering beyond the atomic add itself is needed.
func (info *sharedInfo) ref() {
	atomic.AddInt32(&info.refcnt, 1)
}

// releaseBacking drops this descriptor's reference on its backing buffer.
// The descriptor that moves the count from 1 to 0 performs the release:
// the custom free function if one was registered, the mcache pool for
// storage we allocated ourselves, or nothing for a transferred buffer with
// no deleter (the collector reclaims it). User-owned backings are never
// released by us.
func (b *Buf) releaseBacking() {
	if b.flags&flagUserOwned != 0 || b.shared == nil {
		return
	}
	info := b.shared
	if atomic.AddInt32(&info.refcnt, -1) > 0 {
		return
	}
	switch {
	case info.freeFn != nil:
		info.freeFn(b.store, info.userData)
	case b.kind == kindUserSupplied:
		// transferred without a deleter; dropped to the GC
	default:
		mcache.Free(b.store)
	}
}
