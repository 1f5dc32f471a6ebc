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

import "github.com/bytedance/gopkg/lang/dirtmake"

// IoSlices returns the chain's data windows as one slice per node in chain
// order, skipping empty nodes. The result is assignable to net.Buffers for
// vectored writes and is invalidated by any mutation of the chain or of a
// node's window.
func (b *Buf) IoSlices() [][]byte {
	return b.AppendIoSlices(make([][]byte, 0, b.CountChainElements()))
}

// AppendIoSlices appends the chain's data windows to dst, skipping empty
// nodes, and returns the extended slice.
func (b *Buf) AppendIoSlices(dst [][]byte) [][]byte {
	b.Do(func(p []byte) bool {
		if len(p) > 0 {
			dst = append(dst, p)
		}
		return true
	})
	return dst
}

// ToBytes copies the chain's data into one freshly allocated contiguous
// slice, without modifying the chain. The result is owned by the caller.
func (b *Buf) ToBytes() []byte {
	out := dirtmake.Bytes(b.ChainDataLength(), b.ChainDataLength())
	p := 0
	b.Do(func(seg []byte) bool {
		p += copy(out[p:], seg)
		return true
	})
	return out
}
