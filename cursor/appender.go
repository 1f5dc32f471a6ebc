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

package cursor

import "github.com/tarqd/ngn/iobuf"

// DefaultGrowth is the capacity of nodes an Appender adds when the chain's
// tailroom runs out and no larger size is needed.
var DefaultGrowth = 4096

// Appender writes at the tail of a chain, committing bytes with Append and
// growing the chain with fresh combined-allocation nodes when the tailroom
// runs out. The chain stays owned by the caller; the Appender only borrows
// it. The tail node must be unshared while an Appender writes to it.
type Appender struct {
	head   *iobuf.Buf
	growth int
	wn     int
}

// NewAppender returns an Appender writing at the tail of b's chain.
// growth <= 0 selects DefaultGrowth.
func NewAppender(b *iobuf.Buf, growth int) *Appender {
	if growth <= 0 {
		growth = DefaultGrowth
	}
	return &Appender{head: b, growth: growth}
}

// Malloc returns a writable slice of n contiguous bytes at the tail of the
// chain, already committed to the data window. A node large enough for n
// is added when the current tailroom cannot hold it contiguously.
func (a *Appender) Malloc(n int) []byte {
	if n < 0 {
		panic(errNegativeCount.Error())
	}
	tail := a.head.Prev()
	if tail.Tailroom() < n {
		size := n
		if size < a.growth {
			size = a.growth
		}
		node := iobuf.NewCombined(size)
		a.head.PrependChain(node)
		tail = node
	}
	p := tail.WritableTail()[:n]
	tail.Append(n)
	a.wn += n
	return p
}

// WriteBinary copies bs to the tail of the chain, packing existing
// tailroom before growing, and returns len(bs).
func (a *Appender) WriteBinary(bs []byte) int {
	written := 0
	for written < len(bs) {
		tail := a.head.Prev()
		if tail.Tailroom() == 0 {
			a.head.PrependChain(iobuf.NewCombined(a.growth))
			tail = a.head.Prev()
		}
		m := copy(tail.WritableTail(), bs[written:])
		tail.Append(m)
		written += m
	}
	a.wn += written
	return written
}

// WriteString is WriteBinary for strings, without an intermediate copy.
func (a *Appender) WriteString(s string) int {
	written := 0
	for written < len(s) {
		tail := a.head.Prev()
		if tail.Tailroom() == 0 {
			a.head.PrependChain(iobuf.NewCombined(a.growth))
			tail = a.head.Prev()
		}
		m := copy(tail.WritableTail(), s[written:])
		tail.Append(m)
		written += m
	}
	a.wn += written
	return written
}

// WrittenLen returns the total number of bytes this Appender has committed.
func (a *Appender) WrittenLen() int {
	return a.wn
}
