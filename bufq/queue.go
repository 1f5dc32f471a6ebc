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

// Package bufq assembles a logical byte stream from incoming buffers, the
// way a transport assembles socket reads into protocol frames. A Queue
// owns the chain it accumulates; Split carves owned prefixes off the front
// without copying payload bytes: a segment cut by the boundary is shared
// through a clone.
package bufq

import (
	"errors"

	"github.com/tarqd/ngn/iobuf"
)

// ErrUnderflow is returned by Split when fewer bytes are queued than
// requested. The queue is left unmodified.
var ErrUnderflow = errors.New("bufq: split exceeds queued length")

// MinAllocBlockSize is the smallest node capacity AppendBytes requests when
// it has to grow the chain. Preallocate sizes its nodes from its own
// arguments instead.
var MinAllocBlockSize = 2048

// Queue accumulates buffers at the tail and releases them from the head.
// The zero value is an empty queue. A Queue is single-goroutine, like the
// chains it owns.
type Queue struct {
	head   *iobuf.Buf
	length int // cached total data length of the chain
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Append moves b's whole chain to the tail of the queue, consuming the
// handle.
func (q *Queue) Append(b *iobuf.Buf) {
	if b == nil {
		return
	}
	q.length += b.ChainDataLength()
	if q.head == nil {
		q.head = b
		return
	}
	q.head.PrependChain(b)
}

// AppendQueue moves the entire contents of other to the tail of the queue,
// leaving other empty.
func (q *Queue) AppendQueue(other *Queue) {
	if other == nil || other.head == nil {
		return
	}
	b := other.head
	other.head = nil
	other.length = 0
	q.Append(b)
}

// AppendBytes copies p to the tail of the queue, packing it into existing
// tailroom when the tail node is private, and growing the chain otherwise.
func (q *Queue) AppendBytes(p []byte) {
	for len(p) > 0 {
		tail := q.tail()
		if tail == nil || tail.IsSharedOne() || tail.Tailroom() == 0 {
			n := len(p)
			if n < MinAllocBlockSize {
				n = MinAllocBlockSize
			}
			q.Append(iobuf.New(n))
			tail = q.tail()
		}
		m := copy(tail.WritableTail(), p)
		tail.Append(m)
		q.length += m
		p = p[m:]
	}
}

// Preallocate returns writable tailroom of at least min bytes, growing the
// chain with a node of newAllocationSize (at least min) when the tail is
// shared or too small. Bytes written into the returned slice join the
// stream only after Postallocate.
func (q *Queue) Preallocate(min, newAllocationSize int) []byte {
	if tail := q.tail(); tail != nil && !tail.IsSharedOne() && tail.Tailroom() >= min {
		return tail.WritableTail()
	}
	n := newAllocationSize
	if n < min {
		n = min
	}
	q.Append(iobuf.New(n))
	return q.tail().WritableTail()
}

// Postallocate commits n bytes previously written into the slice returned
// by Preallocate.
func (q *Queue) Postallocate(n int) {
	tail := q.tail()
	if tail == nil {
		panic("bufq: postallocate on empty queue")
	}
	tail.Append(n)
	q.length += n
}

// Split detaches the first n bytes of the stream and returns them as an
// owned chain. Whole segments move without copying; a segment cut by the
// boundary is shared between the two chains via a clone. Split(0) returns
// nil. Returns ErrUnderflow, with the queue unmodified, if fewer than n
// bytes are queued.
func (q *Queue) Split(n int) (*iobuf.Buf, error) {
	if n < 0 || n > q.length {
		return nil, ErrUnderflow
	}
	var result *iobuf.Buf
	remaining := n
	for remaining > 0 {
		head := q.head
		if head.Length() <= remaining {
			remaining -= head.Length()
			q.head = head.Pop()
			result = appendChainTail(result, head)
		} else {
			piece := head.CloneOne()
			piece.TrimEnd(piece.Length() - remaining)
			head.TrimStart(remaining)
			result = appendChainTail(result, piece)
			remaining = 0
		}
	}
	q.length -= n
	return result, nil
}

// Front borrows the head of the queued chain without transferring
// ownership, or nil if the queue is empty.
func (q *Queue) Front() *iobuf.Buf {
	return q.head
}

// Move transfers the whole queued chain to the caller, leaving the queue
// empty.
func (q *Queue) Move() *iobuf.Buf {
	b := q.head
	q.head = nil
	q.length = 0
	return b
}

// ChainLength returns the total number of queued data bytes.
func (q *Queue) ChainLength() int {
	return q.length
}

// Empty reports whether no data bytes are queued. Empty nodes may still be
// present.
func (q *Queue) Empty() bool {
	return q.length == 0
}

// Release drops everything still queued.
func (q *Queue) Release() {
	q.head.Release()
	q.head = nil
	q.length = 0
}

func (q *Queue) tail() *iobuf.Buf {
	if q.head == nil {
		return nil
	}
	return q.head.Prev()
}

func appendChainTail(head, node *iobuf.Buf) *iobuf.Buf {
	if head == nil {
		return node
	}
	head.PrependChain(node)
	return head
}
