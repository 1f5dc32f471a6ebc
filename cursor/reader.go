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

// Package cursor provides sequential zero-copy reading and writing over an
// iobuf chain. A Reader consumes the chain's logical byte stream without
// copying inside a segment; an Appender grows the chain at its tail.
//
// Cursors borrow the chain: they never take ownership, and they are
// invalidated by any structural mutation of the chain made behind their
// back.
package cursor

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/bytedance/gopkg/lang/dirtmake"
	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/tarqd/ngn/iobuf"
)

var (
	errNegativeCount = errors.New("cursor: negative count")

	// ErrNotEnough is returned when a read asks for more bytes than the
	// chain still holds.
	ErrNotEnough = errors.New("cursor: not enough data left in chain")
)

var readerPool = sync.Pool{
	New: func() interface{} {
		return &Reader{pool: make([][]byte, 0, 4)}
	},
}

// Reader consumes the byte stream of a chain front to back. Reads that fit
// inside one segment are zero-copy views into that segment; reads crossing
// a segment boundary return pooled scratch that stays valid until Release.
type Reader struct {
	cur *iobuf.Buf // segment being consumed
	off int        // bytes of cur's window already consumed

	rn   int // total bytes consumed
	rest int // bytes left in the chain

	pool [][]byte // scratch from cross-segment reads, freed on Release
}

// NewReader returns a pooled Reader positioned at the start of b's chain.
// The chain is borrowed, not owned: release the Reader before mutating or
// releasing the chain.
func NewReader(b *iobuf.Buf) *Reader {
	r := readerPool.Get().(*Reader)
	r.cur = b
	r.rest = b.ChainDataLength()
	return r
}

// advance moves past exhausted segments so cur has unread bytes.
// Only called when rest > 0.
func (r *Reader) advance() {
	for r.off == r.cur.Length() {
		r.cur = r.cur.Next()
		r.off = 0
	}
}

// Next consumes and returns the next n bytes. Within one segment the
// returned slice aliases the chain; across segments it is pooled scratch
// valid until Release.
func (r *Reader) Next(n int) (p []byte, err error) {
	if n < 0 {
		return nil, errNegativeCount
	}
	if n > r.rest {
		return nil, ErrNotEnough
	}
	if n == 0 {
		return nil, nil
	}
	r.advance()
	if seg := r.cur.Bytes(); len(seg)-r.off >= n {
		p = seg[r.off : r.off+n]
		r.off += n
	} else {
		p = r.readSlow(n)
	}
	r.rn += n
	r.rest -= n
	return p, nil
}

func (r *Reader) readSlow(n int) []byte {
	buf := mcache.Malloc(n)
	r.pool = append(r.pool, buf)
	l := 0
	for l < n {
		seg := r.cur.Bytes()
		if r.off == len(seg) {
			r.cur = r.cur.Next()
			r.off = 0
			continue
		}
		m := copy(buf[l:], seg[r.off:])
		l += m
		r.off += m
	}
	return buf
}

// Peek returns the next n bytes without consuming them.
func (r *Reader) Peek(n int) (p []byte, err error) {
	if n < 0 {
		return nil, errNegativeCount
	}
	if n > r.rest {
		return nil, ErrNotEnough
	}
	if n == 0 {
		return nil, nil
	}
	cur, off := r.cur, r.off
	for off == cur.Length() {
		cur = cur.Next()
		off = 0
	}
	if seg := cur.Bytes(); len(seg)-off >= n {
		return seg[off : off+n], nil
	}
	buf := mcache.Malloc(n)
	r.pool = append(r.pool, buf)
	l := 0
	for l < n {
		seg := cur.Bytes()
		if off == len(seg) {
			cur = cur.Next()
			off = 0
			continue
		}
		m := copy(buf[l:], seg[off:])
		l += m
		off += m
	}
	return buf, nil
}

// Skip consumes n bytes without returning them.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return errNegativeCount
	}
	if n > r.rest {
		return ErrNotEnough
	}
	for n > 0 {
		r.advance()
		m := r.cur.Length() - r.off
		if m > n {
			m = n
		}
		r.off += m
		r.rn += m
		r.rest -= m
		n -= m
	}
	return nil
}

// ReadBinary fills bs from the chain. It is a copying read: bs stays valid
// after Release. Returns ErrNotEnough, consuming nothing, if the chain
// holds fewer than len(bs) bytes.
func (r *Reader) ReadBinary(bs []byte) (n int, err error) {
	if len(bs) > r.rest {
		return 0, ErrNotEnough
	}
	for n < len(bs) {
		r.advance()
		m := copy(bs[n:], r.cur.Bytes()[r.off:])
		n += m
		r.off += m
	}
	r.rn += n
	r.rest -= n
	return n, nil
}

// ReadString consumes n bytes as a string the caller owns.
func (r *Reader) ReadString(n int) (string, error) {
	if n < 0 {
		return "", errNegativeCount
	}
	if n == 0 {
		return "", nil
	}
	buf := dirtmake.Bytes(n, n)
	if _, err := r.ReadBinary(buf); err != nil {
		return "", err
	}
	return unsafe.String(unsafe.SliceData(buf), n), nil
}

// ReadLen returns the number of bytes consumed so far.
func (r *Reader) ReadLen() int {
	return r.rn
}

// Release frees the scratch handed out by cross-segment reads and returns
// the Reader to its pool. Slices returned by Next/Peek are invalid
// afterwards.
func (r *Reader) Release() {
	r.cur = nil
	r.off = 0
	r.rn = 0
	r.rest = 0
	for i := range r.pool {
		mcache.Free(r.pool[i])
		r.pool[i] = nil
	}
	r.pool = r.pool[:0]
	readerPool.Put(r)
}
