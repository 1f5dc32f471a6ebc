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

//go:build unix

package iobuf

import "golang.org/x/sys/unix"

// Iovecs returns the chain's data windows as an iovec array suitable for
// unix.Writev / unix.Readv, one entry per non-empty node in chain order.
// The chain must be kept alive and unmodified for as long as the iovecs
// are in use.
func (b *Buf) Iovecs() []unix.Iovec {
	iovs := make([]unix.Iovec, 0, b.CountChainElements())
	b.Do(func(p []byte) bool {
		if len(p) == 0 {
			return true
		}
		iov := unix.Iovec{Base: &p[0]}
		iov.SetLen(len(p))
		iovs = append(iovs, iov)
		return true
	})
	return iovs
}
