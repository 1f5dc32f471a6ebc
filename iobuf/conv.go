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

import "unsafe"

// UnsafeString returns this node's data window as a string without copying.
// The string aliases the backing buffer: the caller must not let it outlive
// the buffer and must not mutate the window while the string is live.
func (b *Buf) UnsafeString() string {
	if b.length == 0 {
		return ""
	}
	return unsafe.String(&b.store[b.off], b.length)
}
