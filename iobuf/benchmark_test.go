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

import "testing"

func BenchmarkNewRelease(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf := New(4096)
		buf.Release()
	}
}

func BenchmarkNewCombinedRelease(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf := NewCombined(4096)
		buf.Release()
	}
}

func BenchmarkCloneOne(b *testing.B) {
	buf := New(4096)
	defer buf.Release()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := buf.CloneOne()
		c.Release()
	}
}

func BenchmarkIsSharedOneUnshared(b *testing.B) {
	buf := New(4096)
	defer buf.Release()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = buf.IsSharedOne()
	}
}

func BenchmarkCoalesce4(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		head := CopyBuffer(make([]byte, 1024), 0, 0)
		for j := 0; j < 3; j++ {
			head.PrependChain(CopyBuffer(make([]byte, 1024), 0, 0))
		}
		_, _ = head.Coalesce()
		head.Release()
	}
}

func BenchmarkIoSlices(b *testing.B) {
	head := chainOf("aaaa", "bbbb", "cccc", "dddd")
	defer head.Release()
	dst := make([][]byte, 0, 4)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dst = head.AppendIoSlices(dst[:0])
	}
}
