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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIterator(t *testing.T) {
	a := chainOf("ab", "cd", "ef")
	defer a.Release()

	var got []string
	for it := a.Begin(); it.Valid(); it.Next() {
		got = append(got, string(it.Bytes()))
	}
	require.Equal(t, []string{"ab", "cd", "ef"}, got)
}

func TestIteratorSolitary(t *testing.T) {
	a := newNode("only", 0, 0)
	defer a.Release()

	it := a.Begin()
	require.True(t, it.Valid())
	require.Equal(t, "only", string(it.Bytes()))
	it.Next()
	require.False(t, it.Valid())
	require.True(t, it.Equal(a.End()))
}

func TestIteratorEqualityNeedsOrigin(t *testing.T) {
	a := chainOf("ab", "cd")
	defer a.Release()
	b := a.Next()

	// same position, different origins: walks that started at different
	// nodes must not compare equal
	fromA := a.Begin()
	fromA.Next() // at b, origin a
	fromB := b.Begin()
	require.False(t, fromA.Equal(fromB))

	// advancing past the last node reaches the shared end sentinel
	fromA.Next()
	fromB.Next()
	fromB.Next()
	require.True(t, fromA.Equal(a.End()))
	require.True(t, fromB.Equal(b.End()))
	require.True(t, fromA.Equal(fromB))
}

func TestIteratorMidChainOrigin(t *testing.T) {
	a := chainOf("ab", "cd", "ef")
	defer a.Release()

	// a walk may start anywhere in the ring and still visit every node
	var got []string
	for it := a.Next().Begin(); it.Valid(); it.Next() {
		got = append(got, string(it.Bytes()))
	}
	require.Equal(t, []string{"cd", "ef", "ab"}, got)
}

func TestDo(t *testing.T) {
	a := chainOf("ab", "cd", "ef")
	defer a.Release()

	var visited int
	a.Do(func(p []byte) bool {
		visited++
		return true
	})
	require.Equal(t, 3, visited)

	// early stop
	visited = 0
	a.Do(func(p []byte) bool {
		visited++
		return false
	})
	require.Equal(t, 1, visited)
}
