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

// S2: chain three nodes and coalesce.
func TestCoalesce(t *testing.T) {
	a := chainOf("ab", "cd", "ef")
	defer a.Release()

	data, err := a.Coalesce()
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(data))
	require.False(t, a.IsChained())
	require.Equal(t, 6, a.Length())
	require.Equal(t, 2, a.Headroom(), "headroom of the first node is kept")
	require.GreaterOrEqual(t, a.Tailroom(), 2, "tailroom of the last node is kept")
	requireRingIntact(t, a)
}

func TestCoalesceSolitaryNoop(t *testing.T) {
	a := newNode("solo", 2, 2)
	defer a.Release()
	p := backingPtr(a)
	data, err := a.Coalesce()
	require.NoError(t, err)
	require.Equal(t, "solo", string(data))
	require.Equal(t, p, backingPtr(a), "no reallocation for a solitary node")
}

// Property 9: coalesce is idempotent.
func TestCoalesceIdempotent(t *testing.T) {
	a := chainOf("ab", "cd")
	defer a.Release()
	_, err := a.Coalesce()
	require.NoError(t, err)
	p := backingPtr(a)
	data, err := a.Coalesce()
	require.NoError(t, err)
	require.Equal(t, "abcd", string(data))
	require.Equal(t, p, backingPtr(a))
}

func TestCoalesceReleasesMergedNodes(t *testing.T) {
	frees := 0
	raw := make([]byte, 4)
	copy(raw, "wxyz")
	owned := TakeOwnership(raw, 4, func([]byte, interface{}) { frees++ }, nil)

	a := newNode("ab", 2, 2)
	defer a.Release()
	a.PrependChain(owned)

	_, err := a.Coalesce()
	require.NoError(t, err)
	require.Equal(t, 1, frees, "merged node's backing is released")
	require.Equal(t, "abwxyz", string(a.Bytes()))
}

// S3: gather a prefix.
func TestGatherPrefix(t *testing.T) {
	a := chainOf("ab", "cd", "ef")
	defer a.Release()

	require.NoError(t, a.Gather(3))
	require.Equal(t, 4, a.Length())
	require.Equal(t, "abcd", string(a.Bytes()))
	require.True(t, a.IsChained())
	require.Equal(t, 2, a.CountChainElements())
	require.Equal(t, "ef", string(a.Next().Bytes()))
	require.Equal(t, 2, a.Headroom())
	requireRingIntact(t, a)
}

// Property 7: length() >= k or the chain is fully fused, bytes preserved.
func TestGatherWholeChain(t *testing.T) {
	a := chainOf("ab", "cd", "ef")
	defer a.Release()

	require.NoError(t, a.Gather(100))
	require.False(t, a.IsChained())
	require.Equal(t, "abcdef", string(a.Bytes()))
}

func TestGatherNoopWhenSatisfied(t *testing.T) {
	a := chainOf("abcd", "ef")
	defer a.Release()
	p := backingPtr(a)
	require.NoError(t, a.Gather(3))
	require.Equal(t, p, backingPtr(a))
	require.True(t, a.IsChained())

	solo := newNode("ab", 0, 0)
	defer solo.Release()
	require.NoError(t, solo.Gather(100))
	require.False(t, solo.IsChained())
}

// Property 8: copy in, coalesce, read out.
func TestCopyCoalesceRoundTrip(t *testing.T) {
	payload := []byte("round-trip payload bytes")
	a := CopyBuffer(payload[:8], 0, 0)
	defer a.Release()
	a.PrependChain(CopyBuffer(payload[8:], 0, 0))

	data, err := a.Coalesce()
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestCoalescePreservesDataAcrossEmptyNodes(t *testing.T) {
	a := chainOf("ab", "", "cd")
	defer a.Release()
	data, err := a.Coalesce()
	require.NoError(t, err)
	require.Equal(t, "abcd", string(data))
}
