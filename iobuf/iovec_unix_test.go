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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIovecs(t *testing.T) {
	a := chainOf("ab", "", "cdef")
	defer a.Release()

	iovs := a.Iovecs()
	require.Len(t, iovs, 2)
	require.EqualValues(t, 2, iovs[0].Len)
	require.EqualValues(t, 4, iovs[1].Len)
	require.Same(t, &a.Bytes()[0], iovs[0].Base)
}
