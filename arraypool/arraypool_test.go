// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arraypool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopool-dev/objpool"
)

func TestArrayPoolRentOfLength(t *testing.T) {
	ap := New[byte](false, 0)
	buf, err := ap.Rent(16)
	require.NoError(t, err)
	require.Len(t, buf, 16)
	require.NoError(t, ap.Return(16, buf))
}

func TestArrayPoolLengthZeroIsSentinel(t *testing.T) {
	ap := New[byte](false, 0)
	buf, err := ap.Rent(0)
	require.NoError(t, err)
	require.Len(t, buf, 0)
	require.Empty(t, ap.backing.pools, "a length-0 rent must never touch per-length storage")
}

// A length-16 adapter rejects an array of length 8 with ErrWrongLength,
// and its ApproxCount is unaffected.
func TestArrayPoolWrongLengthRejected(t *testing.T) {
	ap := New[byte](false, 0)
	p, err := ap.OfLength(16)
	require.NoError(t, err)
	before := ap.ApproxCount()

	wrong := make([]byte, 8)
	err = ap.Return(16, wrong)
	require.ErrorIs(t, err, objpool.ErrWrongLength)
	require.Equal(t, before, ap.ApproxCount())
	require.Equal(t, before, p.ApproxCount())
}

func TestArrayPoolApproxCountSumsSubPools(t *testing.T) {
	ap := New[byte](false, 0)
	for _, length := range []int{8, 16} {
		buf, err := ap.Rent(length)
		require.NoError(t, err)
		require.NoError(t, ap.Return(length, buf))
	}
	require.Equal(t, 2, ap.ApproxCount())
}

func TestArrayPoolForceTrimDrainsAllLengths(t *testing.T) {
	ap := New[byte](false, 0)
	for _, length := range []int{4, 8, 16} {
		buf, err := ap.Rent(length)
		require.NoError(t, err)
		require.NoError(t, ap.Return(length, buf))
	}
	require.Equal(t, 3, ap.ApproxCount())
	ap.Trim(true)
	require.Equal(t, 0, ap.ApproxCount())
}

func TestArrayPoolClearOnReturn(t *testing.T) {
	ap := New[byte](true, 0)
	buf, err := ap.Rent(4)
	require.NoError(t, err)
	for i := range buf {
		buf[i] = 0xFF
	}
	require.NoError(t, ap.Return(4, buf))

	again, err := ap.Rent(4)
	require.NoError(t, err)
	for _, b := range again {
		require.Equal(t, byte(0), b)
	}
}

func TestArrayPoolPeerSharesBackingPool(t *testing.T) {
	clearing := New[byte](true, 4)
	nonClearing := clearing.Peer()
	require.False(t, nonClearing.clearOnReturn)
	require.Same(t, clearing, nonClearing.Peer(), "Peer must round-trip to the original adapter")

	_, err := clearing.OfLength(8)
	require.NoError(t, err)
	p2, err := nonClearing.OfLength(8)
	require.NoError(t, err)
	p1, err := clearing.OfLength(8)
	require.NoError(t, err)
	require.Same(t, p1, p2, "peers must share the same backing InstancePool per length")
}
