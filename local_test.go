// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalTierCapsAtMaxCells(t *testing.T) {
	tier := newLocalTier[int](1000)
	require.Len(t, tier.cells, maxLocalCells)
}

func TestLocalTierExchangeAndTake(t *testing.T) {
	tier := newLocalTier[*int](4)
	cell := tier.cellFor(0)

	a := 1
	old, hadOld := cell.exchange(&a)
	require.False(t, hadOld)
	require.Nil(t, old)

	b := 2
	old, hadOld = cell.exchange(&b)
	require.True(t, hadOld)
	require.Equal(t, &a, old)

	got, ok := cell.take()
	require.True(t, ok)
	require.Equal(t, &b, got)

	_, ok = cell.take()
	require.False(t, ok)
}

func TestLocalCellTrimForced(t *testing.T) {
	tier := newLocalTier[int](4)
	cell := tier.cellFor(0)
	cell.exchange(7)

	v, ok := cell.trim(1000, 30_000, true)
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func TestLocalCellTrimTwoPass(t *testing.T) {
	tier := newLocalTier[int](4)
	cell := tier.cellFor(0)
	cell.exchange(7)

	_, ok := cell.trim(1000, 30_000, false)
	require.False(t, ok, "first observation only stamps")

	_, ok = cell.trim(1000+10_000, 30_000, false)
	require.False(t, ok, "still within threshold")

	v, ok := cell.trim(1000+30_001, 30_000, false)
	require.True(t, ok)
	require.Equal(t, 7, v)
}
