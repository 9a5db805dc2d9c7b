// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidCapacity(t *testing.T) {
	_, err := New[int](WithCapacity[int](0))
	require.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = New[int](WithReserve[int](-1))
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

// With capacity=2 and a dynamic reserve, returning [a,b,c,d] then
// renting once yields d (the most recently returned value, since
// firstSlot always takes the newest return); the remaining three rents
// drain a,b,c in some order.
func TestInstancePoolOverflowSpill(t *testing.T) {
	p, err := New[string](WithCapacity[string](2), WithReserve[string](0))
	require.NoError(t, err)

	for _, v := range []string{"a", "b", "c", "d"} {
		require.NoError(t, p.Return(v))
	}
	first := p.Rent()
	require.Equal(t, "d", first)

	rest := map[string]bool{}
	for i := 0; i < 3; i++ {
		rest[p.Rent()] = true
	}
	require.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, rest)
}

type disposable struct {
	disposed *int
}

func (d disposable) Dispose() { *d.disposed++ }

// With capacity=1 and a fixed reserve of 1, the third of three
// distinct returns triggers the free policy exactly once.
func TestInstancePoolFixedReserveDrop(t *testing.T) {
	freed := 0
	p, err := New[disposable](
		WithCapacity[disposable](1),
		WithFixedReserve[disposable](1),
		WithFreePolicy(FreeCustom(func(d disposable) { freed++ })),
	)
	require.NoError(t, err)

	x := disposable{disposed: new(int)}
	y := disposable{disposed: new(int)}
	z := disposable{disposed: new(int)}

	require.NoError(t, p.Return(x))
	require.NoError(t, p.Return(y))
	require.NoError(t, p.Return(z))

	require.Equal(t, 1, freed)
	require.Equal(t, 2, p.ApproxCount())
}

func TestInstancePoolReturnNilErrors(t *testing.T) {
	p, err := New[*int](WithCapacity[*int](1))
	require.NoError(t, err)
	require.ErrorIs(t, p.Return(nil), ErrNilElement)
}

// After Trim(true), ApproxCount() == 0 and the free policy fires once
// per evicted element.
func TestInstancePoolForceTrimDrains(t *testing.T) {
	freed := 0
	p, err := New[int](
		WithCapacity[int](4),
		WithReserve[int](200),
		WithFreePolicy(FreeCustom(func(int) { freed++ })),
	)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, p.Return(i))
	}
	p.Trim(true)
	require.Equal(t, 0, p.ApproxCount())
	require.Equal(t, 100, freed)
}

func TestInstancePoolFactoryUsedWhenEmpty(t *testing.T) {
	calls := 0
	p, err := New[int](
		WithCapacity[int](1),
		WithFactory(func() int { calls++; return 99 }),
	)
	require.NoError(t, err)
	require.Equal(t, 99, p.Rent())
	require.Equal(t, 1, calls)
}
