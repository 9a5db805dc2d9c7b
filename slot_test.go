// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSlotSelectsHandleForPointerTypes(t *testing.T) {
	s := newSlot[*int]()
	_, ok := s.(*handleSlot[*int])
	require.True(t, ok, "expected handleSlot for *int")
}

func TestNewSlotSelectsPackedForSmallValues(t *testing.T) {
	s := newSlot[int32]()
	_, ok := s.(*packedSlot[int32])
	require.True(t, ok, "expected packedSlot for int32")
}

func TestNewSlotSelectsMutexForLargeValues(t *testing.T) {
	type big struct{ a, b, c, d int64 }
	s := newSlot[big]()
	_, ok := s.(*mutexSlot[big])
	require.True(t, ok, "expected mutexSlot for a 32-byte struct")
}

func TestHandleSlotClaimPlace(t *testing.T) {
	s := &handleSlot[*int]{}
	require.False(t, s.hasValueUnsynchronized())
	v := 42
	require.True(t, s.tryPlace(&v))
	require.False(t, s.tryPlace(&v), "placing into a full slot must fail")
	require.True(t, s.hasValueUnsynchronized())

	got, ok := s.tryClaim()
	require.True(t, ok)
	require.Equal(t, &v, got)
	_, ok = s.tryClaim()
	require.False(t, ok, "claiming an empty slot must fail")
}

func TestHandleSlotNilNeverPlaces(t *testing.T) {
	s := &handleSlot[*int]{}
	require.False(t, s.tryPlace(nil))
	require.False(t, s.hasValueUnsynchronized())
}

func TestHandleSlotExchange(t *testing.T) {
	s := &handleSlot[*int]{}
	a, b := 1, 2
	old, hadOld := s.exchange(&a)
	require.False(t, hadOld)
	require.Nil(t, old)

	old, hadOld = s.exchange(&b)
	require.True(t, hadOld)
	require.Equal(t, &a, old)

	cur, ok := s.clear()
	require.True(t, ok)
	require.Equal(t, &b, cur)
}

func TestPackedSlotRoundTripsZeroValue(t *testing.T) {
	s := &packedSlot[int32]{}
	require.True(t, s.tryPlace(0))
	require.True(t, s.hasValueUnsynchronized(), "a tag-bit layout must distinguish zero-value-present from empty")
	v, ok := s.tryClaim()
	require.True(t, ok)
	require.Equal(t, int32(0), v)
}

func TestPackedSlotRoundTripsNegativeValue(t *testing.T) {
	s := &packedSlot[int32]{}
	require.True(t, s.tryPlace(-7))
	v, ok := s.clear()
	require.True(t, ok)
	require.Equal(t, int32(-7), v)
}

func TestMutexSlotNeverLeaksPartialValue(t *testing.T) {
	type payload struct{ a, b, c, d, e int64 }
	s := &mutexSlot[payload]{}
	want := payload{1, 2, 3, 4, 5}
	require.True(t, s.tryPlace(want))
	got, ok := s.tryClaim()
	require.True(t, ok)
	require.Equal(t, want, got)
	_, ok = s.tryClaim()
	require.False(t, ok)
}

func TestNilCheckForDetectsNilKinds(t *testing.T) {
	check := nilCheckFor[*int]()
	require.True(t, check(nil))
	v := 1
	require.False(t, check(&v))

	checkVal := nilCheckFor[int]()
	require.False(t, checkVal(0), "value types never count as nil")
}
