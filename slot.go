// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import "sync/atomic"

// slot is the common capability contract for the three layout
// classes: handleSlot, packedSlot, and mutexSlot. All three present the
// same observable fast path (lock-free or bounded-spin when
// uncontended) and never leak a partially published value.
type slot[T any] interface {
	// tryClaim removes and returns the held value, if any.
	tryClaim() (T, bool)
	// tryPlace stores v if the slot is empty. It returns false (and
	// leaves v unstored) if the slot was already full.
	tryPlace(v T) bool
	// hasValueUnsynchronized is a racy peek used only by approximate
	// counting and trim eligibility checks; it never blocks and never
	// claims ownership.
	hasValueUnsynchronized() bool
	// clear empties the slot, returning whatever it held (for free
	// policy application) and whether it held anything.
	clear() (T, bool)
	// exchange unconditionally stores v, returning whatever occupant
	// it displaced. Used by the thread-local tier (local.go), which
	// always wants to install its new value and hand the displaced
	// one down the chain, unlike tryPlace, which refuses to overwrite
	// an occupant.
	exchange(v T) (T, bool)
}

// mutexSlot is the large-value layout: a 3-state lock word
// {EMPTY, LOCKED, FULL} guarding an inline T, acquired via a bounded
// spin in the style of sync.Mutex's optimistic-CAS fast path. Used for
// any T that doesn't qualify for the zero-allocation handleSlot or
// packedSlot fast paths; correct for both reference and value T.
type mutexSlot[T any] struct {
	state atomic.Int32 // slotEmpty, slotLocked, or slotFull
	value T
}

const (
	slotEmpty  int32 = 0
	slotLocked int32 = -1
	slotFull   int32 = 2
)

// acquire spins until it transitions state out of {EMPTY, FULL} into
// LOCKED, returning the pre-acquisition state so the caller knows
// whether a value was present. It never parks: a contended path yields
// to the scheduler after a handful of iterations, same as a mutex's
// own spin phase, but always makes progress since the critical section
// guarded here is O(1).
func (s *mutexSlot[T]) acquire() int32 {
	for i := 0; ; i++ {
		if old := s.state.Load(); old != slotLocked {
			if s.state.CompareAndSwap(old, slotLocked) {
				return old
			}
		}
		spinWait(i)
	}
}

func (s *mutexSlot[T]) tryClaim() (T, bool) {
	prev := s.acquire()
	if prev == slotEmpty {
		s.state.Store(slotEmpty)
		var zero T
		return zero, false
	}
	v := s.value
	var zero T
	s.value = zero
	s.state.Store(slotEmpty)
	return v, true
}

func (s *mutexSlot[T]) tryPlace(v T) bool {
	prev := s.acquire()
	if prev == slotFull {
		s.state.Store(slotFull)
		return false
	}
	s.value = v
	s.state.Store(slotFull)
	return true
}

func (s *mutexSlot[T]) hasValueUnsynchronized() bool {
	return s.state.Load() == slotFull
}

func (s *mutexSlot[T]) clear() (T, bool) {
	return s.tryClaim()
}

func (s *mutexSlot[T]) exchange(v T) (T, bool) {
	prev := s.acquire()
	old := s.value
	s.value = v
	s.state.Store(slotFull)
	if prev == slotEmpty {
		var zero T
		return zero, false
	}
	return old, true
}

// spinWait yields to the OS scheduler after a small bounded number of
// busy iterations, the same escalation sync.Mutex's own spin phase
// uses before it resorts to a semaphore — except our critical sections
// are always O(1), so we never need the semaphore fallback.
func spinWait(iteration int) {
	if iteration < 4 {
		return
	}
	procYield()
}
