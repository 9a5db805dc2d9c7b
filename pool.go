// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

// Pool is the public surface shared by SharedPool and InstancePool.
type Pool[T any] interface {
	// Rent returns a cached element, constructing a new one via the
	// configured factory only if none is available.
	Rent() T
	// Return hands v back to the pool. It may be stored or, under
	// contention or trim, discarded per the configured FreePolicy.
	// Returns ErrNilElement if T is a nilable kind and v is nil.
	Return(v T) error
	// ApproxCount reports an approximate number of retained elements.
	// The count is inherently racy against concurrent Rent/Return.
	ApproxCount() int
	// Trim prunes retained elements. A forced trim guarantees
	// ApproxCount() == 0 immediately afterward; an unforced trim applies
	// the layered, pressure-scaled age heuristics (see trim.go).
	Trim(force bool)
}

var (
	_ Pool[int] = (*InstancePool[int])(nil)
	_ Pool[int] = (*SharedPool[int])(nil)
)
