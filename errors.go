// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import "errors"

// Sentinel errors returned by Pool and ArrayPool operations. Callers
// should compare with errors.Is, since these may be wrapped with
// additional context.
var (
	// ErrNilElement is returned by Return on a reference-typed pool
	// when the caller hands back a nil value. Returning nil silently
	// would leave the pool believing it holds a usable element.
	ErrNilElement = errors.New("objpool: return of nil element")

	// ErrWrongLength is returned by the array-length adapter when the
	// slice handed to Return does not match the adapter's configured
	// length.
	ErrWrongLength = errors.New("objpool: returned slice has wrong length")

	// ErrNoConstructor names the case of a pool with no factory for a
	// T whose zero value cannot stand in for a freshly made value. No
	// function in this package returns it: Rent has no error result and
	// returns T's zero value when nothing is cached and no WithFactory
	// option was supplied.
	ErrNoConstructor = errors.New("objpool: no factory and no default constructor for T")

	// ErrInvalidCapacity is returned by New when constructed with
	// capacity < 1 or reserve < 0.
	ErrInvalidCapacity = errors.New("objpool: invalid capacity or reserve")
)
