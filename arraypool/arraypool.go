// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arraypool implements a length-keyed adapter over objpool,
// mapping a requested slice length to a lazily constructed
// InstancePool[[]T] of that length.
package arraypool

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gopool-dev/objpool"
)

// lengthPools is the backing storage shared by an ArrayPool and its
// Peer: one InstancePool[[]T] per distinct length, built lazily. Both
// peers hold the same *lengthPools, so capacity built up under one
// clearOnReturn policy is visible under the other.
type lengthPools[T any] struct {
	reserve int

	mu    sync.Mutex
	pools map[int]*objpool.InstancePool[[]T]
	peers [2]*ArrayPool[T] // indexed by clearOnReturn
	group singleflight.Group
}

func peerIndex(clearOnReturn bool) int {
	if clearOnReturn {
		return 1
	}
	return 0
}

// ArrayPool rents and returns fixed-length slices of T, backed by one
// objpool.InstancePool[[]T] per distinct length.
type ArrayPool[T any] struct {
	clearOnReturn bool
	backing       *lengthPools[T]
}

// New constructs an ArrayPool. clearOnReturn controls whether returned
// slice contents are zeroed before storage, which matters when T may
// itself hold references that would otherwise leak through the pool.
func New[T any](clearOnReturn bool, reserve int) *ArrayPool[T] {
	a := &ArrayPool[T]{
		clearOnReturn: clearOnReturn,
		backing: &lengthPools[T]{
			reserve: reserve,
			pools:   make(map[int]*objpool.InstancePool[[]T]),
		},
	}
	a.backing.peers[peerIndex(clearOnReturn)] = a
	return a
}

// Peer returns the sibling adapter sharing this ArrayPool's backing
// storage but configured with the opposite clearOnReturn. Per the
// adapter contract, the two peers share the underlying per-length
// pools so capacity built up under one policy is not lost under the
// other; only the clearOnReturn bit differs between them.
func (a *ArrayPool[T]) Peer() *ArrayPool[T] {
	b := a.backing
	idx := peerIndex(!a.clearOnReturn)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.peers[idx] == nil {
		b.peers[idx] = &ArrayPool[T]{clearOnReturn: !a.clearOnReturn, backing: b}
	}
	return b.peers[idx]
}

// OfLength returns (creating if necessary) the backing
// objpool.InstancePool[[]T] for the given length, coalescing concurrent
// first-use construction through golang.org/x/sync/singleflight so a
// burst of first callers for a brand-new length only builds one pool.
//
// The returned pool is the raw backing store: renting and returning
// through it directly bypasses the adapter's wrong-length rejection and
// its clearOnReturn zeroing. Callers that need either should go through
// Rent/Return on the adapter itself.
func (a *ArrayPool[T]) OfLength(length int) (*objpool.InstancePool[[]T], error) {
	b := a.backing
	b.mu.Lock()
	if p, ok := b.pools[length]; ok {
		b.mu.Unlock()
		return p, nil
	}
	b.mu.Unlock()

	v, err, _ := b.group.Do(strconv.Itoa(length), func() (interface{}, error) {
		b.mu.Lock()
		if p, ok := b.pools[length]; ok {
			b.mu.Unlock()
			return p, nil
		}
		b.mu.Unlock()

		p, err := objpool.New[[]T](
			objpool.WithCapacity[[]T](1),
			objpool.WithReserve[[]T](b.reserve),
			objpool.WithFactory[[]T](func() []T { return make([]T, length) }),
		)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.pools[length] = p
		b.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*objpool.InstancePool[[]T]), nil
}

// Rent returns a slice of exactly length, constructing it via the
// backing pool's factory if none is cached. Length 0 returns a shared
// empty sentinel and never touches storage.
func (a *ArrayPool[T]) Rent(length int) ([]T, error) {
	if length == 0 {
		return emptySentinel[T](), nil
	}
	p, err := a.OfLength(length)
	if err != nil {
		return nil, err
	}
	return p.Rent(), nil
}

// Return hands arr back to the adapter for its length. It fails with
// objpool.ErrWrongLength if arr's length doesn't match length — callers
// that don't already know the expected length should use ReturnAuto.
func (a *ArrayPool[T]) Return(length int, arr []T) error {
	if length == 0 {
		if len(arr) != 0 {
			return objpool.ErrWrongLength
		}
		return nil
	}
	if len(arr) != length {
		return objpool.ErrWrongLength
	}
	if a.clearOnReturn {
		clear(arr)
	}
	p, err := a.OfLength(length)
	if err != nil {
		return err
	}
	return p.Return(arr)
}

// ReturnAuto hands arr back to the adapter backing its own length,
// inferred from len(arr). It never fails with ErrWrongLength, since the
// length is derived from arr itself rather than asserted against it.
func (a *ArrayPool[T]) ReturnAuto(arr []T) error {
	return a.Return(len(arr), arr)
}

// snapshotPools copies the current sub-pool set out from under the
// backing mutex so ApproxCount and Trim can walk the sub-pools without
// holding the map lock across their per-pool work.
func (a *ArrayPool[T]) snapshotPools() []*objpool.InstancePool[[]T] {
	b := a.backing
	b.mu.Lock()
	defer b.mu.Unlock()
	pools := make([]*objpool.InstancePool[[]T], 0, len(b.pools))
	for _, p := range b.pools {
		pools = append(pools, p)
	}
	return pools
}

// ApproxCount reports the approximate number of slices retained across
// every per-length sub-pool. Like the sub-pools' own counts, it is
// inherently racy against concurrent Rent/Return.
func (a *ArrayPool[T]) ApproxCount() int {
	n := 0
	for _, p := range a.snapshotPools() {
		n += p.ApproxCount()
	}
	return n
}

// Trim prunes every per-length sub-pool. A forced trim drains them all.
func (a *ArrayPool[T]) Trim(force bool) {
	for _, p := range a.snapshotPools() {
		p.Trim(force)
	}
}

// emptySentinel returns the zero-length slice shared for every length-0
// rent: a nil []T allocates nothing and is indistinguishable in use
// from make([]T, 0), so there is no separate storage to draw from.
func emptySentinel[T any]() []T {
	return nil
}
