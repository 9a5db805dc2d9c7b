// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// maxLocalCells bounds the local tier. Go gives ordinary packages no
// goroutine-exit hook and no stable per-goroutine identity, so instead
// of one cell per live thread with a weak registry, the tier is a
// small fixed array of cells indexed by the same affinity number used
// for shard selection. A cell is never owned by a particular goroutine
// — only by an index — so there is no dead-thread reclamation and no
// registry to sweep; the array itself is the registry.
const maxLocalCells = 64

type localCell[T any] struct {
	_               cpu.CacheLinePad
	s               slot[T]
	lastTouchMillis atomic.Int64
	_               cpu.CacheLinePad
}

// localTier is the cheapest tier, in front of the per-core shards.
type localTier[T any] struct {
	cells []localCell[T]
}

func newLocalTier[T any](n int) *localTier[T] {
	if n < 1 {
		n = 1
	}
	if n > maxLocalCells {
		n = maxLocalCells
	}
	cells := make([]localCell[T], n)
	for i := range cells {
		cells[i].s = newSlot[T]()
	}
	return &localTier[T]{cells: cells}
}

func (t *localTier[T]) cellFor(a uint32) *localCell[T] {
	return &t.cells[shardIndex(a, len(t.cells))]
}

func (t *localTier[T]) approxCount() int {
	n := 0
	for i := range t.cells {
		if t.cells[i].s.hasValueUnsynchronized() {
			n++
		}
	}
	return n
}

// exchange installs v, returning whatever value it displaced.
func (c *localCell[T]) exchange(v T) (T, bool) {
	return c.s.exchange(v)
}

// take removes and returns the current value.
func (c *localCell[T]) take() (T, bool) {
	return c.s.clear()
}

// trim applies a two-pass age rule: the first trim pass that observes
// a non-empty cell stamps lastTouchMillis; a later pass that finds the
// age past thresholdMs clears it. The stamping pass applies even when
// thresholdMs is 0, so an unforced trim of a freshly-filled cell
// no-ops once before the next one clears. A forced pass (an explicit
// Trim(true)) clears unconditionally in one pass.
func (c *localCell[T]) trim(now int64, thresholdMs int64, forced bool) (T, bool) {
	if forced {
		return c.s.clear()
	}
	if !c.s.hasValueUnsynchronized() {
		var zero T
		return zero, false
	}
	last := c.lastTouchMillis.Load()
	if last == 0 {
		c.lastTouchMillis.Store(now)
		var zero T
		return zero, false
	}
	if now-last < thresholdMs {
		var zero T
		return zero, false
	}
	v, ok := c.s.clear()
	if ok {
		c.lastTouchMillis.Store(0)
	}
	return v, ok
}
