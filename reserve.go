// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sys/cpu"
)

// globalReserve is the dynamically sized overflow buffer sitting
// behind the per-core stacks. An explicit mutex guards it; growth is
// by doubling, shrink by halving toward a fixed floor. Cache-line
// padding keeps the reserve's lock word off whatever line the
// enclosing pool's other hot fields land on.
type globalReserve[T any] struct {
	_               cpu.CacheLinePad
	mu              sync.Mutex
	items           []T
	lastTouchMillis int64
	dynamic         bool
	floor           int
	_               cpu.CacheLinePad
}

func newGlobalReserve[T any](initialCapacity int, dynamic bool, floor int) *globalReserve[T] {
	c := initialCapacity
	if dynamic && c < floor {
		c = floor
	}
	return &globalReserve[T]{
		items:   make([]T, 0, c),
		dynamic: dynamic,
		floor:   floor,
	}
}

func (r *globalReserve[T]) growLocked() {
	newCap := cap(r.items) * 2
	if newCap < r.floor {
		newCap = r.floor
	}
	if newCap == 0 {
		newCap = 1
	}
	grown := make([]T, len(r.items), newCap)
	copy(grown, r.items)
	r.items = grown
}

// push stores v, growing the backing array if dynamic. Returns false
// (v unstored) if the reserve is full and fixed-size.
func (r *globalReserve[T]) push(v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == cap(r.items) {
		if !r.dynamic {
			return false
		}
		r.growLocked()
	}
	r.items = append(r.items, v)
	if len(r.items) == 1 {
		r.lastTouchMillis = 0
	}
	return true
}

// pushAll stores as many of items as fit, growing if dynamic. Whatever
// doesn't fit (only possible for a fixed-size reserve) is returned to
// the caller, which applies the free policy to it: a fixed reserve
// that is full on return frees the surplus immediately rather than
// storing it.
func (r *globalReserve[T]) pushAll(items []T) (overflow []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wasEmpty := len(r.items) == 0
	for i, v := range items {
		if len(r.items) == cap(r.items) {
			if !r.dynamic {
				overflow = append(overflow, items[i:]...)
				break
			}
			r.growLocked()
		}
		r.items = append(r.items, v)
	}
	if wasEmpty && len(r.items) > 0 {
		r.lastTouchMillis = 0
	}
	return overflow
}

func (r *globalReserve[T]) popLocked() (T, bool) {
	n := len(r.items)
	if n == 0 {
		var zero T
		return zero, false
	}
	v := r.items[n-1]
	var zero T
	r.items[n-1] = zero
	r.items = r.items[:n-1]
	if len(r.items) == 0 {
		r.lastTouchMillis = 0
	}
	return v, true
}

func (r *globalReserve[T]) popOne() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.popLocked()
}

// drainForShard pops one item for the caller and up to max more to
// refill a shard.
func (r *globalReserve[T]) drainForShard(max int) (first T, firstOK bool, rest []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	first, firstOK = r.popLocked()
	if !firstOK {
		return
	}
	for i := 0; i < max; i++ {
		v, ok := r.popLocked()
		if !ok {
			break
		}
		rest = append(rest, v)
	}
	return
}

func (r *globalReserve[T]) approxCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *globalReserve[T]) shrinkLocked() {
	newCap := cap(r.items) / 2
	if newCap < r.floor {
		newCap = r.floor
	}
	shrunk := make([]T, len(r.items), newCap)
	copy(shrunk, r.items)
	r.items = shrunk
}

// trim is age-gated unless forced, dropping dropFraction of the
// retained items off the LIFO top (oldest-inserted survive), then
// shrinking the backing array toward floor when it has become mostly
// empty.
//
// The first-observation gate applies even when ageThresholdMs is 0
// (High pressure): the first unforced pass over a freshly-filled
// reserve stamps the timestamp and evicts nothing, and the next pass
// drains. Only a forced trim empties in a single pass.
func (r *globalReserve[T]) trim(now int64, ageThresholdMs int64, dropFraction float64, forced bool, fp FreePolicy[T], log *zerolog.Logger) int {
	r.mu.Lock()
	n := len(r.items)
	if n == 0 {
		r.mu.Unlock()
		return 0
	}
	if !forced {
		if r.lastTouchMillis == 0 {
			// First observation: stamp now and do nothing this pass.
			r.lastTouchMillis = now
			r.mu.Unlock()
			return 0
		}
		if now-r.lastTouchMillis < ageThresholdMs {
			r.mu.Unlock()
			return 0
		}
	}
	drop := n
	if !forced && dropFraction < 1 {
		drop = int(float64(n) * dropFraction)
	}
	if drop > n {
		drop = n
	}
	dropped := make([]T, drop)
	copy(dropped, r.items[n-drop:])
	var zero T
	for i := n - drop; i < n; i++ {
		r.items[i] = zero
	}
	r.items = r.items[:n-drop]
	if cap(r.items) > r.floor && len(r.items) > 0 && cap(r.items)/len(r.items) >= 4 {
		r.shrinkLocked()
	} else if len(r.items) == 0 && cap(r.items) > r.floor {
		r.items = make([]T, 0, r.floor)
	}
	if len(r.items) == 0 {
		r.lastTouchMillis = 0
	} else {
		r.lastTouchMillis += ageThresholdMs / 4
	}
	r.mu.Unlock()

	if log != nil && drop > 0 {
		log.Debug().Int("dropped", drop).Bool("forced", forced).Msg("objpool: reserve trimmed")
	}
	for _, v := range dropped {
		fp.apply(v, log)
	}
	return drop
}
