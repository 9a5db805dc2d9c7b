// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sys/cpu"
)

// shardCapacity is the fixed capacity of each per-core stack.
const shardCapacity = 128

// perCoreStack is one shard of the shared pool's middle tier. count
// doubles as a single-writer spin lock: -1 means "locked," any other
// value in [0, shardCapacity] is both the live element count and
// "unlocked." The acquire loop follows runtime.lfstack's
// CAS-retry-loop style. Cache-line padding keeps two shards from
// sharing a line under cross-core push/pop traffic.
type perCoreStack[T any] struct {
	_              cpu.CacheLinePad
	count          atomic.Int32 // [0, shardCapacity], or -1 while locked
	lastTouchTicks atomic.Int64
	items          [shardCapacity]T
	_              cpu.CacheLinePad
}

func (s *perCoreStack[T]) lock() int32 {
	for i := 0; ; i++ {
		if old := s.count.Load(); old != slotLocked32 {
			if s.count.CompareAndSwap(old, slotLocked32) {
				return old
			}
		}
		spinWait(i)
	}
}

const slotLocked32 int32 = -1

func (s *perCoreStack[T]) unlock(newCount int32) {
	s.count.Store(newCount)
}

// push stores v at the top of this shard's stack. Returns false if the
// shard is full.
func (s *perCoreStack[T]) push(v T) bool {
	count := s.lock()
	if count >= shardCapacity {
		s.unlock(count)
		return false
	}
	s.items[count] = v
	count++
	if count == 1 {
		s.lastTouchTicks.Store(0)
	}
	s.unlock(count)
	return true
}

// pop removes and returns the top of this shard's stack. Strict LIFO
// within a shard, for cache locality.
func (s *perCoreStack[T]) pop() (T, bool) {
	count := s.lock()
	if count == 0 {
		s.unlock(count)
		var zero T
		return zero, false
	}
	count--
	v := s.items[count]
	var zero T
	s.items[count] = zero
	if count == 0 {
		s.lastTouchTicks.Store(0)
	}
	s.unlock(count)
	return v, true
}

func (s *perCoreStack[T]) approxCount() int {
	count := s.count.Load()
	if count == slotLocked32 {
		return shardCapacity // conservative: can't observe mid-lock
	}
	return int(count)
}

// drainTo spills this shard to the reserve: when a push would
// overflow, the entire shard contents plus the surplus value move to
// the reserve and the shard empties. The per-core lock is held for the
// whole operation, with the reserve's own lock acquired underneath it;
// the fixed order (shard, then reserve) keeps the two-lock section
// deadlock-free. Whatever the reserve can't absorb (only possible for
// a fixed-size reserve) is returned for the caller to free.
func (s *perCoreStack[T]) drainTo(v T, reserve *globalReserve[T]) (overflow []T) {
	count := s.lock()
	batch := make([]T, 0, count+1)
	var zero T
	for i := int32(0); i < count; i++ {
		batch = append(batch, s.items[i])
		s.items[i] = zero
	}
	batch = append(batch, v)
	overflow = reserve.pushAll(batch)
	s.lastTouchTicks.Store(0)
	s.unlock(0)
	return overflow
}

// fillFrom refills this shard from the reserve: pop one element for
// the caller, and opportunistically pull up to the shard's remaining
// headroom into the shard itself, all while holding this shard's lock
// (same shard-then-reserve order as drainTo).
func (s *perCoreStack[T]) fillFrom(reserve *globalReserve[T]) (T, bool) {
	count := s.lock()
	headroom := int(shardCapacity - count)
	first, ok, rest := reserve.drainForShard(headroom)
	n := int32(len(rest))
	if n > shardCapacity-count {
		n = shardCapacity - count
	}
	for i := int32(0); i < n; i++ {
		s.items[count+i] = rest[i]
	}
	count += n
	s.unlock(count)
	return first, ok
}

// trim leaves the shard alone if empty or still within maxAgeMs of
// first observation, otherwise drops up to maxDrop elements and
// advances the age stamp by maxAgeMs/4. A forced trim bypasses both
// the first-observation stamp and the age gate, guaranteeing the drop
// this pass so a forced Trim leaves the pool fully drained.
func (s *perCoreStack[T]) trim(now int64, maxAgeMs int64, maxDrop int, forced bool, fp FreePolicy[T], log *zerolog.Logger) int {
	count := s.lock()
	if count == 0 {
		s.unlock(count)
		return 0
	}
	touched := s.lastTouchTicks.Load()
	if !forced {
		if touched == 0 {
			s.lastTouchTicks.Store(now)
			s.unlock(count)
			return 0
		}
		if now-touched < maxAgeMs {
			s.unlock(count)
			return 0
		}
	}
	drop := maxDrop
	if drop < 0 {
		drop = 0
	}
	if drop > int(count) {
		drop = int(count)
	}
	newCount := int(count) - drop
	dropped := make([]T, drop)
	var zero T
	for i := newCount; i < int(count); i++ {
		dropped[i-newCount] = s.items[i]
		s.items[i] = zero
	}
	if touched == 0 {
		touched = now
	}
	s.lastTouchTicks.Store(touched + maxAgeMs/4)
	s.unlock(int32(newCount))

	if log != nil && drop > 0 {
		log.Debug().Int("dropped", drop).Msg("objpool: shard trimmed")
	}
	for _, v := range dropped {
		fp.apply(v, log)
	}
	return drop
}
