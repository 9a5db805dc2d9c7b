// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"reflect"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
)

// SharedPool is the process-wide default composition: a
// thread-local-ish tier (local.go), a fixed array of per-core stacks
// (shard.go), and one global reserve (reserve.go) — the same shape as
// sync.Pool's poolLocal-per-P plus victim cache, with the local tier
// indexed by affinity instead of a pinned P.
type SharedPool[T any] struct {
	local   *localTier[T]
	shards  []*perCoreStack[T]
	reserve *globalReserve[T]

	factory    func() T
	nilCheck   func(T) bool
	freePolicy FreePolicy[T]
	logger     zerolog.Logger
	trimCtl    *TrimController[T]
}

// maxShards bounds the per-core stack array at 64.
const maxShards = 64

// applyMaxProcsOnce lets automaxprocs adjust GOMAXPROCS to the
// container's cgroup CPU quota, once per process, the first time a
// SharedPool is built. Without this, runtime.GOMAXPROCS(0) on a
// throttled container reports the host's full core count and
// over-shards.
var applyMaxProcsOnce sync.Once

// shardCount resolves the min(logical_cores, 64) sizing off a
// cgroup-aware GOMAXPROCS rather than the host's raw runtime.NumCPU().
func shardCount(override int) int {
	if override > 0 {
		if override > maxShards {
			return maxShards
		}
		return override
	}
	applyMaxProcsOnce.Do(func() {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	})
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	if n > maxShards {
		n = maxShards
	}
	return n
}

// NewShared constructs an independent process-wide-style pool for T.
// Most callers should use the package-level Shared[T] instead, which
// lazily constructs and caches exactly one SharedPool per element type.
func NewShared[T any](opts ...Option[T]) (*SharedPool[T], error) {
	cfg := defaultConfig[T]()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reserve < 0 {
		return nil, ErrInvalidCapacity
	}
	n := shardCount(cfg.shardCountOverride)
	sp := &SharedPool[T]{
		local:      newLocalTier[T](n),
		shards:     make([]*perCoreStack[T], n),
		reserve:    newGlobalReserve[T](cfg.reserve, true, shardCapacity),
		factory:    cfg.factory,
		nilCheck:   nilCheckFor[T](),
		freePolicy: cfg.freePolicy,
		logger:     cfg.logger,
		trimCtl:    newTrimController[T](cfg.pressureSource),
	}
	for i := range sp.shards {
		sp.shards[i] = &perCoreStack[T]{}
	}
	return sp, nil
}

// Rent tries the thread-local cell, then a round-robin shard scan
// starting at this call's shard, then a reserve-fill on that shard,
// then the factory.
func (sp *SharedPool[T]) Rent() T {
	a := affinity()
	if v, ok := sp.local.cellFor(a).take(); ok {
		return v
	}
	n := len(sp.shards)
	start := shardIndex(a, n)
	for i := 0; i < n; i++ {
		if v, ok := sp.shards[(start+i)%n].pop(); ok {
			return v
		}
	}
	if sp.reserve.approxCount() > 0 {
		if v, ok := sp.shards[start].fillFrom(sp.reserve); ok {
			return v
		}
	}
	if sp.factory != nil {
		return sp.factory()
	}
	var zero T
	return zero
}

// Return exchanges v into the thread-local cell; whatever it displaces
// walks the shard array, then spills to the reserve. An element is
// freed only if the reserve itself rejects it, which a dynamic reserve
// never does — SharedPool always uses a dynamic reserve, so a return
// is never rejected.
func (sp *SharedPool[T]) Return(v T) error {
	if sp.nilCheck(v) {
		return ErrNilElement
	}
	a := affinity()
	displaced, hadPrior := sp.local.cellFor(a).exchange(v)
	if !hadPrior {
		return nil
	}
	n := len(sp.shards)
	start := shardIndex(a, n)
	for i := 0; i < n; i++ {
		if sp.shards[(start+i)%n].push(displaced) {
			return nil
		}
	}
	overflow := sp.shards[start].drainTo(displaced, sp.reserve)
	for _, v := range overflow {
		sp.freePolicy.apply(v, &sp.logger)
	}
	return nil
}

func (sp *SharedPool[T]) ApproxCount() int {
	n := sp.local.approxCount()
	for _, shard := range sp.shards {
		n += shard.approxCount()
	}
	return n + sp.reserve.approxCount()
}

// Trim runs the layered trim parameter table across every tier via
// TrimController.
func (sp *SharedPool[T]) Trim(force bool) {
	sp.trimCtl.run(sp, force)
}

var sharedRegistry sync.Map // reflect.Type -> any (*SharedPool[T])

// Shared returns the process-wide pool for T, constructing it on first
// use. Concurrent first uses race to LoadOrStore on the registry keyed
// by T's reflect.Type — the unique identity for a Go type, unlike its
// String() form, which can collide across same-named packages — and
// losers discard their freshly built (empty, so cheap) pool. opts are
// only honored by the call whose pool wins the race; later calls with
// different opts are ignored, since the pool already exists.
func Shared[T any](opts ...Option[T]) *SharedPool[T] {
	var zero T
	key := reflect.TypeOf(&zero).Elem()
	if existing, ok := sharedRegistry.Load(key); ok {
		return existing.(*SharedPool[T])
	}
	sp, err := NewShared[T](opts...)
	if err != nil {
		// NewShared only fails on a caller-supplied negative
		// reserve; Shared's zero-value config never triggers this,
		// so a fresh empty pool is always constructible.
		sp, _ = NewShared[T]()
	}
	if existing, loaded := sharedRegistry.LoadOrStore(key, sp); loaded {
		return existing.(*SharedPool[T])
	}
	return sp
}
