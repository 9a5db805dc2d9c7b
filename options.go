// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"github.com/rs/zerolog"

	"github.com/gopool-dev/objpool/pressure"
)

// freeKind discriminates the free policy variants.
type freeKind int

const (
	freeNone freeKind = iota
	freeDisposeAlways
	freeDisposeIfCapable
	freeCustom
)

// disposer is probed for by the dispose-always and dispose-if-capable
// free policies.
type disposer interface{ Dispose() }

// FreePolicy configures how a discarded element of type T is
// relinquished: dropped, disposed, or handed to a custom function. The
// pool invokes the configured policy exactly once per element accepted
// into pooled custody and later evicted.
type FreePolicy[T any] struct {
	kind freeKind
	fn   func(T)
}

// FreeDrop drops the element on the floor with no disposal action.
// This is the default.
func FreeDrop[T any]() FreePolicy[T] { return FreePolicy[T]{kind: freeNone} }

// FreeDisposeAlways assumes every element implements Dispose() and
// calls it. If an element unexpectedly doesn't implement it, the
// discard is logged (if a logger is configured) and otherwise ignored
// — a free policy must never panic the caller's goroutine.
func FreeDisposeAlways[T any]() FreePolicy[T] { return FreePolicy[T]{kind: freeDisposeAlways} }

// FreeDisposeIfCapable calls Dispose() on elements that implement it
// and silently drops the rest.
func FreeDisposeIfCapable[T any]() FreePolicy[T] { return FreePolicy[T]{kind: freeDisposeIfCapable} }

// FreeCustom calls fn on every discarded element.
func FreeCustom[T any](fn func(T)) FreePolicy[T] {
	return FreePolicy[T]{kind: freeCustom, fn: fn}
}

// apply runs the configured policy on v, logging a disposal shortfall
// through log if non-zero.
func (fp FreePolicy[T]) apply(v T, log *zerolog.Logger) {
	switch fp.kind {
	case freeNone:
	case freeDisposeAlways:
		if d, ok := any(v).(disposer); ok {
			d.Dispose()
		} else if log != nil {
			log.Warn().Msg("objpool: dispose-always element does not implement Dispose()")
		}
	case freeDisposeIfCapable:
		if d, ok := any(v).(disposer); ok {
			d.Dispose()
		}
	case freeCustom:
		if fp.fn != nil {
			fp.fn(v)
		}
	}
}

// config holds every construction parameter recognized by New and
// Shared.
type config[T any] struct {
	capacity           int
	reserve            int
	isReserveDynamic   bool
	factory            func() T
	freePolicy         FreePolicy[T]
	logger             zerolog.Logger
	pressureSource     pressure.Source
	shardCountOverride int
}

func defaultConfig[T any]() config[T] {
	return config[T]{
		capacity:         1,
		reserve:          0,
		isReserveDynamic: true,
		freePolicy:       FreeDrop[T](),
		logger:           zerolog.Nop(),
	}
}

// Option configures a Pool at construction time.
type Option[T any] func(*config[T])

// WithCapacity sets an InstancePool's total capacity: one first slot
// plus a scan array of capacity-1 slots. Must be >= 1.
func WithCapacity[T any](capacity int) Option[T] {
	return func(c *config[T]) { c.capacity = capacity }
}

// WithReserve sets the initial capacity of the overflow reserve.
func WithReserve[T any](reserve int) Option[T] {
	return func(c *config[T]) { c.reserve = reserve }
}

// WithFixedReserve disables reserve growth/shrink: once the configured
// reserve capacity is full, surplus returns are freed immediately
// instead of being stored. A SharedPool takes the capacity but always
// keeps its reserve dynamic.
func WithFixedReserve[T any](reserve int) Option[T] {
	return func(c *config[T]) {
		c.reserve = reserve
		c.isReserveDynamic = false
	}
}

// WithFactory supplies the constructor Rent calls when no cached
// element is available.
func WithFactory[T any](factory func() T) Option[T] {
	return func(c *config[T]) { c.factory = factory }
}

// WithFreePolicy configures how discarded elements are relinquished.
func WithFreePolicy[T any](fp FreePolicy[T]) Option[T] {
	return func(c *config[T]) { c.freePolicy = fp }
}

// WithLogger attaches a zerolog.Logger for trim and free-policy
// diagnostics. Rent never touches it; Return uses it only when the free
// policy runs on an element it discards.
func WithLogger[T any](logger zerolog.Logger) Option[T] {
	return func(c *config[T]) { c.logger = logger }
}

// WithPressureSource overrides the default memory-pressure source used
// by the trim controller.
func WithPressureSource[T any](src pressure.Source) Option[T] {
	return func(c *config[T]) { c.pressureSource = src }
}

// WithShardCount overrides the automatic min(GOMAXPROCS, 64) per-core
// shard count used by a shared pool. Ignored by InstancePool, which
// has no sharding tier.
func WithShardCount[T any](n int) Option[T] {
	return func(c *config[T]) { c.shardCountOverride = n }
}
