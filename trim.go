// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"time"

	"github.com/gopool-dev/objpool/pressure"
)

// layerParams is one column of the per-layer trim parameter table:
// how old each tier must be before it is eligible, and how much of it
// goes per pass.
type layerParams struct {
	perCoreAgeMs        int64
	perCoreDrop         int
	localAgeMs          int64
	reserveAgeMs        int64
	reserveDropFraction float64
}

// trimParamsFor selects the parameter column for level, or the forced
// column when forced is true regardless of level.
func trimParamsFor(level pressure.Level, forced bool) layerParams {
	if forced {
		return layerParams{
			perCoreAgeMs:        0,
			perCoreDrop:         shardCapacity,
			localAgeMs:          0,
			reserveAgeMs:        0,
			reserveDropFraction: 1.0,
		}
	}
	switch level {
	case pressure.High:
		return layerParams{
			perCoreAgeMs:        10_000,
			perCoreDrop:         shardCapacity,
			localAgeMs:          0,
			reserveAgeMs:        0,
			reserveDropFraction: 1.0,
		}
	case pressure.Medium:
		return layerParams{
			perCoreAgeMs:        60_000,
			perCoreDrop:         2,
			localAgeMs:          15_000,
			reserveAgeMs:        45_000,
			reserveDropFraction: 0.3,
		}
	default: // pressure.Low
		return layerParams{
			perCoreAgeMs:        60_000,
			perCoreDrop:         1,
			localAgeMs:          30_000,
			reserveAgeMs:        90_000,
			reserveDropFraction: 0.1,
		}
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// TrimController is the pressure-aware driver that turns a bare
// Trim(force bool) call into the layered sweep across a SharedPool's
// local tier, shard array, and reserve. InstancePool, having no shard
// tier, applies trimParamsFor directly (instance.go) rather than going
// through a controller; TrimController exists for the composition that
// actually has multiple independently-locked layers to walk in one
// pass.
type TrimController[T any] struct {
	probe *pressure.Probe
}

func newTrimController[T any](src pressure.Source) *TrimController[T] {
	return &TrimController[T]{probe: pressure.NewProbe(src)}
}

// run sweeps the local tier, every shard, and the reserve once. It is
// safe to call concurrently with Rent/Return: each layer takes only
// its own lock.
func (tc *TrimController[T]) run(sp *SharedPool[T], force bool) {
	level := tc.probe.Level()
	params := trimParamsFor(level, force)
	now := nowMillis()

	for i := range sp.local.cells {
		if v, ok := sp.local.cells[i].trim(now, params.localAgeMs, force); ok {
			sp.freePolicy.apply(v, &sp.logger)
		}
	}
	for _, shard := range sp.shards {
		shard.trim(now, params.perCoreAgeMs, params.perCoreDrop, force, sp.freePolicy, &sp.logger)
	}
	sp.reserve.trim(now, params.reserveAgeMs, params.reserveDropFraction, force, sp.freePolicy, &sp.logger)
}
