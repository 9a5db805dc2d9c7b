// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/gopool-dev/objpool/pressure"
)

// InstancePool is a user-constructed pool trading per-core sharding
// for a single optimistic first slot plus a linearly scanned array, on
// the theory that one pool instance is rarely contended by every core
// the way the process-wide Shared pool is.
type InstancePool[T any] struct {
	firstSlot  slot[T]
	scanArray  []slot[T]
	arrayTouch atomic.Int64
	reserve    *globalReserve[T]

	factory  func() T
	nilCheck func(T) bool
	freeKind FreePolicy[T]
	logger   zerolog.Logger
	probe    *pressure.Probe
}

// New constructs an independent Pool[T]. It returns ErrInvalidCapacity
// if capacity < 1 or reserve < 0.
func New[T any](opts ...Option[T]) (*InstancePool[T], error) {
	cfg := defaultConfig[T]()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity < 1 || cfg.reserve < 0 {
		return nil, ErrInvalidCapacity
	}
	p := &InstancePool[T]{
		firstSlot: newSlot[T](),
		scanArray: make([]slot[T], cfg.capacity-1),
		reserve:   newGlobalReserve[T](cfg.reserve, cfg.isReserveDynamic, shardCapacity),
		factory:   cfg.factory,
		nilCheck:  nilCheckFor[T](),
		freeKind:  cfg.freePolicy,
		logger:    cfg.logger,
		probe:     pressure.NewProbe(cfg.pressureSource),
	}
	for i := range p.scanArray {
		p.scanArray[i] = newSlot[T]()
	}
	return p, nil
}

// Rent tries firstSlot, then a linear scan of the array, then the
// reserve, then the factory. When neither a cached element nor a
// factory is available, Rent returns T's zero value rather than
// failing; it never blocks.
func (p *InstancePool[T]) Rent() T {
	if v, ok := p.firstSlot.tryClaim(); ok {
		return v
	}
	for _, s := range p.scanArray {
		if v, ok := s.tryClaim(); ok {
			return v
		}
	}
	if v, ok := p.reserve.popOne(); ok {
		return v
	}
	if p.factory != nil {
		return p.factory()
	}
	var zero T
	return zero
}

// Return hands v back. firstSlot is the same kind of optimistic
// fast-path the thread-local cell is for SharedPool: it always takes
// the newly returned value via exchange, and whatever it displaces
// walks the rest of the chain (a linear scan for an empty array slot,
// then the reserve, freeing the element immediately if the reserve is
// fixed-size and full). firstSlot therefore always holds the most
// recently returned element, so the very next Rent produces it.
func (p *InstancePool[T]) Return(v T) error {
	if p.nilCheck(v) {
		return ErrNilElement
	}
	displaced, hadPrior := p.firstSlot.exchange(v)
	if !hadPrior {
		return nil
	}
	for _, s := range p.scanArray {
		if s.tryPlace(displaced) {
			return nil
		}
	}
	if !p.reserve.push(displaced) {
		p.freeKind.apply(displaced, &p.logger)
	}
	return nil
}

func (p *InstancePool[T]) ApproxCount() int {
	n := 0
	if p.firstSlot.hasValueUnsynchronized() {
		n++
	}
	for _, s := range p.scanArray {
		if s.hasValueUnsynchronized() {
			n++
		}
	}
	return n + p.reserve.approxCount()
}

// Trim applies the trim controller's current parameter row to this
// pool's array and reserve. See trim.go for the parameter table and
// pressure classification.
func (p *InstancePool[T]) Trim(force bool) {
	level := p.probe.Level()
	params := trimParamsFor(level, force)
	now := nowMillis()
	p.trimArray(now, params, force)
	p.reserve.trim(now, params.reserveAgeMs, params.reserveDropFraction, force, p.freeKind, &p.logger)
}

func (p *InstancePool[T]) trimArray(now int64, params layerParams, force bool) {
	if force {
		if v, ok := p.firstSlot.clear(); ok {
			p.freeKind.apply(v, &p.logger)
		}
		for _, s := range p.scanArray {
			if v, ok := s.clear(); ok {
				p.freeKind.apply(v, &p.logger)
			}
		}
		p.arrayTouch.Store(0)
		return
	}
	if !p.firstSlot.hasValueUnsynchronized() && !anyHasValue(p.scanArray) {
		return
	}
	touched := p.arrayTouch.Load()
	if touched == 0 {
		p.arrayTouch.Store(now)
		return
	}
	if now-touched < params.perCoreAgeMs {
		return
	}
	dropped := 0
	if v, ok := p.firstSlot.clear(); ok {
		p.freeKind.apply(v, &p.logger)
		dropped++
	}
	for _, s := range p.scanArray {
		if dropped >= params.perCoreDrop {
			break
		}
		if v, ok := s.clear(); ok {
			p.freeKind.apply(v, &p.logger)
			dropped++
		}
	}
	p.arrayTouch.Store(touched + params.perCoreAgeMs/4)
	if dropped > 0 && p.logger.GetLevel() <= zerolog.DebugLevel {
		p.logger.Debug().Int("dropped", dropped).Msg("objpool: instance pool trimmed")
	}
}

func anyHasValue[T any](slots []slot[T]) bool {
	for _, s := range slots {
		if s.hasValueUnsynchronized() {
			return true
		}
	}
	return false
}
