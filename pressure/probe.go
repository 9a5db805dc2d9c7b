// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pressure classifies host memory pressure into a coarse
// Low/Medium/High bucket that drives how aggressively the trim
// controller prunes a pool.
package pressure

import (
	"runtime"

	"github.com/pbnjay/memory"
)

// Level is a coarse classification of host memory usage.
type Level int

const (
	Low Level = iota
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Source reports the current memory load and the threshold above which
// pressure is considered high. Hosts lacking a usable info source
// should return a threshold of 0, which Classify treats as High.
type Source func() (loadBytes, highThresholdBytes uint64)

// Classify buckets (loadBytes, highThresholdBytes):
// High if load >= 0.90*threshold, Medium if load >= 0.70*threshold,
// else Low. A zero threshold (no info source) is always High.
func Classify(loadBytes, highThresholdBytes uint64) Level {
	if highThresholdBytes == 0 {
		return High
	}
	// Integer-safe comparison against load/threshold >= 0.90 without
	// floating point: load*10 >= threshold*9.
	switch {
	case loadBytes*10 >= highThresholdBytes*9:
		return High
	case loadBytes*10 >= highThresholdBytes*7:
		return Medium
	default:
		return Low
	}
}

// DefaultSource reports process heap usage against a threshold derived
// from total system memory (via github.com/pbnjay/memory, since the Go
// runtime itself does not expose an installed physical-memory limit).
// The high threshold is set at 80% of total system memory, a
// conservative default a caller can override with WithPressureSource.
func DefaultSource() Source {
	total := memory.TotalMemory()
	return func() (uint64, uint64) {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)
		if total == 0 {
			// No info source available on this host.
			return stats.HeapAlloc, 0
		}
		return stats.HeapAlloc, total * 8 / 10
	}
}

// Probe wraps a Source with the Classify bucketing, giving callers a
// single Level() call.
type Probe struct {
	Source Source
}

// NewProbe builds a Probe over src. A nil src uses DefaultSource.
func NewProbe(src Source) *Probe {
	if src == nil {
		src = DefaultSource()
	}
	return &Probe{Source: src}
}

// Level samples the source once and classifies it.
func (p *Probe) Level() Level {
	if p == nil || p.Source == nil {
		return High
	}
	load, threshold := p.Source()
	return Classify(load, threshold)
}
