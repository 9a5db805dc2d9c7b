// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"runtime"
	"sync"
	"time"
)

// TrimHook drives a Pool's Trim(false) off a timer. sync.Pool gets a
// free periodic tick from the runtime's per-GC-cycle pool cleanup
// hook; that hook is registered by name only for package sync itself,
// so an ordinary module has no equivalent GC-cycle callback and a
// low-priority ticker stands in for it.
type TrimHook struct {
	stop chan struct{}
	once sync.Once
}

// StartTrimHook starts a goroutine calling p.Trim(false) every
// interval, until Stop is called. If the caller drops the returned
// handle without calling Stop, a finalizer on the handle itself (not
// on p) stops the goroutine once the handle is collected, so an
// abandoned hook does not tick forever.
func StartTrimHook[T any](p Pool[T], interval time.Duration) *TrimHook {
	h := &TrimHook{stop: make(chan struct{})}
	// The goroutine must not capture h itself: holding h reachable from
	// a live goroutine would keep the finalizer below from ever running.
	stop := h.stop
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Trim(false)
			case <-stop:
				return
			}
		}
	}()
	runtime.SetFinalizer(h, func(h *TrimHook) { h.Stop() })
	return h
}

// Stop ends the hook's periodic trimming. Safe to call more than once
// and safe to call concurrently with the hook's own tick.
func (h *TrimHook) Stop() {
	h.once.Do(func() { close(h.stop) })
}
