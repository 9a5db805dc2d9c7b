// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"runtime"
	_ "unsafe" // for go:linkname
)

// fastrand is the runtime's own scheduler-grade PRNG. sync.Pool reaches
// it the same way (see sync/pool.go's "func fastrand() uint32 // from
// runtime") for its race-mode coin flip; package sync is allowed that
// because the linkname pragma on the runtime side names package sync
// explicitly. Outside package sync the equivalent, widely used trick is
// to linkname runtime.fastrand directly, which is what several
// high-throughput sharded Go data structures do to get a fast per-call
// affinity number without a goroutine-local primitive.
//
//go:linkname fastrand runtime.fastrand
func fastrand() uint32

// affinity returns a fast, cheaply-computed pseudo-affinity number for
// the calling goroutine. It is not sticky: two calls from the same
// goroutine may return different values. The trade is deliberate — a
// random starting shard never serializes all goroutines on a single
// shared cursor, which is what matters for contention; stickiness only
// buys cache locality Go gives no portable way to get.
func affinity() uint32 {
	return fastrand()
}

// shardIndex maps an affinity number onto [0, n).
func shardIndex(a uint32, n int) int {
	if n <= 0 {
		return 0
	}
	return int(a % uint32(n))
}

// procYield hands the processor to another goroutine. Used by the
// bounded spin loops in slot.go and shard.go once a handful of busy
// iterations have passed without making progress.
func procYield() {
	runtime.Gosched()
}
