// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package objpool provides a high-throughput, thread-safe object pool.
//
// A Pool amortizes allocation and initialization cost for expensive
// values by recycling instances between callers. It is built from a
// small set of tiers, cheapest first: a per-call thread-local-ish cell
// (local.go), a fixed set of per-core stacks (shard.go), and a
// dynamically sized overflow reserve (reserve.go). An asynchronous trim
// controller (trim.go) prunes all three under time and memory-pressure
// heuristics.
//
// Pool makes no strict guarantees: ApproxCount may be stale, a Return
// may be dropped under contention, and Rent never blocks waiting for a
// slot. It is not a bounded or fair queue.
//
// Two constructors are available. Shared returns a process-wide pool
// for a given element type, lazily constructed on first use. New
// constructs an independent pool with its own capacity, reserve, and
// free policy.
package objpool
