// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingPool struct {
	trims atomic.Int32
}

func (c *countingPool) Rent() int        { return 0 }
func (c *countingPool) Return(int) error { return nil }
func (c *countingPool) ApproxCount() int { return 0 }
func (c *countingPool) Trim(force bool)  { c.trims.Add(1) }

func TestTrimHookFiresPeriodically(t *testing.T) {
	cp := &countingPool{}
	h := StartTrimHook[int](cp, 5*time.Millisecond)
	defer h.Stop()

	require.Eventually(t, func() bool {
		return cp.trims.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestTrimHookStopIsIdempotent(t *testing.T) {
	cp := &countingPool{}
	h := StartTrimHook[int](cp, time.Millisecond)
	h.Stop()
	require.NotPanics(t, func() { h.Stop() })
}
