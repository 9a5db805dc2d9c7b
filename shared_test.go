// Copyright 2026 The objpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// On a single goroutine with a single shard, returning [1,2,3,4,5]
// then renting five times yields [5,4,3,2,1]: the thread-local cell
// always takes the latest return and displaces its prior occupant onto
// the (LIFO) shard.
func TestSharedPoolSingleThreadLIFO(t *testing.T) {
	sp, err := NewShared[int](WithShardCount[int](1))
	require.NoError(t, err)

	for _, v := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, sp.Return(v))
	}
	var got []int
	for i := 0; i < 5; i++ {
		got = append(got, sp.Rent())
	}
	require.Equal(t, []int{5, 4, 3, 2, 1}, got)
}

func TestSharedPoolReturnNilErrors(t *testing.T) {
	sp, err := NewShared[*int](WithShardCount[*int](1))
	require.NoError(t, err)
	require.ErrorIs(t, sp.Return(nil), ErrNilElement)
}

// After Trim(true), ApproxCount() == 0 and the free policy fires
// exactly once per evicted element.
func TestSharedPoolForceTrimDrains(t *testing.T) {
	var freed int
	var mu sync.Mutex
	sp, err := NewShared[int](
		WithShardCount[int](4),
		WithFreePolicy(FreeCustom(func(int) {
			mu.Lock()
			freed++
			mu.Unlock()
		})),
	)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, sp.Return(i))
	}
	sp.Trim(true)
	require.Equal(t, 0, sp.ApproxCount())
	require.Equal(t, 100, freed)
}

// Many goroutines perform paired rent/return cycles concurrently; no
// crash, and a final forced trim drains the pool.
func TestSharedPoolConcurrentChurn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrency stress test in -short mode")
	}
	type box struct{ v int }
	sp, err := NewShared[*box]()
	require.NoError(t, err)

	const goroutines = 32
	const iterations = 2000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				v := sp.Rent()
				if v == nil {
					v = &box{}
				}
				v.v = id
				require.NoError(t, sp.Return(v))
			}
		}(g)
	}
	wg.Wait()

	sp.Trim(true)
	require.Equal(t, 0, sp.ApproxCount())
}

func TestSharedRegistryCachesPerType(t *testing.T) {
	a := Shared[int]()
	b := Shared[int]()
	require.Same(t, a, b)
}

func TestSharedRegistryIsolatesTypes(t *testing.T) {
	type kindA struct{ n int }
	type kindB struct{ n int }
	pa := Shared[kindA]()
	pb := Shared[kindB]()
	require.NoError(t, pa.Return(kindA{n: 1}))
	require.Equal(t, 0, pb.ApproxCount())
}
