// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool for the oracle's
// data-parallel models. A Pool is created once and reused for many
// convolutions, so checking a large batch of test vectors does not pay a
// goroutine spawn per call.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	y, err := conv.ConvolveParallel(pool, x, w, bias, width)
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned once at creation
// and reused until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func(worker int)
	worker  int
	barrier *sync.WaitGroup
}

// New creates a pool with numWorkers workers.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn(item.worker)
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool. Pending work completes. Calling Close multiple
// times is safe; a closed pool runs later calls sequentially.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor runs fn over [0, n) split into contiguous chunks, one per
// worker, and blocks until all chunks are done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := p.workersFor(n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}
		p.workC <- workItem{
			fn:      func(int) { fn(start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelForUntil hands out indices in [0, n) in increasing order, one at a
// time, to whichever worker is free. fn receives the index and the worker
// slot (in [0, NumWorkers())) running it. Once any call returns false no
// further indices are handed out, but calls already started finish.
// Blocks until all started calls return.
func (p *Pool) ParallelForUntil(n int, fn func(i, worker int) bool) {
	if n <= 0 {
		return
	}
	workers := p.workersFor(n)
	if workers == 1 {
		for i := range n {
			if !fn(i, 0) {
				return
			}
		}
		return
	}

	var nextIdx atomic.Int64
	var stopped atomic.Bool
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		p.workC <- workItem{
			fn: func(worker int) {
				for !stopped.Load() {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					if !fn(idx, worker) {
						stopped.Store(true)
					}
				}
			},
			worker:  w,
			barrier: &wg,
		}
	}
	wg.Wait()
}

func (p *Pool) workersFor(n int) int {
	if p == nil || p.closed.Load() {
		return 1
	}
	return min(p.numWorkers, n)
}
