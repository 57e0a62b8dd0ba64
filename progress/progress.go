// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package progress implements a thread-safe progress reporter shared
// across the per-cell goroutine pool (§5): every cell worker calls
// Step as it finishes a cell, and the engine polls Cancelled
// between cells to support cooperative cancellation. The locking
// follows the separate-mutex-per-concern style the graph core package
// in the example pack uses for its own concurrent counters.
package progress

import "sync"

// Reporter tracks completed work units across concurrent cell workers
// and a single cooperative-cancellation flag.
type Reporter struct {
	muCount    sync.RWMutex
	total      int
	done       int
	muCancel   sync.RWMutex
	cancelled  bool
}

// New returns a Reporter expecting total work units (e.g. one per
// grid cell).
func New(total int) *Reporter {
	return &Reporter{total: total}
}

// Start resets the done counter; callers reuse one Reporter across
// repeated runs instead of allocating a fresh one each time.
func (r *Reporter) Start(total int) {
	r.muCount.Lock()
	defer r.muCount.Unlock()
	r.total = total
	r.done = 0
}

// Step increments the done counter by one and returns the new
// fraction complete in [0,1].
func (r *Reporter) Step() float64 {
	r.muCount.Lock()
	defer r.muCount.Unlock()
	r.done++
	if r.total <= 0 {
		return 1
	}
	return float64(r.done) / float64(r.total)
}

// Done reports the current (total, done) pair.
func (r *Reporter) Done() (total, done int) {
	r.muCount.RLock()
	defer r.muCount.RUnlock()
	return r.total, r.done
}

// Cancel requests that every worker polling Cancelled stop at its next
// opportunity.
func (r *Reporter) Cancel() {
	r.muCancel.Lock()
	defer r.muCancel.Unlock()
	r.cancelled = true
}

// Cancelled reports whether Cancel has been called. Safe to call
// concurrently from every cell worker.
func (r *Reporter) Cancelled() bool {
	r.muCancel.RLock()
	defer r.muCancel.RUnlock()
	return r.cancelled
}
