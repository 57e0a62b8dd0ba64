// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package progress

import (
	"sync"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_progress_step_concurrent(tst *testing.T) {
	chk.PrintTitle("progress_step_concurrent")
	r := New(100)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Step()
		}()
	}
	wg.Wait()
	total, done := r.Done()
	if total != 100 || done != 100 {
		tst.Errorf("expected 100/100, got %d/%d", done, total)
	}
}

func Test_progress_cancel(tst *testing.T) {
	chk.PrintTitle("progress_cancel")
	r := New(10)
	if r.Cancelled() {
		tst.Errorf("should not be cancelled initially")
	}
	r.Cancel()
	if !r.Cancelled() {
		tst.Errorf("expected cancelled after Cancel")
	}
}
