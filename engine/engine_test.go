// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorivalpedroso/dfmgen/config"
)

func Test_engine_run_writes_per_cell_output(tst *testing.T) {
	chk.PrintTitle("engine_run_writes_per_cell_output")
	d := config.Default()
	d.GridRows, d.GridCols = 2, 2
	d.Controller.MaxTimesteps = 5
	dir := tst.TempDir()
	e, err := StartWithData(d, dir)
	if err != nil {
		tst.Fatal(err)
	}
	e.NumWorkers = 2
	if err := e.Run(); err != nil {
		tst.Fatal(err)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			path := filepath.Join(dir, "cell_"+itoa(r)+"_"+itoa(c)+".txt")
			if _, err := os.Stat(path); err != nil {
				tst.Errorf("expected output file %s: %v", path, err)
			}
		}
	}
}

func Test_engine_cancel_stops_remaining_cells(tst *testing.T) {
	chk.PrintTitle("engine_cancel_stops_remaining_cells")
	d := config.Default()
	d.GridRows, d.GridCols = 3, 3
	d.Controller.MaxTimesteps = 3
	dir := tst.TempDir()
	e, err := StartWithData(d, dir)
	if err != nil {
		tst.Fatal(err)
	}
	e.NumWorkers = 1
	e.Reporter.Cancel()
	if err := e.Run(); err != nil {
		tst.Fatal(err)
	}
	total, done := e.Reporter.Done()
	if total != 9 {
		tst.Errorf("expected total=9, got %d", total)
	}
	if done != 0 {
		tst.Errorf("expected no cell to run after Cancel, got done=%d", done)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
