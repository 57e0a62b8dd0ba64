// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorivalpedroso/dfmgen/dfn"
	"github.com/dorivalpedroso/dfmgen/fracture"
	"github.com/dorivalpedroso/dfmgen/grid"
)

func buildCell() *grid.Cell {
	c := grid.NewCell(0, 0)
	c.MeanThickness = 1
	c.Props.YoungsModulus = 1e10
	c.Props.PoissonsRatio = 0.25
	params := fracture.Params{A: 1e-22, SubcriticalIndex: 3, Kc: 2e6, MeanPropagationRate: 1e-9}
	uniform, _ := fracture.NewApertureModel("uniform")
	_ = uniform.Init(uniform.GetPrms())
	set := fracture.NewSet(0, params, params, true, fracture.Mode1Dilatant, uniform, uniform)
	c.Sets = []*fracture.Set{set}
	return c
}

func Test_output_write_cell_implicit_data(tst *testing.T) {
	chk.PrintTitle("output_write_cell_implicit_data")
	dir := tst.TempDir()
	path := filepath.Join(dir, "cell_0_0.txt")
	c := buildCell()
	if err := WriteCellImplicitData(path, c); err != nil {
		tst.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		tst.Fatal(err)
	}
	if len(data) == 0 {
		tst.Errorf("expected non-empty output file")
	}
}

func Test_output_write_dfn_ascii(tst *testing.T) {
	chk.PrintTitle("output_write_dfn_ascii")
	g, err := grid.NewFractureGrid(1, 1, 20, 20, grid.Lenient)
	if err != nil {
		tst.Fatal(err)
	}
	g.Cells[0].MeanThickness = 1
	b := dfn.NewBuilder(g, dfn.Config{NumTimesteps: 1, TimestepDuration: 1})
	dir := tst.TempDir()
	path := filepath.Join(dir, "dfn.txt")
	if err := WriteDFNAscii(path, b); err != nil {
		tst.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		tst.Errorf("dfn ascii file not written: %v", err)
	}
}
