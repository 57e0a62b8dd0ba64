// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dfn

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorivalpedroso/dfmgen/fracture"
	"github.com/dorivalpedroso/dfmgen/grid"
)

func buildTestGrid(tst *testing.T, rows, cols int) *grid.FractureGrid {
	g, err := grid.NewFractureGrid(rows, cols, 20, 20, grid.Lenient)
	if err != nil {
		tst.Fatal(err)
	}
	params := fracture.Params{A: 1e-22, SubcriticalIndex: 3, Kc: 2e6, MeanPropagationRate: 0.05}
	uniform, _ := fracture.NewApertureModel("uniform")
	_ = uniform.Init(uniform.GetPrms())
	for _, cell := range g.Cells {
		cell.MeanThickness = 1
		set := fracture.NewSet(0, params, params, true, fracture.Mode1Dilatant, uniform, uniform)
		cell.Sets = []*fracture.Set{set}
	}
	return g
}

func Test_dfn_segments_within_cropped_boundary(tst *testing.T) {
	chk.PrintTitle("dfn_segments_within_cropped_boundary")
	g := buildTestGrid(tst, 3, 3)
	b := NewBuilder(g, Config{
		SeedDensityRate:                       5,
		ProbabilisticFractureNucleationLimit:  0.1,
		MaxConsistencyAngle:                   math.Pi / 8,
		CropAtBoundary:                        true,
		MinExplicitMicrofractureRadius:        1e9, // suppress microfractures for this test
		TimestepDuration:                      1,
		NumTimesteps:                          20,
		MasterSeed:                            42,
	})
	if err := b.Build(); err != nil {
		tst.Fatal(err)
	}
	for _, seg := range b.Segments {
		for _, p := range []grid.PointXYZ{seg.P1, seg.P2} {
			if p.X < -1e-9 || p.X > 1+1e-9 || p.Y < -1e-9 || p.Y > 1+1e-9 {
				tst.Errorf("segment point %v outside cell-local [0,1] bounds after cropping", p)
			}
		}
	}
}

func Test_dfn_poisson_nucleation_mean(tst *testing.T) {
	chk.PrintTitle("dfn_poisson_nucleation_mean")
	g := buildTestGrid(tst, 1, 1)
	b := NewBuilder(g, Config{
		ProbabilisticFractureNucleationLimit: 1e9, // force probabilistic draw
		MasterSeed:                           7,
	})
	lambda := 0.3
	const trials = 20000
	sum := 0
	for i := 0; i < trials; i++ {
		stream := b.streams[0]
		sum += stream.Poisson(lambda)
	}
	mean := float64(sum) / trials
	sigma := math.Sqrt(lambda / trials)
	if math.Abs(mean-lambda) > 3*sigma+0.02 {
		tst.Errorf("sample mean %v too far from lambda %v (sigma=%v)", mean, lambda, sigma)
	}
}

func Test_dfn_zero_sets_yields_no_segments(tst *testing.T) {
	chk.PrintTitle("dfn_zero_sets_yields_no_segments")
	g, err := grid.NewFractureGrid(1, 1, 20, 20, grid.Lenient)
	if err != nil {
		tst.Fatal(err)
	}
	g.Cells[0].MeanThickness = 1
	b := NewBuilder(g, Config{NumTimesteps: 5, TimestepDuration: 1})
	if err := b.Build(); err != nil {
		tst.Fatal(err)
	}
	if len(b.Segments) != 0 {
		tst.Errorf("expected no segments with zero fracture sets")
	}
}
