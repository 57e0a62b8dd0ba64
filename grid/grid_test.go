// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_grid_four_neighbour_wiring(tst *testing.T) {
	chk.PrintTitle("grid_four_neighbour_wiring")
	g, err := NewFractureGrid(3, 3, 20, 20, Lenient)
	if err != nil {
		tst.Fatal(err)
	}
	center := g.At(1, 1)
	if _, ok := g.Neighbor(center, North); !ok {
		tst.Error("expected a north neighbour")
	}
	corner := g.At(0, 0)
	if _, ok := g.Neighbor(corner, North); ok {
		tst.Error("expected no north neighbour at the grid edge")
	}
	if _, ok := g.Neighbor(corner, West); ok {
		tst.Error("expected no west neighbour at the grid edge")
	}
}

func Test_grid_corner_sharing(tst *testing.T) {
	chk.PrintTitle("grid_corner_sharing")
	g, err := NewFractureGrid(2, 2, 20, 20, Lenient)
	if err != nil {
		tst.Fatal(err)
	}
	newPt := PointXYZ{X: 10, Y: 10, Z: 2000}
	if err := g.SetCorner(0, 0, SETop, newPt); err != nil {
		tst.Fatal(err)
	}
	east := g.At(0, 1)
	chk.Scalar(tst, "east.SWTop.X", 1e-12, east.Corners[SWTop].X, newPt.X)
	chk.Scalar(tst, "east.SWTop.Z", 1e-12, east.Corners[SWTop].Z, newPt.Z)
}

func Test_grid_zero_sets_empty(tst *testing.T) {
	chk.PrintTitle("grid_zero_sets_empty")
	g, err := NewFractureGrid(1, 1, 20, 20, Lenient)
	if err != nil {
		tst.Fatal(err)
	}
	cell := g.At(0, 0)
	cell.MeanThickness = 1
	cell.ResetFractures(nil)
	if len(cell.Sets) != 0 {
		tst.Errorf("expected no fracture sets")
	}
}

func Test_grid_strict_rejects_zero_thickness(tst *testing.T) {
	chk.PrintTitle("grid_strict_rejects_zero_thickness")
	g, err := NewFractureGrid(1, 1, 20, 20, Strict)
	if err != nil {
		tst.Fatal(err)
	}
	if err := g.Validate(); err == nil {
		tst.Errorf("expected validation error for zero-thickness cell in Strict mode")
	}
}

func Test_grid_empty_dims_rejected(tst *testing.T) {
	chk.PrintTitle("grid_empty_dims_rejected")
	if _, err := NewFractureGrid(0, 3, 1, 1, Lenient); err != ErrEmptyGrid {
		tst.Errorf("expected ErrEmptyGrid")
	}
}
