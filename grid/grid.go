// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"errors"

	"github.com/cpmech/gosl/chk"
)

// Sentinel errors for grid construction, following the gridgraph
// convention of exported sentinel errors for structural problems.
var (
	ErrEmptyGrid      = errors.New("grid: rows and cols must both be >= 1")
	ErrCornerMismatch = errors.New("grid: corner override produced a mismatched shared edge")
)

// GeometryMode selects whether FractureGrid.Validate tolerates invalid
// geometry (the historical default) or rejects it (§9 open question).
type GeometryMode int

const (
	Lenient GeometryMode = iota
	Strict
)

// Direction names one of the four neighbour directions.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// FractureGrid is a 2-D mesh of cells with four-neighbour topology
// (C7). It owns every cell; cells hold only index references to their
// neighbours, never pointers, so the grid is the sole owner (§9).
type FractureGrid struct {
	Rows, Cols int
	CellWidth, CellHeight float64
	Mode       GeometryMode

	Cells []*Cell // row-major, len == Rows*Cols
}

// NewFractureGrid builds an Rows x Cols mesh of empty cells and wires
// the four-neighbour adjacency, mirroring the rectangular-grid
// validation and neighbour-offset wiring of a Conn4 grid-graph.
func NewFractureGrid(rows, cols int, cellWidth, cellHeight float64, mode GeometryMode) (*FractureGrid, error) {
	if rows < 1 || cols < 1 {
		return nil, ErrEmptyGrid
	}
	g := &FractureGrid{
		Rows: rows, Cols: cols,
		CellWidth: cellWidth, CellHeight: cellHeight,
		Mode:  mode,
		Cells: make([]*Cell, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Cells[g.index(r, c)] = NewCell(r, c)
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := g.Cells[g.index(r, c)]
			if r > 0 {
				cell.North = g.index(r-1, c)
			}
			if r < rows-1 {
				cell.South = g.index(r+1, c)
			}
			if c > 0 {
				cell.West = g.index(r, c-1)
			}
			if c < cols-1 {
				cell.East = g.index(r, c+1)
			}
		}
	}
	return g, nil
}

func (g *FractureGrid) index(row, col int) int {
	return row*g.Cols + col
}

// InBounds reports whether (row,col) lies within the grid.
func (g *FractureGrid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// At returns the cell at (row, col).
func (g *FractureGrid) At(row, col int) *Cell {
	if !g.InBounds(row, col) {
		return nil
	}
	return g.Cells[g.index(row, col)]
}

// Neighbor returns the neighbour of cell in the given direction, and
// whether one exists.
func (g *FractureGrid) Neighbor(cell *Cell, dir Direction) (*Cell, bool) {
	var idx int
	switch dir {
	case North:
		idx = cell.North
	case East:
		idx = cell.East
	case South:
		idx = cell.South
	case West:
		idx = cell.West
	}
	if idx < 0 {
		return nil, false
	}
	return g.Cells[idx], true
}

// SetCorner overwrites one corner of cell (row,col) and propagates the
// same value to the matching corner of every neighbour that shares it,
// implementing the pillar corner-sharing rule of §4.5/§8 property 8.
func (g *FractureGrid) SetCorner(row, col int, which CornerID, pt PointXYZ) error {
	cell := g.At(row, col)
	if cell == nil {
		return chk.Err("grid: SetCorner: cell (%d,%d) out of range", row, col)
	}
	cell.Corners[which] = pt

	// propagate to the neighbours sharing this corner
	isWest := which == SWTop || which == SWBottom || which == NWTop || which == NWBottom
	isSouth := which == SWTop || which == SWBottom || which == SETop || which == SEBottom
	isTop := which == SWTop || which == SETop || which == NWTop || which == NETop

	mirrorEW := map[CornerID]CornerID{
		SWTop: SETop, SETop: SWTop, NWTop: NETop, NETop: NWTop,
		SWBottom: SEBottom, SEBottom: SWBottom, NWBottom: NEBottom, NEBottom: NWBottom,
	}
	mirrorNS := map[CornerID]CornerID{
		SWTop: NWTop, NWTop: SWTop, SETop: NETop, NETop: SETop,
		SWBottom: NWBottom, NWBottom: SWBottom, SEBottom: NEBottom, NEBottom: SEBottom,
	}

	if isWest {
		if w, ok := g.Neighbor(cell, West); ok {
			w.Corners[mirrorEW[which]] = pt
		}
	} else {
		if e, ok := g.Neighbor(cell, East); ok {
			e.Corners[mirrorEW[which]] = pt
		}
	}
	if isSouth {
		if s, ok := g.Neighbor(cell, South); ok {
			s.Corners[mirrorNS[which]] = pt
		}
	} else {
		if n, ok := g.Neighbor(cell, North); ok {
			n.Corners[mirrorNS[which]] = pt
		}
	}
	// the diagonal neighbour across the corner shares it as well
	ewDir, nsDir := East, North
	if isWest {
		ewDir = West
	}
	if isSouth {
		nsDir = South
	}
	if ew, ok := g.Neighbor(cell, ewDir); ok {
		if diag, ok := g.Neighbor(ew, nsDir); ok {
			diag.Corners[mirrorNS[mirrorEW[which]]] = pt
		}
	}
	_ = isTop
	return nil
}

// Validate, in Strict mode, runs every cell's own Validate and verifies
// positive cell volume (§9 open question); in Lenient mode it returns
// nil without checking anything, matching the historical behaviour of
// tolerating invalid geometry silently.
func (g *FractureGrid) Validate() error {
	if g.Mode == Lenient {
		return nil
	}
	for _, cell := range g.Cells {
		if err := cell.Validate(); err != nil {
			return err
		}
		if cell.Volume(g.CellWidth, g.CellHeight) <= 0 {
			return chk.Err("grid: cell (%d,%d) has non-positive volume", cell.Row, cell.Col)
		}
	}
	return nil
}
