// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements the spatial atom of the model (C5,
// GridblockCell) and the 2-D mesh that owns it (C7, FractureGrid).
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dorivalpedroso/dfmgen/fracture"
)

// PointXYZ is a 3-D coordinate; Z is positive-down "depth".
type PointXYZ struct {
	X, Y, Z float64
}

// CornerID names one of a cell's eight corner points.
type CornerID int

const (
	SWTop CornerID = iota
	SETop
	NWTop
	NETop
	SWBottom
	SEBottom
	NWBottom
	NEBottom
	numCorners
)

// DeformationEpisode is one ordered, constant-rate load period applied
// to a cell (§3).
type DeformationEpisode struct {
	MinStrainAzimuth float64 // radians

	EhminRate float64 // 1/s; negative = extensional
	EhmaxRate float64 // 1/s

	OverpressureRate    float64 // Pa/s
	TemperatureRate     float64 // K/s
	UpliftRate          float64 // m/s
	StressArchingFactor float64 // in [0,1]

	Duration float64 // s; negative => run until fractures cease growing
}

// Properties holds the mechanical/elastic/plastic constants of a cell
// that do not vary during the run (§3).
type Properties struct {
	YoungsModulus      float64 // Pa
	PoissonsRatio      float64
	Porosity           float64
	BiotCoefficient    float64
	ThermalExpansion   float64 // 1/K
	CrackSurfaceEnergy float64 // J/m²
	FrictionCoefficient float64

	InitialMicrofractureDensityB float64 // B
	SizeExponentC                float64 // c
	SubcriticalPropagationIndex  float64 // b
	CriticalPropagationRate      float64 // m/s

	RelaxationTimeConstant1 float64 // s
	RelaxationTimeConstant2 float64 // s

	// Stress-shadow geometry (§4.7): azimuthal and shear width
	// components and the anisotropic-kernel fallback threshold.
	ShadowWidthAz    float64
	ShadowWidthSS    float64
	Anisotropy       float64
	AnisotropyCutoff float64
}

// StressState holds the evolving (but cell-wide, not per-set) stress
// and strain bookkeeping of a cell (§3).
type StressState struct {
	EffectiveVerticalStress float64 // Pa
	FluidPressure           float64 // Pa
	GeothermalGradient      float64 // K/m
	InitialStressRelaxation float64

	CumulativeDepthChange float64 // m; from uplift accounting
}

// Cell is the spatial atom (C5), identified by (Row, Col).
type Cell struct {
	Row, Col int

	Corners          [numCorners]PointXYZ
	MeanThickness    float64
	MeanInitialDepth float64

	Props Properties
	State StressState

	Episodes []*DeformationEpisode
	Sets     []*fracture.Set

	// Neighbours are indices into the owning FractureGrid.Cells slice;
	// -1 means "no neighbour in that direction" (grid edge). Cells never
	// own their neighbours -- the grid does (§9 design notes).
	North, East, South, West int

	seedMaster int64
}

// NewCell allocates a cell with no neighbours wired (the grid wires
// them at construction) and no fracture sets (the caller adds them once
// NoFractureSets is known).
func NewCell(row, col int) *Cell {
	return &Cell{
		Row: row, Col: col,
		North: -1, East: -1, South: -1, West: -1,
	}
}

// Volume returns the mean cell volume, used by geometry validation.
func (c *Cell) Volume(cellWidth, cellHeight float64) float64 {
	return cellWidth * cellHeight * c.MeanThickness
}

// CurrentDepth returns the cell's mean depth after accounting for the
// uplift accumulated so far (§4.4 step 1).
func (c *Cell) CurrentDepth() float64 {
	return c.MeanInitialDepth + c.State.CumulativeDepthChange
}

// CriticalInitialStressRelaxation returns the strain-relaxation value a
// cell sits at when it has had time to reach the critical (Mohr-Coulomb)
// initial stress state, given Poisson's ratio nu and friction
// coefficient mu (phi = atan(mu)). Used to resolve the -1
// "compute automatically" sentinel for InitialStressRelaxation (§3).
func CriticalInitialStressRelaxation(nu, mu float64) float64 {
	phi := math.Atan(mu)
	sinPhi := math.Sin(phi)
	return ((1-nu)*(1-sinPhi)/(1+sinPhi) - nu) / (1 - 2*nu)
}

// Validate checks the invariants from §3: adjacent-cell corner sharing
// is enforced by FractureGrid.SetCorner, not here; this method checks
// what a single cell can check in isolation.
func (c *Cell) Validate() error {
	for i, s := range c.Sets {
		if s == nil {
			return chk.Err("grid: cell (%d,%d): fracture set %d is nil", c.Row, c.Col, i)
		}
	}
	if c.MeanThickness <= 0 {
		return chk.Err("grid: cell (%d,%d): layer thickness must be > 0 for DFN generation, got %v", c.Row, c.Col, c.MeanThickness)
	}
	return nil
}

// ResetFractures replaces the cell's fracture sets with sets, for use
// at grid build time before the first episode runs; the sets passed in
// are stored as given.
func (c *Cell) ResetFractures(sets []*fracture.Set) {
	c.Sets = sets
}
