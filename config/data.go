// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config implements the external, line-oriented configuration
// input described in spec.md §6: comment lines start with '%', each
// non-comment line is "KEY value [value ...]", a Gridblock/End
// Gridblock pair delimits per-cell overrides, and an Include directive
// loads a row-major property-array file.
package config

import (
	"github.com/dorivalpedroso/dfmgen/controller"
	"github.com/dorivalpedroso/dfmgen/dfn"
	"github.com/dorivalpedroso/dfmgen/grid"
)

// TimeUnit is the time unit used in the configuration file; converted
// to seconds at cell construction and never thereafter (§6).
type TimeUnit int

const (
	Ma TimeUnit = iota
	Year
	Second
)

func (u TimeUnit) Seconds() float64 {
	switch u {
	case Ma:
		return 1e6 * 365.25 * 24 * 3600
	case Year:
		return 365.25 * 24 * 3600
	default:
		return 1
	}
}

// OutputFormat selects the explicit-DFN emission format (§6).
type OutputFormat int

const (
	ASCII OutputFormat = iota
	FAB
)

// OutputFlags controls which outputs the engine writes.
type OutputFlags struct {
	WriteImplicitDataFiles bool
	WriteDFNFiles          bool
	DFNFormat              OutputFormat
}

// GridblockOverride holds a per-cell property override block
// ("Gridblock C R ... End Gridblock"). Only non-zero/explicitly-set
// fields should be applied; the parser tracks which keys were seen in
// Set.
type GridblockOverride struct {
	Row, Col int
	Props    grid.Properties
	Set      map[string]bool
}

// InitialState holds the starting stress/strain state applied to every
// cell before its episodes run (§3's "stress/strain state" fields).
// InitialStressRelaxation of -1 means "compute the critical value from
// PoissonsRatio and FrictionCoefficient" (§8 S5) rather than use a
// literal -1.
type InitialState struct {
	EffectiveVerticalStress float64
	FluidPressure           float64
	GeothermalGradient      float64
	InitialStressRelaxation float64
}

// Data holds every value read from a configuration file (C9).
type Data struct {
	GridRows, GridCols       int
	CellSizeX, CellSizeY     float64
	InitialDepth             float64
	OverwriteDepth           bool
	MeanThickness            float64
	TimeUnit                 TimeUnit

	DefaultProps grid.Properties
	InitialState InitialState
	Episodes     []*grid.DeformationEpisode

	NoFractureSets int
	ApertureModel  string

	GeometryValidation grid.GeometryMode

	Overrides []*GridblockOverride

	Output OutputFlags

	Controller controller.Config
	DFN        dfn.Config

	GenerateExplicitDFN bool

	// Geometry pillars, row-major then column-major, six floats each
	// (SW/SE/NW/NE top/bottom is reduced to per-pillar top+bottom pairs
	// in the #Geometry include block); empty when the grid uses the
	// uniform CellSizeX/CellSizeY/InitialDepth construction instead.
	Pillars [][]float64
}

// Default returns a Data populated with the same conservative defaults
// the generated template documents.
func Default() *Data {
	return &Data{
		GridRows: 1, GridCols: 1,
		CellSizeX: 20, CellSizeY: 20,
		InitialDepth:  2000,
		MeanThickness: 10,
		TimeUnit:      Ma,
		DefaultProps: grid.Properties{
			YoungsModulus:                1e10,
			PoissonsRatio:                0.25,
			Porosity:                     0.1,
			BiotCoefficient:              1,
			ThermalExpansion:             1e-5,
			CrackSurfaceEnergy:           1,
			FrictionCoefficient:          0.6,
			InitialMicrofractureDensityB: 1,
			SizeExponentC:                1,
			SubcriticalPropagationIndex:  3,
			CriticalPropagationRate:      1e-3,
			RelaxationTimeConstant1:      1e6,
			RelaxationTimeConstant2:      1e6,
			ShadowWidthAz:                0.1,
			ShadowWidthSS:                0.1,
			Anisotropy:                   0,
			AnisotropyCutoff:             0.2,
		},
		NoFractureSets:     1,
		ApertureModel:      "uniform",
		GeometryValidation: grid.Lenient,
		InitialState: InitialState{
			EffectiveVerticalStress: 4e7,
			FluidPressure:           0,
			GeothermalGradient:      0.03,
			InitialStressRelaxation: -1,
		},
		Output: OutputFlags{
			WriteImplicitDataFiles: true,
			WriteDFNFiles:          false,
			DFNFormat:              ASCII,
		},
		Controller: controller.Config{
			MaxTimesteps:             1000,
			MaxTimestepMFP33Increase: 1e-2,
			Current_HistoricMFP33TerminationRatio: 0.01,
			Active_TotalMFP30TerminationRatio:     0.01,
			MinimumClearZoneVolume:                0,
			Snapshot:                              controller.AtEpisodeEnd,
		},
		DFN: dfn.Config{
			ProbabilisticFractureNucleationLimit: 1,
			MaxConsistencyAngle:                  0.2,
			MinExplicitMicrofractureRadius:       1,
			TimestepDuration:                     1e10,
			NumTimesteps:                         100,
			MasterSeed:                           1,
		},
	}
}
