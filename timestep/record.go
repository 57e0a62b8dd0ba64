// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package timestep implements the per-timestep scalar record of a single
// fracture dip set (C1) and its append-only history (C2).
package timestep

// Stage is the evolution stage of a dip set at a given timestep.
type Stage int

const (
	// Growing is the normal sub-critical propagation regime.
	Growing Stage = iota
	// ResidualActive marks a set whose active density has fallen below
	// its historical peak by the configured ratio but has not yet
	// satisfied a hard termination criterion.
	ResidualActive
	// Deactivated marks a set that has met a termination criterion and
	// no longer accumulates growth.
	Deactivated
)

func (s Stage) String() string {
	switch s {
	case Growing:
		return "Growing"
	case ResidualActive:
		return "ResidualActive"
	case Deactivated:
		return "Deactivated"
	default:
		return "Unknown"
	}
}

// Record is an immutable snapshot of one timestep's scalar fracture
// calculation variables for one dip set.
type Record struct {
	StartTime float64 // s; time at the start of this timestep
	Duration  float64 // s; Δt of this timestep

	Stage Stage

	// driving stress: σD(t) = U + V·t
	DrivingStressConst float64 // U, Pa
	DrivingStressRate  float64 // V, Pa/s
	MeanEffNormalStress  float64 // Pa; mean over the timestep
	FinalEffNormalStress float64 // Pa; at the end of the timestep

	MicroGrowthIncrement float64 // γ·Δt for this timestep
	CumGamma             float64 // cumulative micro-fracture growth factor

	HalfLengthIncrement float64 // halfLength_M for this timestep
	CumHalfLength       float64 // cumulative half-macrofracture length

	// deactivation probabilities
	QII      float64 // stress-shadow fall probability
	QIIPrime float64 // exclusion-zone fall probability
	FII      float64 // shadow termination rate
	FIJ      float64 // intersection termination rate
	F        float64 // composite termination rate

	Survival float64 // φ_M for this timestep
	CumPhi   float64 // cumulative survival probability

	Theta            float64 // inverse stress-shadow volume, this set
	ThetaPrime       float64 // inverse clear-zone volume, this set
	ThetaAllSets     float64 // inverse stress-shadow volume, all sets
	ThetaPrimeAllSet float64 // inverse clear-zone volume, all sets

	AA         float64 // spacing distribution coefficient
	BB         float64 // spacing distribution coefficient
	CCStep     float64 // spacing distribution coefficient
	DChiDMFP32 float64 // ∂χ/∂MFP32
	DChiDPsi   float64 // ∂χ/∂ψ

	// volumetric densities
	AMFP30   float64 // active MFP30
	SIIMFP30 float64 // stress-shadow terminated MFP30
	SIJMFP30 float64 // intersection terminated MFP30
	TotalMFP30 float64
	MFP32      float64 // linear density
	MFP33      float64 // volumetric ratio
}

// Clone returns a deep copy (Record has no reference fields, so this is
// a plain value copy, kept as a named method for call-site clarity when
// building a rollback candidate).
func (r Record) Clone() Record {
	return r
}
