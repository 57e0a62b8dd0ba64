// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fracture implements the per-set geomechanical evolution (C3)
// and the azimuth-grouped fracture set (C4) of the fracture model.
package fracture

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dorivalpedroso/dfmgen/timestep"
)

// Mode is the fracture displacement mode of a dip set.
type Mode int

const (
	Mode1Dilatant Mode = iota
	Mode2Shear
)

func cos2(theta float64) float64 {
	c := math.Cos(theta)
	return c * c
}

// Params holds the per-set constants that do not evolve over time:
// material and sub-critical-propagation parameters from the owning
// cell, scaled into this set's constants at construction.
type Params struct {
	A                float64 // micro-fracture growth constant (embeds crack surface energy, B, c)
	SubcriticalIndex float64 // b
	Kc               float64 // fracture toughness analogue
	MeanPropagationRate float64 // reference propagation rate for half-macrofractures

	MaxTimestepMFP33Increase float64
	MaxTimestepDuration      float64 // <=0 means unbounded

	HistoricMFP33TerminationRatio float64 // <0 disables
}

// DipSet owns one TimestepSeries plus the derived statistics described
// in §3 (C3): it drives one timestep forward given the stress/strain
// state of the timestep and the stress-shadow geometry contributed by
// every other set sharing the cell.
type DipSet struct {
	Mode   Mode
	Params Params
	Series *timestep.Series

	peakMFP33 float64
	stage     timestep.Stage
}

// NewDipSet allocates a dip set with its initial (t=0) record.
func NewDipSet(mode Mode, p Params) *DipSet {
	return &DipSet{
		Mode:   mode,
		Params: p,
		Series: timestep.NewSeries(timestep.Record{Stage: timestep.Growing}),
		stage:  timestep.Growing,
	}
}

// Stage returns the current evolution stage.
func (d *DipSet) Stage() timestep.Stage { return d.stage }

// StepInput collects everything a single-set timestep calculation needs
// that the set itself does not own: the applied load rates (already
// resolved onto this set's orientation by the parent Set), the clear
// zone / stress-shadow geometry contributed by the rest of the cell, and
// the proposed timestep duration (the controller may shrink this to
// satisfy every set's MaxTimestepMFP33Increase simultaneously).
type StepInput struct {
	Time            float64 // s; absolute time at timestep start
	DrivingStressConst float64 // U, Pa
	DrivingStressRate  float64 // V, Pa/s
	EffNormalStressStart float64
	EffNormalStressEnd   float64

	ThetaOwn       float64 // inverse stress-shadow volume from this set's own geometry
	ThetaPrimeOwn  float64 // inverse exclusion-zone volume from this set's own geometry
	FIIFromOthers  float64 // shadow termination contribution from interacting sets
	FIJFromOthers  float64 // intersection termination contribution from interacting sets

	Duration float64 // s; Δt selected for this timestep; must be > 0 (see OptimumDuration)
}

// OptimumDuration computes Δt so the increase in MFP33 does not exceed
// Params.MaxTimestepMFP33Increase (§4.2 step 3), clamped to
// Params.MaxTimestepDuration if positive. mfp33Rate is the current
// instantaneous dMFP33/dt.
func (d *DipSet) OptimumDuration(mfp33Rate float64) float64 {
	dt := math.Inf(1)
	if mfp33Rate > 0 && d.Params.MaxTimestepMFP33Increase > 0 {
		dt = d.Params.MaxTimestepMFP33Increase / mfp33Rate
	}
	if d.Params.MaxTimestepDuration > 0 && dt > d.Params.MaxTimestepDuration {
		dt = d.Params.MaxTimestepDuration
	}
	if math.IsInf(dt, 1) {
		dt = d.Params.MaxTimestepDuration
	}
	return dt
}

// Step advances the series by one timestep following §4.2 steps 1-8 and
// returns the produced record (also appended to the series).
// FIIFromOthers/FIJFromOthers are added to this set's own termination
// rates as given. Step always appends; a caller that corrects the
// record after a cell-wide pass (§4.4 step 3) overwrites it with
// Series.ReplaceLast for the one-shot rollback.
func (d *DipSet) Step(in StepInput) (timestep.Record, error) {
	if in.Duration <= 0 {
		return timestep.Record{}, chk.Err("fracture: dipset Step requires a positive Duration")
	}

	last := d.Series.Last()

	// 1. driving stress at mid-timestep, rounding-error gated.
	tMid := in.Time + in.Duration/2
	sigmaD := in.DrivingStressConst + in.DrivingStressRate*tMid
	d.Series.UpdateMaxDrivingStressRoundingError(sigmaD)
	if math.Abs(sigmaD) < d.Series.MaxRoundingError() {
		sigmaD = 0
	}

	// 2. micro-fracture propagation factor γ.
	gamma := d.microGrowthFactor(sigmaD)
	microIncrement := gamma * in.Duration
	cumGamma := last.CumGamma + microIncrement

	// 4. half-macrofracture propagation.
	halfLenInc := d.Params.MeanPropagationRate * in.Duration
	cumHalfLength := last.CumHalfLength + halfLenInc

	// 5. deactivation probabilities.
	qII := in.ThetaOwn * halfLenInc
	qIIPrime := in.ThetaPrimeOwn * halfLenInc
	fII := qII/in.Duration + in.FIIFromOthers
	fIJ := qIIPrime/in.Duration + in.FIJFromOthers
	fComposite := fII + fIJ

	// 6. survival.
	phi := math.Exp(-fComposite * in.Duration)
	cumPhi := last.CumPhi * phi
	if d.Series.N() == 0 {
		cumPhi = phi
	}

	// 7. volumetric densities: analytical integrals approximated here
	// by a forward increment of the surviving growth rate, consistent
	// with the TimestepSeries query contract (cumulative quantities are
	// differences of monotone running sums).
	activeIncrement := cumGamma - last.CumGamma
	sIncrement := (1 - phi) * (last.AMFP30 + activeIncrement)
	totalMFP30 := last.TotalMFP30 + activeIncrement
	aMFP30 := last.AMFP30 + activeIncrement*phi - (last.AMFP30)*(1-phi)
	if aMFP30 < 0 {
		aMFP30 = 0
	}
	sIIMFP30 := last.SIIMFP30 + sIncrement*splitRatio(fII, fComposite)
	sIJMFP30 := last.SIJMFP30 + sIncrement*splitRatio(fIJ, fComposite)
	// re-balance so the conservation invariant a+sII+sIJ==Total holds to machine precision
	aMFP30 = totalMFP30 - sIIMFP30 - sIJMFP30
	if aMFP30 < 0 {
		aMFP30 = 0
		sIIMFP30 = totalMFP30 * splitRatio(fII, fComposite)
		sIJMFP30 = totalMFP30 - sIIMFP30
	}

	mfp32 := last.MFP32 + halfLenInc*2*aMFP30
	mfp33 := last.MFP33 + mfp32*in.Duration

	rec := timestep.Record{
		StartTime:            in.Time,
		Duration:             in.Duration,
		DrivingStressConst:   in.DrivingStressConst,
		DrivingStressRate:    in.DrivingStressRate,
		MeanEffNormalStress:  (in.EffNormalStressStart + in.EffNormalStressEnd) / 2,
		FinalEffNormalStress: in.EffNormalStressEnd,
		MicroGrowthIncrement: microIncrement,
		CumGamma:             cumGamma,
		HalfLengthIncrement:  halfLenInc,
		CumHalfLength:        cumHalfLength,
		QII:                  qII,
		QIIPrime:             qIIPrime,
		FII:                  fII,
		FIJ:                  fIJ,
		F:                    fComposite,
		Survival:             phi,
		CumPhi:               cumPhi,
		Theta:                in.ThetaOwn,
		ThetaPrime:           in.ThetaPrimeOwn,
		AMFP30:               aMFP30,
		SIIMFP30:             sIIMFP30,
		SIJMFP30:             sIJMFP30,
		TotalMFP30:           totalMFP30,
		MFP32:                mfp32,
		MFP33:                mfp33,
		Stage:                d.nextStage(aMFP30, fComposite),
	}
	d.stage = rec.Stage
	if aMFP30 > d.peakMFP33 {
		d.peakMFP33 = aMFP30
	}
	d.Series.Append(rec)
	return rec, nil
}

// microGrowthFactor computes γ_InvBeta (§4.2 step 2).
func (d *DipSet) microGrowthFactor(sigmaD float64) float64 {
	if sigmaD == 0 {
		return 0
	}
	b := d.Params.SubcriticalIndex
	a := d.Params.A
	kc := d.Params.Kc
	if b == 2 {
		return a * (4 * sigmaD * sigmaD / (math.Pi * kc * kc))
	}
	beta := math.Abs((b - 2) / 2)
	base := 2 * sigmaD / (math.Sqrt(math.Pi) * kc)
	return (a / beta) * math.Pow(base, b)
}

// nextStage implements the Growing -> ResidualActive -> Deactivated
// transition described in §4.2.
func (d *DipSet) nextStage(aMFP30, fComposite float64) timestep.Stage {
	switch d.stage {
	case timestep.Deactivated:
		return timestep.Deactivated
	case timestep.ResidualActive:
		if d.Params.HistoricMFP33TerminationRatio >= 0 && d.peakMFP33 > 0 &&
			aMFP30/d.peakMFP33 < d.Params.HistoricMFP33TerminationRatio {
			return timestep.Deactivated
		}
		return timestep.ResidualActive
	default: // Growing
		if d.peakMFP33 > 0 && aMFP30 < d.peakMFP33 {
			return timestep.ResidualActive
		}
		return timestep.Growing
	}
}

func splitRatio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole
}
