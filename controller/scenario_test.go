// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package controller

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorivalpedroso/dfmgen/fracture"
	"github.com/dorivalpedroso/dfmgen/grid"
	"github.com/dorivalpedroso/dfmgen/timestep"
)

const maYears = 1e6 * 365.25 * 24 * 3600

func defaultParams() fracture.Params {
	return fracture.Params{
		A: 1e-22, SubcriticalIndex: 3, Kc: 2e6, MeanPropagationRate: 1e-9,
		MaxTimestepMFP33Increase: 1e-2, MaxTimestepDuration: 1e11,
		HistoricMFP33TerminationRatio: 0.01,
	}
}

func newTestCell(nSets int) *grid.Cell {
	c := grid.NewCell(0, 0)
	c.MeanThickness = 1
	c.Props.YoungsModulus = 1e10
	c.State.EffectiveVerticalStress = 4e7
	params := defaultParams()
	for i := 0; i < nSets; i++ {
		uniform, _ := fracture.NewApertureModel("uniform")
		_ = uniform.Init(uniform.GetPrms())
		azimuth := math.Pi / 2 * float64(i)
		set := fracture.NewSet(azimuth, params, params, true, fracture.Mode1Dilatant, uniform, uniform)
		set.WidthAz, set.WidthSS = 5e-2, 5e-2
		c.Sets = append(c.Sets, set)
	}
	return c
}

// S1: uniaxial extension of a single set runs to a non-trivial, bounded
// fracture population whose active share decays as the set matures.
func Test_scenario_S1_uniaxial_single_set(tst *testing.T) {
	chk.PrintTitle("scenario_S1_uniaxial_single_set")
	cell := newTestCell(1)
	cell.Episodes = []*grid.DeformationEpisode{
		{EhminRate: -0.01 / maYears, Duration: 5 * maYears},
	}
	ctl := New(Config{
		MaxTimesteps: 2000,
		Active_TotalMFP30TerminationRatio:     -1,
		Current_HistoricMFP33TerminationRatio: -1,
	})
	if err := ctl.Run(cell, nil); err != nil {
		tst.Fatal(err)
	}
	dip := cell.Sets[0].Mode1
	last := dip.Series.Last()
	if last.TotalMFP30 <= 0 {
		tst.Errorf("expected Total_MFP30 > 0, got %v", last.TotalMFP30)
	}
	if last.CumPhi >= 0.5 {
		tst.Errorf("expected final cumPhi < 0.5, got %v", last.CumPhi)
	}
	if dip.Stage() == timestep.Growing {
		tst.Errorf("expected the set's own stress shadow to have slowed growth by the end of the run, still Growing")
	}
}

// S4: an 18 Ma uplift episode raises a cell's depth by UpliftRate*Duration
// regardless of the extensional and overpressure episodes bracketing it;
// §4.4 step 1's depth accounting only runs for finite-duration episodes,
// so the rate is cumulative across the whole run, not reset per episode.
func Test_scenario_S4_uplift_then_injection_depth(tst *testing.T) {
	chk.PrintTitle("scenario_S4_uplift_then_injection_depth")
	cell := newTestCell(1)
	cell.MeanInitialDepth = 2000
	for _, s := range cell.Sets {
		for _, d := range s.DipSets() {
			d.Params.MaxTimestepDuration = 1e16
		}
	}
	cell.Episodes = []*grid.DeformationEpisode{
		{EhminRate: -0.01 / maYears, Duration: 1 * maYears},
		{UpliftRate: 100 / maYears, Duration: 18 * maYears},
		{OverpressureRate: 1e6 / maYears, StressArchingFactor: 1, Duration: 1e-5 * maYears},
	}
	ctl := New(Config{
		MaxTimesteps: 10,
		Active_TotalMFP30TerminationRatio:     -1,
		Current_HistoricMFP33TerminationRatio: -1,
	})
	if err := ctl.Run(cell, nil); err != nil {
		tst.Fatal(err)
	}
	got := cell.CurrentDepth()
	want := 3800.0
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		tst.Errorf("expected CurrentDepth()=%v after 18 Ma of uplift at 100 m/Ma, got %v", want, got)
	}
}

// S2: two orthogonal sets under isotropic strain accumulate equal
// density and interact more strongly than either would alone.
func Test_scenario_S2_orthogonal_sets_isotropic_strain(tst *testing.T) {
	chk.PrintTitle("scenario_S2_orthogonal_sets_isotropic_strain")
	cell := newTestCell(2)
	cell.Episodes = []*grid.DeformationEpisode{
		{EhminRate: -0.005 / maYears, EhmaxRate: -0.005 / maYears, Duration: 5 * maYears},
	}
	ctl := New(Config{
		MaxTimesteps: 200,
		Active_TotalMFP30TerminationRatio:     -1,
		Current_HistoricMFP33TerminationRatio: -1,
	})
	if err := ctl.Run(cell, nil); err != nil {
		tst.Fatal(err)
	}
	m0 := cell.Sets[0].Mode1.Series.Last().TotalMFP30
	m1 := cell.Sets[1].Mode1.Series.Last().TotalMFP30
	if m0 <= 0 || m1 <= 0 {
		tst.Fatalf("expected both sets to accumulate density, got %v and %v", m0, m1)
	}
	diff := math.Abs(m0-m1) / math.Max(m0, m1)
	if diff > 0.01 {
		tst.Errorf("expected Total_MFP30 to match within 1%%, got relative diff %v", diff)
	}

	geoms := fracture.BuildGeometries(cell.Sets, false)
	perSet, thetaAll, _ := fracture.InteractAllSets(cell.Sets, geoms)
	if thetaAll <= 0 {
		tst.Errorf("expected cross-set theta_allFS > 0 with non-zero shadow widths, got %v", thetaAll)
	}
	for i, p := range perSet {
		if p.FIIContribution <= 0 {
			tst.Errorf("expected set %d to receive a cross-set shadow contribution, got %v", i, p.FIIContribution)
		}
	}
}
