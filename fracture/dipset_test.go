// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracture

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func testParams() Params {
	return Params{
		A:                   1e-20,
		SubcriticalIndex:    3,
		Kc:                  2e6,
		MeanPropagationRate: 1e-9,

		MaxTimestepMFP33Increase: 1e-3,
		MaxTimestepDuration:      1e10,

		HistoricMFP33TerminationRatio: 0.01,
	}
}

func Test_dipset_conservation(tst *testing.T) {
	chk.PrintTitle("dipset_conservation")
	d := NewDipSet(Mode1Dilatant, testParams())

	in := StepInput{
		Time:                  0,
		DrivingStressConst:    5e6,
		DrivingStressRate:     1e3,
		EffNormalStressStart:  1e7,
		EffNormalStressEnd:    1.01e7,
		ThetaOwn:              1e-3,
		ThetaPrimeOwn:         1e-3,
		FIIFromOthers:         0,
		FIJFromOthers:         0,
		Duration:              1e6,
	}
	for i := 0; i < 20; i++ {
		rec, err := d.Step(in)
		if err != nil {
			tst.Fatal(err)
		}
		sum := rec.AMFP30 + rec.SIIMFP30 + rec.SIJMFP30
		tol := 1e-9 * math.Max(rec.TotalMFP30, 1e-30)
		if math.Abs(sum-rec.TotalMFP30) > tol+1e-18 {
			tst.Errorf("conservation violated at step %d: a+sII+sIJ=%v total=%v", i, sum, rec.TotalMFP30)
		}
		in.Time += in.Duration
	}
}

func Test_dipset_zero_driving_stress_below_rounding_error(tst *testing.T) {
	chk.PrintTitle("dipset_zero_driving_stress_below_rounding_error")
	d := NewDipSet(Mode1Dilatant, testParams())
	// a prior driving stress of 1e7 Pa ratchets the rounding error to 1e-5
	d.Series.UpdateMaxDrivingStressRoundingError(1e7)
	in := StepInput{
		DrivingStressConst: 1e-20,
		DrivingStressRate:  0,
		Duration:           1,
	}
	rec, err := d.Step(in)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "microGrowthIncrement", 1e-20, rec.MicroGrowthIncrement, 0)
}
