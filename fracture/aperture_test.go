// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracture

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

func Test_aperture_uniform(tst *testing.T) {
	chk.PrintTitle("aperture_uniform")
	m, err := NewApertureModel("uniform")
	if err != nil {
		tst.Fatal(err)
	}
	if err := m.Init(fun.Prms{&fun.Prm{N: "e0", V: 2e-4}}); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "e0", 1e-15, m.ComputeAperture(10, 1e7), 2e-4)
}

func Test_aperture_unknown_model(tst *testing.T) {
	chk.PrintTitle("aperture_unknown_model")
	if _, err := NewApertureModel("nonsense"); err == nil {
		tst.Errorf("expected error for unknown aperture model")
	}
}

func Test_aperture_bartonbandis_closes_with_stress(tst *testing.T) {
	chk.PrintTitle("aperture_bartonbandis_closes_with_stress")
	m, err := NewApertureModel("bartonbandis")
	if err != nil {
		tst.Fatal(err)
	}
	prms := m.GetPrms()
	if err := m.Init(prms); err != nil {
		tst.Fatal(err)
	}
	initStress := prms.Find("initnormalstress").V
	e0 := m.ComputeAperture(0, initStress)
	e1 := m.ComputeAperture(0, initStress*10)
	if e1 >= e0 {
		tst.Errorf("expected aperture to shrink under higher normal stress: e0=%v e1=%v", e0, e1)
	}
}
