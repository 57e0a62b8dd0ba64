// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// S5: the critical initial stress relaxation matches the closed-form
// Mohr-Coulomb expression symbolically, not just numerically for one
// sample point.
func Test_scenario_S5_critical_initial_stress(tst *testing.T) {
	chk.PrintTitle("scenario_S5_critical_initial_stress")
	for _, tc := range []struct{ nu, mu float64 }{
		{0.25, 0.6}, {0.3, 0.8}, {0.2, 0.4}, {0.35, 1.0},
	} {
		got := CriticalInitialStressRelaxation(tc.nu, tc.mu)
		phi := math.Atan(tc.mu)
		sinPhi := math.Sin(phi)
		want := ((1-tc.nu)*(1-sinPhi)/(1+sinPhi) - tc.nu) / (1 - 2*tc.nu)
		chk.Scalar(tst, "relaxation", 1e-14, got, want)
	}
}
