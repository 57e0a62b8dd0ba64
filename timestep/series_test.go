// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timestep

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func buildGrowingSeries(n int) *Series {
	s := NewSeries(Record{})
	cumHL, cumGamma, cumPhi := 0.0, 0.0, 1.0
	totalMFP30, totalMFP32 := 0.0, 0.0
	for i := 1; i <= n; i++ {
		dt := 1.0
		cumHL += 0.1 * dt
		cumGamma += 0.05 * dt
		phi := 0.98
		cumPhi *= phi
		totalMFP30 += 0.2
		totalMFP32 += 0.3
		s.Append(Record{
			StartTime:     float64(i - 1),
			Duration:      dt,
			CumHalfLength: cumHL,
			CumGamma:      cumGamma,
			Survival:      phi,
			CumPhi:        cumPhi,
			AMFP30:        totalMFP30,
			TotalMFP30:    totalMFP30,
			MFP32:         totalMFP32,
		})
	}
	return s
}

func Test_series_cumulative_half_length_consistency(tst *testing.T) {
	chk.PrintTitle("series_cumulative_half_length_consistency")
	s := buildGrowingSeries(10)
	for m := 0; m <= s.N(); m++ {
		for n := m; n <= s.N(); n++ {
			direct, err := s.CumulativeHalfLength(n)
			if err != nil {
				tst.Fatal(err)
			}
			base, err := s.CumulativeHalfLength(m)
			if err != nil {
				tst.Fatal(err)
			}
			between, err := s.CumulativeHalfLengthBetween(n, m)
			if err != nil {
				tst.Fatal(err)
			}
			chk.Scalar(tst, "cumHL(n)-cumHL(m) == cumHL(n,m)", 1e-14, direct-base, between)
		}
	}
}

func Test_series_monotone_growth(tst *testing.T) {
	chk.PrintTitle("series_monotone_growth")
	s := buildGrowingSeries(10)
	for n := 1; n <= s.N(); n++ {
		prev, _ := s.At(n - 1)
		curr, _ := s.At(n)
		if curr.CumGamma < prev.CumGamma {
			tst.Errorf("cumGamma decreased at n=%d", n)
		}
		if curr.CumHalfLength < prev.CumHalfLength {
			tst.Errorf("cumHalfLength decreased at n=%d", n)
		}
		if curr.TotalMFP30 < prev.TotalMFP30 {
			tst.Errorf("TotalMFP30 decreased at n=%d", n)
		}
		if curr.MFP32 < prev.MFP32 {
			tst.Errorf("MFP32 decreased at n=%d", n)
		}
	}
}

func Test_series_survival_bounds(tst *testing.T) {
	chk.PrintTitle("series_survival_bounds")
	s := buildGrowingSeries(10)
	for n := 1; n <= s.N(); n++ {
		prev, _ := s.At(n - 1)
		curr, _ := s.At(n)
		if n > 0 && curr.CumPhi > prev.CumPhi+1e-14 {
			tst.Errorf("cumPhi increased at n=%d", n)
		}
		for m := 0; m <= n; m++ {
			p, err := s.CumulativePhi(n, m)
			if err != nil {
				tst.Fatal(err)
			}
			if p < -1e-14 || p > 1+1e-14 {
				tst.Errorf("cumulativePhi(%d,%d)=%v out of [0,1]", n, m, p)
			}
		}
	}
}

func Test_series_rollback_idempotence(tst *testing.T) {
	chk.PrintTitle("series_rollback_idempotence")
	s1 := buildGrowingSeries(5)
	s2 := buildGrowingSeries(5)

	replacement := Record{CumHalfLength: 99, CumGamma: 99}
	s1.ReplaceLast(replacement)
	a := s1.Last()

	s2.Append(replacement)
	b, err := s2.At(s2.N() - 1)
	if err != nil {
		tst.Fatal(err)
	}
	_ = b
	c := s2.Last()

	chk.Scalar(tst, "cumHalfLength", 1e-14, a.CumHalfLength, c.CumHalfLength)
	chk.Scalar(tst, "cumGamma", 1e-14, a.CumGamma, c.CumGamma)
	if s1.N() != 5 {
		tst.Errorf("ReplaceLast must not change N; got %d", s1.N())
	}
}

func Test_series_rounding_error_monotone(tst *testing.T) {
	chk.PrintTitle("series_rounding_error_monotone")
	s := NewSeries(Record{})
	stresses := []float64{1e6, -5e6, 2e6, 9e6, 0, -1e5}
	prev := 0.0
	for _, sig := range stresses {
		s.UpdateMaxDrivingStressRoundingError(sig)
		curr := s.MaxRoundingError()
		if curr < prev {
			tst.Errorf("maxRoundingError decreased: prev=%v curr=%v", prev, curr)
		}
		prev = curr
	}
}

func Test_series_cumHGamma(tst *testing.T) {
	chk.PrintTitle("series_cumHGamma")
	s := NewSeries(Record{})
	s.Append(Record{CumGamma: 3.0})

	v, err := s.CumHGamma(1, 4.0, 2.0)
	if err != nil {
		tst.Fatal(err)
	}
	// b==2 branch: h_factor = ln(h/2)
	// h=4 => ln(2)
	chk.Scalar(tst, "cumHGamma b=2", 1e-12, v, 3.0+0.6931471805599453)
}
