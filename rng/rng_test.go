// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rng

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_rng_derive_seed_deterministic(tst *testing.T) {
	chk.PrintTitle("rng_derive_seed_deterministic")
	a := DeriveSeed(42, 7)
	b := DeriveSeed(42, 7)
	if a != b {
		tst.Errorf("DeriveSeed not deterministic: %d != %d", a, b)
	}
	c := DeriveSeed(42, 8)
	if a == c {
		tst.Errorf("DeriveSeed should differ across stream ids")
	}
}

func Test_rng_master_seeds_reproducible(tst *testing.T) {
	chk.PrintTitle("rng_master_seeds_reproducible")
	s1 := MasterSeeds(99, 10)
	s2 := MasterSeeds(99, 10)
	for i := range s1 {
		if s1[i] != s2[i] {
			tst.Errorf("MasterSeeds not reproducible at index %d", i)
		}
	}
}

func Test_rng_poisson_zero_lambda(tst *testing.T) {
	chk.PrintTitle("rng_poisson_zero_lambda")
	s := NewStream(1, 0)
	for i := 0; i < 10; i++ {
		if k := s.Poisson(0); k != 0 {
			tst.Errorf("expected 0 draws for lambda=0, got %d", k)
		}
	}
}

func Test_rng_poisson_mean(tst *testing.T) {
	chk.PrintTitle("rng_poisson_mean")
	s := NewStream(123, 0)
	lambda := 4.0
	const trials = 20000
	sum := 0
	for i := 0; i < trials; i++ {
		sum += s.Poisson(lambda)
	}
	mean := float64(sum) / trials
	sigma := math.Sqrt(lambda / trials)
	if math.Abs(mean-lambda) > 4*sigma {
		tst.Errorf("sample mean %v too far from lambda %v (sigma=%v)", mean, lambda, sigma)
	}
}
