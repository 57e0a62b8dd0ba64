// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rng provides deterministic, per-cell random streams.
//
// A single master seed must reproduce a whole cell-parallel run bit for
// bit, even though cells draw samples concurrently from independent
// goroutines. math/rand's *rand.Rand is not safe for concurrent use, so
// each cell is handed its own stream derived from the master seed by
// mixing in a stream id (the DFN builder uses stream id 0). The mixing
// function is SplitMix64, chosen for its strong avalanche properties
// with small, cheap state (Vigna 2014).
package rng

import (
	"math"
	"math/rand"

	"github.com/cpmech/gosl/rnd"
)

// DeriveSeed mixes a parent seed and a stream identifier into a new
// 64-bit seed using a SplitMix64-style finalizer.
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// Stream wraps an independent deterministic generator. Streams must
// never be shared across goroutines; derive one per cell (and, if
// needed, one per dip set inside a cell) from a common master seed.
type Stream struct {
	r *rand.Rand
}

// NewStream builds a stream for the given parent seed and stream id.
func NewStream(parent int64, stream uint64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(DeriveSeed(parent, stream)))}
}

// Float64 returns a uniform deviate in [lo, hi).
func (s *Stream) Float64(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// Uniform01 returns a uniform deviate in [0, 1).
func (s *Stream) Uniform01() float64 {
	return s.r.Float64()
}

// Intn returns a uniform integer in [0, n).
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// Poisson draws from a Poisson distribution with the given mean using
// Knuth's 1969 product-of-uniforms algorithm. Adequate for the small
// means (a handful of nucleation events per cell per timestep) this
// package is used for; not intended for large λ.
func (s *Stream) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= s.r.Float64()
		if p <= l {
			return k - 1
		}
	}
}

// MasterSeeds deterministically derives n per-cell seeds from a single
// master seed. Uses gosl/rnd (a single global generator, adequate here
// because the table is built once, serially, before any cell-parallel
// work begins) to produce the raw draws, then folds each one, XORed
// with the master seed, through DeriveSeed together with its index.
// The resulting seeds therefore depend on gosl/rnd's draw sequence.
func MasterSeeds(master int64, n int) []int64 {
	rnd.Init(int(master))
	seeds := make([]int64, n)
	for i := 0; i < n; i++ {
		draw := int64(rnd.Int(0, math.MaxInt32))
		seeds[i] = DeriveSeed(master^draw, uint64(i))
	}
	return seeds
}
