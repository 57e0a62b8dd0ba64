// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracture

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// ApertureModel defines the interface for fracture aperture models: a
// tagged variant {Uniform, SizeDependent, Dynamic, BartonBandis} behind
// a single ComputeAperture entry point (§4.3, §9).
type ApertureModel interface {
	Init(prms fun.Prms) error
	GetPrms() fun.Prms
	ComputeAperture(length, normalStress float64) float64
}

// allocators holds all available aperture models; model name => allocator.
var allocators = map[string]func() ApertureModel{}

// NewApertureModel returns a new aperture model by name.
func NewApertureModel(name string) (ApertureModel, error) {
	allocator, ok := allocators[strings.ToLower(name)]
	if !ok {
		return nil, chk.Err("aperture: model %q is not available in the aperture model database", name)
	}
	return allocator(), nil
}

// UniformAperture assigns a constant aperture regardless of fracture
// size or normal stress.
type UniformAperture struct {
	e0 float64 // m
}

func init() {
	allocators["uniform"] = func() ApertureModel { return new(UniformAperture) }
}

func (o *UniformAperture) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "e0":
			o.e0 = p.V
		default:
			return chk.Err("uniform: parameter named %q is incorrect", p.N)
		}
	}
	return
}

func (o *UniformAperture) GetPrms() fun.Prms {
	return fun.Prms{&fun.Prm{N: "e0", V: 1e-4}}
}

func (o *UniformAperture) ComputeAperture(length, normalStress float64) float64 {
	return o.e0
}

// SizeDependentAperture scales aperture linearly with fracture length.
type SizeDependentAperture struct {
	alpha float64 // aperture/length ratio
}

func init() {
	allocators["sizedependent"] = func() ApertureModel { return new(SizeDependentAperture) }
}

func (o *SizeDependentAperture) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "alpha":
			o.alpha = p.V
		default:
			return chk.Err("sizedependent: parameter named %q is incorrect", p.N)
		}
	}
	return
}

func (o *SizeDependentAperture) GetPrms() fun.Prms {
	return fun.Prms{&fun.Prm{N: "alpha", V: 1e-4}}
}

func (o *SizeDependentAperture) ComputeAperture(length, normalStress float64) float64 {
	return o.alpha * length
}

// DynamicAperture scales aperture with the current driving stress state
// via a linear stress-sensitivity coefficient about a reference aperture.
type DynamicAperture struct {
	e0    float64 // reference aperture, m
	kappa float64 // Pa^-1; sensitivity to normal stress reduction
}

func init() {
	allocators["dynamic"] = func() ApertureModel { return new(DynamicAperture) }
}

func (o *DynamicAperture) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "e0":
			o.e0 = p.V
		case "kappa":
			o.kappa = p.V
		default:
			return chk.Err("dynamic: parameter named %q is incorrect", p.N)
		}
	}
	return
}

func (o *DynamicAperture) GetPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "e0", V: 1e-4},
		&fun.Prm{N: "kappa", V: 1e-9},
	}
}

func (o *DynamicAperture) ComputeAperture(length, normalStress float64) float64 {
	e := o.e0 - o.kappa*normalStress
	if e < 0 {
		return 0
	}
	return e
}

// BartonBandisAperture implements the Barton-Bandis joint closure model:
// aperture reduces from a maximum under increasing effective normal
// stress, controlled by JRC, UCSRatio, the initial normal stress, the
// fracture normal stiffness and the maximum closure.
type BartonBandisAperture struct {
	jrc              float64 // joint roughness coefficient
	ucsRatio         float64 // JCS/UCS ratio
	initNormalStress float64 // Pa
	stiffness        float64 // FractureNormalStiffness, Pa/m
	maxClosure       float64 // m
}

func init() {
	allocators["bartonbandis"] = func() ApertureModel { return new(BartonBandisAperture) }
}

func (o *BartonBandisAperture) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "jrc":
			o.jrc = p.V
		case "ucsratio":
			o.ucsRatio = p.V
		case "initnormalstress":
			o.initNormalStress = p.V
		case "stiffness":
			o.stiffness = p.V
		case "maxclosure":
			o.maxClosure = p.V
		default:
			return chk.Err("bartonbandis: parameter named %q is incorrect", p.N)
		}
	}
	return
}

func (o *BartonBandisAperture) GetPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "jrc", V: 10},
		&fun.Prm{N: "ucsratio", V: 0.5},
		&fun.Prm{N: "initnormalstress", V: 1e6},
		&fun.Prm{N: "stiffness", V: 1e10},
		&fun.Prm{N: "maxclosure", V: 1e-3},
	}
}

// ComputeAperture returns the hyperbolic Barton-Bandis closure:
// e = maxClosure · (Δσn/stiffness) / (1 + Δσn/(stiffness·maxClosure)),
// measured from an initial mechanical aperture proportional to JRC and
// the JCS/UCS ratio (length independent, per Barton & Bandis 1982/1990).
func (o *BartonBandisAperture) ComputeAperture(length, normalStress float64) float64 {
	e0 := o.jrc * o.ucsRatio * 1e-4
	dSigma := normalStress - o.initNormalStress
	if dSigma <= 0 {
		return e0
	}
	closure := o.maxClosure * (dSigma / o.stiffness) / (1 + dSigma/(o.stiffness*o.maxClosure))
	e := e0 - closure
	if e < 0 {
		return 0
	}
	return e
}

// blendAperture blends the hmin and hmax aperture settings by the angle
// between the set's azimuth and the minimum-strain azimuth, following
// the cos²/sin² anisotropic blend used throughout §4.3/§4.7.
func blendAperture(hminAperture, hmaxAperture ApertureModel, length, normalStress, deltaAzimuth float64) float64 {
	c := cos2(deltaAzimuth)
	s := 1 - c
	return c*hminAperture.ComputeAperture(length, normalStress) + s*hmaxAperture.ComputeAperture(length, normalStress)
}
