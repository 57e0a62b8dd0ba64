// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracture

import "math"

// ShadowGeometry holds the azimuthal and shear stress-shadow width
// components between two sets, plus the anisotropy cutoff beyond which
// the isotropic (sum-of-widths) approximation is used instead of the
// anisotropic kernel (§4.7).
type ShadowGeometry struct {
	Waz       float64 // azimuthal stress-shadow width component
	Wss       float64 // shear stress-shadow width component
	Anisotropy float64

	AnisotropyCutoff float64

	// CheckAllSets: whether microfractures of set i are also killed by
	// shadows from set j != i. "Automatic" resolves to NoFractureSets>2
	// at the call site (controller), so this field is a plain bool here.
	CheckAllSets bool
}

// MeanWidth returns W_ij = Waz·cos²(Δθ) + Wss·sin²(Δθ), the mean
// stress-shadow width between two sets separated by azimuth Δθ.
func (g ShadowGeometry) MeanWidth(deltaTheta float64) float64 {
	c2 := cos2(deltaTheta)
	return g.Waz*c2 + g.Wss*(1-c2)
}

// ExclusionVolume returns the exclusion-zone volume for a pair of sets.
// When |anisotropy| exceeds AnisotropyCutoff the isotropic
// (sum-of-widths) approximation is used in place of the anisotropic
// kernel, matching the fallback described in §4.7.
func (g ShadowGeometry) ExclusionVolume(deltaTheta, density1, density2 float64) float64 {
	w := g.MeanWidth(deltaTheta)
	if math.Abs(g.Anisotropy) > g.AnisotropyCutoff {
		return (g.Waz + g.Wss) * (density1 + density2)
	}
	return w * (density1 + density2)
}

// PairInteraction is the outcome of combining two sets' shadow geometry
// into the cross-set termination contributions used by DipSet.Step's
// FIIFromOthers/FIJFromOthers inputs.
type PairInteraction struct {
	FIIContribution float64
	FIJContribution float64
}

// InteractAllSets folds the pairwise shadow/exclusion geometry between
// every pair of sets in a cell into a per-set cross-termination
// contribution, plus the combined θ_allFS / θ'_allFS inverse volumes
// (§4.4 step 3, §4.7). CheckAlluFStressShadows resolves to
// NoFractureSets>2 when automatic is requested by the caller.
func InteractAllSets(sets []*Set, geometries map[[2]int]ShadowGeometry) (perSet []PairInteraction, thetaAllFS, thetaPrimeAllFS float64) {
	n := len(sets)
	perSet = make([]PairInteraction, n)
	for i := 0; i < n; i++ {
		di := activeDensity(sets[i])
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dj := activeDensity(sets[j])
			g, ok := geometries[[2]int{i, j}]
			if !ok {
				g, ok = geometries[[2]int{j, i}]
			}
			if !ok {
				continue
			}
			delta := sets[i].Azimuth - sets[j].Azimuth
			w := g.MeanWidth(delta)
			perSet[i].FIIContribution += w * dj
			if g.CheckAllSets {
				perSet[i].FIJContribution += g.ExclusionVolume(delta, di, dj) - w*dj
			}
			thetaAllFS += w
			thetaPrimeAllFS += g.ExclusionVolume(delta, di, dj)
		}
	}
	return
}

// BuildGeometries derives the pairwise ShadowGeometry map for every
// (i,j) pair of sets in a cell, averaging each set's own shadow-width
// contribution. checkAllSetsAutomatic, when true, resolves CheckAllSets
// to len(sets) > 2 per §4.7's "Automatic ⇔ NoFractureSets > 2" rule.
func BuildGeometries(sets []*Set, checkAllSetsAutomatic bool) map[[2]int]ShadowGeometry {
	out := make(map[[2]int]ShadowGeometry, len(sets)*len(sets))
	auto := checkAllSetsAutomatic && len(sets) > 2
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			gi, gj := sets[i].ShadowGeometry(), sets[j].ShadowGeometry()
			check := gi.CheckAllSets || gj.CheckAllSets || auto
			out[[2]int{i, j}] = ShadowGeometry{
				Waz:              (gi.Waz + gj.Waz) / 2,
				Wss:              (gi.Wss + gj.Wss) / 2,
				Anisotropy:       (gi.Anisotropy + gj.Anisotropy) / 2,
				AnisotropyCutoff: math.Min(gi.AnisotropyCutoff, gj.AnisotropyCutoff),
				CheckAllSets:     check,
			}
		}
	}
	return out
}

func activeDensity(s *Set) float64 {
	total := 0.0
	for _, d := range s.DipSets() {
		total += d.Series.Last().AMFP30
	}
	return total
}

// ActiveDensity returns a set's own active MFP30, summed across its dip
// sets. Exported for the controller's own-shadow term (§4.2 step 5),
// distinct from the cross-set contributions InteractAllSets computes.
func ActiveDensity(s *Set) float64 {
	return activeDensity(s)
}

// SelfShadow returns the inverse stress-shadow volume (theta) and
// inverse exclusion-zone volume (theta') a set's own, already-active
// population imposes on its own newly propagating fractures (Δθ=0 in
// §4.7's W_ij formula collapses to W_az).
func (s *Set) SelfShadow() (theta, thetaPrime float64) {
	g := s.ShadowGeometry()
	d := ActiveDensity(s)
	return g.MeanWidth(0) * d, g.ExclusionVolume(0, d, 0)
}
