// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracture

import (
	"github.com/cpmech/gosl/chk"

	"github.com/dorivalpedroso/dfmgen/timestep"
)

// Set groups the dip sets sharing an azimuth (C4); it owns orientation,
// aperture control, and cross-dipset tie-breaking between the Mode-1
// (dilatant) and Mode-2 (shear) dip sets.
type Set struct {
	Azimuth float64 // radians, clockwise from north

	Mode1 *DipSet // dilatant
	Mode2 *DipSet // shear; nil when the caller forces a single mode

	ForcedMode  Mode
	SingleMode  bool // true => only the ForcedMode dip set is active
	Mode1Thresh float64 // Pa; Mode-1 activation threshold
	Mode2Thresh float64 // Pa; Mode-2 activation threshold

	hminAperture ApertureModel
	hmaxAperture ApertureModel
	minStrainAzimuth float64

	// shadow/exclusion geometry parameters (§4.7)
	WidthAz          float64 // azimuthal stress-shadow width component
	WidthSS          float64 // shear stress-shadow width component
	Anisotropy       float64
	AnisotropyCutoff float64
	CheckAllSets     bool // kill own microfractures using other sets' shadows too
}

// ShadowGeometry builds this set's contribution to a pairwise
// interaction with another set.
func (s *Set) ShadowGeometry() ShadowGeometry {
	return ShadowGeometry{
		Waz:              s.WidthAz,
		Wss:              s.WidthSS,
		Anisotropy:       s.Anisotropy,
		AnisotropyCutoff: s.AnisotropyCutoff,
		CheckAllSets:     s.CheckAllSets,
	}
}

// NewSet builds a fracture set at the given azimuth, with both dip
// sets. Pass singleMode=true to restrict the set to one mode.
func NewSet(azimuth float64, mode1, mode2 Params, singleMode bool, forced Mode, hminAp, hmaxAp ApertureModel) *Set {
	s := &Set{
		Azimuth:      azimuth,
		Mode1:        NewDipSet(Mode1Dilatant, mode1),
		SingleMode:   singleMode,
		ForcedMode:   forced,
		hminAperture: hminAp,
		hmaxAperture: hmaxAp,
	}
	if !singleMode || forced == Mode2Shear {
		s.Mode2 = NewDipSet(Mode2Shear, mode2)
	}
	if singleMode && forced == Mode1Dilatant {
		s.Mode2 = nil
	}
	return s
}

// ActiveDipSet selects which dip set accumulates this timestep's
// displacement, comparing each dip set's current driving stress against
// its mode threshold, unless a single mode is forced (§4.3).
func (s *Set) ActiveDipSet(drivingStress1, drivingStress2 float64) (*DipSet, error) {
	if s.SingleMode {
		if s.ForcedMode == Mode1Dilatant {
			return s.Mode1, nil
		}
		if s.Mode2 == nil {
			return nil, chk.Err("fracture: set forced to Mode2 but Mode2 dip set is nil")
		}
		return s.Mode2, nil
	}
	if s.Mode2 == nil {
		return s.Mode1, nil
	}
	m1Active := drivingStress1 >= s.Mode1Thresh
	m2Active := drivingStress2 >= s.Mode2Thresh
	switch {
	case m1Active && !m2Active:
		return s.Mode1, nil
	case m2Active && !m1Active:
		return s.Mode2, nil
	case m1Active && m2Active:
		if drivingStress1 >= drivingStress2 {
			return s.Mode1, nil
		}
		return s.Mode2, nil
	default:
		return s.Mode1, nil
	}
}

// Aperture returns the orientation-blended aperture of this set for a
// fracture of the given length under the given effective normal stress
// (§4.3).
func (s *Set) Aperture(length, normalStress float64) float64 {
	delta := s.Azimuth - s.minStrainAzimuth
	return blendAperture(s.hminAperture, s.hmaxAperture, length, normalStress, delta)
}

// SetMinStrainAzimuth records the episode's minimum-strain azimuth, used
// to blend the hmin/hmax aperture settings for non-principal azimuths.
func (s *Set) SetMinStrainAzimuth(az float64) {
	s.minStrainAzimuth = az
}

// DipSets returns every allocated dip set (Mode2 may be absent).
func (s *Set) DipSets() []*DipSet {
	if s.Mode2 == nil {
		return []*DipSet{s.Mode1}
	}
	return []*DipSet{s.Mode1, s.Mode2}
}

// AllDeactivated reports whether every dip set in this fracture set has
// reached the Deactivated stage.
func (s *Set) AllDeactivated() bool {
	for _, d := range s.DipSets() {
		if d.Stage() != timestep.Deactivated {
			return false
		}
	}
	return true
}
