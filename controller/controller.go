// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package controller implements the per-cell outer timestep loop (C6):
// selects the timestep length, invokes every fracture set's dip sets,
// enforces termination criteria, and records outputs at the configured
// snapshot points.
package controller

import (
	"github.com/cpmech/gosl/utl"

	"github.com/dorivalpedroso/dfmgen/fracture"
	"github.com/dorivalpedroso/dfmgen/grid"
)

// SnapshotMode selects when intermediate densities are captured (§4.4
// step 4).
type SnapshotMode int

const (
	ByElapsedTime SnapshotMode = iota
	ByCumulativeArea
	AtEpisodeEnd
)

// Config holds the cell-level calculation controls (§6 "calculation
// controls").
type Config struct {
	MaxTimesteps int

	CheckAllSetsAutomatic bool // CheckAlluFStressShadows == Automatic

	// MaxTimestepMFP33Increase bounds the per-timestep MFP33 growth
	// (§4.4 step 3); propagated to every dip set's Params.
	MaxTimestepMFP33Increase float64

	Current_HistoricMFP33TerminationRatio float64 // < 0 disables
	Active_TotalMFP30TerminationRatio     float64 // < 0 disables
	MinimumClearZoneVolume                float64

	Snapshot         SnapshotMode
	SnapshotInterval float64 // time or area units depending on Snapshot

	// CellWidth/CellHeight are the grid's planar cell dimensions (m),
	// used by ByCumulativeArea snapshotting (§4.4 step 4). Zero means
	// "not wired up"; cellArea then falls back to a unit cell.
	CellWidth, CellHeight float64
}

// Snapshot is a captured intermediate density record for one set.
type Snapshot struct {
	Time       float64
	SetIndex   int
	TotalMFP30 float64
	MFP32      float64
	MFP33      float64
}

// CancelFunc reports whether the run has been asked to stop, per §5's
// cooperative cancellation model.
type CancelFunc func() bool

// Controller drives one cell's implicit calculation forward through
// every deformation episode.
type Controller struct {
	Config     Config
	Snapshots  []Snapshot
	cumulativeArea float64
	elapsedSinceSnapshot float64
}

// New builds a controller with the given calculation controls.
func New(cfg Config) *Controller {
	return &Controller{Config: cfg}
}

// Run drives cell through every deformation episode in order, stopping
// early if cancel reports true between timesteps (§5).
func (c *Controller) Run(cell *grid.Cell, cancel CancelFunc) error {
	if cancel == nil {
		cancel = func() bool { return false }
	}
	time := 0.0
	for _, ep := range cell.Episodes {
		if cancel() {
			return nil
		}
		var err error
		time, err = c.runEpisode(cell, ep, time, cancel)
		if err != nil {
			return err
		}
		if c.Config.Snapshot == AtEpisodeEnd {
			c.recordSnapshot(cell, time)
		}
	}
	return nil
}

func (c *Controller) runEpisode(cell *grid.Cell, ep *grid.DeformationEpisode, startTime float64, cancel CancelFunc) (float64, error) {
	if len(cell.Sets) == 0 {
		return startTime, nil
	}
	for _, s := range cell.Sets {
		s.SetMinStrainAzimuth(ep.MinStrainAzimuth)
	}

	elapsed := 0.0
	time := startTime
	peakMFP33 := 0.0

	for step := 0; ; step++ {
		if step >= c.Config.MaxTimesteps {
			break
		}
		if cancel() {
			break
		}
		if ep.Duration >= 0 && elapsed >= ep.Duration {
			break
		}

		dt := c.selectDuration(cell, ep)
		if ep.Duration >= 0 && elapsed+dt > ep.Duration {
			dt = ep.Duration - elapsed
		}
		if dt <= 0 {
			break
		}

		if err := c.advanceOneTimestep(cell, ep, time, dt); err != nil {
			return time, err
		}

		elapsed += dt
		time += dt
		if ep.Duration < 0 {
			// uplift not counted for indefinite-duration episodes (§4.4 step 1)
		} else {
			cell.State.CumulativeDepthChange += ep.UpliftRate * dt
		}

		totalMFP33 := cellTotalMFP33(cell)
		peakMFP33 = utl.Max(peakMFP33, totalMFP33)

		c.maybeSnapshot(cell, time, dt)

		if allDeactivated(cell) {
			break
		}
		if c.Config.Active_TotalMFP30TerminationRatio >= 0 && ratioBelow(cell, c.Config.Active_TotalMFP30TerminationRatio) {
			break
		}
		if c.Config.Current_HistoricMFP33TerminationRatio >= 0 && peakMFP33 > 0 &&
			totalMFP33/peakMFP33 < c.Config.Current_HistoricMFP33TerminationRatio {
			break
		}
		if c.Config.MinimumClearZoneVolume > 0 && clearZoneVolume(cell) < c.Config.MinimumClearZoneVolume {
			break
		}
	}
	return time, nil
}

// selectDuration picks the smallest optimum duration across every dip
// set in the cell, so no set's MFP33 increase budget is exceeded
// (§4.2 step 3).
func (c *Controller) selectDuration(cell *grid.Cell, ep *grid.DeformationEpisode) float64 {
	dt := 0.0
	first := true
	for _, s := range cell.Sets {
		for _, d := range s.DipSets() {
			last := d.Series.Last()
			rate := last.MFP32
			candidate := d.OptimumDuration(rate + 1e-30)
			if first || candidate < dt {
				dt = candidate
				first = false
			}
		}
	}
	if first {
		return 0
	}
	return dt
}

// advanceOneTimestep runs §4.4 step 3: every set produces a candidate
// record, then the cross-set θ_allFS/θ'_allFS correction is computed
// and propagated back with a one-shot rollback via ReplaceLast.
func (c *Controller) advanceOneTimestep(cell *grid.Cell, ep *grid.DeformationEpisode, time, dt float64) error {
	sigmaBase := (cell.State.EffectiveVerticalStress)*(1-ep.StressArchingFactor) + ep.OverpressureRate*time

	for _, s := range cell.Sets {
		thetaOwn, thetaPrimeOwn := s.SelfShadow()
		for _, d := range s.DipSets() {
			in := fracture.StepInput{
				Time:                  time,
				DrivingStressConst:    sigmaBase,
				DrivingStressRate:     ep.EhminRate*cell.Props.YoungsModulus + ep.TemperatureRate*cell.Props.ThermalExpansion*cell.Props.YoungsModulus,
				EffNormalStressStart:  cell.State.EffectiveVerticalStress,
				EffNormalStressEnd:    cell.State.EffectiveVerticalStress + ep.OverpressureRate*dt,
				ThetaOwn:              thetaOwn,
				ThetaPrimeOwn:         thetaPrimeOwn,
				Duration:              dt,
			}
			if _, err := d.Step(in); err != nil {
				return err
			}
		}
	}

	// cross-set correction pass (one-shot rollback)
	geoms := fracture.BuildGeometries(cell.Sets, c.Config.CheckAllSetsAutomatic)
	interactions, thetaAll, thetaPrimeAll := fracture.InteractAllSets(cell.Sets, geoms)
	for i, s := range cell.Sets {
		if i >= len(interactions) {
			continue
		}
		for _, d := range s.DipSets() {
			last := d.Series.Last()
			corrected := last
			corrected.FII += interactions[i].FIIContribution
			corrected.FIJ += interactions[i].FIJContribution
			corrected.F = corrected.FII + corrected.FIJ
			corrected.ThetaAllSets = thetaAll
			corrected.ThetaPrimeAllSet = thetaPrimeAll
			d.Series.ReplaceLast(corrected)
		}
	}
	return nil
}

func (c *Controller) maybeSnapshot(cell *grid.Cell, time, dt float64) {
	switch c.Config.Snapshot {
	case ByElapsedTime:
		if c.Config.SnapshotInterval <= 0 {
			return
		}
		c.elapsedSinceSnapshot += dt
		if c.elapsedSinceSnapshot < c.Config.SnapshotInterval {
			return
		}
		c.elapsedSinceSnapshot = 0
		c.recordSnapshot(cell, time)
	case ByCumulativeArea:
		area := c.cellArea() * dt
		c.cumulativeArea += area
		if c.Config.SnapshotInterval <= 0 || c.cumulativeArea < c.Config.SnapshotInterval {
			return
		}
		c.cumulativeArea = 0
		c.recordSnapshot(cell, time)
	case AtEpisodeEnd:
		// recorded by Run at each episode boundary; no per-timestep action
	}
}

func (c *Controller) recordSnapshot(cell *grid.Cell, time float64) {
	for i, s := range cell.Sets {
		for _, d := range s.DipSets() {
			last := d.Series.Last()
			c.Snapshots = append(c.Snapshots, Snapshot{
				Time: time, SetIndex: i,
				TotalMFP30: last.TotalMFP30, MFP32: last.MFP32, MFP33: last.MFP33,
			})
		}
	}
}

func cellTotalMFP33(cell *grid.Cell) float64 {
	sum := 0.0
	for _, s := range cell.Sets {
		for _, d := range s.DipSets() {
			sum += d.Series.Last().MFP33
		}
	}
	return sum
}

func allDeactivated(cell *grid.Cell) bool {
	if len(cell.Sets) == 0 {
		return false
	}
	for _, s := range cell.Sets {
		if !s.AllDeactivated() {
			return false
		}
	}
	return true
}

func ratioBelow(cell *grid.Cell, ratio float64) bool {
	active, total := 0.0, 0.0
	for _, s := range cell.Sets {
		for _, d := range s.DipSets() {
			last := d.Series.Last()
			active += last.AMFP30
			total += last.TotalMFP30
		}
	}
	if total <= 0 {
		return false
	}
	return active/total < ratio
}

func clearZoneVolume(cell *grid.Cell) float64 {
	geoms := fracture.BuildGeometries(cell.Sets, false)
	_, _, thetaPrimeAll := fracture.InteractAllSets(cell.Sets, geoms)
	vol := cell.Volume(1, 1)
	if vol <= 0 {
		vol = 1
	}
	clear := vol - thetaPrimeAll
	if clear < 0 {
		return 0
	}
	return clear
}

// cellArea returns the cell's planar footprint for ByCumulativeArea
// snapshotting, taken from the grid's cell dimensions when the caller
// has wired them into Config; unset (zero) dimensions fall back to a
// unit cell so callers that only care about ByElapsedTime/AtEpisodeEnd
// need not set them.
func (c *Controller) cellArea() float64 {
	w, h := c.Config.CellWidth, c.Config.CellHeight
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w * h
}
