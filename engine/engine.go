// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package engine wires configuration, grid construction, the per-cell
// controller, the explicit DFN builder and the output writers into one
// run, mirroring the Main.Run orchestration of the finite element
// solver this module grew out of: cells advance independently and in
// parallel, while each cell's own timesteps run serially (§5).
package engine

import (
	"math"
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/dorivalpedroso/dfmgen/config"
	"github.com/dorivalpedroso/dfmgen/controller"
	"github.com/dorivalpedroso/dfmgen/dfn"
	"github.com/dorivalpedroso/dfmgen/fracture"
	"github.com/dorivalpedroso/dfmgen/grid"
	"github.com/dorivalpedroso/dfmgen/output"
	"github.com/dorivalpedroso/dfmgen/progress"
)

// Engine holds the data for one simulation run: configuration, the
// built grid, and a shared progress reporter.
type Engine struct {
	Data     *config.Data
	Grid     *grid.FractureGrid
	Reporter *progress.Reporter
	DirOut   string

	// NumWorkers bounds the cell-parallel goroutine pool; 0 uses
	// runtime.NumCPU().
	NumWorkers int
}

// Start builds the grid and applies gridblock overrides and includes
// from cfgPath, mirroring fem.NewMain's read-then-build sequence.
func Start(cfgPath, dirOut string) (*Engine, error) {
	d, err := config.ReadConfig(cfgPath)
	if err != nil {
		return nil, chk.Err("cannot read configuration: %v\n", err)
	}
	return StartWithData(d, dirOut)
}

// StartWithData builds an Engine from an already-parsed Data, for
// callers that construct configuration programmatically.
func StartWithData(d *config.Data, dirOut string) (*Engine, error) {
	g, err := grid.NewFractureGrid(d.GridRows, d.GridCols, d.CellSizeX, d.CellSizeY, d.GeometryValidation)
	if err != nil {
		return nil, chk.Err("cannot build grid: %v\n", err)
	}
	applyDefaults(g, d)
	applyOverrides(g, d)
	for _, cell := range g.Cells {
		cell.State = stressStateFor(d, cell.Props)
	}
	if err := g.Validate(); err != nil {
		return nil, chk.Err("grid validation failed: %v\n", err)
	}
	return &Engine{
		Data:     d,
		Grid:     g,
		Reporter: progress.New(len(g.Cells)),
		DirOut:   dirOut,
	}, nil
}

func applyDefaults(g *grid.FractureGrid, d *config.Data) {
	for _, cell := range g.Cells {
		cell.Props = d.DefaultProps
		cell.MeanThickness = d.MeanThickness
		cell.MeanInitialDepth = d.InitialDepth
		cell.Episodes = d.Episodes
		cell.Sets = newSetsForCell(d, cell.Props)
	}
}

// stressStateFor builds a cell's initial stress/strain state, resolving
// the InitialStressRelaxation=-1 sentinel to the critical Mohr-Coulomb
// value (§8 S5) derived from the cell's own Poisson's ratio and friction
// coefficient.
func stressStateFor(d *config.Data, props grid.Properties) grid.StressState {
	relax := d.InitialState.InitialStressRelaxation
	if relax < 0 {
		relax = grid.CriticalInitialStressRelaxation(props.PoissonsRatio, props.FrictionCoefficient)
	}
	return grid.StressState{
		EffectiveVerticalStress: d.InitialState.EffectiveVerticalStress,
		FluidPressure:           d.InitialState.FluidPressure,
		GeothermalGradient:      d.InitialState.GeothermalGradient,
		InitialStressRelaxation: relax,
	}
}

// newSetsForCell builds NoFractureSets azimuth-spread fracture sets
// from one cell's material properties, following the same constant
// mapping for every cell (per-cell property overrides are applied
// afterwards by applyOverrides and do not retroactively resize this
// slice).
func newSetsForCell(d *config.Data, props grid.Properties) []*fracture.Set {
	n := d.NoFractureSets
	if n <= 0 {
		return nil
	}
	params := fracture.Params{
		A:                   props.CrackSurfaceEnergy * 1e-22,
		SubcriticalIndex:    props.SubcriticalPropagationIndex,
		Kc:                  1e6 * math.Sqrt(1+props.CrackSurfaceEnergy),
		MeanPropagationRate: props.CriticalPropagationRate,
		MaxTimestepMFP33Increase: d.Controller.MaxTimestepMFP33Increase,
		MaxTimestepDuration: math.Max(props.RelaxationTimeConstant1, props.RelaxationTimeConstant2),
		HistoricMFP33TerminationRatio: d.Controller.Current_HistoricMFP33TerminationRatio,
	}
	sets := make([]*fracture.Set, n)
	for i := 0; i < n; i++ {
		azimuth := math.Pi * float64(i) / float64(n)
		hmin, err := fracture.NewApertureModel(d.ApertureModel)
		if err != nil {
			hmin, _ = fracture.NewApertureModel("uniform")
		}
		hmax, err := fracture.NewApertureModel(d.ApertureModel)
		if err != nil {
			hmax, _ = fracture.NewApertureModel("uniform")
		}
		hmin.Init(hmin.GetPrms())
		hmax.Init(hmax.GetPrms())
		set := fracture.NewSet(azimuth, params, params, true, fracture.Mode1Dilatant, hmin, hmax)
		set.WidthAz = props.ShadowWidthAz
		set.WidthSS = props.ShadowWidthSS
		set.Anisotropy = props.Anisotropy
		set.AnisotropyCutoff = props.AnisotropyCutoff
		set.CheckAllSets = d.Controller.CheckAllSetsAutomatic && n > 2
		sets[i] = set
	}
	return sets
}

func applyOverrides(g *grid.FractureGrid, d *config.Data) {
	for _, ov := range d.Overrides {
		cell := g.At(ov.Row, ov.Col)
		if cell == nil {
			continue
		}
		applyOneOverride(&cell.Props, &ov.Props, ov.Set)
	}
}

func applyOneOverride(dst, src *grid.Properties, set map[string]bool) {
	if set["YoungsModulus"] {
		dst.YoungsModulus = src.YoungsModulus
	}
	if set["PoissonsRatio"] {
		dst.PoissonsRatio = src.PoissonsRatio
	}
	if set["Porosity"] {
		dst.Porosity = src.Porosity
	}
	if set["BiotCoefficient"] {
		dst.BiotCoefficient = src.BiotCoefficient
	}
	if set["ThermalExpansion"] {
		dst.ThermalExpansion = src.ThermalExpansion
	}
	if set["CrackSurfaceEnergy"] {
		dst.CrackSurfaceEnergy = src.CrackSurfaceEnergy
	}
	if set["FrictionCoefficient"] {
		dst.FrictionCoefficient = src.FrictionCoefficient
	}
	if set["InitialMicrofractureDensityB"] {
		dst.InitialMicrofractureDensityB = src.InitialMicrofractureDensityB
	}
	if set["SizeExponentC"] {
		dst.SizeExponentC = src.SizeExponentC
	}
	if set["SubcriticalPropagationIndex"] {
		dst.SubcriticalPropagationIndex = src.SubcriticalPropagationIndex
	}
	if set["CriticalPropagationRate"] {
		dst.CriticalPropagationRate = src.CriticalPropagationRate
	}
	if set["RelaxationTimeConstant1"] {
		dst.RelaxationTimeConstant1 = src.RelaxationTimeConstant1
	}
	if set["RelaxationTimeConstant2"] {
		dst.RelaxationTimeConstant2 = src.RelaxationTimeConstant2
	}
	if set["ShadowWidthAz"] {
		dst.ShadowWidthAz = src.ShadowWidthAz
	}
	if set["ShadowWidthSS"] {
		dst.ShadowWidthSS = src.ShadowWidthSS
	}
	if set["Anisotropy"] {
		dst.Anisotropy = src.Anisotropy
	}
	if set["AnisotropyCutoff"] {
		dst.AnisotropyCutoff = src.AnisotropyCutoff
	}
}

// Run advances every cell's implicit calculation, optionally builds the
// explicit DFN, and writes the configured output files. Cells run
// concurrently over a bounded worker pool; Reporter.Cancel stops
// workers between cells.
func (e *Engine) Run() error {
	nw := e.NumWorkers
	if nw <= 0 {
		nw = runtime.NumCPU()
	}
	jobs := make(chan *grid.Cell)
	errs := make(chan error, len(e.Grid.Cells))

	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cell := range jobs {
				if e.Reporter.Cancelled() {
					continue
				}
				if err := e.runCell(cell); err != nil {
					errs <- err
				}
				e.Reporter.Step()
			}
		}()
	}
	for _, cell := range e.Grid.Cells {
		jobs <- cell
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		return err // first error wins; cell order is otherwise unspecified
	}
	return e.End()
}

// runCell executes the implicit controller for one cell and, if
// requested, writes its implicit data file. The explicit DFN is built
// for the whole grid in End.
func (e *Engine) runCell(cell *grid.Cell) error {
	ctlCfg := e.Data.Controller
	ctlCfg.CellWidth, ctlCfg.CellHeight = e.Grid.CellWidth, e.Grid.CellHeight
	ctl := controller.New(ctlCfg)
	cancel := func() bool { return e.Reporter.Cancelled() }
	if err := ctl.Run(cell, cancel); err != nil {
		return chk.Err("cell (%d,%d) failed: %v\n", cell.Row, cell.Col, err)
	}
	if e.Data.Output.WriteImplicitDataFiles && e.DirOut != "" {
		path := io.Sf("%s/cell_%d_%d.txt", e.DirOut, cell.Row, cell.Col)
		if err := output.WriteCellImplicitData(path, cell); err != nil {
			return err
		}
	}
	return nil
}

// End builds the explicit DFN over the whole grid (once every cell has
// an implicit series) and writes it, completing the run.
func (e *Engine) End() error {
	if !e.Data.GenerateExplicitDFN {
		return nil
	}
	b := dfn.NewBuilder(e.Grid, e.Data.DFN)
	if err := b.Build(); err != nil {
		return chk.Err("DFN construction failed: %v\n", err)
	}
	if !e.Data.Output.WriteDFNFiles || e.DirOut == "" {
		return nil
	}
	switch e.Data.Output.DFNFormat {
	case config.FAB:
		return output.WriteDFNFab(io.Sf("%s/dfn.fab", e.DirOut), b)
	default:
		return output.WriteDFNAscii(io.Sf("%s/dfn.txt", e.DirOut), b)
	}
}
