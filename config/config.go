// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/dorivalpedroso/dfmgen/grid"
)

// ReadConfig parses the line-oriented configuration grammar of §6:
// '%' starts a comment, blank lines are skipped, every other line is
// "KEY value [value ...]", and a "Gridblock C R" ... "End Gridblock"
// pair delimits a per-cell override block. Include directives are
// resolved relative to path's directory.
func ReadConfig(path string) (*Data, error) {
	lines, err := readLogicalLines(path)
	if err != nil {
		return nil, err
	}
	d := Default()
	dir := filepath.Dir(path)

	var block *GridblockOverride
	for _, ln := range lines {
		key, rest := splitKey(ln)
		switch {
		case block != nil && key == "End" && strings.HasPrefix(rest, "Gridblock"):
			d.Overrides = append(d.Overrides, block)
			block = nil
		case key == "Gridblock":
			c, r, err := parseTwoInts(rest)
			if err != nil {
				return nil, err
			}
			block = &GridblockOverride{Row: r, Col: c, Set: map[string]bool{}}
		case key == "Include":
			inc := strings.TrimSpace(rest)
			if err := applyInclude(d, filepath.Join(dir, inc)); err != nil {
				return nil, err
			}
		case block != nil:
			if err := applyOverrideKey(block, key, rest); err != nil {
				return nil, err
			}
		default:
			if err := applyKey(d, key, rest); err != nil {
				return nil, err
			}
		}
	}
	if block != nil {
		return nil, chk.Err("unterminated Gridblock at row=%d col=%d\n", block.Row, block.Col)
	}
	return d, nil
}

// readLogicalLines reads path, stripping '%' comments and blank lines.
func readLogicalLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("cannot open configuration file: %v\n", err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := sc.Text()
		if i := strings.IndexByte(ln, '%'); i >= 0 {
			ln = ln[:i]
		}
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		lines = append(lines, ln)
	}
	if err := sc.Err(); err != nil {
		return nil, chk.Err("error reading configuration file: %v\n", err)
	}
	return lines, nil
}

func splitKey(ln string) (key, rest string) {
	fields := strings.Fields(ln)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.TrimSpace(strings.TrimPrefix(ln, fields[0]))
}

func parseTwoInts(rest string) (a, b int, err error) {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return 0, 0, chk.Err("Gridblock requires two integers: %q\n", rest)
	}
	a, erra := strconv.Atoi(fields[0])
	b, errb := strconv.Atoi(fields[1])
	if erra != nil || errb != nil {
		return 0, 0, chk.Err("invalid Gridblock indices: %q\n", rest)
	}
	return a, b, nil
}

// atof parses a bare numeric token. gosl/io's Atof expects an
// "extra" string of "key=value" pairs (see fem/keycodes.go); this
// grammar has no '=' tokens, so strconv is used directly here.
func atof(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func atob(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}

func isNA(s string) bool {
	return strings.EqualFold(s, "NA")
}

// applyKey applies one top-level "KEY value..." line to d.
func applyKey(d *Data, key, rest string) error {
	f := strings.Fields(rest)
	switch key {
	case "GridRows":
		return setInt(&d.GridRows, f)
	case "GridCols":
		return setInt(&d.GridCols, f)
	case "CellSizeX":
		return setFloat(&d.CellSizeX, f)
	case "CellSizeY":
		return setFloat(&d.CellSizeY, f)
	case "InitialDepth":
		d.OverwriteDepth = true
		return setFloat(&d.InitialDepth, f)
	case "MeanThickness":
		return setFloat(&d.MeanThickness, f)
	case "TimeUnit":
		if len(f) == 0 {
			return chk.Err("TimeUnit requires a value\n")
		}
		switch strings.ToLower(f[0]) {
		case "ma":
			d.TimeUnit = Ma
		case "year":
			d.TimeUnit = Year
		case "second":
			d.TimeUnit = Second
		default:
			return chk.Err("unknown TimeUnit: %q\n", f[0])
		}
	case "NoFractureSets":
		return setInt(&d.NoFractureSets, f)
	case "EffectiveVerticalStress":
		return setFloat(&d.InitialState.EffectiveVerticalStress, f)
	case "FluidPressure":
		return setFloat(&d.InitialState.FluidPressure, f)
	case "GeothermalGradient":
		return setFloat(&d.InitialState.GeothermalGradient, f)
	case "InitialStressRelaxation":
		return setFloat(&d.InitialState.InitialStressRelaxation, f)
	case "ApertureModel":
		if len(f) > 0 {
			d.ApertureModel = f[0]
		}
	case "GeometryValidation":
		if len(f) > 0 && strings.EqualFold(f[0], "strict") {
			d.GeometryValidation = grid.Strict
		}
	case "WriteImplicitDataFiles":
		d.Output.WriteImplicitDataFiles = len(f) > 0 && atob(f[0])
	case "WriteDFNFiles":
		d.Output.WriteDFNFiles = len(f) > 0 && atob(f[0])
	case "DFNFormat":
		if len(f) > 0 && strings.EqualFold(f[0], "fab") {
			d.Output.DFNFormat = FAB
		}
	case "GenerateExplicitDFN":
		d.GenerateExplicitDFN = len(f) > 0 && atob(f[0])
	case "MaxTimesteps":
		return setInt(&d.Controller.MaxTimesteps, f)
	case "MaxTimestepMFP33Increase":
		return setFloat(&d.Controller.MaxTimestepMFP33Increase, f)
	case "CheckAllStressShadows":
		if len(f) > 0 {
			d.Controller.CheckAllSetsAutomatic = strings.EqualFold(f[0], "automatic")
		}
	case "ActiveTotalMFP30TerminationRatio":
		return setFloat(&d.Controller.Active_TotalMFP30TerminationRatio, f)
	case "CurrentHistoricMFP33TerminationRatio":
		return setFloat(&d.Controller.Current_HistoricMFP33TerminationRatio, f)
	case "MinimumClearZoneVolume":
		return setFloat(&d.Controller.MinimumClearZoneVolume, f)
	case "SeedDensityRate":
		return setFloat(&d.DFN.SeedDensityRate, f)
	case "ProbabilisticFractureNucleationLimit":
		return setFloat(&d.DFN.ProbabilisticFractureNucleationLimit, f)
	case "MaxConsistencyAngle":
		return setFloat(&d.DFN.MaxConsistencyAngle, f)
	case "LinkStressShadows":
		d.DFN.LinkStressShadows = len(f) > 0 && atob(f[0])
	case "CropAtBoundary":
		d.DFN.CropAtBoundary = len(f) > 0 && atob(f[0])
	case "MinExplicitMicrofractureRadius":
		return setFloat(&d.DFN.MinExplicitMicrofractureRadius, f)
	case "DFNTimestepDuration":
		return setFloat(&d.DFN.TimestepDuration, f)
	case "DFNNumTimesteps":
		return setInt(&d.DFN.NumTimesteps, f)
	case "DFNMasterSeed":
		var s int
		if err := setInt(&s, f); err != nil {
			return err
		}
		d.DFN.MasterSeed = int64(s)
	case "Episode":
		d.Episodes = append(d.Episodes, &grid.DeformationEpisode{})
	case "EhminRate":
		return setFloatOnLastEpisode(d, f, func(e *grid.DeformationEpisode, v float64) { e.EhminRate = v })
	case "EhmaxRate":
		return setFloatOnLastEpisode(d, f, func(e *grid.DeformationEpisode, v float64) { e.EhmaxRate = v })
	case "OverpressureRate":
		return setFloatOnLastEpisode(d, f, func(e *grid.DeformationEpisode, v float64) { e.OverpressureRate = v })
	case "TemperatureRate":
		return setFloatOnLastEpisode(d, f, func(e *grid.DeformationEpisode, v float64) { e.TemperatureRate = v })
	case "UpliftRate":
		return setFloatOnLastEpisode(d, f, func(e *grid.DeformationEpisode, v float64) { e.UpliftRate = v })
	case "StressArchingFactor":
		return setFloatOnLastEpisode(d, f, func(e *grid.DeformationEpisode, v float64) { e.StressArchingFactor = v })
	case "MinStrainAzimuth":
		return setFloatOnLastEpisode(d, f, func(e *grid.DeformationEpisode, v float64) { e.MinStrainAzimuth = v })
	case "EpisodeDuration":
		return setFloatOnLastEpisode(d, f, func(e *grid.DeformationEpisode, v float64) { e.Duration = v * d.TimeUnit.Seconds() })
	default:
		return applyPropertyKey(&d.DefaultProps, key, f)
	}
	return nil
}

func applyPropertyKey(p *grid.Properties, key string, f []string) error {
	switch key {
	case "YoungsModulus":
		return setFloat(&p.YoungsModulus, f)
	case "PoissonsRatio":
		return setFloat(&p.PoissonsRatio, f)
	case "Porosity":
		return setFloat(&p.Porosity, f)
	case "BiotCoefficient":
		return setFloat(&p.BiotCoefficient, f)
	case "ThermalExpansion":
		return setFloat(&p.ThermalExpansion, f)
	case "CrackSurfaceEnergy":
		return setFloat(&p.CrackSurfaceEnergy, f)
	case "FrictionCoefficient":
		return setFloat(&p.FrictionCoefficient, f)
	case "InitialMicrofractureDensityB":
		return setFloat(&p.InitialMicrofractureDensityB, f)
	case "SizeExponentC":
		return setFloat(&p.SizeExponentC, f)
	case "SubcriticalPropagationIndex":
		return setFloat(&p.SubcriticalPropagationIndex, f)
	case "CriticalPropagationRate":
		return setFloat(&p.CriticalPropagationRate, f)
	case "RelaxationTimeConstant1":
		return setFloat(&p.RelaxationTimeConstant1, f)
	case "RelaxationTimeConstant2":
		return setFloat(&p.RelaxationTimeConstant2, f)
	case "ShadowWidthAz":
		return setFloat(&p.ShadowWidthAz, f)
	case "ShadowWidthSS":
		return setFloat(&p.ShadowWidthSS, f)
	case "Anisotropy":
		return setFloat(&p.Anisotropy, f)
	case "AnisotropyCutoff":
		return setFloat(&p.AnisotropyCutoff, f)
	default:
		return chk.Err("unknown configuration key: %q\n", key)
	}
}

func applyOverrideKey(b *GridblockOverride, key, rest string) error {
	f := strings.Fields(rest)
	if len(f) > 0 && isNA(f[0]) {
		return nil // retain default (§6)
	}
	if err := applyPropertyKey(&b.Props, key, f); err != nil {
		return err
	}
	b.Set[key] = true
	return nil
}

func setInt(dst *int, f []string) error {
	if len(f) == 0 {
		return chk.Err("missing integer value\n")
	}
	v, err := strconv.Atoi(f[0])
	if err != nil {
		return chk.Err("invalid integer %q: %v\n", f[0], err)
	}
	*dst = v
	return nil
}

func setFloat(dst *float64, f []string) error {
	if len(f) == 0 {
		return chk.Err("missing numeric value\n")
	}
	v, err := atof(f[0])
	if err != nil {
		return chk.Err("invalid number %q: %v\n", f[0], err)
	}
	*dst = v
	return nil
}

func setFloatOnLastEpisode(d *Data, f []string, apply func(*grid.DeformationEpisode, float64)) error {
	if len(d.Episodes) == 0 {
		d.Episodes = append(d.Episodes, &grid.DeformationEpisode{})
	}
	if len(f) == 0 {
		return chk.Err("missing numeric value\n")
	}
	v, err := atof(f[0])
	if err != nil {
		return chk.Err("invalid number %q: %v\n", f[0], err)
	}
	apply(d.Episodes[len(d.Episodes)-1], v)
	return nil
}

// applyInclude reads a "#KEY" / "#KEY [episode_index]" block file and a
// "#Geometry" pillar array (§6).
func applyInclude(d *Data, path string) error {
	lines, err := readLogicalLines(path)
	if err != nil {
		return err
	}
	var header string
	var rows [][]float64
	flush := func() error {
		if header == "" {
			return nil
		}
		return applyIncludeBlock(d, header, rows)
	}
	for _, ln := range lines {
		if strings.HasPrefix(ln, "#") {
			if err := flush(); err != nil {
				return err
			}
			header = strings.TrimSpace(ln[1:])
			rows = nil
			continue
		}
		var row []float64
		for _, tok := range strings.Fields(ln) {
			v, err := atof(tok)
			if err != nil {
				return chk.Err("invalid value %q in include file %s: %v\n", tok, path, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return flush()
}

func applyIncludeBlock(d *Data, header string, rows [][]float64) error {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return nil
	}
	name := fields[0]
	if name == "Geometry" {
		d.Pillars = rows
		return nil
	}
	episode := -1
	if len(fields) > 1 {
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return chk.Err("invalid episode index %q\n", fields[1])
		}
		episode = n
	}
	return applyIncludeArray(d, name, episode, rows)
}

// applyIncludeArray stores a row-major, per-cell value array for
// property name as per-cell overrides. When episode is non-negative only
// the episode index is checked against the episode list; the values are
// not applied to any episode or cell.
// Only a handful of property keys carry spatial variation in practice;
// any other key without an episode index is rejected rather than
// silently ignored.
func applyIncludeArray(d *Data, name string, episode int, rows [][]float64) error {
	if episode < 0 {
		switch name {
		case "YoungsModulus", "PoissonsRatio", "Porosity", "BiotCoefficient",
			"ThermalExpansion", "CrackSurfaceEnergy", "FrictionCoefficient",
			"InitialMicrofractureDensityB", "SizeExponentC",
			"SubcriticalPropagationIndex", "CriticalPropagationRate",
			"RelaxationTimeConstant1", "RelaxationTimeConstant2",
			"ShadowWidthAz", "ShadowWidthSS", "Anisotropy", "AnisotropyCutoff":
			for r, row := range rows {
				for c, v := range row {
					ov := findOrCreateOverride(d, r, c)
					if err := applyPropertyKey(&ov.Props, name, []string{fmt.Sprint(v)}); err != nil {
						return err
					}
					ov.Set[name] = true
				}
			}
			return nil
		}
		return chk.Err("unsupported Include array key: %q\n", name)
	}
	// per-episode spatial arrays are accepted but, absent a per-cell
	// episode list in Data, their values are discarded; only the
	// episode index is validated.
	if episode >= len(d.Episodes) {
		return chk.Err("episode index %d out of range (have %d)\n", episode, len(d.Episodes))
	}
	return nil
}

func findOrCreateOverride(d *Data, row, col int) *GridblockOverride {
	for _, ov := range d.Overrides {
		if ov.Row == row && ov.Col == col {
			return ov
		}
	}
	ov := &GridblockOverride{Row: row, Col: col, Set: map[string]bool{}}
	d.Overrides = append(d.Overrides, ov)
	return ov
}
