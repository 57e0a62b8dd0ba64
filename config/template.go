// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"

	"github.com/cpmech/gosl/io"
)

// GenerateTemplate writes a fully commented configuration file at path
// using Default's values, for the CLI's "input file missing" behaviour
// (§6).
func GenerateTemplate(path string) error {
	var buf bytes.Buffer
	buf.WriteString(templateBody(Default()))
	io.WriteFile(path, &buf)
	return nil
}

func templateBody(d *Data) string {
	return io.Sf(`%% DFMGenerator configuration template.
%% Lines starting with %% are comments. Each key takes one or more
%% space-separated values. Edit the values below and re-run.

GridRows  %d
GridCols  %d
CellSizeX %g
CellSizeY %g
InitialDepth %g
MeanThickness %g
TimeUnit  ma

NoFractureSets %d
GeometryValidation lenient

%% Initial stress/strain state; InitialStressRelaxation -1 computes the
%% critical Mohr-Coulomb value from PoissonsRatio and FrictionCoefficient.
EffectiveVerticalStress %g
FluidPressure            %g
GeothermalGradient       %g
InitialStressRelaxation  %g

YoungsModulus                %g
PoissonsRatio                %g
Porosity                     %g
BiotCoefficient              %g
ThermalExpansion             %g
CrackSurfaceEnergy           %g
FrictionCoefficient          %g
InitialMicrofractureDensityB %g
SizeExponentC                %g
SubcriticalPropagationIndex  %g
CriticalPropagationRate      %g
RelaxationTimeConstant1      %g
RelaxationTimeConstant2      %g
ShadowWidthAz                %g
ShadowWidthSS                %g
Anisotropy                   %g
AnisotropyCutoff             %g

%% Episode defines one deformation increment; repeat as needed.
Episode
EhminRate            0.0
EhmaxRate            0.0
OverpressureRate     0.0
TemperatureRate      0.0
UpliftRate           0.0
StressArchingFactor  0.0
MinStrainAzimuth     0.0
EpisodeDuration      1.0

MaxTimesteps %d
MaxTimestepMFP33Increase %g
CheckAllStressShadows automatic
ActiveTotalMFP30TerminationRatio     %g
CurrentHistoricMFP33TerminationRatio %g
MinimumClearZoneVolume               %g

WriteImplicitDataFiles true
WriteDFNFiles          false
DFNFormat              ascii
GenerateExplicitDFN    false

SeedDensityRate                      %g
ProbabilisticFractureNucleationLimit %g
MaxConsistencyAngle                  %g
LinkStressShadows                    false
CropAtBoundary                       true
MinExplicitMicrofractureRadius       %g
DFNTimestepDuration                  %g
DFNNumTimesteps                      %d
DFNMasterSeed                        %d

%% Per-cell overrides:
%% Gridblock <col> <row>
%%   YoungsModulus 2e10
%% End Gridblock

%% Spatially-varying arrays and pillar geometry load via:
%% Include overrides.txt
`,
		d.GridRows, d.GridCols, d.CellSizeX, d.CellSizeY, d.InitialDepth, d.MeanThickness,
		d.NoFractureSets,
		d.InitialState.EffectiveVerticalStress, d.InitialState.FluidPressure,
		d.InitialState.GeothermalGradient, d.InitialState.InitialStressRelaxation,
		d.DefaultProps.YoungsModulus, d.DefaultProps.PoissonsRatio, d.DefaultProps.Porosity,
		d.DefaultProps.BiotCoefficient, d.DefaultProps.ThermalExpansion, d.DefaultProps.CrackSurfaceEnergy,
		d.DefaultProps.FrictionCoefficient, d.DefaultProps.InitialMicrofractureDensityB,
		d.DefaultProps.SizeExponentC, d.DefaultProps.SubcriticalPropagationIndex,
		d.DefaultProps.CriticalPropagationRate, d.DefaultProps.RelaxationTimeConstant1,
		d.DefaultProps.RelaxationTimeConstant2,
		d.DefaultProps.ShadowWidthAz, d.DefaultProps.ShadowWidthSS,
		d.DefaultProps.Anisotropy, d.DefaultProps.AnisotropyCutoff,
		d.Controller.MaxTimesteps, d.Controller.MaxTimestepMFP33Increase,
		d.Controller.Active_TotalMFP30TerminationRatio,
		d.Controller.Current_HistoricMFP33TerminationRatio, d.Controller.MinimumClearZoneVolume,
		d.DFN.SeedDensityRate, d.DFN.ProbabilisticFractureNucleationLimit, d.DFN.MaxConsistencyAngle,
		d.DFN.MinExplicitMicrofractureRadius, d.DFN.TimestepDuration, d.DFN.NumTimesteps, d.DFN.MasterSeed,
	)
}
