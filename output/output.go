// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package output writes per-cell implicit result tables and the
// explicit DFN geometry files described in spec.md §6 and §9, using
// the same buffer-then-io.WriteFile pattern the teacher's vtu/log
// writers use.
package output

import (
	"bytes"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/dorivalpedroso/dfmgen/dfn"
	"github.com/dorivalpedroso/dfmgen/grid"
	"github.com/dorivalpedroso/dfmgen/timestep"
)

// ImplicitDataKeys lists the per-timestep columns written for every
// dip set, in column order.
var ImplicitDataKeys = []string{
	"time", "totalMFP30", "aMFP30", "sIIMFP30", "sIJMFP30",
	"MFP32", "MFP33", "stage",
}

// WriteCellImplicitData writes one tabular text file per cell summarizing
// every fracture set's timestep series, mirroring the column-header
// plus rows-of-%g convention the teacher's printing routines use for
// plain-text summaries.
func WriteCellImplicitData(path string, cell *grid.Cell) error {
	var buf bytes.Buffer
	buf.WriteString(io.Sf("%% cell row=%d col=%d thickness=%g initialDepth=%g currentDepth=%g\n", cell.Row, cell.Col, cell.MeanThickness, cell.MeanInitialDepth, cell.CurrentDepth()))
	for si, s := range cell.Sets {
		for di, d := range s.DipSets() {
			buf.WriteString(io.Sf("%% set=%d dipset=%d azimuth=%g mode=%d\n", si, di, s.Azimuth, d.Mode))
			buf.WriteString(writeHeader(ImplicitDataKeys))
			for n := 0; n <= d.Series.N(); n++ {
				rec, err := d.Series.At(n)
				if err != nil {
					return err
				}
				buf.WriteString(recordRow(rec))
			}
		}
	}
	if cell.Props.YoungsModulus > 0 {
		writeComplianceBlock(&buf, cell.Props)
	}
	io.WriteFile(path, &buf)
	return nil
}

func writeHeader(keys []string) string {
	var buf bytes.Buffer
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(k)
	}
	buf.WriteString("\n")
	return buf.String()
}

func recordRow(r timestep.Record) string {
	return io.Sf("%g %g %g %g %g %g %g %d\n",
		r.StartTime, r.TotalMFP30, r.AMFP30, r.SIIMFP30, r.SIJMFP30,
		r.MFP32, r.MFP33, int(r.Stage))
}

// writeComplianceBlock appends the isotropic elastic compliance tensor
// (Voigt form) computed via gosl/la, for consumers that couple the
// implicit density fields back into a stress analysis. The stiffness
// tensor is not written.
func writeComplianceBlock(buf *bytes.Buffer, p grid.Properties) {
	E, nu := p.YoungsModulus, p.PoissonsRatio
	compliance := la.MatAlloc(6, 6)
	lam := 1.0 / E
	off := -nu / E
	shear := 2 * (1 + nu) / E
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				compliance[i][j] = lam
			} else {
				compliance[i][j] = off
			}
		}
		compliance[i+3][i+3] = shear
	}
	buf.WriteString("% elastic compliance (Voigt)\n")
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if j > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(io.Sf("%g", compliance[i][j]))
		}
		buf.WriteString("\n")
	}
}

// WriteDFNAscii writes macrofracture segments and microfractures as a
// plain-text point/attribute listing (§6 ASCII DFN format).
func WriteDFNAscii(path string, b *dfn.Builder) error {
	var buf bytes.Buffer
	buf.WriteString(io.Sf("%% segments=%d microfractures=%d\n", len(b.Segments), len(b.Microfractures)))
	buf.WriteString("% row col set x1 y1 z1 x2 y2 z2 tip\n")
	for _, seg := range b.Segments {
		buf.WriteString(io.Sf("%d %d %d %g %g %g %g %g %g %d\n",
			seg.CellRow, seg.CellCol, seg.SetIndex,
			seg.P1.X, seg.P1.Y, seg.P1.Z, seg.P2.X, seg.P2.Y, seg.P2.Z, int(seg.Tip)))
	}
	buf.WriteString("% row col cx cy cz radius\n")
	for _, m := range b.Microfractures {
		buf.WriteString(io.Sf("%d %d %g %g %g %g\n", m.CellRow, m.CellCol, m.Center.X, m.Center.Y, m.Center.Z, m.Radius))
	}
	io.WriteFile(path, &buf)
	return nil
}

// WriteDFNFab writes a best-effort FAB-format rendition: one POLYLINE
// block per macrofracture segment and one POLYGON block per
// microfracture disk, using the property-list layout FAB readers
// generally expect. Petrel-specific metadata sections (tessellation
// hints, fault-seal attributes) are not reproduced since no reference
// FAB sample was available to ground them against.
func WriteDFNFab(path string, b *dfn.Builder) error {
	var buf bytes.Buffer
	buf.WriteString("BEGIN HEADER\n")
	buf.WriteString("PROPERTIES aperture set\n")
	buf.WriteString("END HEADER\n")
	for i, seg := range b.Segments {
		buf.WriteString(io.Sf("BEGIN POLYLINE %d\n", i))
		buf.WriteString(io.Sf("%g %g %g\n", seg.P1.X, seg.P1.Y, seg.P1.Z))
		buf.WriteString(io.Sf("%g %g %g\n", seg.P2.X, seg.P2.Y, seg.P2.Z))
		buf.WriteString("END POLYLINE\n")
	}
	for i, m := range b.Microfractures {
		buf.WriteString(io.Sf("BEGIN POLYGON %d\n", i))
		for _, p := range m.Polygon {
			buf.WriteString(io.Sf("%g %g %g\n", p.X, p.Y, p.Z))
		}
		buf.WriteString("END POLYGON\n")
	}
	io.WriteFile(path, &buf)
	return nil
}
