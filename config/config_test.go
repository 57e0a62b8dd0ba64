// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_config_parses_basic_keys(tst *testing.T) {
	chk.PrintTitle("config_parses_basic_keys")
	dir := tst.TempDir()
	path := filepath.Join(dir, "cfg.txt")
	body := `% comment line
GridRows 2
GridCols 3
CellSizeX 15
CellSizeY 15
YoungsModulus 2.5e10
Episode
EhminRate -1e-16
EpisodeDuration 5e6
MaxTimesteps 200
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		tst.Fatal(err)
	}
	d, err := ReadConfig(path)
	if err != nil {
		tst.Fatal(err)
	}
	if d.GridRows != 2 || d.GridCols != 3 {
		tst.Errorf("grid dims not parsed: %+v", d)
	}
	if d.CellSizeX != 15 || d.CellSizeY != 15 {
		tst.Errorf("cell size not parsed")
	}
	if d.DefaultProps.YoungsModulus != 2.5e10 {
		tst.Errorf("YoungsModulus not parsed")
	}
	if len(d.Episodes) != 1 || d.Episodes[0].EhminRate != -1e-16 {
		tst.Errorf("episode not parsed: %+v", d.Episodes)
	}
	if d.Controller.MaxTimesteps != 200 {
		tst.Errorf("MaxTimesteps not parsed")
	}
}

func Test_config_gridblock_override(tst *testing.T) {
	chk.PrintTitle("config_gridblock_override")
	dir := tst.TempDir()
	path := filepath.Join(dir, "cfg.txt")
	body := `GridRows 1
GridCols 1
Gridblock 0 0
YoungsModulus 9e10
PoissonsRatio NA
End Gridblock
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		tst.Fatal(err)
	}
	d, err := ReadConfig(path)
	if err != nil {
		tst.Fatal(err)
	}
	if len(d.Overrides) != 1 {
		tst.Fatalf("expected one override, got %d", len(d.Overrides))
	}
	ov := d.Overrides[0]
	if !ov.Set["YoungsModulus"] || ov.Props.YoungsModulus != 9e10 {
		tst.Errorf("override YoungsModulus not applied: %+v", ov)
	}
	if ov.Set["PoissonsRatio"] {
		tst.Errorf("NA token should not mark PoissonsRatio as set")
	}
}

func Test_config_unterminated_gridblock_errors(tst *testing.T) {
	chk.PrintTitle("config_unterminated_gridblock_errors")
	dir := tst.TempDir()
	path := filepath.Join(dir, "cfg.txt")
	body := "Gridblock 0 0\nYoungsModulus 1e10\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		tst.Fatal(err)
	}
	if _, err := ReadConfig(path); err == nil {
		tst.Errorf("expected error for unterminated Gridblock")
	}
}

func Test_config_generate_template(tst *testing.T) {
	chk.PrintTitle("config_generate_template")
	dir := tst.TempDir()
	path := filepath.Join(dir, "template.txt")
	if err := GenerateTemplate(path); err != nil {
		tst.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		tst.Errorf("template file not written: %v", err)
	}
	if _, err := ReadConfig(path); err != nil {
		tst.Errorf("generated template should itself parse cleanly: %v", err)
	}
}
