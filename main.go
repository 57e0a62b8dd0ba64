// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/dorivalpedroso/dfmgen/config"
	"github.com/dorivalpedroso/dfmgen/engine"
)

const defaultConfigFile = "DFMGenerator_configuration.txt"

func main() {
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	root := &cobra.Command{
		Use:   "dfmgen [configuration-file]",
		Short: "Implicit fracture model and discrete fracture network generator",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGenerator,
	}
	if err := root.Execute(); err != nil {
		chk.Panic("%v", err)
	}
}

func runGenerator(cmd *cobra.Command, args []string) error {
	io.PfWhite("\nDFMGenerator -- implicit fracture model and DFN generator\n\n")
	io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
	io.Pf("Use of this source code is governed by a BSD-style\n")
	io.Pf("license that can be found in the LICENSE file.\n\n")

	cfgPath := defaultConfigFile
	if len(args) > 0 {
		cfgPath = args[0]
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		io.Pfyel("configuration file %q not found; writing a commented template there\n", cfgPath)
		if err := config.GenerateTemplate(cfgPath); err != nil {
			return err
		}
		os.Exit(1)
	}

	dirOut := strings.TrimSuffix(cfgPath, filepath.Ext(cfgPath)) + "_output"
	if err := os.MkdirAll(dirOut, 0755); err != nil {
		return chk.Err("cannot create output directory %q: %v\n", dirOut, err)
	}

	io.Pf("reading configuration from %q\n", cfgPath)
	eng, err := engine.Start(cfgPath, dirOut)
	if err != nil {
		return err
	}

	io.Pf("running %d cells into %q\n", len(eng.Grid.Cells), dirOut)
	if err := eng.Run(); err != nil {
		return err
	}

	io.PfGreen("done\n")
	return nil
}
