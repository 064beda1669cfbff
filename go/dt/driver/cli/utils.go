// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/DecisionTable/go/dt/ldr"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

var commonFlags = []cli.Flag{
	CpuProfileFlag,
}

// AddCommonFlags extends the given command by flags shared by all commands
// and wraps its action to honor them.
func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {

		if cpuprofileFilename := CpuProfileFlag.Fetch(ctx); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}

// LoadTable loads the table document named by the first argument of the
// command.
func LoadTable(context *cli.Context) (string, tbl.Table, error) {
	if context.Args().Len() < 1 {
		return "", tbl.Table{}, fmt.Errorf("missing required path to table document")
	}
	path := context.Args().Get(0)
	table, err := ldr.Load(path)
	if err != nil {
		return "", tbl.Table{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return path, table, nil
}
