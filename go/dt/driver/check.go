// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	cliUtils "github.com/Fantom-foundation/DecisionTable/go/dt/driver/cli"
	"github.com/Fantom-foundation/DecisionTable/go/dt/vld"
)

var CheckCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doCheck,
	Name:      "check",
	Usage:     "Checks a decision table for completeness and consistency",
	ArgsUsage: "<table>",
	Flags: []cli.Flag{
		cliUtils.StrictFlag,
	},
})

func doCheck(context *cli.Context) error {
	_, table, err := cliUtils.LoadTable(context)
	if err != nil {
		return err
	}
	strict := cliUtils.StrictFlag.Fetch(context)

	diagnostics := vld.Validate(table)
	for _, diagnostic := range diagnostics {
		fmt.Println(diagnostic)
	}
	if vld.IsSound(diagnostics) {
		fmt.Printf("Table %q passes all checks\n", table.Name)
		return nil
	}
	fmt.Printf("Found %d problems in table %q\n", len(diagnostics), table.Name)

	if strict {
		_, err := vld.ValidateOrFail(table)
		return err
	}
	if vld.HasFatal(diagnostics) {
		return fmt.Errorf("table %q is structurally invalid", table.Name)
	}
	return nil
}
