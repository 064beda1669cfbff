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

	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	cliUtils "github.com/Fantom-foundation/DecisionTable/go/dt/driver/cli"
	"github.com/Fantom-foundation/DecisionTable/go/dt/gen"
)

var CasesCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doCases,
	Name:      "cases",
	Usage:     "Prints the test cases derived from the rules of a table",
	ArgsUsage: "<table>",
})

func doCases(context *cli.Context) error {
	_, table, err := cliUtils.LoadTable(context)
	if err != nil {
		return err
	}

	count := 0
	_, err = gen.ForEachCase(table, func(testCase gen.TestCase) common.ConsumerResult {
		fmt.Printf("rule %d: %v\n", testCase.RuleIdx, testCase)
		count++
		return common.ConsumeContinue
	})
	if err != nil {
		return err
	}
	fmt.Printf("%d test cases\n", count)
	return nil
}
