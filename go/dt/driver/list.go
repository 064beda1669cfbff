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
	"regexp"

	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	cliUtils "github.com/Fantom-foundation/DecisionTable/go/dt/driver/cli"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

var ListCmd = cli.Command{
	Action:    doList,
	Name:      "list",
	Usage:     "Lists all rules of a table",
	ArgsUsage: "<table>",
	Flags: []cli.Flag{
		cliUtils.FilterFlag,
	},
}

func doList(context *cli.Context) error {
	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}
	_, table, err := cliUtils.LoadTable(context)
	if err != nil {
		return err
	}

	for _, i := range filterRules(table.Rules, filter) {
		fmt.Printf("%3d %s: %s\n", i, table.Rules[i].Action, table.Rules[i].Rule)
	}
	return nil
}

// filterRules lists the indices of all rules which action matches the filter.
func filterRules(rules []tbl.ActionRule, filter *regexp.Regexp) []int {
	return common.IndicesWhere(rules, func(rule tbl.ActionRule) bool {
		return filter.MatchString(rule.Action)
	})
}
