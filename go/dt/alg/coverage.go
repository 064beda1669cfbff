// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package alg

import (
	"github.com/Fantom-foundation/DecisionTable/go/dt/cmb"
	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// CoveringRules lists the indices of all rules of the table covering the
// given condition.
func CoveringRules(table tbl.Table, condition tbl.Condition) []int {
	return common.IndicesWhere(table.Rules, func(rule tbl.ActionRule) bool {
		return RuleCoversCondition(rule.Rule, condition)
	})
}

// UncoveredConditions lists, in enumeration order, every condition of the
// table's model not covered by any of its rules.
func UncoveredConditions(table tbl.Table) []tbl.Condition {
	res := []tbl.Condition{}
	cmb.ForEachCondition(table.Model, func(condition tbl.Condition) common.ConsumerResult {
		if !isCovered(table.Rules, condition) {
			res = append(res, condition)
		}
		return common.ConsumeContinue
	})
	return res
}

func isCovered(rules []tbl.ActionRule, condition tbl.Condition) bool {
	for _, rule := range rules {
		if RuleCoversCondition(rule.Rule, condition) {
			return true
		}
	}
	return false
}

// ConflictingRules lists all pairs of rule indices (i < j) selecting
// different actions for at least one common condition. Overlapping rules
// agreeing on the action are not in conflict.
func ConflictingRules(table tbl.Table) [][2]int {
	res := [][2]int{}
	for i := 0; i < len(table.Rules); i++ {
		for j := i + 1; j < len(table.Rules); j++ {
			a, b := table.Rules[i], table.Rules[j]
			if a.Action != b.Action && !RulesAreDisjoint(table.Model, a.Rule, b.Rule) {
				res = append(res, [2]int{i, j})
			}
		}
	}
	return res
}
