// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package alg provides the coverage and overlap algebra on decision table
// rules used for completeness and consistency checks.
package alg

import (
	"fmt"

	"github.com/Fantom-foundation/DecisionTable/go/dt/cmb"
	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// ErrVariableMismatch signals that restrictions of different variables have
// been combined. It indicates a bug in the caller, not a defect of a table,
// and is therefore raised as a panic.
const ErrVariableMismatch = common.ConstErr("restrictions refer to different variables")

// ErrIncompleteRule signals that a rule lacking a model variable reached the
// overlap algebra. Like ErrVariableMismatch, it is raised as a panic.
const ErrIncompleteRule = common.ConstErr("rule does not restrict every model variable")

// RuleCoversCondition reports whether the given condition satisfies every
// restriction of the rule. Rules and conditions over different numbers of
// variables never match.
func RuleCoversCondition(rule tbl.Rule, condition tbl.Condition) bool {
	if len(rule) != len(condition) {
		return false
	}
	for _, instance := range condition {
		if !ruleAllows(rule, instance) {
			return false
		}
	}
	return true
}

func ruleAllows(rule tbl.Rule, instance tbl.Instance) bool {
	for _, cur := range rule {
		if cur.Name == instance.Name && cur.Allows(instance.Value) {
			return true
		}
	}
	return false
}

// Overlap computes the instances of v admitted by both a and b. All three
// must refer to the same variable; otherwise Overlap panics with an error
// wrapping ErrVariableMismatch.
func Overlap(v tbl.Variable, a, b tbl.VarRule) []tbl.Instance {
	if v.Name != a.Name || v.Name != b.Name {
		panic(fmt.Errorf("%w: cannot compute overlap of %s", ErrVariableMismatch, common.ShowList([]string{v.Name, a.Name, b.Name})))
	}

	var values []string
	switch {
	case a.IsWildcard() && b.IsWildcard():
		return cmb.EnumerateVariable(v)
	case a.IsWildcard():
		values = b.Values()
	case b.IsWildcard():
		values = a.Values()
	default:
		for _, value := range a.Values() {
			if b.Allows(value) {
				values = append(values, value)
			}
		}
	}

	res := make([]tbl.Instance, 0, len(values))
	seen := map[string]bool{}
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		res = append(res, tbl.Instance{Name: v.Name, Value: value})
	}
	return res
}

// RuleIntersection lists all conditions of the model covered by both rules.
// Both rules must restrict every model variable; otherwise RuleIntersection
// panics with an error wrapping ErrIncompleteRule.
func RuleIntersection(model tbl.Model, a, b tbl.Rule) []tbl.Condition {
	vars := model.Variables()
	overlaps := make([][]tbl.Instance, 0, len(vars))
	for _, v := range vars {
		aRule, aFound := a.Get(v.Name)
		bRule, bFound := b.Get(v.Name)
		if !aFound || !bFound {
			panic(fmt.Errorf("%w: missing restriction for %q", ErrIncompleteRule, v.Name))
		}
		overlap := Overlap(v, aRule, bRule)
		if len(overlap) == 0 {
			return []tbl.Condition{}
		}
		overlaps = append(overlaps, overlap)
	}

	combinations := cmb.CrossProduct(overlaps)
	res := make([]tbl.Condition, 0, len(combinations))
	for _, cur := range combinations {
		res = append(res, tbl.Condition(cur))
	}
	return res
}

// RulesAreDisjoint reports whether no condition of the model is covered by
// both rules.
func RulesAreDisjoint(model tbl.Model, a, b tbl.Rule) bool {
	return len(RuleIntersection(model, a, b)) == 0
}
