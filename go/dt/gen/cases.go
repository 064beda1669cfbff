// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package gen expands decision tables into concrete test cases.
package gen

import (
	"fmt"

	"pgregory.net/rand"

	"github.com/Fantom-foundation/DecisionTable/go/dt/cmb"
	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// TestCase is a condition paired with the action a table demands for it.
type TestCase struct {
	Condition tbl.Condition
	Action    string
	// RuleIdx is the index of the rule the case was derived from.
	RuleIdx int
}

func (c TestCase) String() string {
	return fmt.Sprintf("%v → %s", c.Condition, c.Action)
}

// EnumerateRule lists every condition matched by the given rule, with
// wildcards expanded to the full domain of their variable. Instances follow
// the order of the rule's restrictions.
func EnumerateRule(model tbl.Model, rule tbl.Rule) ([]tbl.Condition, error) {
	instances := make([][]tbl.Instance, 0, len(rule))
	for _, restriction := range rule {
		if restriction.IsConcrete() {
			instances = append(instances, cmb.EnumerateVariable(tbl.NewVariable(restriction.Name, restriction.Values()...)))
			continue
		}
		v, found := model.Get(restriction.Name)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, restriction.Name)
		}
		instances = append(instances, cmb.EnumerateVariable(v))
	}

	combinations := cmb.CrossProduct(instances)
	res := make([]tbl.Condition, 0, len(combinations))
	for _, cur := range combinations {
		res = append(res, tbl.Condition(cur))
	}
	return res, nil
}

// GenerateCases expands every rule of the table, in rule order, into the
// test cases it implies. No soundness filtering is applied: conditions
// covered by several rules appear once per rule, uncovered conditions are
// missing.
func GenerateCases(table tbl.Table) ([]TestCase, error) {
	res := []TestCase{}
	_, err := ForEachCase(table, func(testCase TestCase) common.ConsumerResult {
		res = append(res, testCase)
		return common.ConsumeContinue
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ForEachCase passes the test cases produced by GenerateCases one by one to
// the given consumer. The result indicates whether the consumer aborted the
// enumeration.
func ForEachCase(table tbl.Table, consume func(TestCase) common.ConsumerResult) (common.ConsumerResult, error) {
	for i, rule := range table.Rules {
		conditions, err := EnumerateRule(table.Model, rule.Rule)
		if err != nil {
			return common.ConsumeAbort, fmt.Errorf("failed to enumerate rule %d: %w", i, err)
		}
		for _, condition := range conditions {
			if consume(TestCase{Condition: condition, Action: rule.Action, RuleIdx: i}) == common.ConsumeAbort {
				return common.ConsumeAbort, nil
			}
		}
	}
	return common.ConsumeContinue, nil
}

// CountRuleCases computes the number of cases EnumerateRule produces for the
// given rule without enumerating them.
func CountRuleCases(model tbl.Model, rule tbl.Rule) (int, error) {
	if len(rule) == 0 {
		return 0, nil
	}
	res := 1
	for _, restriction := range rule {
		if restriction.IsConcrete() {
			res *= len(restriction.Values())
			continue
		}
		v, found := model.Get(restriction.Name)
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, restriction.Name)
		}
		res *= len(v.Values)
	}
	return res, nil
}

// CountCases computes the number of cases GenerateCases produces for the
// given table without enumerating them.
func CountCases(table tbl.Table) (int, error) {
	res := 0
	for i, rule := range table.Rules {
		count, err := CountRuleCases(table.Model, rule.Rule)
		if err != nil {
			return 0, fmt.Errorf("failed to count cases of rule %d: %w", i, err)
		}
		res += count
	}
	return res, nil
}

// SampleCondition draws a uniformly distributed condition of the given
// model.
func SampleCondition(rnd *rand.Rand, model tbl.Model) (tbl.Condition, error) {
	vars := model.Variables()
	if len(vars) == 0 {
		return nil, ErrEmptyStateSpace
	}
	res := make(tbl.Condition, 0, len(vars))
	for _, v := range vars {
		if len(v.Values) == 0 {
			return nil, fmt.Errorf("%w: variable %q has an empty domain", ErrEmptyStateSpace, v.Name)
		}
		res = append(res, tbl.Instance{Name: v.Name, Value: v.Values[rnd.Intn(len(v.Values))]})
	}
	return res, nil
}
