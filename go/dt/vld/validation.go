// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package vld validates decision tables. Structural problems are fatal and
// reported on their own; completeness and consistency findings are advisory
// and accumulated.
package vld

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Fantom-foundation/DecisionTable/go/dt/alg"
	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// structuralCheck reports the problem of a single rule, if any.
type structuralCheck struct {
	kind  Kind
	check func(tbl.Model, tbl.Rule) (string, bool)
}

// structuralStages are run in order; the first stage finding any problem
// ends the validation.
var structuralStages = [][]structuralCheck{
	{{IncompleteRule, missingVariables}, {DuplicateRestriction, duplicateRestrictions}},
	{{UnknownVariable, unknownVariables}},
	{{InvalidValue, invalidValues}},
}

// Validate checks the given table and returns all findings in pipeline
// order. If any rule is structurally broken, only the diagnostics of the
// first failing structural stage are returned.
func Validate(table tbl.Table) []Diagnostic {
	for _, stage := range structuralStages {
		if fatal := runStructuralStage(table, stage); len(fatal) > 0 {
			return fatal
		}
	}

	res := []Diagnostic{}
	res = append(res, duplicateActions(table)...)
	res = append(res, conflicts(table)...)
	res = append(res, uncovered(table)...)
	return res
}

// IsSound reports whether the diagnostics contain no finding at all.
func IsSound(diagnostics []Diagnostic) bool {
	return len(diagnostics) == 0
}

// HasFatal reports whether any of the given diagnostics is fatal.
func HasFatal(diagnostics []Diagnostic) bool {
	return slices.ContainsFunc(diagnostics, Diagnostic.IsFatal)
}

func runStructuralStage(table tbl.Table, stage []structuralCheck) []Diagnostic {
	res := []Diagnostic{}
	for i, rule := range table.Rules {
		for _, check := range stage {
			if problem, found := check.check(table.Model, rule.Rule); found {
				res = append(res, Diagnostic{
					Severity: Fatal,
					Kind:     check.kind,
					Message:  fmt.Sprintf("Rule %d %s", i, problem),
					RuleIdxs: []int{i},
				})
			}
		}
	}
	return res
}

func missingVariables(model tbl.Model, rule tbl.Rule) (string, bool) {
	names := rule.Names()
	missing := []string{}
	for _, name := range model.Names() {
		if !slices.Contains(names, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return "", false
	}
	return fmt.Sprintf("does not cover all model variables, missing %s", common.ShowList(missing)), true
}

func duplicateRestrictions(_ tbl.Model, rule tbl.Rule) (string, bool) {
	seen := map[string]bool{}
	duplicates := []string{}
	for _, name := range rule.Names() {
		if seen[name] && !slices.Contains(duplicates, name) {
			duplicates = append(duplicates, name)
		}
		seen[name] = true
	}
	if len(duplicates) == 0 {
		return "", false
	}
	return fmt.Sprintf("restricts variables more than once: %s", common.ShowList(duplicates)), true
}

func unknownVariables(model tbl.Model, rule tbl.Rule) (string, bool) {
	unknown := []string{}
	for _, name := range rule.Names() {
		if !model.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return "", false
	}
	return fmt.Sprintf("specifies variables not included in the model: %s", common.ShowList(unknown)), true
}

func invalidValues(model tbl.Model, rule tbl.Rule) (string, bool) {
	problems := []string{}
	for _, restriction := range rule {
		if restriction.IsWildcard() {
			continue
		}
		v, _ := model.Get(restriction.Name)
		invalid := []string{}
		for _, value := range restriction.Values() {
			if !v.Contains(value) {
				invalid = append(invalid, value)
			}
		}
		if len(invalid) > 0 {
			problems = append(problems, fmt.Sprintf(
				"%q references invalid value(s) %s, allowed values are %s",
				restriction.Name, common.ShowList(invalid), common.ShowList(v.Values),
			))
		}
	}
	if len(problems) == 0 {
		return "", false
	}
	return strings.Join(problems, "; "), true
}

func duplicateActions(table tbl.Table) []Diagnostic {
	actions := []string{}
	rulesByAction := map[string][]int{}
	for i, rule := range table.Rules {
		if _, found := rulesByAction[rule.Action]; !found {
			actions = append(actions, rule.Action)
		}
		rulesByAction[rule.Action] = append(rulesByAction[rule.Action], i)
	}

	res := []Diagnostic{}
	for _, action := range actions {
		rules := rulesByAction[action]
		if len(rules) < 2 {
			continue
		}
		res = append(res, Diagnostic{
			Severity: Advisory,
			Kind:     DuplicateAction,
			Message:  fmt.Sprintf("Action %q is covered by rules %s", action, common.ShowList(rules)),
			RuleIdxs: rules,
		})
	}
	return res
}

func conflicts(table tbl.Table) []Diagnostic {
	res := []Diagnostic{}
	for _, pair := range alg.ConflictingRules(table) {
		res = append(res, Diagnostic{
			Severity: Advisory,
			Kind:     RuleConflict,
			Message:  fmt.Sprintf("Rules %d & %d conflict (rules overlap but specify different actions)", pair[0], pair[1]),
			RuleIdxs: []int{pair[0], pair[1]},
		})
	}
	return res
}

func uncovered(table tbl.Table) []Diagnostic {
	res := []Diagnostic{}
	for _, condition := range alg.UncoveredConditions(table) {
		res = append(res, Diagnostic{
			Severity:  Advisory,
			Kind:      UncoveredCondition,
			Message:   fmt.Sprintf("The following condition is uncovered by rules: %v", condition),
			Condition: condition,
		})
	}
	return res
}
