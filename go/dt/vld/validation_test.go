// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vld

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

var boolModel = tbl.NewModel(tbl.Boolean("A"), tbl.Boolean("B"))

func rule(action string, restrictions ...tbl.VarRule) tbl.ActionRule {
	return tbl.ActionRule{Rule: tbl.Rule(restrictions), Action: action}
}

func kinds(diagnostics []Diagnostic) []Kind {
	res := []Kind{}
	for _, d := range diagnostics {
		res = append(res, d.Kind)
	}
	return res
}

func TestValidate_SoundTableHasNoFindings(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Values("A", "T"), tbl.Any("B")),
			rule("Y", tbl.Values("A", "F"), tbl.Any("B")),
		},
	}
	diagnostics := Validate(table)
	if !IsSound(diagnostics) {
		t.Errorf("expected sound table, got %v", diagnostics)
	}
	if HasFatal(diagnostics) {
		t.Errorf("sound table should have no fatal diagnostic")
	}
}

func TestValidate_MissingVariableIsFatalAndHalts(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Values("A", "T")),
			// would be a conflict and leaves conditions uncovered
			rule("Y", tbl.Values("A", "T"), tbl.Values("B", "T")),
		},
	}
	diagnostics := Validate(table)
	if want, got := 1, len(diagnostics); want != got {
		t.Fatalf("unexpected number of diagnostics, wanted %d, got %d: %v", want, got, diagnostics)
	}
	d := diagnostics[0]
	if d.Severity != Fatal || d.Kind != IncompleteRule {
		t.Errorf("unexpected diagnostic %v (%v)", d, d.Kind)
	}
	if want, got := []int{0}, d.RuleIdxs; !slices.Equal(want, got) {
		t.Errorf("unexpected rule indices, wanted %v, got %v", want, got)
	}
	if !strings.Contains(d.Message, "B") {
		t.Errorf("message should name the missing variable: %s", d.Message)
	}
}

func TestValidate_EveryIncompleteRuleIsReported(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Values("A", "T")),
			rule("Y", tbl.Any("A"), tbl.Any("B")),
			rule("Z", tbl.Any("B")),
		},
	}
	diagnostics := Validate(table)
	if want, got := []Kind{IncompleteRule, IncompleteRule}, kinds(diagnostics); !slices.Equal(want, got) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	if diagnostics[0].RuleIdxs[0] != 0 || diagnostics[1].RuleIdxs[0] != 2 {
		t.Errorf("unexpected rules reported: %v", diagnostics)
	}
}

func TestValidate_DuplicateRestrictionIsFatalAndHalts(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Values("A", "T"), tbl.Values("A", "F"), tbl.Any("B")),
			rule("Y", tbl.Values("A", "T")),
			rule("Z", tbl.Any("A"), tbl.Any("B"), tbl.Any("C")),
		},
	}
	diagnostics := Validate(table)
	if want, got := []Kind{DuplicateRestriction, IncompleteRule}, kinds(diagnostics); !slices.Equal(want, got) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	d := diagnostics[0]
	if !d.IsFatal() || !slices.Equal([]int{0}, d.RuleIdxs) {
		t.Errorf("unexpected diagnostic %v", d)
	}
	if want, got := "Rule 0 restricts variables more than once: A", d.Message; want != got {
		t.Errorf("unexpected message, wanted %q, got %q", want, got)
	}
}

func TestValidate_UnknownVariableIsFatalAndHalts(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Any("A"), tbl.Any("B"), tbl.Values("C", "zzz")),
			rule("X", tbl.Any("A"), tbl.Any("B")),
		},
	}
	diagnostics := Validate(table)
	if want, got := []Kind{UnknownVariable}, kinds(diagnostics); !slices.Equal(want, got) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	if !diagnostics[0].IsFatal() || diagnostics[0].RuleIdxs[0] != 0 {
		t.Errorf("unexpected diagnostic %v", diagnostics[0])
	}
}

func TestValidate_InvalidValueIsFatalAndHalts(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Values("A", "T"), tbl.Any("B")),
			rule("Y", tbl.Values("A", "maybe", "F"), tbl.Any("B")),
		},
	}
	diagnostics := Validate(table)
	if want, got := []Kind{InvalidValue}, kinds(diagnostics); !slices.Equal(want, got) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	d := diagnostics[0]
	if !d.IsFatal() || d.RuleIdxs[0] != 1 {
		t.Errorf("unexpected diagnostic %v", d)
	}
	if !strings.Contains(d.Message, "maybe") {
		t.Errorf("message should name the invalid value: %s", d.Message)
	}
}

func TestValidate_AdvisoryFindingsAreAccumulatedInOrder(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Values("A", "T"), tbl.Values("B", "T")),
			rule("Y", tbl.Values("A", "T"), tbl.Any("B")),
			rule("X", tbl.Values("A", "F"), tbl.Values("B", "T")),
		},
	}
	diagnostics := Validate(table)
	want := []Kind{DuplicateAction, RuleConflict, UncoveredCondition}
	if got := kinds(diagnostics); !slices.Equal(want, got) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	if HasFatal(diagnostics) {
		t.Errorf("advisory findings must not be fatal")
	}
	if IsSound(diagnostics) {
		t.Errorf("table with advisory findings is not sound")
	}
	if want, got := []int{0, 2}, diagnostics[0].RuleIdxs; !slices.Equal(want, got) {
		t.Errorf("unexpected duplicate action rules, wanted %v, got %v", want, got)
	}
	if want, got := []int{0, 1}, diagnostics[1].RuleIdxs; !slices.Equal(want, got) {
		t.Errorf("unexpected conflicting rules, wanted %v, got %v", want, got)
	}
	uncovered := tbl.Condition{{Name: "A", Value: "F"}, {Name: "B", Value: "F"}}
	if !diagnostics[2].Condition.Equal(uncovered) {
		t.Errorf("unexpected uncovered condition %v", diagnostics[2].Condition)
	}
}

func TestValidate_OverlappingRulesWithDifferentActionsConflict(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Values("A", "T"), tbl.Any("B")),
			rule("Y", tbl.Values("A", "T"), tbl.Any("B")),
			rule("Z", tbl.Values("A", "F"), tbl.Any("B")),
		},
	}
	diagnostics := Validate(table)
	if want, got := []Kind{RuleConflict}, kinds(diagnostics); !slices.Equal(want, got) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	if want, got := []int{0, 1}, diagnostics[0].RuleIdxs; !slices.Equal(want, got) {
		t.Errorf("wanted %v, got %v", want, got)
	}
}

func TestValidate_UncoveredConditionsAreReportedIndividually(t *testing.T) {
	table := tbl.Table{
		Model: boolModel,
		Rules: []tbl.ActionRule{
			rule("X", tbl.Any("A"), tbl.Values("B", "T")),
		},
	}
	diagnostics := Validate(table)
	if want, got := []Kind{UncoveredCondition, UncoveredCondition}, kinds(diagnostics); !slices.Equal(want, got) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	for _, d := range diagnostics {
		if value, _ := d.Condition.Get("B"); value != "F" {
			t.Errorf("unexpected uncovered condition %v", d.Condition)
		}
		if len(d.RuleIdxs) != 0 {
			t.Errorf("uncovered conditions do not implicate rules: %v", d.RuleIdxs)
		}
	}
}

func TestValidate_EmptyTableReportsEntireStateSpace(t *testing.T) {
	diagnostics := Validate(tbl.Table{Model: boolModel})
	if want, got := 4, len(diagnostics); want != got {
		t.Errorf("unexpected number of diagnostics, wanted %d, got %d", want, got)
	}
}

func TestValidateOrFail_ReturnsSoundTable(t *testing.T) {
	table := tbl.Table{
		Name:  "sound",
		Model: boolModel,
		Rules: []tbl.ActionRule{rule("X", tbl.Any("A"), tbl.Any("B"))},
	}
	res, err := ValidateOrFail(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Name != "sound" {
		t.Errorf("unexpected table returned: %v", res)
	}
}

func TestValidateOrFail_FailsOnAdvisoryFindings(t *testing.T) {
	table := tbl.Table{
		Name:  "partial",
		Model: boolModel,
		Rules: []tbl.ActionRule{rule("X", tbl.Values("A", "T"), tbl.Any("B"))},
	}
	_, err := ValidateOrFail(table)
	var target *UnsoundTableError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnsoundTableError, got %v", err)
	}
	if want, got := 2, len(target.Diagnostics); want != got {
		t.Errorf("unexpected number of diagnostics, wanted %d, got %d", want, got)
	}
	if !strings.Contains(err.Error(), "\"partial\" is not sound") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestDiagnostic_Print(t *testing.T) {
	d := Diagnostic{Severity: Fatal, Message: "broken"}
	if want, got := "fatal: broken", d.String(); want != got {
		t.Errorf("wanted %q, got %q", want, got)
	}
	if want, got := "rule conflict", RuleConflict.String(); want != got {
		t.Errorf("wanted %q, got %q", want, got)
	}
}
