// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package obs

import (
	"errors"
	"slices"
	"testing"

	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
	"github.com/Fantom-foundation/DecisionTable/go/dt/vld"
)

func soundTable() tbl.Table {
	return tbl.Table{
		Name:  "sound",
		Model: tbl.NewModel(tbl.Boolean("A"), tbl.Boolean("B")),
		Rules: []tbl.ActionRule{
			{Rule: tbl.Rule{tbl.Values("A", "T"), tbl.Any("B")}, Action: "X"},
			{Rule: tbl.Rule{tbl.Values("A", "F"), tbl.Any("B")}, Action: "Y"},
		},
	}
}

func TestTable_SubscribersAreNotifiedOnEveryMutationUntilCancelled(t *testing.T) {
	table := New(tbl.Table{})
	calls := 0
	sub := table.OnEvaluated(func(Evaluation) { calls++ })

	table.AddRule(tbl.ActionRule{Action: "X"})
	if want, got := 1, calls; want != got {
		t.Errorf("unexpected number of notifications, wanted %d, got %d", want, got)
	}
	if err := table.AddVar(tbl.Boolean("foo")); err != nil {
		t.Fatalf("failed to add variable: %v", err)
	}
	if want, got := 2, calls; want != got {
		t.Errorf("unexpected number of notifications, wanted %d, got %d", want, got)
	}
	if err := table.SetCondition(0, tbl.Values("foo", "T")); err != nil {
		t.Fatalf("failed to set condition: %v", err)
	}
	if want, got := 3, calls; want != got {
		t.Errorf("unexpected number of notifications, wanted %d, got %d", want, got)
	}

	table.Cancel(sub)
	if err := table.SetCondition(0, tbl.Values("foo", "F")); err != nil {
		t.Fatalf("failed to set condition: %v", err)
	}
	if want, got := 3, calls; want != got {
		t.Errorf("cancelled subscriber was notified")
	}
}

func TestTable_FailedMutationsNotifyNobodyAndKeepSnapshot(t *testing.T) {
	table := New(soundTable())
	before := table.Table()
	table.OnEvaluated(func(Evaluation) {
		t.Errorf("unexpected notification")
	})

	tests := map[string]struct {
		mutate func() error
		want   error
	}{
		"add duplicate variable": {
			mutate: func() error { return table.AddVar(tbl.Boolean("A")) },
			want:   ErrDuplicateVariable,
		},
		"add variable without values": {
			mutate: func() error { return table.AddVar(tbl.NewVariable("C")) },
			want:   ErrEmptyDomain,
		},
		"delete unknown variable": {
			mutate: func() error { return table.DeleteVar("C") },
			want:   ErrUnknownVariable,
		},
		"rename unknown variable": {
			mutate: func() error { return table.RenameVar("C", "D") },
			want:   ErrUnknownVariable,
		},
		"rename onto existing variable": {
			mutate: func() error { return table.RenameVar("A", "B") },
			want:   ErrDuplicateVariable,
		},
		"delete missing rule": {
			mutate: func() error { return table.DeleteRule(2) },
			want:   ErrNoSuchRule,
		},
		"set condition of missing rule": {
			mutate: func() error { return table.SetCondition(-1, tbl.Any("A")) },
			want:   ErrNoSuchRule,
		},
		"assign action of missing rule": {
			mutate: func() error { return table.AssignAction(5, "Z") },
			want:   ErrNoSuchRule,
		},
		"rename unknown action": {
			mutate: func() error { return table.RenameAction("Z", "W") },
			want:   ErrUnknownAction,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if err := test.mutate(); !errors.Is(err, test.want) {
				t.Errorf("unexpected error, wanted %v, got %v", test.want, err)
			}
			if want, got := fingerprint(before), fingerprint(table.Table()); want != got {
				t.Errorf("failed mutation modified the table")
			}
		})
	}
}

func TestTable_NotificationCarriesEvaluationOfNewSnapshot(t *testing.T) {
	table := New(soundTable())
	if !table.Evaluation().Sound {
		t.Fatalf("initial table should be sound")
	}

	var got Evaluation
	table.OnEvaluated(func(e Evaluation) { got = e })

	if err := table.AssignAction(1, "X"); err != nil {
		t.Fatalf("failed to assign action: %v", err)
	}
	if got.Sound {
		t.Errorf("table with duplicate action should not be sound")
	}
	if want, got := vld.DuplicateAction, got.Diagnostics[0].Kind; want != got {
		t.Errorf("unexpected diagnostic kind, wanted %v, got %v", want, got)
	}
	if want, got := "X", got.Table.Rules[1].Action; want != got {
		t.Errorf("evaluation should refer to new snapshot, got action %q", got)
	}

	if err := table.SetCondition(1, tbl.Any("A")); err != nil {
		t.Fatalf("failed to set condition: %v", err)
	}
	if err := table.AssignAction(1, "Y"); err != nil {
		t.Fatalf("failed to assign action: %v", err)
	}
	if want, got := [][2]int{{0, 1}}, got.Conflicts; !slices.Equal(want, got) {
		t.Errorf("unexpected conflicts, wanted %v, got %v", want, got)
	}

	if err := table.DeleteRule(0); err != nil {
		t.Fatalf("failed to delete rule: %v", err)
	}
	if !got.Sound {
		t.Errorf("single wildcard rule should be sound, got %v", got.Diagnostics)
	}
}

func TestTable_UncoveredConditionsAreReported(t *testing.T) {
	table := New(soundTable())
	var got Evaluation
	table.OnEvaluated(func(e Evaluation) { got = e })

	if err := table.SetCondition(0, tbl.Values("B", "T")); err != nil {
		t.Fatalf("failed to set condition: %v", err)
	}
	if want, got := 1, len(got.Uncovered); want != got {
		t.Fatalf("unexpected number of uncovered conditions, wanted %d, got %d", want, got)
	}
	if want, got := "A=T B=F", got.Uncovered[0].String(); want != got {
		t.Errorf("unexpected uncovered condition, wanted %s, got %s", want, got)
	}
}

func TestTable_AddedVariableIsWildcardInExistingRules(t *testing.T) {
	table := New(soundTable())
	if err := table.AddVar(tbl.NewVariable("C", "x", "y")); err != nil {
		t.Fatalf("failed to add variable: %v", err)
	}
	for i, rule := range table.Table().Rules {
		restriction, found := rule.Rule.Get("C")
		if !found || !restriction.IsWildcard() {
			t.Errorf("rule %d should have a wildcard on C, got %v", i, rule.Rule)
		}
	}
	if !table.Evaluation().Sound {
		t.Errorf("extended table should remain sound")
	}
}

func TestTable_DeletedVariableIsRemovedFromRules(t *testing.T) {
	table := New(soundTable())
	if err := table.DeleteVar("B"); err != nil {
		t.Fatalf("failed to delete variable: %v", err)
	}
	snapshot := table.Table()
	if want, got := []string{"A"}, snapshot.Model.Names(); !slices.Equal(want, got) {
		t.Errorf("unexpected variables, wanted %v, got %v", want, got)
	}
	for i, rule := range snapshot.Rules {
		if want, got := []string{"A"}, rule.Rule.Names(); !slices.Equal(want, got) {
			t.Errorf("rule %d: unexpected variables, wanted %v, got %v", i, want, got)
		}
	}
}

func TestTable_RenamingKeepsOrderAndSemantics(t *testing.T) {
	table := New(soundTable())
	if err := table.RenameVar("A", "Z"); err != nil {
		t.Fatalf("failed to rename variable: %v", err)
	}
	if err := table.RenameAction("Y", "W"); err != nil {
		t.Fatalf("failed to rename action: %v", err)
	}
	snapshot := table.Table()
	if want, got := []string{"Z", "B"}, snapshot.Model.Names(); !slices.Equal(want, got) {
		t.Errorf("unexpected variables, wanted %v, got %v", want, got)
	}
	if want, got := "Z=F ∧ B=*", snapshot.Rules[1].Rule.String(); want != got {
		t.Errorf("unexpected rule, wanted %s, got %s", want, got)
	}
	if want, got := "W", snapshot.Rules[1].Action; want != got {
		t.Errorf("unexpected action, wanted %s, got %s", want, got)
	}
	if !table.Evaluation().Sound {
		t.Errorf("renaming should not affect soundness")
	}
}

func TestTable_SnapshotsAreNotAffectedByLaterMutations(t *testing.T) {
	original := soundTable()
	table := New(original)
	snapshot := table.Table()
	if err := table.SetCondition(0, tbl.Values("A", "F")); err != nil {
		t.Fatalf("failed to set condition: %v", err)
	}
	if want, got := "A=T ∧ B=*", snapshot.Rules[0].Rule.String(); want != got {
		t.Errorf("earlier snapshot was modified, wanted %s, got %s", want, got)
	}
	if want, got := "A=T ∧ B=*", original.Rules[0].Rule.String(); want != got {
		t.Errorf("input table was modified, wanted %s, got %s", want, got)
	}
}

func TestTable_EvaluationsOfRevisitedVersionsAreCached(t *testing.T) {
	table := New(soundTable())
	if err := table.AssignAction(1, "X"); err != nil {
		t.Fatalf("failed to assign action: %v", err)
	}
	if err := table.AssignAction(1, "Y"); err != nil {
		t.Fatalf("failed to assign action: %v", err)
	}
	if want, got := 2, table.cache.Len(); want != got {
		t.Errorf("unexpected number of cached evaluations, wanted %d, got %d", want, got)
	}
	if !table.Evaluation().Sound {
		t.Errorf("restored table should be sound")
	}
}

func TestTable_SubscribersMayReadTheTable(t *testing.T) {
	table := New(soundTable())
	rules := 0
	table.OnEvaluated(func(Evaluation) { rules = len(table.Table().Rules) })
	table.AddRule(tbl.ActionRule{Rule: tbl.Rule{tbl.Any("A"), tbl.Any("B")}, Action: "Z"})
	if want, got := 3, rules; want != got {
		t.Errorf("unexpected number of rules seen by subscriber, wanted %d, got %d", want, got)
	}
}

func TestFingerprint_DistinguishesWildcardsFromValues(t *testing.T) {
	model := tbl.NewModel(tbl.Boolean("A"))
	a := tbl.Table{Model: model, Rules: []tbl.ActionRule{{Rule: tbl.Rule{tbl.Any("A")}, Action: "X"}}}
	b := tbl.Table{Model: model, Rules: []tbl.ActionRule{{Rule: tbl.Rule{tbl.Values("A", "T", "F")}, Action: "X"}}}
	if fingerprint(a) == fingerprint(b) {
		t.Errorf("wildcard and explicit values should have different fingerprints")
	}
	if fingerprint(a) != fingerprint(cloneTable(a)) {
		t.Errorf("equal tables should have equal fingerprints")
	}
}

func TestTable_ModifyingAnEvaluationDoesNotAffectLaterEvaluations(t *testing.T) {
	table := New(tbl.Table{Model: tbl.NewModel(tbl.Boolean("A"))})
	table.OnEvaluated(func(e Evaluation) {
		for _, condition := range e.Uncovered {
			condition[0].Value = "corrupted"
		}
		for i := range e.Diagnostics {
			e.Diagnostics[i].Condition = nil
			e.Diagnostics[i].Message = "corrupted"
		}
		e.Table.Rules = nil
	})

	rule := tbl.ActionRule{Rule: tbl.Rule{tbl.Values("A", "T")}, Action: "X"}
	table.AddRule(rule)
	if err := table.DeleteRule(0); err != nil {
		t.Fatalf("failed to delete rule: %v", err)
	}
	table.AddRule(rule)

	evaluation := table.Evaluation()
	if want, got := 1, len(evaluation.Uncovered); want != got {
		t.Fatalf("unexpected number of uncovered conditions, wanted %d, got %d", want, got)
	}
	if want, got := "A=F", evaluation.Uncovered[0].String(); want != got {
		t.Errorf("unexpected uncovered condition, wanted %s, got %s", want, got)
	}
	if want, got := "A=F", evaluation.Diagnostics[0].Condition.String(); want != got {
		t.Errorf("unexpected diagnostic condition, wanted %s, got %s", want, got)
	}
	if want, got := 1, len(table.Table().Rules); want != got {
		t.Errorf("unexpected number of rules, wanted %d, got %d", want, got)
	}

	// results returned to callers are copies as well
	evaluation.Uncovered[0][0].Value = "corrupted"
	if want, got := "A=F", table.Evaluation().Uncovered[0].String(); want != got {
		t.Errorf("evaluation was modified through a returned copy, got %s", got)
	}
	snapshot := table.Table()
	snapshot.Rules[0].Action = "Y"
	if want, got := "X", table.Table().Rules[0].Action; want != got {
		t.Errorf("snapshot was modified through a returned copy, got %s", got)
	}
}

func TestTable_SubscriberCancelledByEarlierSubscriberIsNotNotified(t *testing.T) {
	table := New(soundTable())
	var second Subscription
	secondCalls := 0
	table.OnEvaluated(func(Evaluation) { table.Cancel(second) })
	second = table.OnEvaluated(func(Evaluation) { secondCalls++ })

	table.AddRule(tbl.ActionRule{Rule: tbl.Rule{tbl.Any("A"), tbl.Any("B")}, Action: "Z"})
	if want, got := 0, secondCalls; want != got {
		t.Errorf("cancelled subscriber was notified %d times", got)
	}
	if err := table.DeleteRule(2); err != nil {
		t.Fatalf("failed to delete rule: %v", err)
	}
	if want, got := 0, secondCalls; want != got {
		t.Errorf("cancelled subscriber was notified %d times", got)
	}
}
