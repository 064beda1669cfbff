// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package obs provides an editable decision table that re-evaluates itself
// after every change and reports the outcome to subscribers.
package obs

import (
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
	"github.com/Fantom-foundation/DecisionTable/go/dt/vld"
)

const (
	ErrUnknownVariable   = common.ConstErr("unknown variable")
	ErrDuplicateVariable = common.ConstErr("variable already declared")
	ErrEmptyDomain       = common.ConstErr("variable domain is empty")
	ErrNoSuchRule        = common.ConstErr("rule index out of range")
	ErrUnknownAction     = common.ConstErr("no rule specifies the action")
)

// evaluationCacheSize bounds the number of memoized evaluations; editing
// sessions tend to toggle between a small number of table versions.
const evaluationCacheSize = 128

// Evaluation summarizes the validation of a single table version. Every
// evaluation handed out by a Table is a private copy owned by the receiver.
type Evaluation struct {
	Table           tbl.Table
	Diagnostics     []vld.Diagnostic
	IncompleteRules []int
	Conflicts       [][2]int
	Uncovered       []tbl.Condition
	Sound           bool
}

type Subscription int

type subscriber struct {
	id       Subscription
	callback func(Evaluation)
}

// Table holds an immutable snapshot of a decision table. Every successful
// mutation replaces the snapshot, evaluates it, and synchronously notifies
// all subscribers before returning. Failed mutations leave the snapshot
// untouched and notify nobody. A Table is safe for concurrent use.
type Table struct {
	mutex       sync.Mutex
	snapshot    tbl.Table
	evaluation  Evaluation
	subscribers []subscriber
	nextId      Subscription
	cache       *lru.Cache[[32]byte, Evaluation]
}

func New(table tbl.Table) *Table {
	cache, _ := lru.New[[32]byte, Evaluation](evaluationCacheSize) // can only fail for non-positive size
	res := &Table{cache: cache}
	res.snapshot = cloneTable(table)
	res.evaluation = res.evaluate(res.snapshot)
	return res
}

// Table returns a copy of the current snapshot.
func (t *Table) Table() tbl.Table {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return cloneTable(t.snapshot)
}

// Evaluation returns the evaluation of the current snapshot.
func (t *Table) Evaluation() Evaluation {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.evaluation.clone()
}

// OnEvaluated registers a callback invoked after every successful mutation.
func (t *Table) OnEvaluated(callback func(Evaluation)) Subscription {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.nextId++
	t.subscribers = append(t.subscribers, subscriber{id: t.nextId, callback: callback})
	return t.nextId
}

// Cancel removes a subscription. Cancelling an unknown or already cancelled
// subscription has no effect.
func (t *Table) Cancel(subscription Subscription) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.subscribers = slices.DeleteFunc(t.subscribers, func(s subscriber) bool {
		return s.id == subscription
	})
}

// AddVar declares a new variable. Every existing rule is extended by a
// wildcard restriction on it.
func (t *Table) AddVar(variable tbl.Variable) error {
	return t.update(func(table *tbl.Table) error {
		if table.Model.Has(variable.Name) {
			return ErrDuplicateVariable
		}
		if len(variable.Values) == 0 {
			return ErrEmptyDomain
		}
		table.Model = tbl.NewModel(append(table.Model.Variables(), variable)...)
		for i := range table.Rules {
			table.Rules[i].Rule = append(table.Rules[i].Rule, tbl.Any(variable.Name))
		}
		return nil
	})
}

// DeleteVar removes a variable from the model and from every rule.
func (t *Table) DeleteVar(name string) error {
	return t.update(func(table *tbl.Table) error {
		if !table.Model.Has(name) {
			return ErrUnknownVariable
		}
		table.Model = tbl.NewModel(slices.DeleteFunc(table.Model.Variables(), func(v tbl.Variable) bool {
			return v.Name == name
		})...)
		for i := range table.Rules {
			table.Rules[i].Rule = slices.DeleteFunc(table.Rules[i].Rule, func(r tbl.VarRule) bool {
				return r.Name == name
			})
		}
		return nil
	})
}

// RenameVar renames a variable in the model and in every rule.
func (t *Table) RenameVar(from, to string) error {
	return t.update(func(table *tbl.Table) error {
		if !table.Model.Has(from) {
			return ErrUnknownVariable
		}
		if from == to {
			return nil
		}
		if table.Model.Has(to) {
			return ErrDuplicateVariable
		}
		vars := table.Model.Variables()
		for i := range vars {
			if vars[i].Name == from {
				vars[i].Name = to
			}
		}
		table.Model = tbl.NewModel(vars...)
		for i := range table.Rules {
			for j := range table.Rules[i].Rule {
				if table.Rules[i].Rule[j].Name == from {
					table.Rules[i].Rule[j].Name = to
				}
			}
		}
		return nil
	})
}

// AddRule appends a rule and returns its index.
func (t *Table) AddRule(rule tbl.ActionRule) int {
	res := 0
	t.update(func(table *tbl.Table) error {
		table.Rules = append(table.Rules, cloneRule(rule))
		res = len(table.Rules) - 1
		return nil
	})
	return res
}

func (t *Table) DeleteRule(idx int) error {
	return t.update(func(table *tbl.Table) error {
		if idx < 0 || idx >= len(table.Rules) {
			return ErrNoSuchRule
		}
		table.Rules = slices.Delete(table.Rules, idx, idx+1)
		return nil
	})
}

// SetCondition replaces the restriction the given rule places on the
// restricted variable, or adds it if the rule does not mention the variable.
func (t *Table) SetCondition(idx int, restriction tbl.VarRule) error {
	return t.update(func(table *tbl.Table) error {
		if idx < 0 || idx >= len(table.Rules) {
			return ErrNoSuchRule
		}
		rule := table.Rules[idx].Rule
		if pos := slices.IndexFunc(rule, func(r tbl.VarRule) bool { return r.Name == restriction.Name }); pos >= 0 {
			rule[pos] = restriction
		} else {
			table.Rules[idx].Rule = append(rule, restriction)
		}
		return nil
	})
}

func (t *Table) AssignAction(idx int, action string) error {
	return t.update(func(table *tbl.Table) error {
		if idx < 0 || idx >= len(table.Rules) {
			return ErrNoSuchRule
		}
		table.Rules[idx].Action = action
		return nil
	})
}

// RenameAction replaces the action of every rule specifying it.
func (t *Table) RenameAction(from, to string) error {
	return t.update(func(table *tbl.Table) error {
		found := false
		for i := range table.Rules {
			if table.Rules[i].Action == from {
				table.Rules[i].Action = to
				found = true
			}
		}
		if !found {
			return ErrUnknownAction
		}
		return nil
	})
}

// update applies the given mutation to a private copy of the current
// snapshot. On success, the copy becomes the new snapshot and subscribers
// are notified after the lock is released. Each subscriber receives its own
// copy of the evaluation and is skipped if it got cancelled in the meantime,
// e.g. by the callback of an earlier subscriber.
func (t *Table) update(mutate func(*tbl.Table) error) error {
	t.mutex.Lock()
	next := cloneTable(t.snapshot)
	if err := mutate(&next); err != nil {
		t.mutex.Unlock()
		return err
	}
	t.snapshot = next
	t.evaluation = t.evaluate(next)
	evaluation := t.evaluation
	subscribers := slices.Clone(t.subscribers)
	t.mutex.Unlock()

	for _, s := range subscribers {
		if t.isSubscribed(s.id) {
			s.callback(evaluation.clone())
		}
	}
	return nil
}

func (t *Table) isSubscribed(subscription Subscription) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return slices.ContainsFunc(t.subscribers, func(s subscriber) bool {
		return s.id == subscription
	})
}

// evaluate returns the evaluation of the given table. Cached evaluations are
// never handed out directly; callers receive copies.
func (t *Table) evaluate(table tbl.Table) Evaluation {
	key := fingerprint(table)
	if res, found := t.cache.Get(key); found {
		res = res.clone()
		res.Table = table
		return res
	}

	diagnostics := vld.Validate(table)
	res := Evaluation{
		Diagnostics: diagnostics,
		Sound:       vld.IsSound(diagnostics),
	}
	for _, d := range diagnostics {
		switch d.Kind {
		case vld.IncompleteRule:
			res.IncompleteRules = append(res.IncompleteRules, d.RuleIdxs...)
		case vld.RuleConflict:
			res.Conflicts = append(res.Conflicts, [2]int{d.RuleIdxs[0], d.RuleIdxs[1]})
		case vld.UncoveredCondition:
			res.Uncovered = append(res.Uncovered, d.Condition)
		}
	}
	t.cache.Add(key, res.clone())
	res.Table = table
	return res
}

// clone creates a deep copy of the evaluation, including its table.
func (e Evaluation) clone() Evaluation {
	res := Evaluation{
		Table:           cloneTable(e.Table),
		IncompleteRules: slices.Clone(e.IncompleteRules),
		Conflicts:       slices.Clone(e.Conflicts),
		Sound:           e.Sound,
	}
	if e.Diagnostics != nil {
		res.Diagnostics = make([]vld.Diagnostic, 0, len(e.Diagnostics))
		for _, d := range e.Diagnostics {
			d.RuleIdxs = slices.Clone(d.RuleIdxs)
			d.Condition = slices.Clone(d.Condition)
			res.Diagnostics = append(res.Diagnostics, d)
		}
	}
	if e.Uncovered != nil {
		res.Uncovered = make([]tbl.Condition, 0, len(e.Uncovered))
		for _, condition := range e.Uncovered {
			res.Uncovered = append(res.Uncovered, slices.Clone(condition))
		}
	}
	return res
}

func cloneTable(table tbl.Table) tbl.Table {
	vars := table.Model.Variables()
	for i := range vars {
		vars[i].Values = slices.Clone(vars[i].Values)
	}
	res := tbl.Table{
		Name:  table.Name,
		Model: tbl.NewModel(vars...),
		Rules: make([]tbl.ActionRule, 0, len(table.Rules)),
	}
	for _, rule := range table.Rules {
		res.Rules = append(res.Rules, cloneRule(rule))
	}
	return res
}

func cloneRule(rule tbl.ActionRule) tbl.ActionRule {
	return tbl.ActionRule{Rule: slices.Clone(rule.Rule), Action: rule.Action}
}
