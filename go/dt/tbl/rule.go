// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tbl

import (
	"slices"
	"strings"
)

type restriction byte

const (
	wildcard restriction = iota
	concrete
)

// VarRule is the restriction a rule places on a single variable. It either
// admits every value of the variable's domain (a wildcard) or an explicit
// set of values (concrete). The zero value is a wildcard for the unnamed
// variable.
type VarRule struct {
	Name   string
	kind   restriction
	values []string
}

// Any creates a wildcard restriction for the given variable.
func Any(name string) VarRule {
	return VarRule{Name: name, kind: wildcard}
}

// Values creates a concrete restriction admitting the given values only.
// Values are not checked against any domain here.
func Values(name string, values ...string) VarRule {
	return VarRule{Name: name, kind: concrete, values: slices.Clone(values)}
}

func (r VarRule) IsWildcard() bool {
	return r.kind == wildcard
}

func (r VarRule) IsConcrete() bool {
	return r.kind == concrete
}

// Values returns the explicit values of a concrete restriction and nil for
// wildcards.
func (r VarRule) Values() []string {
	if r.IsWildcard() {
		return nil
	}
	return slices.Clone(r.values)
}

// Allows reports whether the given value satisfies this restriction.
func (r VarRule) Allows(value string) bool {
	return r.IsWildcard() || slices.Contains(r.values, value)
}

// Equal reports whether both restrictions target the same variable and admit
// the same values in the same order.
func (r VarRule) Equal(other VarRule) bool {
	return r.Name == other.Name && r.kind == other.kind && slices.Equal(r.values, other.values)
}

func (r VarRule) String() string {
	if r.IsWildcard() {
		return r.Name + "=*"
	}
	return r.Name + "=" + strings.Join(r.values, "|")
}

// Rule is a sequence of per-variable restrictions. A valid rule restricts
// every variable of its model exactly once; this is checked by validation,
// not by construction.
type Rule []VarRule

// Get returns the restriction for the given variable, if present.
func (r Rule) Get(name string) (VarRule, bool) {
	for _, cur := range r {
		if cur.Name == name {
			return cur, true
		}
	}
	return VarRule{}, false
}

// Names lists the variables restricted by this rule in rule order.
func (r Rule) Names() []string {
	res := make([]string, 0, len(r))
	for _, cur := range r {
		res = append(res, cur.Name)
	}
	return res
}

func (r Rule) String() string {
	parts := make([]string, 0, len(r))
	for _, cur := range r {
		parts = append(parts, cur.String())
	}
	return strings.Join(parts, " ∧ ")
}

// ActionRule pairs a rule with the action label it selects.
type ActionRule struct {
	Rule   Rule
	Action string
}

func (r ActionRule) String() string {
	return r.Rule.String() + " → " + r.Action
}
