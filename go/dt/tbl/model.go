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
	"fmt"
	"slices"
	"strings"
)

// Variable is a named dimension of a decision table with a finite domain.
type Variable struct {
	Name   string
	Values []string
}

// NewVariable creates a variable with the given domain.
func NewVariable(name string, values ...string) Variable {
	return Variable{Name: name, Values: values}
}

// Boolean creates a variable with the two-valued domain T and F.
func Boolean(name string) Variable {
	return NewVariable(name, "T", "F")
}

// Contains reports whether the given value is part of the variable's domain.
func (v Variable) Contains(value string) bool {
	return slices.Contains(v.Values, value)
}

func (v Variable) String() string {
	return fmt.Sprintf("%s: %s", v.Name, strings.Join(v.Values, " | "))
}

// Model maps variable names to variables. Iteration follows the order in
// which variables have been declared.
type Model struct {
	vars  []Variable
	index map[string]int
}

// NewModel creates a model of the given variables. A variable re-using an
// earlier variable's name replaces it in place.
func NewModel(vars ...Variable) Model {
	res := Model{index: make(map[string]int, len(vars))}
	for _, v := range vars {
		if pos, found := res.index[v.Name]; found {
			res.vars[pos] = v
			continue
		}
		res.index[v.Name] = len(res.vars)
		res.vars = append(res.vars, v)
	}
	return res
}

// Get returns the variable of the given name, if present.
func (m Model) Get(name string) (Variable, bool) {
	pos, found := m.index[name]
	if !found {
		return Variable{}, false
	}
	return m.vars[pos], true
}

// Has reports whether the model declares a variable of the given name.
func (m Model) Has(name string) bool {
	_, found := m.index[name]
	return found
}

// Len returns the number of variables in the model.
func (m Model) Len() int {
	return len(m.vars)
}

// Variables returns the model's variables in declaration order. The result
// is a copy and may be modified by the caller.
func (m Model) Variables() []Variable {
	return slices.Clone(m.vars)
}

// Names returns the model's variable names in declaration order.
func (m Model) Names() []string {
	res := make([]string, 0, len(m.vars))
	for _, v := range m.vars {
		res = append(res, v.Name)
	}
	return res
}
