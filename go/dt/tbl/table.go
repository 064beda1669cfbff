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

import "strings"

// Instance assigns a single value to a variable.
type Instance struct {
	Name  string
	Value string
}

func (i Instance) String() string {
	return i.Name + "=" + i.Value
}

// Condition is a concrete point of a model's state space, holding one
// instance per variable.
type Condition []Instance

// Get returns the value assigned to the given variable, if present.
func (c Condition) Get(name string) (string, bool) {
	for _, cur := range c {
		if cur.Name == name {
			return cur.Value, true
		}
	}
	return "", false
}

// Equal reports whether both conditions hold the same instances in the same
// order.
func (c Condition) Equal(other Condition) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

func (c Condition) String() string {
	parts := make([]string, 0, len(c))
	for _, cur := range c {
		parts = append(parts, cur.String())
	}
	return strings.Join(parts, " ")
}

// Table is a named set of action rules over a model. Rule order only matters
// for diagnostics and generated test case order.
type Table struct {
	Name  string
	Model Model
	Rules []ActionRule
}
