// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package orc drives implementations of a decision table, the units under
// test, against the test cases implied by the table.
package orc

//go:generate mockgen -source oracle.go -destination oracle_mock.go -package orc

import (
	"fmt"

	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/gen"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// UnitUnderTest is an implementation of the decisions described by a table.
type UnitUnderTest interface {
	// Decide returns the action selected for the given condition.
	Decide(tbl.Condition) string
}

// DecisionFunc adapts a plain function to the UnitUnderTest interface.
type DecisionFunc func(tbl.Condition) string

func (f DecisionFunc) Decide(condition tbl.Condition) string {
	return f(condition)
}

// Failure records a test case for which the unit under test selected an
// unexpected action.
type Failure struct {
	Condition tbl.Condition
	Expected  string
	Actual    string
}

func (f Failure) String() string {
	return fmt.Sprintf("condition %v: expected %q, got %q", f.Condition, f.Expected, f.Actual)
}

// RunDirect runs the unit under test on every test case of the table, one
// case at a time and in generation order, and returns all mismatches. An
// empty result means that all cases passed. An error is only returned if the
// table's test cases cannot be enumerated.
func RunDirect(table tbl.Table, uut UnitUnderTest) ([]Failure, error) {
	failures := []Failure{}
	_, err := gen.ForEachCase(table, func(testCase gen.TestCase) common.ConsumerResult {
		if actual := uut.Decide(testCase.Condition); actual != testCase.Action {
			failures = append(failures, Failure{
				Condition: testCase.Condition,
				Expected:  testCase.Action,
				Actual:    actual,
			})
		}
		return common.ConsumeContinue
	})
	if err != nil {
		return nil, err
	}
	return failures, nil
}
