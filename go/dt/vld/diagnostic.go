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
	"fmt"

	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// Severity distinguishes structural problems halting the validation from
// advisory findings that are accumulated.
type Severity byte

const (
	Advisory Severity = iota
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Advisory:
		return "advisory"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("Severity(%d)", byte(s))
}

// Kind names the check producing a diagnostic.
type Kind byte

const (
	IncompleteRule Kind = iota
	DuplicateRestriction
	UnknownVariable
	InvalidValue
	DuplicateAction
	RuleConflict
	UncoveredCondition
)

func (k Kind) String() string {
	switch k {
	case IncompleteRule:
		return "incomplete rule"
	case DuplicateRestriction:
		return "duplicate restriction"
	case UnknownVariable:
		return "unknown variable"
	case InvalidValue:
		return "invalid value"
	case DuplicateAction:
		return "duplicate action"
	case RuleConflict:
		return "rule conflict"
	case UncoveredCondition:
		return "uncovered condition"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Diagnostic is a single finding of the validation of a table.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	// RuleIdxs lists the implicated rules, if any.
	RuleIdxs []int
	// Condition is set for uncovered condition findings.
	Condition tbl.Condition
}

func (d Diagnostic) IsFatal() bool {
	return d.Severity == Fatal
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %s", d.Severity, d.Message)
}
