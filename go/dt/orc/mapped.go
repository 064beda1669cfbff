// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package orc

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/gen"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// ErrConfiguration marks faults in the glue code between a table and an
// application. Such faults abort a test run instead of being reported as
// test failures.
const ErrConfiguration = common.ConstErr("table and application models not properly mapped")

const (
	ErrUnmappedVariable = common.ConstErr("variable is not mapped to an input field")
	ErrAmbiguousMapping = common.ConstErr("variable is mapped to more than one input field")
	ErrUnmappedValue    = common.ConstErr("value has no translation")
	ErrUnknownBinding   = common.ConstErr("binding refers to a variable unknown to the model")
)

// Binding maps a table variable to one field of an application input of
// type I, translating domain values into field values.
type Binding[I any] struct {
	Variable string
	Field    string
	values   []string
	set      func(*I, string) bool
}

// Bind creates a binding of the given variable to an input field. The set
// function stores a translated value in the field; the values map translates
// every domain value of the variable.
func Bind[I, V any](variable, field string, set func(*I, V), values map[string]V) Binding[I] {
	return Binding[I]{
		Variable: variable,
		Field:    field,
		values:   maps.Keys(values),
		set: func(input *I, value string) bool {
			translated, found := values[value]
			if found {
				set(input, translated)
			}
			return found
		},
	}
}

// InputMap translates conditions of a table into application inputs.
type InputMap[I any] struct {
	bindings map[string]Binding[I]
}

// NewInputMap creates an input map for the given model. Every variable of
// the model must be bound to exactly one field and every value of its domain
// must be translated; otherwise an error wrapping ErrConfiguration is
// returned, listing all problems.
func NewInputMap[I any](model tbl.Model, bindings ...Binding[I]) (InputMap[I], error) {
	res := InputMap[I]{bindings: map[string]Binding[I]{}}
	errs := []error{}
	for _, binding := range bindings {
		if !model.Has(binding.Variable) {
			errs = append(errs, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnknownBinding, binding.Variable))
			continue
		}
		if previous, found := res.bindings[binding.Variable]; found {
			errs = append(errs, fmt.Errorf("%w: %w: %q is bound to %q and %q", ErrConfiguration, ErrAmbiguousMapping, binding.Variable, previous.Field, binding.Field))
			continue
		}
		res.bindings[binding.Variable] = binding
	}

	for _, v := range model.Variables() {
		binding, found := res.bindings[v.Name]
		if !found {
			errs = append(errs, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnmappedVariable, v.Name))
			continue
		}
		for _, value := range v.Values {
			if !slices.Contains(binding.values, value) {
				errs = append(errs, fmt.Errorf("%w: %w: %q of variable %q", ErrConfiguration, ErrUnmappedValue, value, v.Name))
			}
		}
	}

	if len(errs) > 0 {
		return InputMap[I]{}, errors.Join(errs...)
	}
	return res, nil
}

// Translate converts a condition into an application input. Failures to
// resolve a variable or value are reported as errors wrapping
// ErrConfiguration.
func (m InputMap[I]) Translate(condition tbl.Condition) (I, error) {
	var input I
	for _, instance := range condition {
		binding, found := m.bindings[instance.Name]
		if !found {
			return input, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnmappedVariable, instance.Name)
		}
		if !binding.set(&input, instance.Value) {
			return input, fmt.Errorf("%w: %w: %q of variable %q", ErrConfiguration, ErrUnmappedValue, instance.Value, instance.Name)
		}
	}
	return input, nil
}

// OutputMap translates raw outputs of an application into table actions.
type OutputMap[O comparable] map[O]string

// MappedFailure records a mismatch observed by RunMapped, including the
// application-level input and output.
type MappedFailure[I any, O comparable] struct {
	Failure
	Input  I
	Output O
}

// RunMapped runs the given application function on every test case of the
// table, translating conditions through the input map and outputs through
// the output map. Outputs without translation are recorded as mismatches
// with an empty actual action. Configuration faults abort the run.
func RunMapped[I any, O comparable](
	table tbl.Table,
	inputs InputMap[I],
	outputs OutputMap[O],
	uut func(I) O,
) ([]MappedFailure[I, O], error) {
	failures := []MappedFailure[I, O]{}
	var fault error
	_, err := gen.ForEachCase(table, func(testCase gen.TestCase) common.ConsumerResult {
		input, err := inputs.Translate(testCase.Condition)
		if err != nil {
			fault = err
			return common.ConsumeAbort
		}
		output := uut(input)
		if actual := outputs[output]; actual != testCase.Action {
			failures = append(failures, MappedFailure[I, O]{
				Failure: Failure{
					Condition: testCase.Condition,
					Expected:  testCase.Action,
					Actual:    actual,
				},
				Input:  input,
				Output: output,
			})
		}
		return common.ConsumeContinue
	})
	if err != nil {
		return nil, err
	}
	if fault != nil {
		return nil, fault
	}
	return failures, nil
}
