// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package cmb enumerates the state space spanned by the variables of a
// decision table model.
package cmb

import (
	"github.com/holiman/uint256"
	"golang.org/x/exp/constraints"

	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// StateSpaceSize is the number of distinct conditions of the given model,
// i.e. the product of all domain sizes. The empty model has size 1. The
// product is computed in int arithmetic and silently wraps around for models
// exceeding the int range; use StateSpaceSizeU256 where this may happen.
func StateSpaceSize(model tbl.Model) int {
	sizes := []int{}
	for _, v := range model.Variables() {
		sizes = append(sizes, len(v.Values))
	}
	return product(sizes)
}

// StateSpaceSizeU256 computes the state space size without the risk of
// overflowing an int. The boolean result is set if even 256 bits are not
// sufficient, in which case the returned value is truncated.
func StateSpaceSizeU256(model tbl.Model) (*uint256.Int, bool) {
	res := uint256.NewInt(1)
	overflow := false
	for _, v := range model.Variables() {
		var o bool
		res, o = res.MulOverflow(res, uint256.NewInt(uint64(len(v.Values))))
		overflow = overflow || o
	}
	return res, overflow
}

func product[T constraints.Integer](values []T) T {
	res := T(1)
	for _, cur := range values {
		res *= cur
	}
	return res
}

// EnumerateVariable lists one instance per domain value, in domain order.
func EnumerateVariable(v tbl.Variable) []tbl.Instance {
	res := make([]tbl.Instance, 0, len(v.Values))
	for _, value := range v.Values {
		res = append(res, tbl.Instance{Name: v.Name, Value: value})
	}
	return res
}

// CrossProduct computes all combinations picking one element of each of the
// given lists. The first list varies slowest, the last list fastest. An
// empty list of lists has no combinations.
func CrossProduct[T any](lists [][]T) [][]T {
	if len(lists) == 0 {
		return [][]T{}
	}
	res := [][]T{{}}
	for _, list := range lists {
		next := make([][]T, 0, len(res)*len(list))
		for _, prefix := range res {
			for _, item := range list {
				tuple := make([]T, len(prefix), len(prefix)+1)
				copy(tuple, prefix)
				next = append(next, append(tuple, item))
			}
		}
		res = next
	}
	return res
}

// EnumerateModel lists every condition of the given model. The number of
// conditions equals StateSpaceSize for every non-empty model; the empty model
// has no conditions.
func EnumerateModel(model tbl.Model) []tbl.Condition {
	vars := model.Variables()
	instances := make([][]tbl.Instance, 0, len(vars))
	for _, v := range vars {
		instances = append(instances, EnumerateVariable(v))
	}
	combinations := CrossProduct(instances)
	res := make([]tbl.Condition, 0, len(combinations))
	for _, cur := range combinations {
		res = append(res, tbl.Condition(cur))
	}
	return res
}

// ForEachCondition passes the conditions of the given model to the consumer
// in the order produced by EnumerateModel without materializing the full
// state space. Each condition handed to the consumer is a fresh slice.
func ForEachCondition(model tbl.Model, consume func(tbl.Condition) common.ConsumerResult) common.ConsumerResult {
	vars := model.Variables()
	if len(vars) == 0 {
		return common.ConsumeContinue
	}
	for _, v := range vars {
		if len(v.Values) == 0 {
			return common.ConsumeContinue
		}
	}

	positions := make([]int, len(vars))
	for {
		condition := make(tbl.Condition, len(vars))
		for i, v := range vars {
			condition[i] = tbl.Instance{Name: v.Name, Value: v.Values[positions[i]]}
		}
		if consume(condition) == common.ConsumeAbort {
			return common.ConsumeAbort
		}

		// Advance the last position first, carrying over to earlier ones.
		i := len(vars) - 1
		for ; i >= 0; i-- {
			positions[i]++
			if positions[i] < len(vars[i].Values) {
				break
			}
			positions[i] = 0
		}
		if i < 0 {
			return common.ConsumeContinue
		}
	}
}
