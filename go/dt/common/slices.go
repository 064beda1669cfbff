// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"
	"strings"
)

// IndicesWhere returns the positions of all elements satisfying the given
// predicate, in ascending order.
func IndicesWhere[T any](items []T, predicate func(T) bool) []int {
	res := []int{}
	for i, item := range items {
		if predicate(item) {
			res = append(res, i)
		}
	}
	return res
}

// ShowList renders a list of items for human readers, e.g. "1, 2, & 3".
func ShowList[T any](items []T) string {
	switch len(items) {
	case 0:
		return "(empty list)"
	case 1:
		return fmt.Sprint(items[0])
	case 2:
		return fmt.Sprintf("%v & %v", items[0], items[1])
	}
	var builder strings.Builder
	for _, item := range items[:len(items)-1] {
		builder.WriteString(fmt.Sprintf("%v, ", item))
	}
	builder.WriteString(fmt.Sprintf("& %v", items[len(items)-1]))
	return builder.String()
}
