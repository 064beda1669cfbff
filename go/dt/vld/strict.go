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
	"strings"

	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// UnsoundTableError is produced by ValidateOrFail for tables with findings.
type UnsoundTableError struct {
	Table       string
	Diagnostics []Diagnostic
}

func (e *UnsoundTableError) Error() string {
	var builder strings.Builder
	builder.WriteString("table ")
	if e.Table != "" {
		builder.WriteString("\"" + e.Table + "\" ")
	}
	builder.WriteString("is not sound, found the following problems:")
	for _, diagnostic := range e.Diagnostics {
		builder.WriteString("\n\t")
		builder.WriteString(diagnostic.String())
	}
	return builder.String()
}

// ValidateOrFail returns the given table if it is sound. Otherwise, an
// *UnsoundTableError listing all diagnostics is returned.
func ValidateOrFail(table tbl.Table) (tbl.Table, error) {
	diagnostics := Validate(table)
	if !IsSound(diagnostics) {
		return tbl.Table{}, &UnsoundTableError{Table: table.Name, Diagnostics: diagnostics}
	}
	return table, nil
}
