// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package doc renders decision tables and their validation results as
// Markdown documents.
package doc

import (
	"fmt"
	"strings"

	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
	"github.com/Fantom-foundation/DecisionTable/go/dt/vld"
)

const (
	failureMark = "❌"
	successLine = "## ✅ Table passes all checks!"
)

// Markdown renders the given table together with the diagnostics produced by
// validating it. If any diagnostic is fatal, only the fatal messages are
// rendered since the specification section can not be produced for
// structurally broken tables.
func Markdown(table tbl.Table, diagnostics []vld.Diagnostic) string {
	fatal := []string{}
	for _, d := range diagnostics {
		if d.IsFatal() {
			fatal = append(fatal, fmt.Sprintf("%s %s", failureMark, d.Message))
		}
	}
	if len(fatal) > 0 {
		return strings.Join(fatal, "\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title(table))

	b.WriteString("## Model\n")
	vars := make([]string, 0, table.Model.Len())
	for _, v := range table.Model.Variables() {
		vars = append(vars, fmt.Sprintf("%s: %s", v.Name, strings.Join(v.Values, " | ")))
	}
	b.WriteString(strings.Join(vars, "\n\n"))
	b.WriteString("\n\n")

	b.WriteString("## Specification\n")
	names := table.Model.Names()
	b.WriteString("|" + strings.Join(names, "|") + "|ACTION|\n")
	b.WriteString("|" + strings.Repeat("-----|", len(names)+1) + "\n")
	for _, rule := range table.Rules {
		b.WriteString(row(rule, names))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(diagnostics) == 0 {
		b.WriteString(successLine)
		return b.String()
	}
	b.WriteString("### Found the following issues\n")
	issues := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		issues = append(issues, fmt.Sprintf("%s %s\n", failureMark, d.Message))
	}
	b.WriteString(strings.Join(issues, "\n"))
	return b.String()
}

func row(rule tbl.ActionRule, names []string) string {
	cells := make([]string, 0, len(names)+1)
	for _, name := range names {
		restriction, found := rule.Rule.Get(name)
		switch {
		case !found:
			cells = append(cells, "")
		case restriction.IsWildcard():
			cells = append(cells, " - ")
		default:
			cells = append(cells, strings.Join(restriction.Values(), ` \| `))
		}
	}
	cells = append(cells, rule.Action)
	return "|" + strings.Join(cells, "|") + "|"
}

func title(table tbl.Table) string {
	if table.Name == "" {
		return "Untitled Decision Table"
	}
	return table.Name
}

// FileName derives the name of the Markdown document of a table from its
// name, e.g. "Login Flow" becomes "login-flow.md".
func FileName(table tbl.Table) string {
	return strings.Join(strings.Split(strings.ToLower(title(table)), " "), "-") + ".md"
}
