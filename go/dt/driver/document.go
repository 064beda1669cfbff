// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/DecisionTable/go/dt/doc"
	cliUtils "github.com/Fantom-foundation/DecisionTable/go/dt/driver/cli"
	"github.com/Fantom-foundation/DecisionTable/go/dt/vld"
)

var DocCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doDoc,
	Name:      "doc",
	Usage:     "Renders a Markdown summary next to the table document",
	ArgsUsage: "<table>",
})

func doDoc(context *cli.Context) error {
	path, table, err := cliUtils.LoadTable(context)
	if err != nil {
		return err
	}

	diagnostics := vld.Validate(table)
	fileName := doc.FileName(table)
	output := filepath.Join(filepath.Dir(path), fileName)
	if err := os.WriteFile(output, []byte(doc.Markdown(table, diagnostics)), 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if len(diagnostics) == 0 {
		fmt.Printf("Decision table summary available at %s\n", output)
	} else {
		fmt.Printf("Found %d problems with table, see %s\n", len(diagnostics), output)
	}
	return nil
}
