// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

type issue struct {
	condition tbl.Condition
	err       error
}

func (i *issue) Error() error {
	return i.err
}

func (i *issue) Condition() tbl.Condition {
	return i.condition
}

type IssuesCollector struct {
	issues []issue
	mu     sync.Mutex
}

func (c *IssuesCollector) AddIssue(condition tbl.Condition, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, issue{append(tbl.Condition(nil), condition...), err})
}

func (c *IssuesCollector) NumIssues() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}

func (c *IssuesCollector) GetIssues() []issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issues
}

// ExportIssues prints all collected issues. Conditions of issues are dumped
// into YAML files of a fresh temporary directory to simplify reproducing
// them.
func (c *IssuesCollector) ExportIssues() error {
	issues := c.GetIssues()
	if len(issues) == 0 {
		return nil
	}
	dir, err := os.MkdirTemp("", "dt_issues_*")
	if err != nil {
		return fmt.Errorf("failed to create output directory for %d issues", len(issues))
	}
	for i, issue := range issues {
		fmt.Printf("----------------------------\n")
		fmt.Printf("%s\n", issue.err)

		if issue.condition != nil {
			path := filepath.Join(dir, fmt.Sprintf("issue_%06d.yaml", i))
			if err := exportCondition(issue.condition, path); err == nil {
				fmt.Printf("Condition dumped to %s\n", path)
			} else {
				fmt.Printf("failed to dump condition: %v\n", err)
			}
		}
	}
	return nil
}

// exportCondition writes the condition as a YAML mapping preserving the
// order of its instances.
func exportCondition(condition tbl.Condition, path string) error {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, instance := range condition {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: instance.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: instance.Value},
		)
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
