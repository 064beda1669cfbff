// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package ldr loads decision tables from YAML documents of the form
//
//	name: Login
//	vars:
//	  admin: boolean
//	  mode: [read, write]
//	rules:
//	  - condition: {admin: T, mode: ANY}
//	    action: allow
//
// where "boolean" declares the domain [T, F] and "ANY" a wildcard.
package ldr

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

const (
	DefaultName = "Untitled Table"
	anyValue    = "ANY"
	booleanType = "boolean"
)

// SchemaError lists all violations of the document schema found in a table
// document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid table document:\n\t" + strings.Join(e.Problems, "\n\t")
}

// Load reads and parses the table document at the given path.
func Load(path string) (tbl.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tbl.Table{}, fmt.Errorf("failed to read table document: %w", err)
	}
	return Parse(data)
}

// Parse converts a table document into a table. Variables and rule
// conditions keep the order of the document.
func Parse(data []byte) (tbl.Table, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return tbl.Table{}, fmt.Errorf("failed to parse table document: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	p := &parser{}
	table := p.table(doc)
	if len(p.problems) > 0 {
		return tbl.Table{}, &SchemaError{Problems: p.problems}
	}
	return table, nil
}

type parser struct {
	problems []string
}

func (p *parser) fail(node *yaml.Node, format string, args ...any) {
	p.problems = append(p.problems, fmt.Sprintf("line %d: %s", node.Line, fmt.Sprintf(format, args...)))
}

// pairs lists the key/value pairs of a mapping node in document order.
func pairs(node *yaml.Node) [][2]*yaml.Node {
	res := make([][2]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		res = append(res, [2]*yaml.Node{node.Content[i], node.Content[i+1]})
	}
	return res
}

func (p *parser) table(node *yaml.Node) tbl.Table {
	res := tbl.Table{Name: DefaultName}
	if node.Kind != yaml.MappingNode {
		p.fail(node, "table document must be a mapping")
		return res
	}

	var vars, rules *yaml.Node
	for _, pair := range pairs(node) {
		key, value := pair[0], pair[1]
		switch key.Value {
		case "name":
			if name, ok := p.scalar(value, "name"); ok && name != "" {
				res.Name = name
			}
		case "vars":
			vars = value
		case "rules":
			rules = value
		default:
			p.fail(key, "unknown property %q", key.Value)
		}
	}

	if vars == nil {
		p.fail(node, "missing required property \"vars\"")
	} else {
		res.Model = p.model(vars)
	}
	if rules == nil {
		p.fail(node, "missing required property \"rules\"")
	} else {
		res.Rules = p.rules(rules)
	}
	return res
}

func (p *parser) scalar(node *yaml.Node, what string) (string, bool) {
	if node.Kind != yaml.ScalarNode {
		p.fail(node, "%s must be a scalar", what)
		return "", false
	}
	return node.Value, true
}

func (p *parser) scalars(node *yaml.Node, what string) ([]string, bool) {
	if node.Kind != yaml.SequenceNode {
		p.fail(node, "%s must be a list", what)
		return nil, false
	}
	res := make([]string, 0, len(node.Content))
	ok := true
	for _, item := range node.Content {
		value, valid := p.scalar(item, what+" entry")
		ok = ok && valid
		res = append(res, value)
	}
	return res, ok
}

func (p *parser) model(node *yaml.Node) tbl.Model {
	if node.Kind != yaml.MappingNode {
		p.fail(node, "vars must be a mapping")
		return tbl.NewModel()
	}
	vars := []tbl.Variable{}
	for _, pair := range pairs(node) {
		key, value := pair[0], pair[1]
		name := key.Value
		if value.Kind == yaml.ScalarNode {
			if value.Value != booleanType {
				p.fail(value, "variable %q must be %q or a list of values", name, booleanType)
				continue
			}
			vars = append(vars, tbl.Boolean(name))
			continue
		}
		values, ok := p.scalars(value, fmt.Sprintf("domain of %q", name))
		if !ok {
			continue
		}
		if len(values) == 0 {
			p.fail(value, "domain of %q must not be empty", name)
			continue
		}
		if duplicates := duplicates(values); len(duplicates) > 0 {
			p.fail(value, "domain of %q contains duplicate values %v", name, duplicates)
			continue
		}
		vars = append(vars, tbl.NewVariable(name, values...))
	}
	return tbl.NewModel(vars...)
}

func duplicates(values []string) []string {
	res := []string{}
	seen := map[string]bool{}
	for _, value := range values {
		if seen[value] && !slices.Contains(res, value) {
			res = append(res, value)
		}
		seen[value] = true
	}
	return res
}

func (p *parser) rules(node *yaml.Node) []tbl.ActionRule {
	if node.Kind != yaml.SequenceNode {
		p.fail(node, "rules must be a list")
		return nil
	}
	res := make([]tbl.ActionRule, 0, len(node.Content))
	for i, item := range node.Content {
		if rule, ok := p.rule(i, item); ok {
			res = append(res, rule)
		}
	}
	return res
}

func (p *parser) rule(idx int, node *yaml.Node) (tbl.ActionRule, bool) {
	if node.Kind != yaml.MappingNode {
		p.fail(node, "rule %d must be a mapping", idx)
		return tbl.ActionRule{}, false
	}
	var condition, action *yaml.Node
	for _, pair := range pairs(node) {
		switch pair[0].Value {
		case "condition":
			condition = pair[1]
		case "action":
			action = pair[1]
		default:
			p.fail(pair[0], "rule %d has unknown property %q", idx, pair[0].Value)
		}
	}

	ok := true
	res := tbl.ActionRule{}
	if action == nil {
		p.fail(node, "rule %d is missing required property \"action\"", idx)
		ok = false
	} else if label, valid := p.scalar(action, "action"); !valid || label == "" {
		if valid {
			p.fail(action, "rule %d has an empty action", idx)
		}
		ok = false
	} else {
		res.Action = label
	}

	if condition == nil {
		p.fail(node, "rule %d is missing required property \"condition\"", idx)
		return res, false
	}
	if condition.Kind != yaml.MappingNode {
		p.fail(condition, "condition of rule %d must be a mapping", idx)
		return res, false
	}
	for _, pair := range pairs(condition) {
		name, value := pair[0].Value, pair[1]
		if value.Kind == yaml.ScalarNode {
			if value.Value == anyValue {
				res.Rule = append(res.Rule, tbl.Any(name))
			} else {
				res.Rule = append(res.Rule, tbl.Values(name, value.Value))
			}
			continue
		}
		values, valid := p.scalars(value, fmt.Sprintf("condition on %q in rule %d", name, idx))
		if !valid {
			ok = false
			continue
		}
		res.Rule = append(res.Rule, tbl.Values(name, values...))
	}
	return res, ok
}
