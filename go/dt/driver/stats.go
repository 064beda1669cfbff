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
	"math/big"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"

	"github.com/Fantom-foundation/DecisionTable/go/dt/cmb"
	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	cliUtils "github.com/Fantom-foundation/DecisionTable/go/dt/driver/cli"
	"github.com/Fantom-foundation/DecisionTable/go/dt/gen"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

var StatsCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doStats,
	Name:      "stats",
	Usage:     "Computes the size of the state space and the number of test cases per rule",
	ArgsUsage: "<table>",
	Flags: []cli.Flag{
		cliUtils.FilterFlag,
		cliUtils.JobsFlag,
	},
})

func doStats(context *cli.Context) error {
	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}
	jobCount := cliUtils.JobsFlag.Fetch(context)
	_, table, err := cliUtils.LoadTable(context)
	if err != nil {
		return err
	}

	size, overflow := cmb.StateSpaceSizeU256(table.Model)
	if overflow {
		fmt.Printf("State space of %d variables exceeds 2^256 conditions\n", table.Model.Len())
	} else {
		approx, _ := new(big.Float).SetInt(size.ToBig()).Float64()
		fmt.Printf("State space of %d variables: %s conditions (~%s)\n",
			table.Model.Len(), size.ToBig(), unitconv.FormatPrefix(approx, unitconv.SI, 1))
	}

	// Cases of the selected rules are reported under the rules' index in the
	// full table, matching the output of the list command.
	indices := filterRules(table.Rules, filter)
	selected := table
	selected.Rules = nil
	for _, i := range indices {
		selected.Rules = append(selected.Rules, table.Rules[i])
	}
	statsCollector := newStatsCollector(table.Rules, indices)

	printProgress := func(relativeTime time.Duration, rate float64, current int64) {
		fmt.Printf(
			"[t=%4d:%02d] - Processing ~%s cases per second, total %d\n",
			int(relativeTime.Seconds())/60, int(relativeTime.Seconds())%60,
			unitconv.FormatPrefix(rate, unitconv.SI, 0), current,
		)
	}

	opCase := func(testCase gen.TestCase) common.ConsumerResult {
		statsCollector.registerCaseFor(indices[testCase.RuleIdx])
		return common.ConsumeContinue
	}

	fmt.Printf("Enumerating test cases of %d rules using %d jobs ...\n", len(selected.Rules), jobCount)
	if err := gen.ForEachCaseParallel(selected, opCase, printProgress, jobCount); err != nil {
		return fmt.Errorf("error enumerating rules: %w", err)
	}

	fmt.Printf("%v", statsCollector.getStatistics())
	return nil
}

type statsCollector struct {
	statistics ruleStatistics
	mu         sync.Mutex
}

// newStatsCollector creates a collector for the rules of the given indices.
func newStatsCollector(rules []tbl.ActionRule, indices []int) *statsCollector {
	stats := ruleStatistics{make(map[int]ruleInfo)}
	for _, i := range indices {
		stats.data[i] = ruleInfo{action: rules[i].Action} // initialize all rules with 0
	}
	return &statsCollector{statistics: stats}
}

func (c *statsCollector) registerCaseFor(ruleIdx int) {
	c.mu.Lock()
	c.statistics.registerCaseFor(ruleIdx)
	c.mu.Unlock()
}

func (c *statsCollector) getStatistics() *ruleStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statistics.clone()
}

type ruleStatistics struct {
	data map[int]ruleInfo
}

func (s *ruleStatistics) registerCaseFor(ruleIdx int) {
	if s.data == nil {
		s.data = make(map[int]ruleInfo)
	}
	stats := s.data[ruleIdx]
	stats.numCases++
	s.data[ruleIdx] = stats
}

func (s *ruleStatistics) getNumCasesFor(ruleIdx int) uint64 {
	return s.data[ruleIdx].numCases
}

func (s *ruleStatistics) clone() *ruleStatistics {
	return &ruleStatistics{maps.Clone(s.data)}
}

func (s *ruleStatistics) String() string {
	builder := strings.Builder{}

	rules := maps.Keys(s.data)
	slices.Sort(rules)

	builder.WriteString("rule,action,num_cases\n")
	total := uint64(0)
	for _, rule := range rules {
		info := s.data[rule]
		builder.WriteString(fmt.Sprintf("%d,%s,%d\n", rule, info.action, info.numCases))
		total += info.numCases
	}
	builder.WriteString(fmt.Sprintf("total,,%d\n", total))
	return builder.String()
}

type ruleInfo struct {
	action   string
	numCases uint64
}
