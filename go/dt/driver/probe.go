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
	"sync"
	"sync/atomic"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	"pgregory.net/rand"

	"github.com/Fantom-foundation/DecisionTable/go/dt/alg"
	cliUtils "github.com/Fantom-foundation/DecisionTable/go/dt/driver/cli"
	"github.com/Fantom-foundation/DecisionTable/go/dt/gen"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
	"github.com/Fantom-foundation/DecisionTable/go/dt/vld"
)

var ProbeCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doProbe,
	Name:      "probe",
	Usage:     "Checks randomly sampled conditions for coverage and conflicts",
	ArgsUsage: "<table>",
	Flags: []cli.Flag{
		cliUtils.JobsFlag,
		cliUtils.SeedFlag,
		cliUtils.SamplesFlag,
	},
})

func doProbe(context *cli.Context) error {
	_, table, err := cliUtils.LoadTable(context)
	if err != nil {
		return err
	}
	jobCount := cliUtils.JobsFlag.Fetch(context)
	seed := cliUtils.SeedFlag.Fetch(context)
	samples := cliUtils.SamplesFlag.Fetch(context)

	if diagnostics := vld.Validate(table); vld.HasFatal(diagnostics) {
		return fmt.Errorf("table %q is structurally invalid: %v", table.Name, diagnostics[0])
	}

	fmt.Printf("Probing %d conditions of %q using %d jobs and seed %d ...\n", samples, table.Name, jobCount, seed)

	// Run a progress printer in the background.
	counter := atomic.Uint64{}
	stopProgressPrinter := make(chan struct{})
	var progressGroup sync.WaitGroup
	progressGroup.Add(1)
	go func() {
		defer progressGroup.Done()
		start := time.Now()
		last := uint64(0)
		for {
			select {
			case <-stopProgressPrinter:
				return
			case <-time.After(5 * time.Second):
				relativeTime := time.Since(start)
				current := counter.Load()
				diff := current - last
				last = current
				rate := float64(diff) / 5
				fmt.Printf(
					"[t=%4d:%02d] - Processing ~%s samples per second, total %d\n",
					int(relativeTime.Seconds())/60, int(relativeTime.Seconds())%60,
					unitconv.FormatPrefix(rate, unitconv.SI, 0), current,
				)
			}
		}
	}()

	issuesCollector := &cliUtils.IssuesCollector{}
	probeTable(table, issuesCollector, &counter, samples, seed, jobCount)

	close(stopProgressPrinter)
	progressGroup.Wait()

	// Summarize the result.
	fmt.Printf("Probing completed, %d conditions checked\n", counter.Load())
	numIssues := issuesCollector.NumIssues()
	if numIssues == 0 {
		fmt.Printf("All sampled conditions are covered by consistent rules!\n")
		return nil
	}
	if err := issuesCollector.ExportIssues(); err != nil {
		return err
	}
	fmt.Printf("Issues found: %d\n", numIssues)
	return nil
}

// probeTable checks up to the given number of random conditions using
// jobCount workers. Each worker draws from its own generator derived from
// the seed and stops at the first issue found by any worker.
func probeTable(
	table tbl.Table,
	issuesCollector *cliUtils.IssuesCollector,
	counter *atomic.Uint64,
	samples uint64,
	seed uint64,
	jobCount int,
) {
	var claimed atomic.Uint64
	var wg sync.WaitGroup
	wg.Add(jobCount)
	for i := 0; i < jobCount; i++ {
		go func(worker uint64) {
			defer wg.Done()
			rnd := rand.New(seed + worker)
			for issuesCollector.NumIssues() == 0 && claimed.Add(1) <= samples {
				condition, err := gen.SampleCondition(rnd, table.Model)
				if err != nil {
					issuesCollector.AddIssue(nil, err)
					return
				}
				if err := checkCondition(table, condition); err != nil {
					issuesCollector.AddIssue(condition, err)
					return
				}
				counter.Add(1)
			}
		}(uint64(i))
	}
	wg.Wait()
}

// checkCondition verifies that the condition is covered and that all
// covering rules agree on the action.
func checkCondition(table tbl.Table, condition tbl.Condition) error {
	rules := alg.CoveringRules(table, condition)
	if len(rules) == 0 {
		return fmt.Errorf("no rule covers condition %v", condition)
	}
	first := rules[0]
	for _, other := range rules[1:] {
		if table.Rules[first].Action != table.Rules[other].Action {
			return fmt.Errorf(
				"rules %d and %d specify different actions for condition %v: %s vs %s",
				first, other, condition, table.Rules[first].Action, table.Rules[other].Action,
			)
		}
	}
	return nil
}
