// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package gen

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Fantom-foundation/DecisionTable/go/dt/common"
	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// ForEachCaseParallel processes all test cases of the given table using
// numJobs goroutines. Unlike ForEachCase, cases are processed in no
// particular order. The printProgress function is called periodically with
// the rate of the last interval and once at the end with the average rate of
// the whole run; it may be nil.
func ForEachCaseParallel(
	table tbl.Table,
	opFunction func(TestCase) common.ConsumerResult,
	printProgress func(relativeTime time.Duration, rate float64, current int64),
	numJobs int,
) error {
	// Cases are processed in three stages:
	//   - this goroutine writes the indices of the rules to be expanded into a channel
	//   - a team of goroutines expands those rules and forwards the resulting
	//     test cases into a second channel
	//   - another team of goroutines consumes the test cases.
	// Consumers are started before producers to avoid dead-locks.
	if numJobs <= 0 {
		numJobs = 1
	}
	if printProgress == nil {
		printProgress = func(time.Duration, float64, int64) {}
	}

	var caseCounter atomic.Int64
	var abort atomic.Bool

	done := make(chan bool)
	printerDone := make(chan bool)
	go func() {
		defer close(printerDone)
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		startTime := time.Now()
		lastTime := startTime
		lastCounter := int64(0)

		checkTimingAndPrint := func(now time.Time) {
			cur := caseCounter.Load()
			diffCounter := cur - lastCounter
			diffTime := now.Sub(lastTime)
			lastTime = now
			lastCounter = cur

			rate := 0.0
			if diffTime > 0 {
				rate = float64(diffCounter) / diffTime.Seconds()
			}
			printProgress(now.Sub(startTime), rate, cur)
		}

		for {
			select {
			case <-done:
				// The final report covers the full run since the last interval
				// may be arbitrarily short.
				lastTime = startTime
				lastCounter = 0
				checkTimingAndPrint(time.Now())
				return
			case now := <-ticker.C:
				checkTimingAndPrint(now)
			}
		}
	}()

	var caseWaitGroup sync.WaitGroup
	caseWaitGroup.Add(numJobs)
	caseChannel := make(chan TestCase, 10*numJobs)
	for i := 0; i < numJobs; i++ {
		go func() {
			defer caseWaitGroup.Done()
			for testCase := range caseChannel {
				if abort.Load() {
					continue // drain the channel
				}
				caseCounter.Add(1)
				if opFunction(testCase) == common.ConsumeAbort {
					abort.Store(true)
				}
			}
		}()
	}

	ruleChannel := make(chan int, 10*numJobs)
	var ruleWaitGroup sync.WaitGroup
	ruleWaitGroup.Add(numJobs)

	var errorMutex sync.Mutex
	var returnError error

	for i := 0; i < numJobs; i++ {
		go func() {
			defer ruleWaitGroup.Done()
			for ruleIdx := range ruleChannel {
				if abort.Load() {
					continue
				}
				rule := table.Rules[ruleIdx]
				conditions, err := EnumerateRule(table.Model, rule.Rule)
				if err != nil {
					abort.Store(true)
					errorMutex.Lock()
					returnError = fmt.Errorf("failed to enumerate rule %d: %w", ruleIdx, err)
					errorMutex.Unlock()
					continue
				}
				for _, condition := range conditions {
					if abort.Load() {
						break
					}
					caseChannel <- TestCase{Condition: condition, Action: rule.Action, RuleIdx: ruleIdx}
				}
			}
		}()
	}

	for i := range table.Rules {
		ruleChannel <- i
	}

	close(ruleChannel)
	ruleWaitGroup.Wait()

	close(caseChannel)
	caseWaitGroup.Wait()

	close(done)
	<-printerDone

	return returnError
}
