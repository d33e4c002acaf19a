package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/runway/internal/config"
)

// Scenario is a named variation of a base request.
type Scenario struct {
	Name    string
	Request Request
}

// ScenarioResult pairs a scenario with its outcome.
type ScenarioResult struct {
	Name   string
	Result *RunResult
	Err    error
}

// ProgressFunc is called as runs complete.
// current is the number of runs finished so far, total is the total count.
type ProgressFunc func(current, total int)

// CashScenarios returns one scenario per preset, each starting with the
// preset's cash and otherwise identical to base.
func CashScenarios(base Request, presets []config.Preset) []Scenario {
	out := make([]Scenario, 0, len(presets))
	for _, p := range presets {
		req := base
		req.Initial.Cash = p.Value
		out = append(out, Scenario{Name: p.Label, Request: req})
	}
	return out
}

// TeamScenarios returns one scenario per preset initial team size.
func TeamScenarios(base Request, presets []config.Preset) []Scenario {
	out := make([]Scenario, 0, len(presets))
	for _, p := range presets {
		req := base
		req.Initial.TeamSize = int(p.Value)
		out = append(out, Scenario{Name: fmt.Sprintf("team %s", p.Label), Request: req})
	}
	return out
}

// RunBatch runs scenarios on a bounded worker pool. Results keep the input
// order; a failing scenario does not stop the others.
func RunBatch(scenarios []Scenario, progressFn ProgressFunc) []ScenarioResult {
	results := make([]ScenarioResult, len(scenarios))
	if len(scenarios) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(scenarios) {
		numWorkers = len(scenarios)
	}

	work := make(chan int, len(scenarios))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range scenarios {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				sc := scenarios[idx]
				res, err := Run(sc.Request)
				results[idx] = ScenarioResult{Name: sc.Name, Result: res, Err: err}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(scenarios))
				}
			}
		}()
	}

	wg.Wait()
	return results
}
