package diag

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"WonFM/logger"
)

// Status classifies one check outcome.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarning Status = "warning"
)

// CheckResult is the outcome of a single diagnostic check. Message carries
// the raw error text on failure; nothing is persisted between runs.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Check is one independent probe. Checks must not depend on each other.
type Check struct {
	Name string
	Run  func(ctx context.Context) CheckResult
}

// Report aggregates one full suite run. Passed+Failed+Warnings always equals
// len(Results).
type Report struct {
	Timestamp time.Time     `json:"timestamp"`
	Results   []CheckResult `json:"results"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Warnings  int           `json:"warnings"`
	Percent   float64       `json:"percent"` // pass percentage over all checks
}

// run states: idle -> running -> completed, re-entrant. A run in flight
// cannot be aborted; a second trigger is refused instead.
type runState int32

const (
	stateIdle runState = iota
	stateRunning
	stateCompleted
)

// ErrRunInProgress is returned when a run is triggered while one is in flight.
var ErrRunInProgress = errors.New("diagnostics run already in progress")

// Suite owns a fixed set of checks and runs them concurrently.
type Suite struct {
	checks []Check

	mu    sync.Mutex
	state runState
	last  *Report
}

// NewSuite builds a suite over the given checks.
func NewSuite(checks []Check) *Suite {
	return &Suite{checks: checks, state: stateIdle}
}

// Last returns the report of the most recent completed run, or nil.
func (s *Suite) Last() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Run executes every check concurrently and joins on all of them before
// aggregating. No partial results, no per-probe timeout beyond ctx, no
// cancellation of a run already in flight.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	if s.state == stateRunning {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.state = stateRunning
	s.mu.Unlock()

	logger.Info("[Diag] Running diagnostics", logger.Int("checks", len(s.checks)))

	results := make([]CheckResult, len(s.checks))
	var wg sync.WaitGroup
	for i, check := range s.checks {
		wg.Add(1)
		go func(i int, check Check) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = CheckResult{
						Name:    check.Name,
						Status:  StatusFail,
						Message: fmt.Sprintf("check panicked: %v", r),
					}
				}
			}()
			results[i] = check.Run(ctx)
		}(i, check)
	}
	wg.Wait()

	report := &Report{
		Timestamp: time.Now(),
		Results:   results,
	}
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			report.Passed++
		case StatusFail:
			report.Failed++
		case StatusWarning:
			report.Warnings++
		}
	}
	if len(results) > 0 {
		report.Percent = float64(report.Passed) / float64(len(results)) * 100
	}

	s.mu.Lock()
	s.state = stateCompleted
	s.last = report
	s.mu.Unlock()

	logger.Info("[Diag] Diagnostics completed",
		logger.Int("passed", report.Passed),
		logger.Int("failed", report.Failed),
		logger.Int("warnings", report.Warnings))

	return report, nil
}
