package smoke

import (
	"fmt"
	"time"
)

type StepResult struct {
	Number     int
	Name       string
	Passed     bool
	Skipped    bool
	SkipReason string
	// ExpectedStatus is set on negative steps.
	ExpectedStatus int
	// StatusCode is the last status observed when it is known.
	StatusCode int
	Lines      []string
	Duration   time.Duration
	Error      error
}

func (s *StepResult) logf(format string, args ...any) {
	s.Lines = append(s.Lines, fmt.Sprintf(format, args...))
}

// Negative reports whether the step passes on an error status.
func (s *StepResult) Negative() bool {
	return s.ExpectedStatus != 0
}

type RunResult struct {
	BaseURL  string
	Variant  Variant
	Steps    []*StepResult
	Passed   int
	Failed   int
	Skipped  int
	Aborted  bool
	AbortErr error
	Duration time.Duration
	Latency  LatencySummary
}

// Success reports whether the run completed with no failed step.
func (r *RunResult) Success() bool {
	return !r.Aborted && r.Failed == 0
}

func (r *RunResult) Total() int {
	return r.Passed + r.Failed + r.Skipped
}
