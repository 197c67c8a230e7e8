package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/itemprobe/packages/items"
	"github.com/abdul-hamid-achik/itemprobe/packages/smoke"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Runs     []JSONRun   `json:"runs"`
	Errors   []string    `json:"errors,omitempty"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the summary over every run
type JSONSummary struct {
	Total   int  `json:"total"`
	Passed  int  `json:"passed"`
	Failed  int  `json:"failed"`
	Skipped int  `json:"skipped"`
	Aborted bool `json:"aborted"`
}

// JSONRun represents one smoke run
type JSONRun struct {
	BaseURL    string       `json:"baseUrl"`
	Variant    string       `json:"variant"`
	Aborted    bool         `json:"aborted"`
	AbortError string       `json:"abortError,omitempty"`
	Duration   float64      `json:"duration"`
	Latency    *JSONLatency `json:"latency,omitempty"`
	Steps      []JSONStep   `json:"steps"`
}

// JSONLatency represents request latencies in milliseconds
type JSONLatency struct {
	Requests int64   `json:"requests"`
	Errors   int64   `json:"errors"`
	P50      float64 `json:"p50"`
	P95      float64 `json:"p95"`
	P99      float64 `json:"p99"`
	Max      float64 `json:"max"`
}

// JSONStep represents a single step result
type JSONStep struct {
	Number         int      `json:"number"`
	Name           string   `json:"name"`
	Passed         bool     `json:"passed"`
	Skipped        bool     `json:"skipped,omitempty"`
	SkipReason     string   `json:"skipReason,omitempty"`
	ExpectedStatus int      `json:"expectedStatus,omitempty"`
	StatusCode     int      `json:"statusCode,omitempty"`
	Duration       float64  `json:"duration"`
	Error          string   `json:"error,omitempty"`
	ErrorBody      string   `json:"errorBody,omitempty"`
	Lines          []string `json:"lines,omitempty"`
}

// JSONFormatter formats smoke results as JSON
type JSONFormatter struct {
	writer io.Writer
	runs   []JSONRun
	errors []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		runs:   make([]JSONRun, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *smoke.RunResult) {
	run := JSONRun{
		BaseURL:  result.BaseURL,
		Variant:  string(result.Variant),
		Aborted:  result.Aborted,
		Duration: ms(result.Duration),
		Steps:    make([]JSONStep, 0, len(result.Steps)),
	}
	if result.AbortErr != nil {
		run.AbortError = result.AbortErr.Error()
	}
	if l := result.Latency; l.Requests > 0 {
		run.Latency = &JSONLatency{
			Requests: l.Requests,
			Errors:   l.Errors,
			P50:      ms(l.P50),
			P95:      ms(l.P95),
			P99:      ms(l.P99),
			Max:      ms(l.Max),
		}
	}

	for _, s := range result.Steps {
		step := JSONStep{
			Number:         s.Number,
			Name:           s.Name,
			Passed:         s.Passed,
			Skipped:        s.Skipped,
			SkipReason:     s.SkipReason,
			ExpectedStatus: s.ExpectedStatus,
			StatusCode:     s.StatusCode,
			Duration:       ms(s.Duration),
			Lines:          s.Lines,
		}
		if s.Error != nil {
			step.Error = s.Error.Error()
			var he *items.HTTPError
			if errors.As(s.Error, &he) {
				step.ErrorBody = he.Message()
			}
		}
		run.Steps = append(run.Steps, step)
	}

	f.runs = append(f.runs, run)
}

// FormatError records a run-level error. Step errors are included in
// individual step results.
func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary JSONSummary
	for _, run := range f.runs {
		summary.Aborted = summary.Aborted || run.Aborted
		for _, s := range run.Steps {
			summary.Total++
			switch {
			case s.Skipped:
				summary.Skipped++
			case s.Passed:
				summary.Passed++
			default:
				summary.Failed++
			}
		}
	}

	output := JSONOutput{
		Summary:  summary,
		Runs:     f.runs,
		Errors:   f.errors,
		Duration: ms(totalDuration),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
