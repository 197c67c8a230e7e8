package smoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/itemprobe/packages/items"
)

const (
	// DefaultMissingGetID is the id read by the missing-item step
	DefaultMissingGetID = 88
	// DefaultMissingDeleteID is the id deleted by the missing-item step
	DefaultMissingDeleteID = 77
)

type Config struct {
	Variant         Variant
	MissingGetID    int
	MissingDeleteID int
	// Bail stops the run after the first failed step.
	Bail bool
	// Rate paces requests per second; 0 disables pacing.
	Rate float64
	// Now stamps dated payloads; defaults to time.Now.
	Now func() time.Time
}

type Runner struct {
	client  *items.Client
	config  *Config
	limiter *rate.Limiter
	metrics *Metrics
}

func NewRunner(client *items.Client, cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	if c.Variant == "" {
		c.Variant = VariantDated
	}
	if c.MissingGetID == 0 {
		c.MissingGetID = DefaultMissingGetID
	}
	if c.MissingDeleteID == 0 {
		c.MissingDeleteID = DefaultMissingDeleteID
	}
	if c.Now == nil {
		c.Now = time.Now
	}

	r := &Runner{
		client: client,
		config: &c,
	}
	if c.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(c.Rate), 1)
	}
	return r
}

// Run executes every step in order. The returned error is non-nil only when
// ctx is nil; failures are reported in the RunResult.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	if ctx == nil {
		return nil, errors.New("nil context")
	}

	start := time.Now()
	r.metrics = NewMetrics()
	result := &RunResult{
		BaseURL: r.client.BaseURL(),
		Variant: r.config.Variant,
	}

	st := newState()
	stopReason := ""

	for i, s := range script {
		res := &StepResult{Number: i + 1, Name: s.name}
		result.Steps = append(result.Steps, res)

		if stopReason == "" && ctx.Err() != nil {
			result.Aborted = true
			result.AbortErr = ctx.Err()
			stopReason = "run aborted"
		}
		if stopReason != "" {
			res.Skipped = true
			res.SkipReason = stopReason
			result.Skipped++
			continue
		}

		if missing := st.missing(s.needs); missing != "" {
			res.Skipped = true
			res.SkipReason = fmt.Sprintf("dependency failed (no %s item)", missing)
			result.Skipped++
			continue
		}

		stepStart := time.Now()
		err := s.run(ctx, r, st, res)
		res.Duration = time.Since(stepStart)

		if err != nil {
			res.Error = err
			if code, ok := items.StatusCode(err); ok {
				res.StatusCode = code
			}
			result.Failed++
			switch {
			case items.IsTransport(err), s.fatal:
				result.Aborted = true
				result.AbortErr = err
				stopReason = "run aborted"
			case r.config.Bail:
				stopReason = "bail after failure"
			}
			continue
		}

		res.Passed = true
		result.Passed++
	}

	result.Duration = time.Since(start)
	result.Latency = r.metrics.Summary()
	return result, nil
}

// call paces, times and records one request.
func (r *Runner) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	start := time.Now()
	err := fn(ctx)
	r.metrics.Record(time.Since(start), err)
	return err
}

// state carries the items created by earlier steps and the size of the
// collection before the run touched it.
type state struct {
	submitted map[string]items.Item
	created   map[string]items.Item
	baseline  int
	// baselined is false when the baseline list failed.
	baselined bool
}

func newState() *state {
	return &state{
		submitted: make(map[string]items.Item),
		created:   make(map[string]items.Item),
	}
}

// createdCount is how many of the three created items the server accepted.
func (s *state) createdCount() int {
	n := 0
	for _, key := range []string{keyFirst, keySecond, keyThird} {
		if _, ok := s.created[key]; ok {
			n++
		}
	}
	return n
}

func (s *state) missing(keys []string) string {
	for _, k := range keys {
		if _, ok := s.created[k]; !ok {
			return k
		}
	}
	return ""
}
