package smoke

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Metrics records request latencies of a run.
type Metrics struct {
	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram
	requests  int64
	errors    int64
}

// LatencySummary is the latency distribution of the requests of one run.
type LatencySummary struct {
	Requests int64
	Errors   int64
	Min      time.Duration
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Record records one request. err is any failure, including HTTP errors.
func (m *Metrics) Record(duration time.Duration, err error) {
	m.requests++
	if err != nil {
		m.errors++
	}

	latencyUs := duration.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}
	_ = m.histogram.RecordValue(latencyUs)
}

func (m *Metrics) Summary() LatencySummary {
	if m.requests == 0 {
		return LatencySummary{}
	}
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return LatencySummary{
		Requests: m.requests,
		Errors:   m.errors,
		Min:      us(m.histogram.Min()),
		Mean:     us(int64(m.histogram.Mean())),
		P50:      us(m.histogram.ValueAtQuantile(50)),
		P95:      us(m.histogram.ValueAtQuantile(95)),
		P99:      us(m.histogram.ValueAtQuantile(99)),
		Max:      us(m.histogram.Max()),
	}
}
