package smoke

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Empty(t *testing.T) {
	assert.Equal(t, LatencySummary{}, NewMetrics().Summary())
}

func TestMetrics_Summary(t *testing.T) {
	m := NewMetrics()
	for i := 1; i <= 100; i++ {
		var err error
		if i%10 == 0 {
			err = errors.New("boom")
		}
		m.Record(time.Duration(i)*time.Millisecond, err)
	}

	s := m.Summary()
	assert.Equal(t, int64(100), s.Requests)
	assert.Equal(t, int64(10), s.Errors)
	assert.InDelta(t, float64(time.Millisecond), float64(s.Min), float64(10*time.Microsecond))
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(s.P95), float64(time.Millisecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(s.Max), float64(time.Millisecond))
	assert.LessOrEqual(t, s.P50, s.P95)
	assert.LessOrEqual(t, s.P95, s.P99)
}

func TestMetrics_ClampsOutOfRange(t *testing.T) {
	m := NewMetrics()
	m.Record(0, nil)
	m.Record(2*time.Minute, nil)

	s := m.Summary()
	assert.Equal(t, time.Microsecond, s.Min)
	assert.InDelta(t, float64(time.Minute), float64(s.Max), float64(100*time.Millisecond))
}
