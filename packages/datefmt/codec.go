package datefmt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Codec formats and parses JSON date strings with one pattern. The zero
// pattern means RFC 3339 with fractional seconds.
type Codec struct {
	pattern string
	// layout parses; format keeps hourMark for unpadded hours.
	layout string
	format string
}

func NewCodec(pattern string) (*Codec, error) {
	if pattern == "" {
		return &Codec{layout: time.RFC3339Nano, format: time.RFC3339Nano}, nil
	}
	compiled, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Codec{
		pattern: pattern,
		layout:  strings.ReplaceAll(compiled, hourMark, "15"),
		format:  compiled,
	}, nil
}

// Pattern returns the configured pattern, or "" for RFC 3339.
func (c *Codec) Pattern() string {
	return c.pattern
}

func (c *Codec) Format(t time.Time) string {
	return format(t, c.format)
}

// Parse tries the configured layout first, then RFC 3339, then any common
// date format. Dates without a zone are read as UTC.
func (c *Codec) Parse(value string) (time.Time, error) {
	t, err := time.Parse(c.layout, value)
	if err == nil {
		return t, nil
	}
	if c.layout != time.RFC3339Nano {
		if t, rfcErr := time.Parse(time.RFC3339Nano, value); rfcErr == nil {
			return t, nil
		}
	}
	if t, anyErr := dateparse.ParseIn(value, time.UTC); anyErr == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parsing date %q: %w", value, err)
}

// Event is a timestamped log record used by the date-format demo.
type Event struct {
	Date      time.Time
	Timestamp int64
}

// NewEvent captures now as both a date and a millisecond timestamp.
func NewEvent(now time.Time) Event {
	now = now.UTC()
	return Event{Date: now, Timestamp: UnixMilli(now)}
}

type eventJSON struct {
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
}

func (c *Codec) MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(eventJSON{Date: c.Format(e.Date), Timestamp: e.Timestamp})
}

func (c *Codec) UnmarshalEvent(data []byte) (Event, error) {
	var wire eventJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return Event{}, err
	}
	date, err := c.Parse(wire.Date)
	if err != nil {
		return Event{}, err
	}
	return Event{Date: date, Timestamp: wire.Timestamp}, nil
}
