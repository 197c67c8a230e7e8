package datefmt

import (
	"fmt"
	"io"
	"time"
)

// Demo serializes an Event captured at now with pattern, reads it back and
// prints every stage, followed by the current UTC time and timestamp.
func Demo(w io.Writer, now time.Time, pattern string) error {
	codec, err := NewCodec(pattern)
	if err != nil {
		return err
	}

	event := NewEvent(now)
	data, err := codec.MarshalEvent(event)
	if err != nil {
		return fmt.Errorf("serializing event: %w", err)
	}

	fmt.Fprintf(w, "1. Serialized with pattern %q:\n", pattern)
	fmt.Fprintf(w, "%s\n", data)

	decoded, err := codec.UnmarshalEvent(data)
	if err != nil {
		return fmt.Errorf("deserializing event: %w", err)
	}

	fmt.Fprintf(w, "2. Deserialized date: %s\n", decoded.Date)
	fmt.Fprintf(w, "3. Date with pattern: %s\n", codec.Format(decoded.Date))
	fmt.Fprintf(w, "4. Unix timestamp (ms): %d\n", decoded.Timestamp)

	utc := now.UTC()
	fmt.Fprintf(w, "\nCurrent UTC time: %s\n", utc.Format(time.RFC3339Nano))
	fmt.Fprintf(w, "Current UTC time with pattern: %s\n", codec.Format(utc))
	fmt.Fprintf(w, "Timestamp: %d\n", UnixMilli(utc))
	return nil
}
