package datefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DemoPattern is the custom pattern shown by the date-format demo.
const DemoPattern = "dd.MM.yyyy HH:mm:ss.fff"

type token struct {
	pattern string
	layout  string
}

// Longest tokens first so "yyyy" wins over "yy".
var tokens = []token{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"dd", "02"},
	{"d", "2"},
	{"HH", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"tt", "PM"},
	{"zzz", "-07:00"},
	{"zz", "-07"},
	{"K", "Z07:00"},
}

// hourMark stands in for the unpadded 24-hour token H, which has no Go
// layout element.
const hourMark = "\x00"

// Layout converts a .NET-style date pattern into a Go time layout. H maps to
// "15", which parses one or two digits but always formats two; use Format or
// a Codec to print it unpadded.
func Layout(pattern string) (string, error) {
	layout, err := compile(pattern)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(layout, hourMark, "15"), nil
}

// compile is Layout with each H left as hourMark.
func compile(pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("empty date pattern")
	}

	var out strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]

		switch {
		case c == '\'' || c == '"':
			end := strings.IndexByte(pattern[i+1:], c)
			if end < 0 {
				return "", fmt.Errorf("unterminated literal at position %d in %q", i, pattern)
			}
			lit := pattern[i+1 : i+1+end]
			if err := writeLiteral(&out, lit); err != nil {
				return "", err
			}
			i += end + 2
			continue
		case c == '\\':
			if i+1 >= len(pattern) {
				return "", fmt.Errorf("dangling escape in %q", pattern)
			}
			if err := writeLiteral(&out, pattern[i+1:i+2]); err != nil {
				return "", err
			}
			i += 2
			continue
		case c == 'f' || c == 'F':
			n := runLength(pattern[i:], c)
			prev := out.String()
			if prev == "" || (prev[len(prev)-1] != '.' && prev[len(prev)-1] != ',') {
				return "", fmt.Errorf("fractional seconds must follow '.' or ',' in %q", pattern)
			}
			digit := "0"
			if c == 'F' {
				digit = "9"
			}
			out.WriteString(strings.Repeat(digit, n))
			i += n
			continue
		case c == 'H' && runLength(pattern[i:], 'H') == 1:
			out.WriteString(hourMark)
			i++
			continue
		}

		if tok, ok := matchToken(pattern[i:]); ok {
			out.WriteString(tok.layout)
			i += len(tok.pattern)
			continue
		}

		if err := writeLiteral(&out, pattern[i:i+1]); err != nil {
			return "", err
		}
		i++
	}

	return out.String(), nil
}

// Format formats t with a .NET-style pattern.
func Format(t time.Time, pattern string) (string, error) {
	layout, err := compile(pattern)
	if err != nil {
		return "", err
	}
	return format(t, layout), nil
}

// Parse parses value with a .NET-style pattern. Values without a zone are UTC.
func Parse(value, pattern string) (time.Time, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(layout, value)
}

// format formats t with a compiled layout, writing the hour without padding
// wherever hourMark appears.
func format(t time.Time, layout string) string {
	if !strings.Contains(layout, hourMark) {
		return t.Format(layout)
	}
	parts := strings.Split(layout, hourMark)
	for i, part := range parts {
		parts[i] = t.Format(part)
	}
	return strings.Join(parts, strconv.Itoa(t.Hour()))
}

// UnixMilli returns t as milliseconds since the Unix epoch.
func UnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMilli returns the UTC time for ms milliseconds since the epoch.
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func matchToken(s string) (token, bool) {
	for _, tok := range tokens {
		if strings.HasPrefix(s, tok.pattern) {
			return tok, true
		}
	}
	return token{}, false
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// writeLiteral rejects literals Go would read back as layout elements.
func writeLiteral(out *strings.Builder, lit string) error {
	for _, word := range []string{"Jan", "Mon", "MST", "PM", "pm", "Z07"} {
		if strings.Contains(lit, word) {
			return fmt.Errorf("literal %q collides with Go layout element %q", lit, word)
		}
	}
	if strings.Contains(lit, hourMark) {
		return fmt.Errorf("literal %q contains a NUL byte", lit)
	}
	if strings.ContainsAny(lit, "0123456789") {
		return fmt.Errorf("literal %q contains digits which Go layouts cannot escape", lit)
	}
	out.WriteString(lit)
	return nil
}
