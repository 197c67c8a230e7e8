package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/itemprobe/packages/items"
	"github.com/abdul-hamid-achik/itemprobe/packages/smoke"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *smoke.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Testing: "+result.BaseURL))
	fmt.Fprintf(f.writer, "Variant: %s\n\n", result.Variant)

	for _, s := range result.Steps {
		if s.Skipped {
			fmt.Fprintf(f.writer, "%2d. %s %s (%s)\n", s.Number, yellow("-"), s.Name, s.SkipReason)
			continue
		}

		symbol := green("✓")
		if !s.Passed {
			symbol = red("✗")
		}
		fmt.Fprintf(f.writer, "%2d. %s %s %s\n", s.Number, symbol, s.Name, cyan(fmt.Sprintf("(%dms)", s.Duration.Milliseconds())))

		if f.verbose && s.StatusCode != 0 {
			if s.Negative() {
				fmt.Fprintf(f.writer, "      Status: %d (expected %d)\n", s.StatusCode, s.ExpectedStatus)
			} else {
				fmt.Fprintf(f.writer, "      Status: %d\n", s.StatusCode)
			}
		}

		for _, line := range s.Lines {
			fmt.Fprintf(f.writer, "      %s\n", line)
		}

		if s.Error != nil {
			f.formatStepError(s.Error)
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Steps: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	fmt.Fprintf(f.writer, "%d total\n", result.Total())

	if l := result.Latency; l.Requests > 0 {
		fmt.Fprintf(f.writer, "Requests: %d, p50 %s, p95 %s, p99 %s, max %s\n",
			l.Requests, formatLatency(l.P50), formatLatency(l.P95), formatLatency(l.P99), formatLatency(l.Max))
	}
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())
	fmt.Fprintf(f.writer, "\n")

	if result.Aborted {
		fmt.Fprintf(f.writer, "%s %v\n", red("Run aborted:"), result.AbortErr)
		return
	}
	fmt.Fprintf(f.writer, "%s\n", bold("All steps finished!"))
}

// formatStepError prints the status and body of HTTP errors, the message
// otherwise.
func (f *ConsoleFormatter) formatStepError(err error) {
	red := color.New(color.FgRed).SprintFunc()

	var he *items.HTTPError
	if errors.As(err, &he) {
		fmt.Fprintf(f.writer, "      %s %s\n", red("HTTP error:"), statusLine(he))
		if he.Body != "" {
			fmt.Fprintf(f.writer, "      Error body: %s\n", truncate(he.Body, 500))
		}
		return
	}

	fmt.Fprintf(f.writer, "      %s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("itemprobe"), version)
}

func statusLine(he *items.HTTPError) string {
	if he.Status != "" {
		return he.Status
	}
	return fmt.Sprintf("%d", he.StatusCode)
}

func formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
