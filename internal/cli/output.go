package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// OutputMode represents the output format.
type OutputMode int

const (
	OutputNormal OutputMode = iota
	OutputMinimal
	OutputTable
	OutputJSON
)

var outputMode = OutputNormal

// SetOutputMode sets the global output mode.
func SetOutputMode(mode OutputMode) {
	outputMode = mode
}

// GetOutputMode returns the current output mode.
func GetOutputMode() OutputMode {
	if JSONOutput() {
		return OutputJSON
	}
	return outputMode
}

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table on stdout with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer, used for the
// issue listing that convert emits on stderr alongside the progress bar on
// stdout.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// Minimal prints minimal output (just the essential value).
func Minimal(value string) {
	fmt.Println(value)
}

// MinimalF prints minimal formatted output.
func MinimalF(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Normal prints normal output with a label.
func Normal(label, value string) {
	fmt.Printf("%s: %s\n", label, value)
}

// NormalF prints normal formatted output.
func NormalF(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// StatusIcon returns a pass/fail glyph for a CDJ-compatibility-style check
// (used for "valid" and "CDJ compatible" in inspect's verdict lines).
func StatusIcon(pass bool) string {
	if pass {
		return "●"
	}
	return "○"
}

// TruncateString shortens s to maxLen bytes, marking truncation with "...",
// used to keep a long per-track issue message on one table row.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// FormatDuration renders a track length in seconds as mm:ss, or hh:mm:ss
// once it runs past an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatProgress renders a fixed-width export progress bar for the convert
// command's terminal output.
func FormatProgress(done, total, width int) string {
	if total <= 0 {
		return strings.Repeat("─", width)
	}

	fraction := float64(done) / float64(total)
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}

	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}
