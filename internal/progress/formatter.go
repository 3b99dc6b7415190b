package progress

import "fmt"

// Formatter renders progress and terminal events as CLI lines.
type Formatter struct {
	showPercent bool
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithPercent toggles whether formatted lines carry the percentage
// prefix.
func WithPercent(enabled bool) FormatterOption {
	return func(f *Formatter) { f.showPercent = enabled }
}

// NewFormatter creates a Formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{showPercent: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders a progress event as a single line.
func (f *Formatter) Format(e Event) string {
	if f.showPercent {
		return fmt.Sprintf("[%3d%%] %s", e.Percent, e.Message)
	}
	return e.Message
}

// FormatTerminal renders a terminal event as a single line.
func (f *Formatter) FormatTerminal(t Terminal) string {
	switch t.Kind {
	case TerminalDone:
		return "done: " + t.Summary
	case TerminalCancelled:
		return "cancelled: " + t.Summary
	case TerminalFailed:
		if t.Err != nil {
			return "failed: " + t.Err.Error()
		}
		return "failed"
	default:
		return t.Summary
	}
}
