// Package progress carries conversion progress from a running convert
// (internal/convert) to whatever is watching it (CLI line printer,
// internal/tui), generalised from internal/tail's watcher/event split
// (spec.md §5 "Backpressure").
package progress

import "sync"

// Event is a single (percentage, message) progress update.
type Event struct {
	Percent int
	Message string
}

// TerminalKind identifies how a conversion run ended.
type TerminalKind int

const (
	TerminalDone TerminalKind = iota
	TerminalFailed
	TerminalCancelled
)

// Terminal reports that a conversion run has finished.
type Terminal struct {
	Kind    TerminalKind
	Summary string
	Err     error
}

// Reporter fans progress events out to a bounded, drop-oldest channel and
// terminal events out to a separate unbounded channel, so a slow consumer
// never blocks the conversion and never misses the final outcome.
type Reporter struct {
	mu       sync.Mutex
	events   chan Event
	terminal chan Terminal
	closed   bool
}

// NewReporter creates a Reporter whose progress channel holds at most
// size buffered events before it starts dropping the oldest one to make
// room for the newest. size <= 0 falls back to 64, matching
// config.ProgressConfig's default.
func NewReporter(size int) *Reporter {
	if size <= 0 {
		size = 64
	}
	return &Reporter{
		events:   make(chan Event, size),
		terminal: make(chan Terminal, 1),
	}
}

// Events returns the progress event channel.
func (r *Reporter) Events() <-chan Event { return r.events }

// Terminal returns the terminal event channel.
func (r *Reporter) Terminal() <-chan Terminal { return r.terminal }

// Report emits a progress event, dropping the oldest queued event if the
// channel is already full.
func (r *Reporter) Report(percent int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	e := Event{Percent: percent, Message: message}
	select {
	case r.events <- e:
		return
	default:
	}

	// Channel full: drop the oldest queued event and retry once.
	select {
	case <-r.events:
	default:
	}
	select {
	case r.events <- e:
	default:
	}
}

// Done signals a successful completion and closes both channels.
func (r *Reporter) Done(summary string) {
	r.finish(Terminal{Kind: TerminalDone, Summary: summary})
}

// Fail signals a fatal error and closes both channels.
func (r *Reporter) Fail(err error) {
	r.finish(Terminal{Kind: TerminalFailed, Err: err})
}

// Cancel signals a cancelled run and closes both channels.
func (r *Reporter) Cancel(summary string) {
	r.finish(Terminal{Kind: TerminalCancelled, Summary: summary})
}

func (r *Reporter) finish(t Terminal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.terminal <- t
	close(r.events)
	close(r.terminal)
}
