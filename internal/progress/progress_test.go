package progress

import "testing"

func TestReportDropsOldestWhenFull(t *testing.T) {
	r := NewReporter(2)
	r.Report(0, "a")
	r.Report(50, "b")
	r.Report(100, "c")

	first := <-r.Events()
	if first.Message != "b" {
		t.Fatalf("expected oldest event to have been dropped, got %q first", first.Message)
	}
	second := <-r.Events()
	if second.Message != "c" {
		t.Fatalf("expected second event to be %q, got %q", "c", second.Message)
	}
}

func TestDoneClosesChannelsAndDeliversTerminal(t *testing.T) {
	r := NewReporter(4)
	r.Report(10, "working")
	r.Done("3 tracks exported")

	term := <-r.Terminal()
	if term.Kind != TerminalDone || term.Summary != "3 tracks exported" {
		t.Fatalf("unexpected terminal event: %+v", term)
	}

	if _, ok := <-r.Terminal(); ok {
		t.Fatalf("expected terminal channel to be closed")
	}
}

func TestReportAfterFinishIsNoop(t *testing.T) {
	r := NewReporter(4)
	r.Fail(nil)
	r.Report(50, "should be ignored")

	if _, ok := <-r.Events(); ok {
		t.Fatalf("expected events channel to be closed with nothing buffered")
	}
}

func TestFormatterFormatsPercentAndMessage(t *testing.T) {
	f := NewFormatter()
	got := f.Format(Event{Percent: 42, Message: "writing export.pdb"})
	want := "[ 42%] writing export.pdb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
