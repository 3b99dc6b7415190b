package wizard

import (
	"testing"

	"github.com/crateport/crateport/internal/convert"
)

func TestNeedsSource(t *testing.T) {
	if !NeedsSource("") {
		t.Fatalf("expected an empty source path to need prompting")
	}
	if NeedsSource("/music/collection.nml") {
		t.Fatalf("expected a populated source path to not need prompting")
	}
}

func TestNeedsTargetFormat(t *testing.T) {
	if !NeedsTargetFormat("") {
		t.Fatalf("expected an empty target format to need prompting")
	}
	if NeedsTargetFormat(convert.TargetM3U) {
		t.Fatalf("expected a populated target format to not need prompting")
	}
}

func TestCanInteractRespectsEnabled(t *testing.T) {
	i := NewInteractive()
	i.SetEnabled(false)
	if i.CanInteract() {
		t.Fatalf("expected a disabled wizard to never interact, regardless of terminal state")
	}
}

func TestPromptMissingNoopsWhenDisabled(t *testing.T) {
	i := NewInteractive()
	i.SetEnabled(false)

	opts := convert.Options{}
	source, output, got, err := i.PromptMissing("", "", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "" || output != "" || got != opts {
		t.Fatalf("expected a disabled wizard to leave inputs untouched, got source=%q output=%q opts=%+v", source, output, got)
	}
}
