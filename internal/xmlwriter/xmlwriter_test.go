package xmlwriter

import (
	"strings"
	"testing"

	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/keymap"
)

func TestBuildProducesDeclarationAndEntriesCount(t *testing.T) {
	plan := core.NewExportPlan()
	track := &core.Track{
		Fingerprint: "fp1",
		Title:       "A",
		Artist:      "B",
		Album:       "C",
		FilePath:    "/Music/Track.mp3",
		BPM:         128,
		KeyIndex:    5,
		Cues: []core.CuePoint{
			{Name: "drop", HotCueSlot: 0, StartMS: 1000},
			{Name: "loop", HotCueSlot: 1, StartMS: 2000, LengthMS: 500},
			{Name: "mem", HotCueSlot: -1, StartMS: 3000},
		},
	}
	plan.AddTrack(track)

	root := core.NewNode(core.NodePlaylist, "PL")
	root.Tracks = []string{"fp1"}

	kt := keymap.New()
	data, err := Build(plan, []*core.Node{root}, kt, keymap.FormatOpenKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("expected an XML declaration, got %q", out[:40])
	}
	if !strings.Contains(out, `Entries="1"`) {
		t.Fatalf("expected COLLECTION Entries=1, got %s", out)
	}
	if !strings.Contains(out, `Type="1"`) {
		t.Fatalf("expected a Type=1 playlist node, got %s", out)
	}
	if !strings.Contains(out, `Type="4"`) {
		t.Fatalf("expected a Type=4 loop cue, got %s", out)
	}
	if !strings.Contains(out, `Num="-1"`) {
		t.Fatalf("expected a Num=-1 memory cue, got %s", out)
	}
}

func TestBuildPassesThroughSmartlistQuery(t *testing.T) {
	plan := core.NewExportPlan()
	smart := core.NewNode(core.NodeSmartlist, "Recent House")
	smart.Query = `GENRE CONTAINS "House"`

	kt := keymap.New()
	data, err := Build(plan, []*core.Node{smart}, kt, keymap.FormatOpenKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `Query="GENRE CONTAINS &#34;House&#34;"`) {
		t.Fatalf("expected the smartlist query to be passed through verbatim, got %s", out)
	}
}

func TestFileLocationEncodesSpaces(t *testing.T) {
	got := fileLocation("/Music/My Track.mp3")
	want := "file://localhost/Music/My%20Track.mp3"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
