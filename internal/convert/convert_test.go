package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crateport/crateport/internal/anlz"
	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/keymap"
)

func testCollection(t *testing.T, audioPath string) *core.Collection {
	t.Helper()
	track := &core.Track{
		Fingerprint: "fp1", Title: "A", Artist: "B", Album: "C",
		FilePath: audioPath, BPM: 128, DurationSeconds: 180, KeyIndex: 5,
	}
	col := core.NewCollection()
	col.AddTrack(track)

	playlist := core.NewNode(core.NodePlaylist, "PL")
	playlist.Tracks = []string{"fp1"}
	folder := core.NewNode(core.NodeFolder, "Crates")
	folder.Children = []*core.Node{playlist}
	col.Roots = []*core.Node{folder}

	return col
}

func TestRunDispatchesToInterchangeXML(t *testing.T) {
	col := testCollection(t, "/music/track.mp3")
	out := t.TempDir()

	result, err := Run(col, nil, out, Options{TargetFormat: TargetInterchangeXML, KeyNotation: keymap.FormatOpenKey}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TracksExported != 1 {
		t.Fatalf("expected 1 track exported, got %d", result.TracksExported)
	}
	if _, err := os.Stat(filepath.Join(out, "collection.xml")); err != nil {
		t.Fatalf("expected collection.xml: %v", err)
	}
}

func TestRunDispatchesToM3U(t *testing.T) {
	col := testCollection(t, "/music/track.mp3")
	out := t.TempDir()

	if _, err := Run(col, nil, out, Options{TargetFormat: TargetM3U}, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "Crates", "PL.m3u")); err != nil {
		t.Fatalf("expected Crates/PL.m3u: %v", err)
	}
}

func TestRunDispatchesToHardware(t *testing.T) {
	srcDir := t.TempDir()
	audioPath := filepath.Join(srcDir, "track.mp3")
	if err := os.WriteFile(audioPath, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	col := testCollection(t, audioPath)
	out := t.TempDir()

	result, err := Run(col, nil, out, Options{TargetFormat: TargetCDJHardware, Tier: anlz.TierB, CopyAudio: true}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Hardware == nil || result.Hardware.TracksWritten != 1 {
		t.Fatalf("expected hardware result with 1 track written, got %+v", result.Hardware)
	}
	if _, err := os.Stat(filepath.Join(out, "PIONEER", "rekordbox", "export.pdb")); err != nil {
		t.Fatalf("expected export.pdb: %v", err)
	}
}

func TestRunDispatchesToDatabaseSoftware(t *testing.T) {
	col := testCollection(t, "/music/track.mp3")
	out := t.TempDir()

	if _, err := Run(col, nil, out, Options{TargetFormat: TargetDatabaseSoftware}, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "collection.db")); err != nil {
		t.Fatalf("expected collection.db: %v", err)
	}
}

func TestRunRejectsUnknownTargetFormat(t *testing.T) {
	col := testCollection(t, "/music/track.mp3")
	out := t.TempDir()

	if _, err := Run(col, nil, out, Options{TargetFormat: "bogus"}, nil, nil); err == nil {
		t.Fatalf("expected an error for an unknown target format")
	}
}

func TestBuildPlanStopsOnCancellation(t *testing.T) {
	col := testCollection(t, "/music/track.mp3")
	alwaysCancelled := func() bool { return true }

	_, err := buildPlan(col, col.Roots, alwaysCancelled)
	if err == nil {
		t.Fatalf("expected cancellation to stop the walk")
	}
}
