package hwexport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crateport/crateport/internal/anlz"
	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/keymap"
)

func neverCancelled() bool { return false }

func minimalPlan(t *testing.T, audioPath string) *core.ExportPlan {
	t.Helper()
	plan := core.NewExportPlan()
	track := &core.Track{
		Fingerprint:     "fp1",
		Title:           "A",
		Artist:          "B",
		Album:           "C",
		FilePath:        audioPath,
		BPM:             128,
		DurationSeconds: 180,
		KeyIndex:        -1,
	}
	plan.AddTrack(track)
	plan.Nodes = []core.PlanNode{
		{ID: 1, ParentID: 0, Seq: 0, Kind: core.NodePlaylist, Name: "PL", TrackIDs: []uint32{1}},
	}
	return plan
}

func TestExportWritesExpectedLayout(t *testing.T) {
	srcDir := t.TempDir()
	audioPath := filepath.Join(srcDir, "track.mp3")
	if err := os.WriteFile(audioPath, append([]byte("ID3"), []byte("fake audio bytes")...), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	out := t.TempDir()
	plan := minimalPlan(t, audioPath)
	kt := keymap.New()

	result, err := Export(plan, kt, out, Options{CopyAudio: true, Tier: anlz.TierB}, neverCancelled, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TracksCopied != 1 || result.TracksWritten != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	mustExist := []string{
		filepath.Join(out, "PIONEER", "EXPORT.INFO"),
		filepath.Join(out, "PIONEER", "rekordbox", "export.pdb"),
		filepath.Join(out, "PIONEER", "rekordbox", "DeviceSQL.edb"),
		filepath.Join(out, "Contents", "track.mp3"),
	}
	for _, p := range mustExist {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
}

func TestExportSkipsMP3WithoutValidHeader(t *testing.T) {
	srcDir := t.TempDir()
	audioPath := filepath.Join(srcDir, "track.mp3")
	if err := os.WriteFile(audioPath, []byte("not an mp3 at all"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	out := t.TempDir()
	plan := minimalPlan(t, audioPath)
	kt := keymap.New()

	result, err := Export(plan, kt, out, Options{CopyAudio: true, Tier: anlz.TierB}, neverCancelled, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TracksCopied != 0 {
		t.Fatalf("expected the corrupt file to be skipped, got %d copied", result.TracksCopied)
	}
	if len(result.Issues) != 1 || result.Issues[0].Kind != core.IssueAudioCopyFailed {
		t.Fatalf("expected one AudioCopyFailed issue, got %+v", result.Issues)
	}
}

func TestExportRefusesNonEmptyPioneerWithoutOverwrite(t *testing.T) {
	out := t.TempDir()
	if err := os.MkdirAll(filepath.Join(out, "PIONEER"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(out, "PIONEER", "stale.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	plan := minimalPlan(t, filepath.Join(out, "track.mp3"))
	kt := keymap.New()

	_, err := Export(plan, kt, out, Options{Tier: anlz.TierA}, neverCancelled, nil)
	if err == nil {
		t.Fatalf("expected an error for a non-empty PIONEER/ without overwrite")
	}
}

func TestExportCancelledBeforeStartRemovesPartialTree(t *testing.T) {
	out := t.TempDir()
	plan := minimalPlan(t, filepath.Join(out, "track.mp3"))
	kt := keymap.New()

	_, err := Export(plan, kt, out, Options{CopyAudio: true, Tier: anlz.TierA}, func() bool { return true }, nil)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	if _, statErr := os.Stat(filepath.Join(out, "PIONEER")); !os.IsNotExist(statErr) {
		t.Fatalf("expected PIONEER/ tree to be removed after cancellation")
	}
}
