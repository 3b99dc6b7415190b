package pdbread

import (
	"testing"

	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/keymap"
	"github.com/crateport/crateport/internal/pdb"
)

func minimalPlan() *core.ExportPlan {
	plan := core.NewExportPlan()
	plan.AddTrack(&core.Track{
		Fingerprint: "t1", Title: "A", Artist: "B", Album: "C", Genre: "House",
		BPM: 128.0, DurationSeconds: 180, KeyIndex: 5,
	})
	plan.Nodes = []core.PlanNode{
		{ID: 0, ParentID: 0, Kind: core.NodeFolder, Name: "$ROOT"},
		{ID: 1, ParentID: 0, Seq: 0, Kind: core.NodePlaylist, Name: "PL", TrackIDs: []uint32{1}},
	}
	return plan
}

func TestParseRoundTripsWriterOutput(t *testing.T) {
	data, err := pdb.NewWriter().Build(minimalPlan(), keymap.New(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	db, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(db.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(db.Tracks))
	}
	tr := db.Tracks[0]
	if tr.Title != "A" || tr.FilePath != "" {
		t.Fatalf("unexpected track row: %+v", tr)
	}
	if tr.BPM != 128.0 {
		t.Fatalf("expected bpm 128.0, got %v", tr.BPM)
	}
	if tr.DurationSeconds != 180 {
		t.Fatalf("expected duration 180, got %d", tr.DurationSeconds)
	}

	if len(db.Artists) != 1 || db.Artists[0].Name != "B" {
		t.Fatalf("unexpected artists table: %+v", db.Artists)
	}
	if len(db.Genres) != 1 || db.Genres[0].Name != "House" {
		t.Fatalf("unexpected genres table: %+v", db.Genres)
	}
	if len(db.PlaylistTree) != 2 {
		t.Fatalf("expected 2 playlist_tree rows (root + PL), got %d", len(db.PlaylistTree))
	}
	if len(db.PlaylistEntries) != 1 || db.PlaylistEntries[0].TrackID != 1 {
		t.Fatalf("unexpected playlist_entries: %+v", db.PlaylistEntries)
	}
}

func TestValidateFlagsEmptyCollection(t *testing.T) {
	plan := core.NewExportPlan()
	plan.Nodes = []core.PlanNode{{ID: 0, ParentID: 0, Kind: core.NodeFolder, Name: "$ROOT"}}

	data, err := pdb.NewWriter().Build(plan, keymap.New(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	db, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	v := Validate(db)
	if !v.Valid {
		t.Fatalf("required tables are always present by construction, expected valid, got issues %+v", v.Issues)
	}
	found := false
	for _, w := range v.Warnings {
		if w == "no tracks found" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a no-tracks warning, got %+v", v.Warnings)
	}
}
