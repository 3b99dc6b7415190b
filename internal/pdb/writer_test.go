package pdb

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/crateport/crateport/internal/core"
	cerrors "github.com/crateport/crateport/internal/errors"
	"github.com/crateport/crateport/internal/keymap"
)

func minimalPlan() *core.ExportPlan {
	t1 := &core.Track{
		Fingerprint: "t1", Title: "A", Artist: "B", Album: "C",
		BPM: 128.0, DurationSeconds: 180, KeyIndex: 5,
	}
	plan := core.NewExportPlan()
	plan.AddTrack(t1)
	plan.Nodes = []core.PlanNode{
		{ID: 0, ParentID: 0, Kind: core.NodeFolder, Name: "$ROOT"},
		{ID: 1, ParentID: 0, Seq: 0, Kind: core.NodePlaylist, Name: "PL", TrackIDs: []uint32{1}},
	}
	return plan
}

func TestBuildMinimalDatabaseRowCounts(t *testing.T) {
	w := NewWriter()
	data, err := w.Build(minimalPlan(), keymap.New(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty database image")
	}

	sig := binary.LittleEndian.Uint32(data[0:4])
	if sig != 0 {
		t.Fatalf("expected zero signature, got %d", sig)
	}
	pageLen := binary.LittleEndian.Uint32(data[4:8])
	if int(pageLen) != DefaultPageLen {
		t.Fatalf("expected page length %d, got %d", DefaultPageLen, pageLen)
	}

	headerAndPointers := 28 + len(requiredKinds)*16
	pageBytes := len(data) - headerAndPointers
	if pageBytes <= 0 || pageBytes%DefaultPageLen != 0 {
		t.Fatalf("expected file length to be header+pointers plus a whole number of pages, got %d total bytes", len(data))
	}

	// One page per required kind, in kind order: tracks, genres, artists,
	// albums, labels, keys, colours, playlist tree (root + PL), entries.
	wantRows := []uint32{1, 0, 1, 1, 0, 1, 0, 2, 1}
	for i, want := range wantRows {
		pg := data[headerAndPointers+i*DefaultPageLen:]
		if got := binary.LittleEndian.Uint32(pg[12:16]); got != want {
			t.Fatalf("page %d (kind %d): expected %d rows, got %d", i, binary.LittleEndian.Uint32(pg[0:4]), want, got)
		}
	}
}

func TestBuildRejectsOversizedCollection(t *testing.T) {
	plan := core.NewExportPlan()
	for i := 0; i < maxTracks+1; i++ {
		plan.AddTrack(&core.Track{Fingerprint: string(rune(i)), Title: "x"})
	}
	w := NewWriter()
	if _, err := w.Build(plan, keymap.New(), nil); !errors.Is(err, ErrCollectionTooLarge) {
		t.Fatalf("expected ErrCollectionTooLarge, got %v", err)
	}
}

func TestBuildStopsWhenCancelled(t *testing.T) {
	w := NewWriter()
	cancelled := func() bool { return true }
	if _, err := w.Build(minimalPlan(), keymap.New(), cancelled); err != cerrors.ErrCancelRequested {
		t.Fatalf("expected ErrCancelRequested, got %v", err)
	}
}

func TestDeviceSQLStringShapes(t *testing.T) {
	ascii := encodeDeviceSQLString("hi")
	if ascii[0] != byte(2*2+1) {
		t.Fatalf("expected short-ASCII prefix, got 0x%x", ascii[0])
	}

	nonASCII := encodeDeviceSQLString("Café")
	if nonASCII[0] != 0x90 {
		t.Fatalf("expected 0x90 prefix for non-ASCII, got 0x%x", nonASCII[0])
	}
	length := binary.LittleEndian.Uint16(nonASCII[1:3])
	if length != 10 {
		t.Fatalf("expected length field 10 for UTF-16BE \"Café\", got %d", length)
	}
}

func TestRefRowsDeduplicateByName(t *testing.T) {
	d := newDedupe()
	id1 := d.idFor("House")
	id2 := d.idFor("Techno")
	id3 := d.idFor("House")
	if id1 != id3 {
		t.Fatalf("expected repeated name to reuse id, got %d and %d", id1, id3)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct names to get distinct ids")
	}
}
