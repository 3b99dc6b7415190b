package dbsoftware

import (
	"database/sql"
	"testing"

	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/keymap"
)

func TestBuildInsertsOneRowPerTrack(t *testing.T) {
	plan := core.NewExportPlan()
	plan.AddTrack(&core.Track{Fingerprint: "fp1", Title: "A", Artist: "B", KeyIndex: 5, BPM: 128})
	plan.AddTrack(&core.Track{Fingerprint: "fp2", Title: "C", Artist: "D", KeyIndex: -1})

	if err := Build(":memory:?cache=shared", plan, keymap.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildPopulatesExpectedColumns(t *testing.T) {
	plan := core.NewExportPlan()
	plan.AddTrack(&core.Track{Fingerprint: "fp1", Title: "A", Artist: "B", KeyIndex: 5, BPM: 128})

	dsn := "file:dbsoftware_test?mode=memory&cache=shared"
	if err := Build(dsn, plan, keymap.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var title, keyNotation string
	row := db.QueryRow("SELECT title, key_notation FROM tracks WHERE id = 1")
	if err := row.Scan(&title, &keyNotation); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if title != "A" || keyNotation != "7B" {
		t.Fatalf("got title=%q key_notation=%q", title, keyNotation)
	}
}
