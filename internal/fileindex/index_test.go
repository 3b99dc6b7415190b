package fileindex

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildUnusableRoot(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "does-not-exist"), 0)
	if err != ErrIndexUnusable {
		t.Fatalf("expected ErrIndexUnusable, got %v", err)
	}
}

func TestLookupMissReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp3"))

	idx, err := Build(root, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := idx.Lookup("nope.mp3"); got != "" {
		t.Fatalf("expected empty string on miss, got %q", got)
	}
}

func TestFirstSeenPathWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub1", "track.mp3"))
	writeFile(t, filepath.Join(root, "sub2", "track.mp3"))

	idx, err := Build(root, 0)
	if err != nil {
		t.Fatal(err)
	}
	idx2, err := Build(root, 0)
	if err != nil {
		t.Fatal(err)
	}

	got1 := idx.Lookup("track.mp3")
	got2 := idx2.Lookup("track.mp3")
	if got1 != got2 {
		t.Fatalf("expected deterministic result across builds, got %q and %q", got1, got2)
	}
	if want := filepath.Join(root, "sub1", "track.mp3"); got1 != want {
		t.Fatalf("expected the first path in walk order %q, got %q", want, got1)
	}
}

func TestBoundedEvictsLowestAccessCount(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp3"))
	writeFile(t, filepath.Join(root, "b.mp3"))
	writeFile(t, filepath.Join(root, "c.mp3"))

	idx, err := Build(root, 2)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() > 2 {
		t.Fatalf("expected index bounded to 2 entries, got %d", idx.Len())
	}
	if idx.Lookup("a.mp3") != "" {
		t.Fatalf("expected a.mp3, the earliest of three never-accessed entries, to be evicted")
	}
	if idx.Lookup("b.mp3") == "" || idx.Lookup("c.mp3") == "" {
		t.Fatalf("expected b.mp3 and c.mp3 to remain")
	}
	idx.Lookup("b.mp3")
	idx.insert("d.mp3", "/x/d.mp3")
	if idx.Lookup("c.mp3") != "" || idx.Lookup("b.mp3") == "" {
		t.Fatalf("expected c.mp3 (fewer lookups than b.mp3) to be evicted when d.mp3 is added")
	}
}
