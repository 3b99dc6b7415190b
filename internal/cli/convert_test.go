package cli

import (
	"testing"

	"github.com/crateport/crateport/internal/core"
)

func TestFirstNonEmptyPrefersEarlierValue(t *testing.T) {
	if got := firstNonEmpty("a", "b"); got != "a" {
		t.Fatalf("got %q, want %q", got, "a")
	}
	if got := firstNonEmpty("", "b"); got != "b" {
		t.Fatalf("got %q, want %q", got, "b")
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestFindNodeSearchesDescendants(t *testing.T) {
	inner := core.NewNode(core.NodePlaylist, "Techno")
	folder := core.NewNode(core.NodeFolder, "Crates")
	folder.Children = []*core.Node{inner}
	roots := []*core.Node{folder}

	if got := findNode(roots, "Crates"); got != folder {
		t.Fatalf("expected to find the top-level folder by name")
	}
	if got := findNode(roots, "Techno"); got != inner {
		t.Fatalf("expected to find a nested playlist by name")
	}
	if got := findNode(roots, "nope"); got != nil {
		t.Fatalf("expected no match for an unknown name, got %+v", got)
	}
}
