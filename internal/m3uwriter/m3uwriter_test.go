package m3uwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crateport/crateport/internal/core"
)

func TestBuildPlaylistEmitsExtM3U(t *testing.T) {
	tracks := map[string]*core.Track{
		"fp1": {Artist: "B", Title: "A", DurationSeconds: 180, FilePath: "/music/a.mp3"},
	}
	node := core.NewNode(core.NodePlaylist, "PL")
	node.Tracks = []string{"fp1"}

	out := string(BuildPlaylist(node, tracks))
	if !strings.HasPrefix(out, "#EXTM3U\n") {
		t.Fatalf("expected #EXTM3U header, got %q", out)
	}
	if !strings.Contains(out, "#EXTINF:180,B - A\n") {
		t.Fatalf("expected EXTINF line, got %q", out)
	}
	if !strings.Contains(out, "/music/a.mp3\n") {
		t.Fatalf("expected file path line, got %q", out)
	}
}

func TestWriteTreeMirrorsFoldersAndPlaylists(t *testing.T) {
	tracks := map[string]*core.Track{
		"fp1": {Artist: "B", Title: "A", DurationSeconds: 180, FilePath: "/music/a.mp3"},
	}

	playlist := core.NewNode(core.NodePlaylist, "PL")
	playlist.Tracks = []string{"fp1"}
	folder := core.NewNode(core.NodeFolder, "Crates")
	folder.Children = []*core.Node{playlist}

	out := t.TempDir()
	if err := WriteTree(out, []*core.Node{folder}, tracks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(out, "Crates", "PL.m3u")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}
