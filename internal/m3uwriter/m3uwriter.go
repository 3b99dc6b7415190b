// Package m3uwriter emits standard #EXTM3U playlists, one file per
// playlist node with folders mirrored as subdirectories (SPEC_FULL.md §3
// "M3U writer remains a thin collaborator"), grounded on
// original_source/exporter/bsm_m3u_exporter.py's #EXTM3U/#EXTINF format.
package m3uwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/sanitize"
)

// BuildPlaylist renders one playlist node as #EXTM3U text. Fingerprints in
// node.Tracks that have no entry in tracks are skipped.
func BuildPlaylist(node *core.Node, tracks map[string]*core.Track) []byte {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")

	for _, fp := range node.Tracks {
		t, ok := tracks[fp]
		if !ok {
			continue
		}

		duration := t.DurationSeconds
		if duration == 0 {
			duration = -1
		}
		fmt.Fprintf(&b, "#EXTINF:%d,%s - %s\n", duration, t.Artist, t.Title)
		fmt.Fprintf(&b, "%s\n", t.FilePath)
	}

	return []byte(b.String())
}

// WriteTree recursively writes roots under outputRoot: folders become
// directories, playlists and smartlists become "<name>.m3u" files.
func WriteTree(outputRoot string, roots []*core.Node, tracks map[string]*core.Track) error {
	return writeNodes(outputRoot, roots, tracks)
}

func writeNodes(dir string, nodes []*core.Node, tracks map[string]*core.Track) error {
	for _, n := range nodes {
		switch n.Kind {
		case core.NodeFolder:
			base, err := sanitize.Basename(n.Name)
			if err != nil {
				base = "Untitled"
			}
			sub := filepath.Join(dir, base)
			if err := os.MkdirAll(sub, 0o755); err != nil {
				return fmt.Errorf("m3uwriter: create %s: %w", sub, err)
			}
			if err := writeNodes(sub, n.Children, tracks); err != nil {
				return err
			}
		case core.NodePlaylist, core.NodeSmartlist:
			base, err := sanitize.Basename(n.Name + ".m3u")
			if err != nil {
				base = "Untitled.m3u"
			}
			path := filepath.Join(dir, base)
			if err := os.WriteFile(path, BuildPlaylist(n, tracks), 0o644); err != nil {
				return fmt.Errorf("m3uwriter: write %s: %w", path, err)
			}
		}
	}
	return nil
}
