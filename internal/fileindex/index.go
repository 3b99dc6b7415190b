// Package fileindex builds a basename -> absolute-path map from a music-root
// directory, serving bounded-size lookups for relocated audio files
// (spec.md §4.3), grounded on the directory-walk in evanpurkhiser-tunedex's
// sync.getAllFiles and on the discovery-loop shape of tessro-riff's
// internal/sonos/discovery.go.
package fileindex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrIndexUnusable is returned when the root directory does not exist
// (spec.md §4.3).
var ErrIndexUnusable = errors.New("fileindex: root directory unusable")

// DefaultCap is the default bounded size of an Index (spec.md §4.3).
const DefaultCap = 30000

var defaultAudioExtensions = map[string]bool{
	".mp3": true, ".aif": true, ".aiff": true, ".wav": true,
	".flac": true, ".m4a": true, ".ogg": true, ".aac": true,
}

type entry struct {
	path        string
	accessCount int
	insertSeq   int
}

// Index is a bounded, lowercase-basename -> absolute-path lookup table.
// On a basename collision the first-seen path wins; the index never
// overwrites, which keeps repeated lookups against the same tree
// deterministic (spec.md §4.3, §8 property 5).
type Index struct {
	entries map[string]*entry
	cap     int
	seq     int
}

// Build walks root, indexing every file whose extension is in the
// recognised audio set. Fails with ErrIndexUnusable if root does not exist.
func Build(root string, cap int) (*Index, error) {
	if cap <= 0 {
		cap = DefaultCap
	}

	if _, err := os.Stat(root); err != nil {
		return nil, ErrIndexUnusable
	}

	idx := &Index{entries: make(map[string]*entry), cap: cap}

	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !defaultAudioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		idx.insert(strings.ToLower(filepath.Base(path)), abs)
		return nil
	})

	return idx, nil
}

func (idx *Index) insert(basename, absPath string) {
	if _, exists := idx.entries[basename]; exists {
		// First-seen path wins; never overwrite (safety property).
		return
	}

	if len(idx.entries) >= idx.cap {
		idx.evictOne()
	}

	idx.seq++
	idx.entries[basename] = &entry{path: absPath, insertSeq: idx.seq}
}

// evictOne removes the entry with the lowest access count, ties broken by
// insertion order (spec.md §4.3).
func (idx *Index) evictOne() {
	var victim string
	var victimEntry *entry

	for name, e := range idx.entries {
		if victimEntry == nil ||
			e.accessCount < victimEntry.accessCount ||
			(e.accessCount == victimEntry.accessCount && e.insertSeq < victimEntry.insertSeq) {
			victim = name
			victimEntry = e
		}
	}

	if victim != "" {
		delete(idx.entries, victim)
	}
}

// Lookup returns the absolute path for basename (case-insensitive), or ""
// if not present. Missing lookups are not an error (spec.md §4.3).
func (idx *Index) Lookup(basename string) string {
	e, ok := idx.entries[strings.ToLower(basename)]
	if !ok {
		return ""
	}
	e.accessCount++
	return e.path
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}
