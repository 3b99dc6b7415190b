package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// Collection is the parsed form of a source library: a mapping from
// fingerprint to Track, the root node list of the playlist tree, and load
// statistics. The mapping determines track identity; the tree determines
// playlist membership (spec.md §3 "Collection").
type Collection struct {
	Tracks map[string]*Track
	Roots  []*Node

	SourceVersion string
	EntryCount    int
	ParseTime     time.Duration

	// Issues accumulates non-fatal warnings collected during parsing
	// (spec.md §7 "per-conversion issue list").
	Issues []Issue
}

// NewCollection returns an empty Collection ready for incremental population.
func NewCollection() *Collection {
	return &Collection{Tracks: make(map[string]*Track)}
}

// AddTrack inserts t, keyed by its Fingerprint, which must already be set.
func (c *Collection) AddTrack(t *Track) {
	c.Tracks[t.Fingerprint] = t
	c.EntryCount++
}

// FingerprintForPath derives a stable fingerprint from a canonicalised
// absolute path, used when the source document does not supply a native id
// (spec.md §3 "otherwise a hash of canonicalised absolute path").
func FingerprintForPath(absPath string) string {
	canon := strings.ToLower(strings.ReplaceAll(absPath, `\`, `/`))
	sum, err := hashstructure.Hash(canon, hashstructure.FormatV2, nil)
	if err != nil {
		// hashstructure.Hash only errors on unhashable types; a string
		// never hits that path, but fall back to something stable rather
		// than panic.
		return canon
	}
	return strconv.FormatUint(sum, 16)
}

// IssueKind classifies a non-fatal issue raised during a conversion.
type IssueKind string

const (
	IssueEncodingUndetermined IssueKind = "EncodingUndetermined"
	IssueEntryMalformed       IssueKind = "EntryMalformed"
	IssuePathUnrepresentable  IssueKind = "PathUnrepresentable"
	IssueIndexUnusable        IssueKind = "IndexUnusable"
	IssueAudioCopyFailed      IssueKind = "AudioCopyFailed"
	IssueUnresolvedEntry      IssueKind = "UnresolvedPlaylistEntry"
)

// Issue is one entry in a conversion's warning log.
type Issue struct {
	Kind    IssueKind
	Message string
}
