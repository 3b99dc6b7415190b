package collection

import (
	"encoding/xml"
	"fmt"
	"math"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/fileindex"
	"github.com/crateport/crateport/internal/keymap"
	"github.com/crateport/crateport/internal/sanitize"
)

// ProgressFunc receives periodic (percent, message) updates during a
// parse, mirroring bsm_nml_parser.py's progress-queue callback.
type ProgressFunc func(percent int, message string)

// Options configures a Load call.
type Options struct {
	// Index, when non-nil, is consulted to relocate entries whose
	// recorded path no longer exists on disk (spec.md §4.3/§4.4).
	Index *fileindex.Index

	OnProgress ProgressFunc
}

// Load reads and parses the NML document at path into a core.Collection.
func Load(path string, opts Options) (*core.Collection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("collection: read %s: %w", path, err)
	}
	return Parse(raw, opts)
}

// Parse decodes raw NML bytes into a core.Collection, handling encoding
// detection, pre-cleaning and malformed-entry recovery (spec.md §4.4).
func Parse(raw []byte, opts Options) (*core.Collection, error) {
	start := time.Now()
	report(opts.OnProgress, 0, "detecting encoding")

	text, encName, err := decodeToUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("collection: decode: %w", err)
	}
	text = trimBOMRune(preclean(text))

	col := core.NewCollection()
	col.Issues = append(col.Issues, core.Issue{
		Kind:    core.IssueEncodingUndetermined,
		Message: fmt.Sprintf("decoded using %s", encName),
	})

	var doc nmlDocument
	strictErr := xml.Unmarshal([]byte(text), &doc)
	if strictErr != nil {
		report(opts.OnProgress, 5, "strict parse failed, entering recovery mode")
		rdoc, issues, recErr := recoverParse(text)
		if recErr != nil {
			return nil, fmt.Errorf("collection: unrecoverable parse failure: %w", recErr)
		}
		doc = *rdoc
		col.Issues = append(col.Issues, issues...)
	}

	version := detectVersion(doc)
	col.SourceVersion = version
	report(opts.OnProgress, 10, fmt.Sprintf("detected NML version %s", version))

	byTraktorKey := make(map[string]string, len(doc.Collection.Entries))
	kt := keymap.New()

	total := len(doc.Collection.Entries)
	for i, e := range doc.Collection.Entries {
		if total > 0 && i%500 == 0 {
			pct := 10 + int(float64(i)/float64(total)*60)
			report(opts.OnProgress, pct, fmt.Sprintf("indexing entries %d/%d", i, total))
		}

		track, issue := materializeTrack(e, version, kt, opts.Index)
		if issue != nil {
			col.Issues = append(col.Issues, *issue)
		}
		if track == nil {
			continue
		}

		col.AddTrack(track)
		byTraktorKey[e.Location.traktorKey()] = track.Fingerprint
	}

	report(opts.OnProgress, 75, "parsing playlist structure")
	roots := buildNodes(doc.Playlists.Root.children(), version)
	resolveTree(roots, byTraktorKey, col)
	col.Roots = roots

	col.ParseTime = time.Since(start)
	report(opts.OnProgress, 100, fmt.Sprintf("parsed %d tracks", col.EntryCount))
	return col, nil
}

func report(fn ProgressFunc, pct int, msg string) {
	if fn != nil {
		fn(pct, msg)
	}
}

// detectVersion reproduces bsm_nml_parser.py's version-detection heuristic,
// restricted to signals visible from the already-decoded document (the
// root VERSION attribute and the HEAD program string); spec.md §4.4 does
// not require the deeper per-element feature sniffing the original
// performs for a handful of edge cases.
func detectVersion(doc nmlDocument) string {
	if strings.Contains(doc.Head.Program, "Pro 4") {
		return "20"
	}
	if doc.Version == "" {
		return "19"
	}
	return doc.Version
}

// materializeTrack converts one NML ENTRY into a core.Track, applying the
// rating-bucket conversion and key/location resolution (spec.md §3, §4.2,
// §4.4).
func materializeTrack(e nmlEntry, version string, kt *keymap.Translator, idx *fileindex.Index) (*core.Track, *core.Issue) {
	filePath, ok := resolveLocation(e.Location, idx)
	if !ok {
		return nil, &core.Issue{Kind: core.IssueEntryMalformed, Message: "entry has no usable LOCATION: " + e.Title}
	}
	if !sanitize.ValidSourcePath(filePath) {
		return nil, &core.Issue{Kind: core.IssuePathUnrepresentable, Message: "LOCATION resolves outside the expected tree (path traversal): " + filePath}
	}

	t := &core.Track{
		Title:      e.Title,
		Artist:     e.Artist,
		Remixer:    e.Remixer,
		Album:      e.Album.Title,
		FilePath:   filePath,
		FileSize:   atoi64(e.Info.FileSize),
		BitrateKbp: atoi(e.Info.Bitrate),
		Rating:     ratingBucket(atoi(e.Info.Ranking)),
		Genre:      e.Info.Genre,
		Comment:    e.Info.Comment,
		Label:      e.Info.Label,
		ColorTag:   core.ColorTag(atoi(e.Info.Color)),
		PlayCount:  atoi(e.Info.PlayCount),
		BPM:        atof(e.Tempo.BPM),
		KeyIndex:   -1,
	}

	t.DurationFloat = atof(e.Info.Playtime)
	if version == "20" && e.Info.PlaytimeF != "" {
		t.DurationFloat = atof(e.Info.PlaytimeF)
	}
	t.DurationSeconds = int(math.Round(t.DurationFloat))

	t.DateAdded = parseNMLDate(e.Info.ImportDate)
	t.DateModified = parseNMLDate(e.ModificationDate)
	if version == "20" {
		t.LastPlayed = parseNMLDate(e.Info.LastPlayed)
	}

	t.KeyIndex = resolveKeyIndex(e.Key.Value, e.Info.Key, kt)

	if e.AudioID != "" {
		t.Fingerprint = e.AudioID
	} else {
		t.Fingerprint = core.FingerprintForPath(filePath)
	}

	extractCues(e.Cues, t)

	return t, nil
}

// resolveKeyIndex implements spec.md §4.4's two-step key rule: MUSICAL_KEY's
// own VALUE holds the canonical key as a plain integer 0..23
// (key_translator.py's KeyTranslator.translate takes the digit string
// straight as an index into open_key_map); some exports instead leave VALUE
// already rendered as an Open-Key token (e.g. "8A"), which is resolved the
// same way the rekordbox-side translator does. Only when MUSICAL_KEY itself
// is absent does this fall back to a free-text key attribute elsewhere on
// the entry.
func resolveKeyIndex(musicalKeyValue, freeTextKey string, kt *keymap.Translator) int {
	v := strings.TrimSpace(musicalKeyValue)
	if v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n >= 0 && n <= 23 {
				return n
			}
			return -1
		}
		if idx, err := kt.FromOpenKey(v); err == nil && idx >= 0 {
			return idx
		}
		return -1
	}

	free := strings.TrimSpace(freeTextKey)
	if free == "" {
		return -1
	}
	if idx, err := kt.FromOpenKey(free); err == nil && idx >= 0 {
		return idx
	}
	return -1
}

func resolveLocation(loc nmlLocation, idx *fileindex.Index) (string, bool) {
	dir := strings.ReplaceAll(loc.Dir, "/:", "/")
	reconstructed, err := url.PathUnescape(loc.Volume + dir + loc.File)
	if err != nil {
		reconstructed = loc.Volume + dir + loc.File
	}

	for _, prefix := range []string{"file://localhost/", "file:///", "file://"} {
		if strings.HasPrefix(reconstructed, prefix) {
			reconstructed = reconstructed[len(prefix):]
			break
		}
	}
	if len(reconstructed) > 2 && reconstructed[0] == '/' && reconstructed[2] == ':' {
		reconstructed = reconstructed[1:]
	}

	if reconstructed == "" {
		return "", false
	}

	if idx != nil {
		base, _ := url.PathUnescape(path.Base(loc.File))
		if relocated := idx.Lookup(base); relocated != "" {
			return relocated, true
		}
	}

	return reconstructed, true
}

func extractCues(cues []nmlCue, t *core.Track) {
	for order, c := range cues {
		startMS := atof(c.Start)

		if c.Type == cueTypeGrid && !t.HasGridAnchor {
			t.GridAnchorMS = int64(startMS)
			t.HasGridAnchor = true
		}

		hot := atoiDefault(c.HotCue, -1)
		kind := core.CueStandard
		switch {
		case c.Type == cueTypeGrid:
			kind = core.CueGridAnchor
		case atoi(c.Len) > 0:
			kind = core.CueLoop
		case hot < 0:
			kind = core.CueMemory
		}

		cue := core.CuePoint{
			Name:         c.Name,
			Kind:         kind,
			StartMS:      int64(startMS),
			LengthMS:     int64(atoi(c.Len)),
			HotCueSlot:   hot,
			DisplayOrder: order,
		}
		if rgb, ok := parseColorHex(c.Color); ok {
			cue.Color = rgb
			cue.HasColor = true
		}
		t.Cues = append(t.Cues, cue)
	}
}

func buildNodes(nodes []nmlNode, version string) []*core.Node {
	var out []*core.Node
	for _, n := range nodes {
		switch n.Type {
		case "PLAYLIST":
			node := core.NewNode(core.NodePlaylist, orDefault(n.Name, "Unnamed"))
			for _, pe := range n.Playlist.Entries {
				if pe.PrimaryKey.Key != "" {
					node.TrackKeys = append(node.TrackKeys, pe.PrimaryKey.Key)
				}
			}
			// A playlist born with no raw entries still belongs in the tree,
			// just already flagged empty; resolveTree only has to handle the
			// case where resolution fails, not construction.
			node.Empty = len(node.TrackKeys) == 0
			out = append(out, node)
		case "SMARTLIST":
			if version != "20" {
				continue
			}
			node := core.NewNode(core.NodeSmartlist, orDefault(n.Name, "Unnamed"))
			node.Query = n.Smart.Search.Query
			out = append(out, node)
		case "FOLDER":
			node := core.NewNode(core.NodeFolder, orDefault(n.Name, "Unnamed"))
			node.Children = buildNodes(n.children(), version)
			if len(node.Children) > 0 {
				out = append(out, node)
			}
		}
	}
	return out
}

// resolveTree cross-resolves every playlist node's raw TrackKeys into
// resolved fingerprints, dropping entries that don't match a collection
// track and flagging playlists left with nothing resolvable (spec.md
// §4.4).
func resolveTree(nodes []*core.Node, byTraktorKey map[string]string, col *core.Collection) {
	for _, n := range nodes {
		if n.Kind == core.NodePlaylist {
			for _, key := range n.TrackKeys {
				fp, ok := byTraktorKey[key]
				if !ok {
					col.Issues = append(col.Issues, core.Issue{
						Kind:    core.IssueUnresolvedEntry,
						Message: fmt.Sprintf("playlist %q: unresolved entry %q", n.Name, key),
					})
					continue
				}
				n.Tracks = append(n.Tracks, fp)
			}
			n.Empty = len(n.Tracks) == 0
		}
		resolveTree(n.Children, byTraktorKey, col)
	}
}

// ratingBucket maps a 0-255 source rating onto the 0-5 bucket scale used
// throughout the rest of the pipeline (spec.md §4.2).
func ratingBucket(v int) int {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	b := v / 51
	if b > 5 {
		b = 5
	}
	return b
}

func parseNMLDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"1/2/2006", "2006/1/2", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseColorHex(s string) ([3]byte, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return [3]byte{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return [3]byte{}, false
	}
	return [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}, true
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func atoi64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
