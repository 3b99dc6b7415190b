// Package xmlwriter emits the interchange XML form (spec.md §4.8),
// grounded on original_source/exporter/bsm_xml_exporter.py's element
// catalogue and attribute set, expressed as Go structs with xml struct
// tags the way tessro-riff/internal/sonos/metadata.go uses namespace-aware
// struct tags for its own (read-path) DIDL-Lite types.
package xmlwriter

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/keymap"
)

type djPlaylists struct {
	XMLName    xml.Name      `xml:"DJ_PLAYLISTS"`
	Version    string        `xml:"Version,attr"`
	Product    productXML    `xml:"PRODUCT"`
	Collection collectionXML `xml:"COLLECTION"`
	Playlists  playlistsXML  `xml:"PLAYLISTS"`
}

type productXML struct {
	Name    string `xml:"Name,attr"`
	Version string `xml:"Version,attr"`
	Company string `xml:"Company,attr"`
}

type collectionXML struct {
	Entries int        `xml:"Entries,attr"`
	Tracks  []trackXML `xml:"TRACK"`
}

type trackXML struct {
	TrackID    uint32            `xml:"TrackID,attr"`
	Name       string            `xml:"Name,attr"`
	Artist     string            `xml:"Artist,attr"`
	Album      string            `xml:"Album,attr"`
	Genre      string            `xml:"Genre,attr"`
	Kind       string            `xml:"Kind,attr"`
	Size       int64             `xml:"Size,attr"`
	TotalTime  int               `xml:"TotalTime,attr"`
	Year       string            `xml:"Year,attr"`
	AverageBpm string            `xml:"AverageBpm,attr"`
	DateAdded  string            `xml:"DateAdded,attr"`
	BitRate    int               `xml:"BitRate,attr"`
	SampleRate int               `xml:"SampleRate,attr"`
	Comments   string            `xml:"Comments,attr"`
	PlayCount  int               `xml:"PlayCount,attr"`
	Rating     int               `xml:"Rating,attr"`
	Location   string            `xml:"Location,attr"`
	Remixer    string            `xml:"Remixer,attr"`
	Tonality   string            `xml:"Tonality,attr"`
	Label      string            `xml:"Label,attr"`
	Marks      []positionMarkXML `xml:"POSITION_MARK"`
}

type positionMarkXML struct {
	Name  string `xml:"Name,attr"`
	Type  int    `xml:"Type,attr"`
	Start string `xml:"Start,attr"`
	End   string `xml:"End,attr,omitempty"`
	Num   int    `xml:"Num,attr"`
	Red   *int   `xml:"Red,attr,omitempty"`
	Green *int   `xml:"Green,attr,omitempty"`
	Blue  *int   `xml:"Blue,attr,omitempty"`
}

type playlistsXML struct {
	Root nodeXML `xml:"NODE"`
}

type nodeXML struct {
	Type     int           `xml:"Type,attr"`
	Name     string        `xml:"Name,attr"`
	Count    int           `xml:"Count,attr,omitempty"`
	Entries  int           `xml:"Entries,attr,omitempty"`
	Query    string        `xml:"Query,attr,omitempty"`
	Children []nodeXML     `xml:"NODE"`
	Tracks   []trackRefXML `xml:"TRACK"`
}

type trackRefXML struct {
	Key uint32 `xml:"Key,attr"`
}

// Build renders plan's tracks and roots' playlist tree as interchange
// XML in the given key notation (spec.md §4.8, §6 "key-notation").
func Build(plan *core.ExportPlan, roots []*core.Node, kt *keymap.Translator, notation keymap.Format) ([]byte, error) {
	doc := djPlaylists{
		Version: "1.0.0",
		Product: productXML{Name: "crateport", Version: "1.0.0", Company: "crateport"},
		Collection: collectionXML{
			Entries: len(plan.Tracks),
			Tracks:  make([]trackXML, len(plan.Tracks)),
		},
	}

	for i, t := range plan.Tracks {
		tx, err := buildTrack(uint32(i+1), t, kt, notation)
		if err != nil {
			return nil, err
		}
		doc.Collection.Tracks[i] = tx
	}

	doc.Playlists.Root = nodeXML{
		Type:     0,
		Name:     "ROOT",
		Count:    len(roots),
		Children: buildNodes(roots, plan.TrackIDs),
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("xmlwriter: marshal: %w", err)
	}

	out := []byte(xml.Header)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func buildTrack(id uint32, t *core.Track, kt *keymap.Translator, notation keymap.Format) (trackXML, error) {
	tonality := ""
	if t.HasKey() {
		v, err := kt.To(t.KeyIndex, notation)
		if err == nil {
			tonality = v
		}
	}

	tx := trackXML{
		TrackID:    id,
		Name:       t.Title,
		Artist:     t.Artist,
		Album:      t.Album,
		Genre:      t.Genre,
		Kind:       fileKind(t.FilePath),
		Size:       t.FileSize,
		TotalTime:  t.DurationSeconds,
		AverageBpm: fmt.Sprintf("%.2f", t.BPM),
		DateAdded:  t.DateAdded.Format("2006-01-02"),
		BitRate:    t.BitrateKbp,
		SampleRate: t.SampleRate,
		Comments:   t.Comment,
		PlayCount:  t.PlayCount,
		Rating:     t.Rating,
		Location:   fileLocation(t.FilePath),
		Remixer:    t.Remixer,
		Tonality:   tonality,
		Label:      t.Label,
	}

	for _, c := range t.Cues {
		if c.Kind == core.CueGridAnchor {
			continue
		}
		tx.Marks = append(tx.Marks, buildPositionMark(c))
	}

	return tx, nil
}

func buildPositionMark(c core.CuePoint) positionMarkXML {
	cueType := 0
	if c.IsLoop() {
		cueType = 4
	}

	num := -1
	if c.IsHotCue() {
		num = c.HotCueSlot
	}

	mark := positionMarkXML{
		Name:  c.Name,
		Type:  cueType,
		Start: fmt.Sprintf("%.3f", float64(c.StartMS)/1000),
		Num:   num,
	}
	if c.IsLoop() {
		mark.End = fmt.Sprintf("%.3f", float64(c.StartMS+c.LengthMS)/1000)
	}
	if c.HasColor {
		r, g, b := int(c.Color[0]), int(c.Color[1]), int(c.Color[2])
		mark.Red, mark.Green, mark.Blue = &r, &g, &b
	}
	return mark
}

func buildNodes(nodes []*core.Node, trackIDs map[string]uint32) []nodeXML {
	out := make([]nodeXML, 0, len(nodes))
	for _, n := range nodes {
		switch n.Kind {
		case core.NodeFolder:
			out = append(out, nodeXML{
				Type:     0,
				Name:     n.Name,
				Count:    len(n.Children),
				Children: buildNodes(n.Children, trackIDs),
			})
		case core.NodePlaylist:
			refs := make([]trackRefXML, 0, len(n.Tracks))
			for _, fp := range n.Tracks {
				if id, ok := trackIDs[fp]; ok {
					refs = append(refs, trackRefXML{Key: id})
				}
			}
			out = append(out, nodeXML{
				Type:    1,
				Name:    n.Name,
				Entries: len(refs),
				Tracks:  refs,
			})
		case core.NodeSmartlist:
			// A smartlist carries no resolved TrackKeys of its own; its
			// Query is passed through verbatim (core.Node's own doc
			// comment) rather than resolved into TRACK references.
			out = append(out, nodeXML{
				Type:  1,
				Name:  n.Name,
				Query: n.Query,
			})
		}
	}
	return out
}

func fileKind(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(pathExt(path), "."))
	switch ext {
	case "mp3":
		return "MP3 File"
	case "m4a":
		return "M4A File"
	case "flac":
		return "FLAC File"
	case "wav":
		return "WAV File"
	case "aiff", "aif":
		return "AIFF File"
	default:
		return "MP3 File"
	}
}

func pathExt(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		if j := strings.LastIndexAny(path, `/\`); j < i {
			return path[i:]
		}
	}
	return ""
}

// fileLocation renders path as a file://localhost URL with forward
// slashes and each path segment percent-encoded (spec.md §4.8).
func fileLocation(path string) string {
	norm := strings.ReplaceAll(path, `\`, "/")
	if !strings.HasPrefix(norm, "/") {
		norm = "/" + norm
	}

	segments := strings.Split(norm, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "file://localhost" + strings.Join(segments, "/")
}
