// Package pdb emits the paged, heap-allocated binary hardware database
// (spec.md §4.6), grounded in original_source/exporter/cdj_pdb_exporter.py
// for the page/row shapes and on spec.md's own byte tables for the exact
// layout, which diverges from the Python in two deliberate ways: the
// default page size (4096, not 8192) and the long-string body encoding
// (UTF-16BE, not UTF-16LE). ALL MULTIBYTE INTEGERS HERE ARE LITTLE-ENDIAN;
// see internal/anlz for the inverted, big-endian sibling format.
package pdb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crateport/crateport/internal/core"
	cerrors "github.com/crateport/crateport/internal/errors"
	"github.com/crateport/crateport/internal/keymap"
)

// DefaultPageLen is the writer's default page size (spec.md §4.6 "default
// 4096 bytes").
const DefaultPageLen = 4096

// maxTracks is the hardware track-count ceiling (spec.md §4.6 "Failure
// modes").
const maxTracks = 20000

// emptyTableMarker fills the second word of every table-pointer entry,
// and the first/last page words of a table that has no pages.
const emptyTableMarker = 0x03FFFFFF

var (
	// ErrCollectionTooLarge is returned when the export plan exceeds the
	// hardware track-count ceiling.
	ErrCollectionTooLarge = errors.New("pdb: collection too large")

	// ErrStringUnrepresentable is returned when a mandatory string cannot
	// be encoded (spec.md §4.6 "Failure modes").
	ErrStringUnrepresentable = errors.New("pdb: string unrepresentable")
)

var requiredKinds = []uint32{
	kindTracks, kindGenres, kindArtists, kindAlbums, kindLabels,
	kindKeys, kindColours, kindPlaylistTree, kindPlaylistEntries,
}

type tableChain struct {
	kind        uint32
	pageIndices []uint32
}

// Writer builds one export.pdb image across a single Build call. It is
// not safe for concurrent use — database writing is strictly serial
// (spec.md §5).
type Writer struct {
	PageLen int

	pages      []*page
	tables     map[uint32]*tableChain
	tableOrder []uint32
}

// NewWriter returns a Writer using DefaultPageLen.
func NewWriter() *Writer {
	return &Writer{PageLen: DefaultPageLen, tables: make(map[uint32]*tableChain)}
}

func (w *Writer) newPageFor(kind uint32) *page {
	idx := uint32(len(w.pages))
	tc := w.tables[kind]
	if tc == nil {
		tc = &tableChain{kind: kind}
		w.tables[kind] = tc
		w.tableOrder = append(w.tableOrder, kind)
	}
	seq := uint32(len(tc.pageIndices))
	pg := newPage(kind, idx, seq, w.PageLen)
	w.pages = append(w.pages, pg)
	tc.pageIndices = append(tc.pageIndices, idx)
	return pg
}

func (w *Writer) currentPage(kind uint32) *page {
	tc := w.tables[kind]
	if tc == nil || len(tc.pageIndices) == 0 {
		return w.newPageFor(kind)
	}
	return w.pages[tc.pageIndices[len(tc.pageIndices)-1]]
}

// addRow tries the table's current page, then a fresh page of the same
// kind if the current one is sealed.
func (w *Writer) addRow(kind uint32, try func(p *page) bool) error {
	if try(w.currentPage(kind)) {
		return nil
	}
	if try(w.newPageFor(kind)) {
		return nil
	}
	return fmt.Errorf("%w: row does not fit in an empty page (table kind %d)", ErrStringUnrepresentable, kind)
}

// dedupe assigns dense ids to names, starting at 1, first-seen order
// (spec.md §4.6 "Identifier allocation").
type dedupe struct {
	ids  map[string]uint32
	next uint32
}

func newDedupe() *dedupe { return &dedupe{ids: make(map[string]uint32), next: 1} }

func (d *dedupe) idFor(name string) uint32 {
	if name == "" {
		return 0
	}
	if id, ok := d.ids[name]; ok {
		return id
	}
	id := d.next
	d.ids[name] = id
	d.next++
	return id
}

// names returns the (id, name) pairs in ascending id order.
func (d *dedupe) names() []refRow {
	out := make([]refRow, len(d.ids))
	for name, id := range d.ids {
		out[id-1] = refRow{ID: id, Name: name}
	}
	return out
}

// Build lays out every table from plan into a single export.pdb image
// (spec.md §4.6). cancelled is polled at each table boundary and between
// tracks, mirroring spec.md §5's "between pages in the database writer"
// cancellation requirement; a nil cancelled is treated as never-cancelled.
func (w *Writer) Build(plan *core.ExportPlan, kt *keymap.Translator, cancelled func() bool) ([]byte, error) {
	if cancelled == nil {
		cancelled = func() bool { return false }
	}

	if len(plan.Tracks) > maxTracks {
		return nil, fmt.Errorf("%w: %d tracks exceeds the %d-track hardware limit", ErrCollectionTooLarge, len(plan.Tracks), maxTracks)
	}

	for _, k := range requiredKinds {
		w.newPageFor(k)
	}

	artists := newDedupe()
	albums := newDedupe()
	genres := newDedupe()
	labels := newDedupe()
	keys := newDedupe()
	colours := newDedupe()

	for i, t := range plan.Tracks {
		if cancelled() {
			return nil, cerrors.ErrCancelRequested
		}

		trackID := uint32(i + 1)

		var keyID uint32
		if t.HasKey() {
			token, err := kt.To(t.KeyIndex, keymap.FormatOpenKey)
			if err == nil {
				keyID = keys.idFor(token)
			}
		}

		row := trackRow{
			TrackID:      trackID,
			ArtistID:     artists.idFor(t.Artist),
			AlbumID:      albums.idFor(t.Album),
			GenreID:      genres.idFor(t.Genre),
			LabelID:      labels.idFor(t.Label),
			KeyID:        keyID,
			BPMx100:      uint32(math.Round(t.BPM * 100)),
			DurationSecs: uint32(t.DurationSeconds),
			SampleRate:   uint32(t.SampleRate),
			FileSize:     uint32(t.FileSize),
			Bitrate:      uint16(t.BitrateKbp),
			Rating:       uint16(t.Rating),
			ColourID:     colours.idFor(colourName(t.ColorTag)),
			DateAdded:    daysSinceEpoch(t.DateAdded),
			PlayCount:    uint32(t.PlayCount),
			Year:         0,
			Title:        t.Title,
			FilePath:     t.FilePath,
			Comment:      t.Comment,
			Remixer:      t.Remixer,
			FileKind:     fileKind(t.FilePath),
		}

		if err := w.addRow(kindTracks, row.encode); err != nil {
			return nil, err
		}
	}

	if cancelled() {
		return nil, cerrors.ErrCancelRequested
	}
	for _, r := range genres.names() {
		if err := w.addRow(kindGenres, r.encode); err != nil {
			return nil, err
		}
	}
	if cancelled() {
		return nil, cerrors.ErrCancelRequested
	}
	for _, r := range artists.names() {
		if err := w.addRow(kindArtists, r.encode); err != nil {
			return nil, err
		}
	}
	if cancelled() {
		return nil, cerrors.ErrCancelRequested
	}
	for _, r := range albums.names() {
		if err := w.addRow(kindAlbums, r.encode); err != nil {
			return nil, err
		}
	}
	if cancelled() {
		return nil, cerrors.ErrCancelRequested
	}
	for _, r := range labels.names() {
		if err := w.addRow(kindLabels, r.encode); err != nil {
			return nil, err
		}
	}
	if cancelled() {
		return nil, cerrors.ErrCancelRequested
	}
	for _, r := range keys.names() {
		if err := w.addRow(kindKeys, r.encode); err != nil {
			return nil, err
		}
	}
	if cancelled() {
		return nil, cerrors.ErrCancelRequested
	}
	for _, r := range colours.names() {
		if err := w.addRow(kindColours, r.encode); err != nil {
			return nil, err
		}
	}

	for _, n := range plan.Nodes {
		if cancelled() {
			return nil, cerrors.ErrCancelRequested
		}
		if n.Kind != core.NodeFolder && n.Kind != core.NodePlaylist {
			continue
		}
		kind := uint8(0)
		if n.Kind == core.NodePlaylist {
			kind = 1
		}
		row := playlistTreeRow{NodeID: n.ID, ParentID: n.ParentID, Seq: uint32(n.Seq), Kind: kind, Name: n.Name}
		if err := w.addRow(kindPlaylistTree, row.encode); err != nil {
			return nil, err
		}

		for pos, trackID := range n.TrackIDs {
			entry := playlistEntryRow{PlaylistID: n.ID, TrackID: trackID, Position: uint32(pos)}
			if err := w.addRow(kindPlaylistEntries, entry.encode); err != nil {
				return nil, err
			}
		}
	}

	return w.encode(), nil
}

// encode serialises the file header, table-pointer array and every page
// in index order.
func (w *Writer) encode() []byte {
	headerLen := 28
	tableCount := len(requiredKinds)
	pointerBytes := tableCount * 16

	out := make([]byte, headerLen+pointerBytes)
	binary.LittleEndian.PutUint32(out[0:4], 0) // signature
	binary.LittleEndian.PutUint32(out[4:8], uint32(w.PageLen))
	binary.LittleEndian.PutUint32(out[8:12], uint32(tableCount))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(w.pages))) // next_unused_page
	binary.LittleEndian.PutUint32(out[16:20], 0)
	binary.LittleEndian.PutUint32(out[20:24], 0) // sequence
	binary.LittleEndian.PutUint32(out[24:28], 0)

	off := headerLen
	for _, kind := range requiredKinds {
		tc := w.tables[kind]
		first, last := uint32(emptyTableMarker), uint32(emptyTableMarker)
		if tc != nil && len(tc.pageIndices) > 0 {
			first = tc.pageIndices[0]
			last = tc.pageIndices[len(tc.pageIndices)-1]
		}
		binary.LittleEndian.PutUint32(out[off:off+4], kind)
		binary.LittleEndian.PutUint32(out[off+4:off+8], emptyTableMarker)
		binary.LittleEndian.PutUint32(out[off+8:off+12], first)
		binary.LittleEndian.PutUint32(out[off+12:off+16], last)
		off += 16
	}

	for _, kind := range w.tableOrder {
		tc := w.tables[kind]
		for i, pageIdx := range tc.pageIndices {
			next := uint32(0)
			if i+1 < len(tc.pageIndices) {
				next = tc.pageIndices[i+1]
			}
			out = append(out, w.pages[pageIdx].encode(next)...)
		}
	}

	return out
}

func colourName(tag core.ColorTag) string {
	if tag == 0 {
		return ""
	}
	return fmt.Sprintf("Color%d", int(tag))
}

func fileKind(path string) string {
	ext := strings.TrimPrefix(strings.ToUpper(filepath.Ext(path)), ".")
	if ext == "" {
		return "MP3"
	}
	return ext
}

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

func daysSinceEpoch(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	return uint32(t.UTC().Sub(epoch).Hours() / 24)
}

// WriteFiles writes export.pdb (and its byte-identical twin,
// DeviceSQL.edb) under root/rekordbox/. The duplicate is a deliberate
// preserved quirk (spec.md §9, Open Question 1): some hardware only looks
// for the alternate filename.
func WriteFiles(root string, data []byte) error {
	dir := filepath.Join(root, "rekordbox")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pdb: create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "export.pdb"), data, 0o644); err != nil {
		return fmt.Errorf("pdb: write export.pdb: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "DeviceSQL.edb"), data, 0o644); err != nil {
		return fmt.Errorf("pdb: write DeviceSQL.edb: %w", err)
	}
	return nil
}
