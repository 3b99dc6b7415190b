// Package pdbread is a read-only inspector for export.pdb images written
// by internal/pdb, backing the "crateport inspect" subcommand (SPEC_FULL.md
// §3 "read-only inspection surface"). It is grounded on
// original_source/tools/pdb_reader.py's PDBReader/PDBValidator shape — file
// header, table-pointer array, per-kind row decode, a validation pass with
// issues/warnings and a structure score — reimplemented against the format
// internal/pdb actually emits (4096-byte pages, UTF-16BE long strings)
// rather than the page layout pyrekordbox reads.
//
// Every multibyte integer here is little-endian, matching internal/pdb.
package pdbread

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"unicode/utf16"
)

const (
	fileHeaderLen   = 28
	pageHeaderLen   = 28
	tablePointerLen = 16
)

// Table kind ids (spec.md §4.6 "Tables, by kind id"), duplicated from
// internal/pdb/rows.go since that package exports no constants of its own.
const (
	KindTracks          uint32 = 0
	KindGenres          uint32 = 1
	KindArtists         uint32 = 2
	KindAlbums          uint32 = 3
	KindLabels          uint32 = 4
	KindKeys            uint32 = 5
	KindColours         uint32 = 6
	KindPlaylistTree    uint32 = 7
	KindPlaylistEntries uint32 = 8
)

var KindNames = map[uint32]string{
	KindTracks: "tracks", KindGenres: "genres", KindArtists: "artists",
	KindAlbums: "albums", KindLabels: "labels", KindKeys: "keys",
	KindColours: "colors", KindPlaylistTree: "playlist_tree",
	KindPlaylistEntries: "playlist_entries",
}

var requiredKinds = []uint32{
	KindTracks, KindGenres, KindArtists, KindAlbums, KindLabels,
	KindKeys, KindColours, KindPlaylistTree, KindPlaylistEntries,
}

// ErrNotAPDB is returned when the file's signature word is nonzero.
var ErrNotAPDB = errors.New("pdbread: not a pdb file (bad signature)")

// Header is the decoded file header (spec.md §4.6 "File header (28 bytes)").
type Header struct {
	PageLen        uint32
	TableCount     uint32
	NextUnusedPage uint32
}

// TablePointer is one entry of the file's table-pointer array.
type TablePointer struct {
	Kind  uint32
	First uint32
	Last  uint32
}

type TrackRow struct {
	TrackID, ArtistID, AlbumID, GenreID, LabelID, KeyID uint32
	BPM                                                 float64
	DurationSeconds                                     uint32
	SampleRate                                          uint32
	FileSize                                            uint32
	Bitrate                                             uint16
	Rating                                              uint16
	ColourID                                            uint32
	DateAdded                                           uint32
	PlayCount                                           uint32

	Title, FilePath, Comment, Remixer, FileKind string
}

type RefRow struct {
	ID   uint32
	Name string
}

type PlaylistTreeRow struct {
	NodeID, ParentID, Seq uint32
	Kind                  uint8
	Name                  string
}

type PlaylistEntryRow struct {
	PlaylistID, TrackID, Position uint32
}

// Database is a fully decoded export.pdb image.
type Database struct {
	Header   Header
	Pointers []TablePointer

	Tracks          []TrackRow
	Genres          []RefRow
	Artists         []RefRow
	Albums          []RefRow
	Labels          []RefRow
	Keys            []RefRow
	Colours         []RefRow
	PlaylistTree    []PlaylistTreeRow
	PlaylistEntries []PlaylistEntryRow
}

// Read parses the export.pdb (or DeviceSQL.edb) file at path.
func Read(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdbread: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes an in-memory export.pdb image.
func Parse(data []byte) (*Database, error) {
	if len(data) < fileHeaderLen {
		return nil, fmt.Errorf("pdbread: file too short (%d bytes)", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != 0 {
		return nil, ErrNotAPDB
	}

	hdr := Header{
		PageLen:        binary.LittleEndian.Uint32(data[4:8]),
		TableCount:     binary.LittleEndian.Uint32(data[8:12]),
		NextUnusedPage: binary.LittleEndian.Uint32(data[12:16]),
	}
	if hdr.PageLen == 0 {
		return nil, fmt.Errorf("pdbread: zero page length in header")
	}

	db := &Database{Header: hdr}

	off := fileHeaderLen
	for i := uint32(0); i < hdr.TableCount; i++ {
		if off+tablePointerLen > len(data) {
			return nil, fmt.Errorf("pdbread: table pointer array truncated at entry %d", i)
		}
		db.Pointers = append(db.Pointers, TablePointer{
			Kind:  binary.LittleEndian.Uint32(data[off : off+4]),
			First: binary.LittleEndian.Uint32(data[off+8 : off+12]),
			Last:  binary.LittleEndian.Uint32(data[off+12 : off+16]),
		})
		off += tablePointerLen
	}

	// Pages of a given kind are always written contiguously (internal/pdb's
	// Writer groups by table before emitting), so a single sequential scan
	// bucketing by each page's own kind field reconstructs every table's
	// row order correctly without needing to chase "next page" pointers.
	pageOff := off
	for p := uint32(0); p < hdr.NextUnusedPage; p++ {
		if pageOff+int(hdr.PageLen) > len(data) {
			return nil, fmt.Errorf("pdbread: page %d truncated", p)
		}
		page := data[pageOff : pageOff+int(hdr.PageLen)]
		pageOff += int(hdr.PageLen)

		kind := binary.LittleEndian.Uint32(page[0:4])
		rowCount := binary.LittleEndian.Uint32(page[12:16])

		if err := db.decodePage(kind, page, rowCount); err != nil {
			return nil, fmt.Errorf("pdbread: page %d (kind %d): %w", p, kind, err)
		}
	}

	return db, nil
}

func (db *Database) decodePage(kind uint32, page []byte, rowCount uint32) error {
	switch kind {
	case KindTracks:
		return db.decodeTracks(page, rowCount)
	case KindGenres:
		rows, err := decodeRefRows(page, rowCount)
		db.Genres = append(db.Genres, rows...)
		return err
	case KindArtists:
		rows, err := decodeRefRows(page, rowCount)
		db.Artists = append(db.Artists, rows...)
		return err
	case KindAlbums:
		rows, err := decodeRefRows(page, rowCount)
		db.Albums = append(db.Albums, rows...)
		return err
	case KindLabels:
		rows, err := decodeRefRows(page, rowCount)
		db.Labels = append(db.Labels, rows...)
		return err
	case KindKeys:
		rows, err := decodeRefRows(page, rowCount)
		db.Keys = append(db.Keys, rows...)
		return err
	case KindColours:
		rows, err := decodeRefRows(page, rowCount)
		db.Colours = append(db.Colours, rows...)
		return err
	case KindPlaylistTree:
		rows, err := decodePlaylistTreeRows(page, rowCount)
		db.PlaylistTree = append(db.PlaylistTree, rows...)
		return err
	case KindPlaylistEntries:
		rows, err := decodePlaylistEntryRows(page, rowCount)
		db.PlaylistEntries = append(db.PlaylistEntries, rows...)
		return err
	default:
		return fmt.Errorf("unknown table kind %d", kind)
	}
}

func decodeString(buf []byte, offset int) (string, error) {
	if offset < 0 || offset >= len(buf) {
		return "", fmt.Errorf("heap offset %d out of range", offset)
	}
	marker := buf[offset]
	if marker == 0x00 {
		return "", nil
	}

	switch marker {
	case 0x40:
		if offset+3 > len(buf) {
			return "", fmt.Errorf("long-string header truncated at %d", offset)
		}
		length := int(binary.LittleEndian.Uint16(buf[offset+1 : offset+3]))
		n := length - 3 // length field counts itself + ASCII bytes + trailing reserved byte
		if n < 0 || offset+3+n > len(buf) {
			return "", fmt.Errorf("long-string body truncated at %d", offset)
		}
		return string(buf[offset+3 : offset+3+n]), nil
	case 0x90:
		if offset+3 > len(buf) {
			return "", fmt.Errorf("long-string header truncated at %d", offset)
		}
		length := int(binary.LittleEndian.Uint16(buf[offset+1 : offset+3]))
		n := length - 2 // length field counts itself + UTF-16BE body
		if n < 0 || offset+3+n > len(buf) {
			return "", fmt.Errorf("long-string body truncated at %d", offset)
		}
		if n%2 != 0 {
			return "", fmt.Errorf("odd-length utf16 body at %d", offset)
		}
		body := buf[offset+3 : offset+3+n]
		u16 := make([]uint16, n/2)
		for i := range u16 {
			u16[i] = binary.BigEndian.Uint16(body[i*2:])
		}
		return string(utf16.Decode(u16)), nil
	default:
		if marker&0x01 == 0 {
			return "", fmt.Errorf("unrecognised string marker 0x%02x at %d", marker, offset)
		}
		n := int(marker-1) / 2
		if offset+1+n > len(buf) {
			return "", fmt.Errorf("short-string body truncated at %d", offset)
		}
		return string(buf[offset+1 : offset+1+n]), nil
	}
}
