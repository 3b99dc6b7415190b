package pdbread

import (
	"encoding/binary"
	"strconv"
)

const (
	trackFixedLen       = 72 + 5*4
	refRowLen           = 8
	playlistTreeRowLen  = 4 + 4 + 4 + 4 + 4
	playlistEntryRowLen = 12
)

func (db *Database) decodeTracks(page []byte, rowCount uint32) error {
	off := pageHeaderLen
	for i := uint32(0); i < rowCount; i++ {
		if off+trackFixedLen > len(page) {
			return errShortRow("track", i)
		}
		buf := page[off : off+trackFixedLen]
		off += trackFixedLen

		title, err := decodeString(page, int(binary.LittleEndian.Uint32(buf[72:76])))
		if err != nil {
			return err
		}
		filePath, err := decodeString(page, int(binary.LittleEndian.Uint32(buf[76:80])))
		if err != nil {
			return err
		}
		comment, err := decodeString(page, int(binary.LittleEndian.Uint32(buf[80:84])))
		if err != nil {
			return err
		}
		remixer, err := decodeString(page, int(binary.LittleEndian.Uint32(buf[84:88])))
		if err != nil {
			return err
		}
		fileKind, err := decodeString(page, int(binary.LittleEndian.Uint32(buf[88:92])))
		if err != nil {
			return err
		}

		db.Tracks = append(db.Tracks, TrackRow{
			TrackID:         binary.LittleEndian.Uint32(buf[4:8]),
			ArtistID:        binary.LittleEndian.Uint32(buf[8:12]),
			AlbumID:         binary.LittleEndian.Uint32(buf[12:16]),
			GenreID:         binary.LittleEndian.Uint32(buf[16:20]),
			LabelID:         binary.LittleEndian.Uint32(buf[20:24]),
			KeyID:           binary.LittleEndian.Uint32(buf[24:28]),
			BPM:             float64(binary.LittleEndian.Uint32(buf[28:32])) / 100,
			DurationSeconds: binary.LittleEndian.Uint32(buf[32:36]),
			SampleRate:      binary.LittleEndian.Uint32(buf[36:40]),
			FileSize:        binary.LittleEndian.Uint32(buf[40:44]),
			Bitrate:         binary.LittleEndian.Uint16(buf[44:46]),
			Rating:          binary.LittleEndian.Uint16(buf[46:48]),
			ColourID:        binary.LittleEndian.Uint32(buf[48:52]),
			DateAdded:       binary.LittleEndian.Uint32(buf[52:56]),
			PlayCount:       binary.LittleEndian.Uint32(buf[56:60]),
			Title:           title,
			FilePath:        filePath,
			Comment:         comment,
			Remixer:         remixer,
			FileKind:        fileKind,
		})
	}
	return nil
}

func decodeRefRows(page []byte, rowCount uint32) ([]RefRow, error) {
	var out []RefRow
	off := pageHeaderLen
	for i := uint32(0); i < rowCount; i++ {
		if off+refRowLen > len(page) {
			return out, errShortRow("reference", i)
		}
		buf := page[off : off+refRowLen]
		off += refRowLen

		name, err := decodeString(page, int(binary.LittleEndian.Uint32(buf[4:8])))
		if err != nil {
			return out, err
		}
		out = append(out, RefRow{ID: binary.LittleEndian.Uint32(buf[0:4]), Name: name})
	}
	return out, nil
}

func decodePlaylistTreeRows(page []byte, rowCount uint32) ([]PlaylistTreeRow, error) {
	var out []PlaylistTreeRow
	off := pageHeaderLen
	for i := uint32(0); i < rowCount; i++ {
		if off+playlistTreeRowLen > len(page) {
			return out, errShortRow("playlist_tree", i)
		}
		buf := page[off : off+playlistTreeRowLen]
		off += playlistTreeRowLen

		name, err := decodeString(page, int(binary.LittleEndian.Uint32(buf[16:20])))
		if err != nil {
			return out, err
		}
		out = append(out, PlaylistTreeRow{
			NodeID:   binary.LittleEndian.Uint32(buf[0:4]),
			ParentID: binary.LittleEndian.Uint32(buf[4:8]),
			Seq:      binary.LittleEndian.Uint32(buf[8:12]),
			Kind:     buf[12],
			Name:     name,
		})
	}
	return out, nil
}

func decodePlaylistEntryRows(page []byte, rowCount uint32) ([]PlaylistEntryRow, error) {
	var out []PlaylistEntryRow
	off := pageHeaderLen
	for i := uint32(0); i < rowCount; i++ {
		if off+playlistEntryRowLen > len(page) {
			return out, errShortRow("playlist_entries", i)
		}
		buf := page[off : off+playlistEntryRowLen]
		off += playlistEntryRowLen

		out = append(out, PlaylistEntryRow{
			PlaylistID: binary.LittleEndian.Uint32(buf[0:4]),
			TrackID:    binary.LittleEndian.Uint32(buf[4:8]),
			Position:   binary.LittleEndian.Uint32(buf[8:12]),
		})
	}
	return out, nil
}

func errShortRow(table string, i uint32) error {
	return &shortRowError{table: table, index: i}
}

type shortRowError struct {
	table string
	index uint32
}

func (e *shortRowError) Error() string {
	return "pdbread: " + e.table + " row " + strconv.FormatUint(uint64(e.index), 10) + " truncated"
}
