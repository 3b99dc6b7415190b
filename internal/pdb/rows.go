package pdb

import "encoding/binary"

// Table kind ids (spec.md §4.6 "Tables, by kind id").
const (
	kindTracks          uint32 = 0
	kindGenres          uint32 = 1
	kindArtists         uint32 = 2
	kindAlbums          uint32 = 3
	kindLabels          uint32 = 4
	kindKeys            uint32 = 5
	kindColours         uint32 = 6
	kindPlaylistTree    uint32 = 7
	kindPlaylistEntries uint32 = 8
)

// trackFixedLen is the fixed-width prefix of a track row: the 22 scalar
// fields spec.md §4.6 lists, followed by 5 heap-pointer u32s (title,
// file-path, comment, remixer, file-kind). spec.md's own "88 fixed bytes"
// figure does not tile exactly against its field list; this is the size
// that fits every named field plus every named heap pointer.
const trackFixedLen = 72 + 5*4

// trackRow is the decoded, pre-serialisation form of one track row
// (spec.md §4.6 "Track row").
type trackRow struct {
	TrackID      uint32
	ArtistID     uint32
	AlbumID      uint32
	GenreID      uint32
	LabelID      uint32
	KeyID        uint32
	BPMx100      uint32
	DurationSecs uint32
	SampleRate   uint32
	FileSize     uint32
	Bitrate      uint16
	Rating       uint16
	ColourID     uint32
	DateAdded    uint32
	PlayCount    uint32
	Year         uint32

	Title    string
	FilePath string
	Comment  string
	Remixer  string
	FileKind string
}

// encode reserves heap space for the row's five strings and builds the
// fixed part, wiring each heap pointer to its reserved offset. Returns
// false if the row does not fit in p's remaining free space.
func (r trackRow) encode(p *page) bool {
	strs := [][]byte{
		encodeDeviceSQLString(r.Title),
		encodeDeviceSQLString(r.FilePath),
		encodeDeviceSQLString(r.Comment),
		encodeDeviceSQLString(r.Remixer),
		encodeDeviceSQLString(r.FileKind),
	}
	return p.tryAddRow(trackFixedLen, strs, func(off []int) []byte {
		buf := make([]byte, trackFixedLen)
		binary.LittleEndian.PutUint16(buf[0:2], 0x2400) // row-kind marker
		binary.LittleEndian.PutUint16(buf[2:4], uint16(trackFixedLen))
		binary.LittleEndian.PutUint32(buf[4:8], r.TrackID)
		binary.LittleEndian.PutUint32(buf[8:12], r.ArtistID)
		binary.LittleEndian.PutUint32(buf[12:16], r.AlbumID)
		binary.LittleEndian.PutUint32(buf[16:20], r.GenreID)
		binary.LittleEndian.PutUint32(buf[20:24], r.LabelID)
		binary.LittleEndian.PutUint32(buf[24:28], r.KeyID)
		binary.LittleEndian.PutUint32(buf[28:32], r.BPMx100)
		binary.LittleEndian.PutUint32(buf[32:36], r.DurationSecs)
		binary.LittleEndian.PutUint32(buf[36:40], r.SampleRate)
		binary.LittleEndian.PutUint32(buf[40:44], r.FileSize)
		binary.LittleEndian.PutUint16(buf[44:46], r.Bitrate)
		binary.LittleEndian.PutUint16(buf[46:48], r.Rating)
		binary.LittleEndian.PutUint32(buf[48:52], r.ColourID)
		binary.LittleEndian.PutUint32(buf[52:56], r.DateAdded)
		binary.LittleEndian.PutUint32(buf[56:60], r.PlayCount)
		binary.LittleEndian.PutUint32(buf[60:64], r.Year)
		// buf[64:72] reserved, left zero.
		binary.LittleEndian.PutUint32(buf[72:76], uint32(off[0]))
		binary.LittleEndian.PutUint32(buf[76:80], uint32(off[1]))
		binary.LittleEndian.PutUint32(buf[80:84], uint32(off[2]))
		binary.LittleEndian.PutUint32(buf[84:88], uint32(off[3]))
		binary.LittleEndian.PutUint32(buf[88:92], uint32(off[4]))
		return buf
	})
}

// refRowLen is the fixed size of a reference-table row: u32 id + u32 heap
// pointer (spec.md §4.6 "Reference tables").
const refRowLen = 8

// refRow encodes one (id, name) row shared by genres/artists/albums/
// labels/colours/keys.
type refRow struct {
	ID   uint32
	Name string
}

func (r refRow) encode(p *page) bool {
	strs := [][]byte{encodeDeviceSQLString(r.Name)}
	return p.tryAddRow(refRowLen, strs, func(off []int) []byte {
		buf := make([]byte, refRowLen)
		binary.LittleEndian.PutUint32(buf[0:4], r.ID)
		binary.LittleEndian.PutUint32(buf[4:8], uint32(off[0]))
		return buf
	})
}

// playlistTreeRowLen is the fixed size of a playlist-tree row: node id,
// parent id, seq, kind (padded to u32) + heap pointer (spec.md §4.6
// "Playlist tree rows").
const playlistTreeRowLen = 4 + 4 + 4 + 4 + 4

type playlistTreeRow struct {
	NodeID   uint32
	ParentID uint32
	Seq      uint32
	Kind     uint8 // 0 = folder, 1 = playlist
	Name     string
}

func (r playlistTreeRow) encode(p *page) bool {
	strs := [][]byte{encodeDeviceSQLString(r.Name)}
	return p.tryAddRow(playlistTreeRowLen, strs, func(off []int) []byte {
		buf := make([]byte, playlistTreeRowLen)
		binary.LittleEndian.PutUint32(buf[0:4], r.NodeID)
		binary.LittleEndian.PutUint32(buf[4:8], r.ParentID)
		binary.LittleEndian.PutUint32(buf[8:12], r.Seq)
		buf[12] = r.Kind
		binary.LittleEndian.PutUint32(buf[16:20], uint32(off[0]))
		return buf
	})
}

// playlistEntryRowLen is the fixed size of a playlist-entries row: u32
// playlist id, u32 track id, u32 position (spec.md §4.6 "Playlist-entries
// rows").
const playlistEntryRowLen = 12

type playlistEntryRow struct {
	PlaylistID uint32
	TrackID    uint32
	Position   uint32
}

func (r playlistEntryRow) encode(p *page) bool {
	return p.tryAddRow(playlistEntryRowLen, nil, func(off []int) []byte {
		buf := make([]byte, playlistEntryRowLen)
		binary.LittleEndian.PutUint32(buf[0:4], r.PlaylistID)
		binary.LittleEndian.PutUint32(buf[4:8], r.TrackID)
		binary.LittleEndian.PutUint32(buf[8:12], r.Position)
		return buf
	})
}
