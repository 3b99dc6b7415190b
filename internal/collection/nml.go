// Package collection parses a Traktor-style NML XML export into the
// in-memory core.Collection model, tolerating encoding ambiguity and
// locally malformed entries the way original_source/parser/bsm_nml_parser.py
// does (spec.md §4.4).
package collection

import "encoding/xml"

// The nml* structs mirror the subset of NML v19/v20 elements this package
// understands. Unknown attributes and elements are ignored by
// encoding/xml, which is the tolerance spec.md §4.4 asks for at the
// attribute level; §4.4's "recovery mode" additionally covers whole
// elements that fail to parse at all (see recover.go).
type nmlDocument struct {
	XMLName    xml.Name      `xml:"NML"`
	Version    string        `xml:"VERSION,attr"`
	Head       nmlHead       `xml:"HEAD"`
	Collection nmlCollection `xml:"COLLECTION"`
	Playlists  nmlPlaylists  `xml:"PLAYLISTS"`
}

type nmlHead struct {
	Program string `xml:"PROGRAM,attr"`
}

type nmlCollection struct {
	Entries []nmlEntry `xml:"ENTRY"`
}

type nmlEntry struct {
	AudioID          string `xml:"AUDIO_ID,attr"`
	Title            string `xml:"TITLE,attr"`
	Artist           string `xml:"ARTIST,attr"`
	Remixer          string `xml:"REMIXER,attr"`
	ModificationDate string `xml:"MODIFICATION_DATE,attr"`
	Lock             string `xml:"LOCK,attr"`
	LockTime         string `xml:"LOCK_MODIFICATION_TIME,attr"`

	Location nmlLocation `xml:"LOCATION"`
	Info     nmlInfo     `xml:"INFO"`
	Album    nmlAlbum    `xml:"ALBUM"`
	Tempo    nmlTempo    `xml:"TEMPO"`
	Key      nmlKey      `xml:"MUSICAL_KEY"`
	Loudness nmlLoudness `xml:"LOUDNESS"`
	Cues     []nmlCue    `xml:"CUE_V2"`
}

type nmlLocation struct {
	Volume string `xml:"VOLUME,attr"`
	Dir    string `xml:"DIR,attr"`
	File   string `xml:"FILE,attr"`
}

// traktorKey reproduces the python parser's collection_map key: the raw
// concatenation of VOLUME, DIR and FILE, used only to cross-resolve
// playlist entries against collection entries.
func (l nmlLocation) traktorKey() string {
	return l.Volume + l.Dir + l.File
}

type nmlInfo struct {
	Bitrate    string `xml:"BITRATE,attr"`
	FileSize   string `xml:"FILESIZE,attr"`
	Playtime   string `xml:"PLAYTIME,attr"`
	PlaytimeF  string `xml:"PLAYTIME_FLOAT,attr"`
	Ranking    string `xml:"RANKING,attr"`
	Genre      string `xml:"GENRE,attr"`
	Comment    string `xml:"COMMENT,attr"`
	Label      string `xml:"LABEL,attr"`
	Color      string `xml:"COLOR,attr"`
	ImportDate string `xml:"IMPORT_DATE,attr"`
	PlayCount  string `xml:"PLAYCOUNT,attr"`
	LastPlayed string `xml:"LAST_PLAYED,attr"`

	// Key is a free-text musical key, used only when MUSICAL_KEY's own
	// VALUE sub-element is absent (spec.md §4.4's two-step key rule).
	Key string `xml:"KEY,attr"`
}

type nmlAlbum struct {
	Title string `xml:"TITLE,attr"`
}

type nmlTempo struct {
	BPM string `xml:"BPM,attr"`
}

type nmlKey struct {
	Value string `xml:"VALUE,attr"`
}

type nmlLoudness struct {
	AnalyzedDB string `xml:"ANALYZED_DB,attr"`
}

type nmlCue struct {
	Name   string `xml:"NAME,attr"`
	Type   string `xml:"TYPE,attr"`
	Start  string `xml:"START,attr"`
	Len    string `xml:"LEN,attr"`
	HotCue string `xml:"HOTCUE,attr"`
	Color  string `xml:"COLOR,attr"`
}

type nmlPlaylists struct {
	Root nmlNode `xml:"NODE"`
}

type nmlNode struct {
	Type     string       `xml:"TYPE,attr"`
	Name     string       `xml:"NAME,attr"`
	Playlist nmlPlaylist  `xml:"PLAYLIST"`
	Smart    nmlSmartlist `xml:"SMARTLIST"`
	Subnodes struct {
		Nodes []nmlNode `xml:"NODE"`
	} `xml:"SUBNODES"`
	Nodes []nmlNode `xml:"NODE"`
}

// children returns this node's child NODE elements regardless of whether
// the source wrapped them in a SUBNODES element (both forms occur in the
// wild per bsm_nml_parser.py's "direct children or SUBNODES wrapper").
func (n nmlNode) children() []nmlNode {
	if len(n.Subnodes.Nodes) > 0 {
		return n.Subnodes.Nodes
	}
	return n.Nodes
}

type nmlPlaylist struct {
	UUID    string        `xml:"UUID,attr"`
	Entries []nmlPlayEntry `xml:"ENTRY"`
}

type nmlPlayEntry struct {
	PrimaryKey nmlPrimaryKey `xml:"PRIMARYKEY"`
}

type nmlPrimaryKey struct {
	Key string `xml:"KEY,attr"`
}

type nmlSmartlist struct {
	UUID   string `xml:"UUID,attr"`
	Search struct {
		Query string `xml:"QUERY,attr"`
	} `xml:"SEARCH_EXPRESSION"`
}

// CueType mirrors original_source's CueType enum: TYPE=4 is the grid
// anchor, everything else is a regular or hot cue distinguished by HOTCUE.
const cueTypeGrid = "4"
