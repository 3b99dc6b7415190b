// Package keymap translates between the 24-value key index used by the
// source collection and the notations needed downstream: Camelot/Open-Key,
// classical, flat-classical, the legacy "Pioneer" display table, and the
// target database's key id (spec.md §4.2, grounded on the original
// Traktor Bridge's utils/key_translator.py).
package keymap

import "fmt"

// Format selects a translation target for Translator.To.
type Format int

const (
	FormatOpenKey Format = iota
	FormatClassical
	FormatFlatClassical
	FormatPioneer
)

// ParseFormat maps the config/CLI-facing strings ("open-key", "classical",
// "flat-classical", "pioneer") onto a Format, matching the strings
// internal/config's validator accepts.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "open-key":
		return FormatOpenKey, nil
	case "classical":
		return FormatClassical, nil
	case "flat-classical":
		return FormatFlatClassical, nil
	case "pioneer":
		return FormatPioneer, nil
	default:
		return 0, fmt.Errorf("keymap: unknown key notation %q", s)
	}
}

// ErrInvalidKeyIndex reports an out-of-range key index.
type ErrInvalidKeyIndex struct {
	Index int
}

func (e *ErrInvalidKeyIndex) Error() string {
	return fmt.Sprintf("keymap: invalid key index %d (want 0..23)", e.Index)
}

// openKeyTable, classicalTable, flatClassicalTable and pioneerTable are the
// four 24-entry notation tables, indexed by the canonical key index. They
// are taken verbatim from key_translator.py's open_key_map / classical_map
// / flat_classical_map / pioneer_key_map.
var (
	openKeyTable = [24]string{
		"8B", "3B", "10B", "5B", "12B", "7B", "2B", "9B", "4B", "11B", "6B", "1B",
		"5A", "12A", "7A", "2A", "9A", "4A", "11A", "6A", "1A", "8A", "3A", "10A",
	}
	classicalTable = [24]string{
		"F#", "A#", "D#", "G#", "C#", "F", "A", "D", "G", "C", "E", "B",
		"D#m", "Bbm", "Fm", "Cm", "Gm", "Dm", "Am", "Em", "Bm", "F#m", "C#m", "G#m",
	}
	flatClassicalTable = [24]string{
		"Gb", "Bb", "Eb", "Ab", "Db", "F", "A", "D", "G", "C", "E", "B",
		"Ebm", "Bbm", "Fm", "Cm", "Gm", "Dm", "Am", "Em", "Bm", "Gbm", "Dbm", "Abm",
	}
	pioneerTable = [24]string{
		"7A", "2A", "9A", "4A", "11A", "6A", "1A", "8A", "3A", "10A", "5A", "12A",
		"4B", "11B", "6B", "1B", "8B", "3B", "10B", "5B", "12B", "7B", "2B", "9B",
	}
)

// rekordboxKeyID maps an Open-Key token to the target database's key-table
// id (kind id 5; id 0 means "unknown"), taken from
// key_translator.py's rekordbox_key_id_map.
var rekordboxKeyID = map[string]uint32{
	"1A": 21, "1B": 12, "2A": 16, "2B": 7, "3A": 23, "3B": 2,
	"4A": 18, "4B": 9, "5A": 13, "5B": 4, "6A": 20, "6B": 11,
	"7A": 15, "7B": 6, "8A": 22, "8B": 1, "9A": 17, "9B": 8,
	"10A": 24, "10B": 3, "11A": 19, "11B": 10, "12A": 14, "12B": 5,
}

// wheelColor gives the Camelot-wheel display colour for each Open-Key
// token, taken from key_translator.py's get_key_color camelot_colors table.
var wheelColor = map[string][3]byte{
	"1A": {0xFF, 0x00, 0x00}, "1B": {0xFF, 0x44, 0x44},
	"2A": {0xFF, 0x80, 0x00}, "2B": {0xFF, 0x99, 0x44},
	"3A": {0xFF, 0xFF, 0x00}, "3B": {0xFF, 0xFF, 0x44},
	"4A": {0x80, 0xFF, 0x00}, "4B": {0x99, 0xFF, 0x44},
	"5A": {0x00, 0xFF, 0x00}, "5B": {0x44, 0xFF, 0x44},
	"6A": {0x00, 0xFF, 0x80}, "6B": {0x44, 0xFF, 0x99},
	"7A": {0x00, 0xFF, 0xFF}, "7B": {0x44, 0xFF, 0xFF},
	"8A": {0x00, 0x80, 0xFF}, "8B": {0x44, 0x99, 0xFF},
	"9A": {0x00, 0x00, 0xFF}, "9B": {0x44, 0x44, 0xFF},
	"10A": {0x80, 0x00, 0xFF}, "10B": {0x99, 0x44, 0xFF},
	"11A": {0xFF, 0x00, 0xFF}, "11B": {0xFF, 0x44, 0xFF},
	"12A": {0xFF, 0x00, 0x80}, "12B": {0xFF, 0x44, 0x99},
}

func tableFor(f Format) *[24]string {
	switch f {
	case FormatClassical:
		return &classicalTable
	case FormatFlatClassical:
		return &flatClassicalTable
	case FormatPioneer:
		return &pioneerTable
	default:
		return &openKeyTable
	}
}

// Neighbours is the result of HarmonicNeighbours: the Camelot-wheel
// relationships of an Open-Key token (spec.md §4.2).
type Neighbours struct {
	PerfectMatches   []string
	EnergyUp         []string
	EnergyDown       []string
	HarmonicMatches  []string
	DominantMatches  []string
	RelativeKey      string
}

// Translator performs cached key-index translations. The zero value is
// ready to use; results are cached per (index, format) pair (spec.md §4.2).
type Translator struct {
	cache map[cacheKey]string
}

type cacheKey struct {
	index  int
	format Format
}

// New returns a ready-to-use Translator.
func New() *Translator {
	return &Translator{cache: make(map[cacheKey]string)}
}

// To translates a canonical key index into the given notation. Out-of-range
// indices return ErrInvalidKeyIndex.
func (t *Translator) To(index int, format Format) (string, error) {
	if index < 0 || index > 23 {
		return "", &ErrInvalidKeyIndex{Index: index}
	}
	key := cacheKey{index, format}
	if t.cache == nil {
		t.cache = make(map[cacheKey]string)
	}
	if v, ok := t.cache[key]; ok {
		return v, nil
	}
	v := tableFor(format)[index]
	t.cache[key] = v
	return v, nil
}

// FromOpenKey reverse-translates an Open-Key token back to the canonical
// index. Empty string in produces empty output and a nil error is not
// returned for an unknown token; instead ErrInvalidKeyIndex(-1) is used as
// a sentinel "not found" signal, mirroring To's error shape.
func (t *Translator) FromOpenKey(token string) (int, error) {
	if token == "" {
		return -1, nil
	}
	for i, v := range openKeyTable {
		if v == token {
			return i, nil
		}
	}
	return -1, &ErrInvalidKeyIndex{Index: -1}
}

// RekordboxKeyID returns the target database's key-table id for a key
// index, or 0 ("unknown") if the index is absent or invalid.
func (t *Translator) RekordboxKeyID(index int) uint32 {
	if index < 0 || index > 23 {
		return 0
	}
	ok, _ := t.To(index, FormatOpenKey)
	if id, found := rekordboxKeyID[ok]; found {
		return id
	}
	return 0
}

// WheelColour returns the Camelot-wheel display colour for an Open-Key
// token, or the zero colour if the token is not recognised.
func (t *Translator) WheelColour(openKeyToken string) [3]byte {
	return wheelColor[openKeyToken]
}
