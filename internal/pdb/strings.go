package pdb

import (
	"encoding/binary"
	"unicode/utf16"
)

// encodeDeviceSQLString picks the smallest of the three DeviceSQL string
// shapes for s and returns its on-disk bytes (spec.md §4.6 "Custom
// variable-length string encoding").
func encodeDeviceSQLString(s string) []byte {
	if s == "" {
		return []byte{0x00}
	}

	raw := []byte(s)
	if isASCII(s) && len(raw) <= 127 {
		out := make([]byte, 1+len(raw))
		out[0] = byte(len(raw)*2 + 1)
		copy(out[1:], raw)
		return out
	}

	if isASCII(s) && len(raw) <= 0xFFFF-3 {
		out := make([]byte, 1+2+len(raw)+1)
		out[0] = 0x40
		binary.LittleEndian.PutUint16(out[1:3], uint16(len(raw)+3))
		copy(out[3:], raw)
		// trailing reserved zero byte already present (make zero-fills).
		return out
	}

	u16 := utf16.Encode([]rune(s))
	body := make([]byte, len(u16)*2)
	for i, u := range u16 {
		binary.BigEndian.PutUint16(body[i*2:], u)
	}
	out := make([]byte, 1+2+len(body))
	out[0] = 0x90
	binary.LittleEndian.PutUint16(out[1:3], uint16(len(body)+2))
	copy(out[3:], body)
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
