package collection

import (
	"bytes"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// decodeToUTF8 converts raw into a UTF-8 string, trying a BOM first and
// otherwise a confidence-scored charset sniff, falling back to plain UTF-8
// when neither yields a usable answer (spec.md §4.4).
func decodeToUTF8(raw []byte) (text string, usedEncoding string, err error) {
	if bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		return string(raw[3:]), "utf-8-sig", nil
	}

	if enc, name, ok := sniffUTF16BOM(raw); ok {
		out, decErr := enc.NewDecoder().Bytes(raw)
		if decErr == nil {
			return string(out), name, nil
		}
	}

	_, name, certain := charset.DetermineEncoding(raw, "application/xml")
	if certain && name != "" && name != "utf-8" {
		if enc, _ := charset.Lookup(name); enc != nil {
			out, decErr := enc.NewDecoder().Bytes(raw)
			if decErr == nil {
				return string(out), name, nil
			}
		}
	}

	return string(raw), "utf-8", nil
}

// sniffUTF16BOM detects a UTF-16LE or UTF-16BE byte-order mark and returns
// the matching decoder.
func sniffUTF16BOM(raw []byte) (enc encoding.Encoding, name string, ok bool) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), "utf-16le", true
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), "utf-16be", true
	}
	return nil, "", false
}
