package collection

import (
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// ampersand matches every '&' so each occurrence can be checked against
// recognisedEntity to see whether it already starts a recognised entity
// or numeric character reference.
var ampersand = regexp.MustCompile(`&`)

// recognisedEntity matches the entity/character references that a bare
// '&' is allowed to start without being escaped.
var recognisedEntity = regexp.MustCompile(`^(amp;|lt;|gt;|quot;|apos;|#\d+;|#x[0-9A-Fa-f]+;)`)

// preclean strips illegal XML control characters and repairs unescaped
// '&' characters, the two document-level defects bsm_nml_parser.py guards
// against before handing the document to its XML parser (spec.md §4.4).
func preclean(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = escapeStrayAmpersands(s)
	return s
}

// escapeStrayAmpersands replaces every '&' not already starting a
// recognised entity or numeric character reference with "&amp;".
func escapeStrayAmpersands(s string) string {
	locs := ampersand.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start := loc[0]
		b.WriteString(s[last:start])
		if recognisedEntity.MatchString(s[start+1:]) {
			b.WriteString("&")
		} else {
			b.WriteString("&amp;")
		}
		last = start + 1
	}
	b.WriteString(s[last:])
	return b.String()
}

// trimBOMRune removes a leading UTF-8 BOM rune that survives decoding in
// some encoding/decoder combinations.
func trimBOMRune(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
