// Package sanitize reduces arbitrary Unicode paths to the target
// filesystem's constraints: ASCII, bounded length, no reserved names
// (spec.md §4.1, grounded on FAT32-safety rules similar in spirit to
// llehouerou-waves' sanitizeFilename, strengthened with a real
// transliteration pass via golang.org/x/text).
package sanitize

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrPathUnrepresentable is returned when, after truncation, the basename
// would be empty (spec.md §4.1 "Fails with PathUnrepresentable").
var ErrPathUnrepresentable = errors.New("sanitize: path unrepresentable")

const (
	maxBasenameBytes = 200
	maxPathBytes     = 256
)

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F\x7F]`)
	runsOfUnder  = regexp.MustCompile(`_+`)

	// dosReserved is the set of bare names (case-insensitive, ignoring
	// extension) forbidden on FAT32/Windows-derived filesystems.
	dosReserved = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true,
		"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
		"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}

	transliterator = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// ValidSourcePath rejects a resolved source path that contains ".."
// anywhere (a traversal segment, but also a name such as "Intro...mp3"),
// the precondition check path_validator.py applies
// before trusting a LOCATION-derived path (spec.md §4.1 scope, folded in
// ahead of Basename/FullPath rather than replacing either).
func ValidSourcePath(p string) bool {
	return !strings.Contains(filepath.ToSlash(p), "..")
}

// Basename applies the §4.1 rules, in order, to an arbitrary Unicode
// basename (including its extension) and returns an ASCII-safe result.
func Basename(name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	stem = transliterateASCII(stem)
	ext = transliterateASCII(ext)

	stem = illegalChars.ReplaceAllString(stem, "_")
	stem = runsOfUnder.ReplaceAllString(stem, "_")

	if dosReserved[strings.ToUpper(stem)] {
		stem += "_"
	}

	stem = truncateBytes(stem, maxBasenameBytes-len(ext))

	if stem == "" {
		return "", ErrPathUnrepresentable
	}

	return stem + ext, nil
}

// FullPath applies Basename to the last path element, then shortens the
// basename further if needed to keep the whole path within maxPathBytes
// (spec.md §4.1 rule (vi)).
func FullPath(dir, name string) (string, error) {
	base, err := Basename(name)
	if err != nil {
		return "", err
	}

	full := filepath.Join(dir, base)
	if len(full) <= maxPathBytes {
		return full, nil
	}

	overage := len(full) - maxPathBytes
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	newLen := len(stem) - overage
	if newLen <= 0 {
		return "", ErrPathUnrepresentable
	}
	stem = truncateBytes(stem, newLen)
	if stem == "" {
		return "", ErrPathUnrepresentable
	}

	return filepath.Join(dir, stem+ext), nil
}

// transliterateASCII strips diacritics via Unicode decomposition, then
// drops any byte still outside the printable ASCII range.
func transliterateASCII(s string) string {
	out, _, err := transform.String(transliterator, s)
	if err != nil {
		out = s
	}

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if r >= 0x20 && r < 0x7F {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncateBytes shortens s to at most n bytes without splitting a UTF-8
// sequence. s is expected to already be ASCII by the time this runs, so
// this degrades to a plain byte truncation.
func truncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
