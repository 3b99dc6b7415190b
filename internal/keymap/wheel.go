package keymap

import (
	"strconv"
	"strings"
)

// splitOpenKey parses "7A" into (7, 'A'). Returns ok=false for malformed
// input.
func splitOpenKey(token string) (number int, letter byte, ok bool) {
	if len(token) < 2 {
		return 0, 0, false
	}
	letter = token[len(token)-1]
	if letter != 'A' && letter != 'B' {
		return 0, 0, false
	}
	n, err := strconv.Atoi(token[:len(token)-1])
	if err != nil || n < 1 || n > 12 {
		return 0, 0, false
	}
	return n, letter, true
}

// wheelStep moves n steps around the 12-position Camelot ring, wrapping
// 1..12, keeping the same letter.
func wheelStep(number int, steps int) int {
	idx := ((number - 1) + steps) % 12
	if idx < 0 {
		idx += 12
	}
	return idx + 1
}

func otherLetter(letter byte) byte {
	if letter == 'A' {
		return 'B'
	}
	return 'A'
}

// formatOpenKey renders (number, letter) back into Open-Key notation, e.g.
// (7, 'A') -> "7A".
func formatOpenKey(number int, letter byte) string {
	return strconv.Itoa(number) + string(letter)
}

// HarmonicNeighbours computes the Camelot-wheel relationships of an
// Open-Key token: neighbours at ±1 on the numeric axis, the A/B-flipped
// relative key, and the ±2 dominant relationships (spec.md §4.2).
func HarmonicNeighbours(openKeyToken string) Neighbours {
	number, letter, ok := splitOpenKey(openKeyToken)
	if !ok {
		return Neighbours{}
	}

	relative := formatOpenKey(number, otherLetter(letter))
	up := formatOpenKey(wheelStep(number, 1), letter)
	down := formatOpenKey(wheelStep(number, -1), letter)
	domUp := formatOpenKey(wheelStep(number, 2), letter)
	domDown := formatOpenKey(wheelStep(number, -2), letter)

	return Neighbours{
		PerfectMatches:  []string{openKeyToken, relative},
		EnergyUp:        []string{up},
		EnergyDown:      []string{down},
		HarmonicMatches: []string{up, down},
		DominantMatches: []string{domUp, domDown},
		RelativeKey:     relative,
	}
}

// ProgressionDirection selects the Progression traversal order.
type ProgressionDirection int

const (
	ProgressionUp ProgressionDirection = iota
	ProgressionDown
	ProgressionHarmonic
)

// Progression returns a DJ-set key progression starting at openKeyToken,
// following direction (spec.md §4.2 "progression").
func Progression(openKeyToken string, direction ProgressionDirection) []string {
	number, letter, ok := splitOpenKey(openKeyToken)
	if !ok {
		return nil
	}

	switch direction {
	case ProgressionHarmonic:
		n := HarmonicNeighbours(openKeyToken)
		return append([]string{openKeyToken}, append(n.HarmonicMatches, n.RelativeKey)...)
	case ProgressionDown:
		rel := otherLetter(letter)
		return []string{
			openKeyToken,
			formatOpenKey(number, rel),
			formatOpenKey(wheelStep(number, -1), rel),
			formatOpenKey(wheelStep(number, -1), letter),
			formatOpenKey(wheelStep(number, -2), letter),
		}
	default: // ProgressionUp
		rel := otherLetter(letter)
		return []string{
			openKeyToken,
			formatOpenKey(number, rel),
			formatOpenKey(wheelStep(number, 1), rel),
			formatOpenKey(wheelStep(number, 1), letter),
			formatOpenKey(wheelStep(number, 2), letter),
		}
	}
}

// ParseProgressionDirection maps the §4.2 direction vocabulary to a
// ProgressionDirection, defaulting to ProgressionUp for unrecognised input.
func ParseProgressionDirection(s string) ProgressionDirection {
	switch strings.ToLower(s) {
	case "down":
		return ProgressionDown
	case "harmonic":
		return ProgressionHarmonic
	default:
		return ProgressionUp
	}
}
