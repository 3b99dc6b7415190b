package pdbread

import "fmt"

// minPageLength and requiredTableNames mirror pdb_reader.py's
// PDBValidator.CDJ_REQUIREMENTS.
const minPageLength = 4096

var requiredTableNames = []string{"tracks", "artists", "albums", "playlists"}

// ValidationResult reports whether a decoded database meets hardware
// compatibility expectations (ported from PDBValidator.validate_pdb).
type ValidationResult struct {
	Valid          bool
	CDJCompatible  bool
	Issues         []string
	Warnings       []string
	StructureScore float64
}

// Validate runs the same checks pdb_reader.py's PDBValidator performs,
// adapted to the tables and naming this package actually decodes: "tracks",
// "artists" and "albums" must appear in the table-pointer array, while
// "playlists" has no table of that name here and only yields a warning when
// both playlist_tree and playlist_entries are empty.
func Validate(db *Database) *ValidationResult {
	var issues, warnings []string

	if db.Header.PageLen < minPageLength {
		warnings = append(warnings, fmt.Sprintf("page length %d is below the %d-byte minimum hardware devices expect", db.Header.PageLen, minPageLength))
	}
	if len(db.Pointers) == 0 {
		issues = append(issues, "no tables found in file header")
	}

	present := make(map[string]bool, len(db.Pointers))
	for _, p := range db.Pointers {
		present[KindNames[p.Kind]] = true
	}
	for _, name := range requiredTableNames {
		if name == "playlists" {
			if len(db.PlaylistTree) == 0 && len(db.PlaylistEntries) == 0 {
				warnings = append(warnings, "no playlists or folders present")
			}
			continue
		}
		if !present[name] {
			issues = append(issues, fmt.Sprintf("missing table: %s", name))
		}
	}

	if len(db.Tracks) == 0 {
		warnings = append(warnings, "no tracks found")
	}

	score := 100.0
	score -= float64(len(issues)) * 25
	score -= float64(len(warnings)) * 5
	if score < 0 {
		score = 0
	}

	return &ValidationResult{
		Valid:          len(issues) == 0,
		CDJCompatible:  len(issues) == 0 && score > 80,
		Issues:         issues,
		Warnings:       warnings,
		StructureScore: score,
	}
}
