package pdbread

import (
	"fmt"
	"strings"
)

// Summary renders a human-readable overview of db, the text the "inspect"
// CLI command prints (mirrors pdb_reader.py's print_summary).
func Summary(db *Database) string {
	var b strings.Builder

	fmt.Fprintf(&b, "page length: %d bytes\n", db.Header.PageLen)
	fmt.Fprintf(&b, "tables: %d\n", db.Header.TableCount)
	fmt.Fprintf(&b, "pages: %d\n\n", db.Header.NextUnusedPage)

	fmt.Fprintf(&b, "tracks:            %d\n", len(db.Tracks))
	fmt.Fprintf(&b, "artists:           %d\n", len(db.Artists))
	fmt.Fprintf(&b, "albums:            %d\n", len(db.Albums))
	fmt.Fprintf(&b, "genres:            %d\n", len(db.Genres))
	fmt.Fprintf(&b, "labels:            %d\n", len(db.Labels))
	fmt.Fprintf(&b, "keys:              %d\n", len(db.Keys))
	fmt.Fprintf(&b, "colors:            %d\n", len(db.Colours))
	fmt.Fprintf(&b, "playlist nodes:    %d\n", len(db.PlaylistTree))
	fmt.Fprintf(&b, "playlist entries:  %d\n", len(db.PlaylistEntries))

	v := Validate(db)
	fmt.Fprintf(&b, "\nvalid: %v   cdj-compatible: %v   score: %.1f/100\n", v.Valid, v.CDJCompatible, v.StructureScore)
	for _, issue := range v.Issues {
		fmt.Fprintf(&b, "  issue: %s\n", issue)
	}
	for _, warning := range v.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", warning)
	}

	return b.String()
}
