package collection

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/crateport/crateport/internal/core"
)

// recoverParse is the fallback used when a strict xml.Unmarshal of the
// whole document fails. It walks the token stream by hand, decoding each
// top-level ENTRY and NODE independently and dropping whichever ones fail
// to parse, rather than aborting the whole load — the Go analogue of
// lxml's recover=True used by bsm_nml_parser.py (spec.md §4.4).
func recoverParse(text string) (*nmlDocument, []core.Issue, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	doc := &nmlDocument{}
	var issues []core.Issue

	inCollection := false
	inPlaylists := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed token here means the stream itself is corrupt
			// past repair by per-element skipping; give up on the rest of
			// the document but keep whatever was already recovered.
			issues = append(issues, core.Issue{
				Kind:    core.IssueEntryMalformed,
				Message: fmt.Sprintf("recovery: aborting at stream error: %v", err),
			})
			break
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "NML":
			for _, a := range se.Attr {
				if a.Name.Local == "VERSION" {
					doc.Version = a.Value
				}
			}
		case "HEAD":
			for _, a := range se.Attr {
				if a.Name.Local == "PROGRAM" {
					doc.Head.Program = a.Value
				}
			}
		case "COLLECTION":
			inCollection = true
		case "PLAYLISTS":
			inPlaylists = true
		case "ENTRY":
			if !inCollection {
				continue
			}
			var e nmlEntry
			if err := dec.DecodeElement(&e, &se); err != nil {
				issues = append(issues, core.Issue{
					Kind:    core.IssueEntryMalformed,
					Message: fmt.Sprintf("recovery: dropped malformed ENTRY: %v", err),
				})
				// A syntax error is sticky on a Decoder, so resume with a
				// fresh one just past the bad ENTRY, inside COLLECTION again.
				text = "<NML><COLLECTION>" + text[dec.InputOffset():]
				dec = xml.NewDecoder(strings.NewReader(text))
				continue
			}
			doc.Collection.Entries = append(doc.Collection.Entries, e)
		case "NODE":
			if !inPlaylists || doc.Playlists.Root.Name != "" {
				continue
			}
			var n nmlNode
			if err := dec.DecodeElement(&n, &se); err != nil {
				issues = append(issues, core.Issue{
					Kind:    core.IssueEntryMalformed,
					Message: fmt.Sprintf("recovery: dropped malformed playlist NODE: %v", err),
				})
				continue
			}
			doc.Playlists.Root = n
		}
	}

	if len(doc.Collection.Entries) == 0 {
		return nil, issues, fmt.Errorf("recovery: no ENTRY elements recovered")
	}

	return doc, issues, nil
}
