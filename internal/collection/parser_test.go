package collection

import (
	"testing"

	"github.com/crateport/crateport/internal/keymap"
)

const sampleNML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<NML VERSION="19">
  <HEAD PROGRAM="Traktor Pro 3" />
  <COLLECTION ENTRIES="1">
    <ENTRY TITLE="Track One" ARTIST="Artist A" AUDIO_ID="abc123">
      <LOCATION VOLUME="" DIR="/music/" FILE="one.mp3" />
      <INFO BITRATE="320" PLAYTIME="180" RANKING="153" GENRE="House" COLOR="2" />
      <ALBUM TITLE="Album One" />
      <TEMPO BPM="128.0" />
      <MUSICAL_KEY VALUE="8A" />
      <CUE_V2 NAME="Grid" TYPE="4" START="20.0" LEN="0" HOTCUE="-1" />
      <CUE_V2 NAME="Drop" TYPE="0" START="5000.0" LEN="0" HOTCUE="0" />
    </ENTRY>
  </COLLECTION>
  <PLAYLISTS>
    <NODE TYPE="FOLDER" NAME="$ROOT">
      <SUBNODES>
        <NODE TYPE="PLAYLIST" NAME="My List">
          <PLAYLIST UUID="xyz">
            <ENTRY><PRIMARYKEY KEY="/music/one.mp3" /></ENTRY>
          </PLAYLIST>
        </NODE>
      </SUBNODES>
    </NODE>
  </PLAYLISTS>
</NML>`

func TestParseBasicCollection(t *testing.T) {
	col, err := Parse([]byte(sampleNML), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.EntryCount != 1 {
		t.Fatalf("expected 1 track, got %d", col.EntryCount)
	}

	for _, tr := range col.Tracks {
		if tr.Title != "Track One" {
			t.Fatalf("unexpected title %q", tr.Title)
		}
		if tr.KeyIndex != 21 {
			t.Fatalf("expected key index 21 for 8A, got %d", tr.KeyIndex)
		}
		if tr.Rating != 3 {
			t.Fatalf("expected rating bucket 3 for 153, got %d", tr.Rating)
		}
		if !tr.HasGridAnchor || tr.GridAnchorMS != 20 {
			t.Fatalf("expected grid anchor at 20ms, got %v %d", tr.HasGridAnchor, tr.GridAnchorMS)
		}
		if len(tr.Cues) != 2 {
			t.Fatalf("expected 2 cues, got %d", len(tr.Cues))
		}
	}

	if len(col.Roots) != 1 || col.Roots[0].Name != "My List" {
		t.Fatalf("expected one resolved playlist node, got %+v", col.Roots)
	}
	if len(col.Roots[0].Tracks) != 1 {
		t.Fatalf("expected playlist to resolve one track, got %d", len(col.Roots[0].Tracks))
	}
}

const brokenEntryNML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<NML VERSION="19">
  <HEAD PROGRAM="Traktor Pro 3" />
  <COLLECTION ENTRIES="2">
    <ENTRY TITLE="Broken" ARTIST="Artist A">
      <LOCATION VOLUME="" DIR="/music/" FILE="broken.mp3" />
      <INFO BITRATE="320">
    </ENTRY>
    <ENTRY TITLE="Fine" ARTIST="Artist B">
      <LOCATION VOLUME="" DIR="/music/" FILE="fine.mp3" />
      <INFO BITRATE="192" />
    </ENTRY>
  </COLLECTION>
  <PLAYLISTS>
    <NODE TYPE="FOLDER" NAME="$ROOT" />
  </PLAYLISTS>
</NML>`

func TestParseRecoversFromMalformedEntry(t *testing.T) {
	col, err := Parse([]byte(brokenEntryNML), Options{})
	if err != nil {
		t.Fatalf("expected recovery, got error: %v", err)
	}
	if col.EntryCount != 1 {
		t.Fatalf("expected the malformed entry dropped and the well-formed one kept, got %d tracks", col.EntryCount)
	}

	found := false
	for _, iss := range col.Issues {
		if iss.Kind == "EntryMalformed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an EntryMalformed issue to be recorded")
	}
}

func TestResolveKeyIndexPrefersDigitSubElement(t *testing.T) {
	kt := keymap.New()
	// 21 is "8A"'s canonical index; Traktor's real export stores the
	// digit directly, not the rendered token.
	if got := resolveKeyIndex("21", "", kt); got != 21 {
		t.Fatalf("resolveKeyIndex(21) = %d, want 21", got)
	}
}

func TestResolveKeyIndexFallsBackToFreeTextWhenAbsent(t *testing.T) {
	kt := keymap.New()
	if got := resolveKeyIndex("", "8A", kt); got != 21 {
		t.Fatalf("resolveKeyIndex with absent MUSICAL_KEY = %d, want 21", got)
	}
	if got := resolveKeyIndex("", "", kt); got != -1 {
		t.Fatalf("resolveKeyIndex with nothing present = %d, want -1", got)
	}
}

const emptyPlaylistNML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<NML VERSION="19">
  <HEAD PROGRAM="Traktor Pro 3" />
  <COLLECTION ENTRIES="0" />
  <PLAYLISTS>
    <NODE TYPE="FOLDER" NAME="$ROOT">
      <SUBNODES>
        <NODE TYPE="PLAYLIST" NAME="Empty List">
          <PLAYLIST UUID="xyz" />
        </NODE>
      </SUBNODES>
    </NODE>
  </PLAYLISTS>
</NML>`

func TestParseKeepsPlaylistBornEmpty(t *testing.T) {
	col, err := Parse([]byte(emptyPlaylistNML), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(col.Roots) != 1 || col.Roots[0].Name != "Empty List" {
		t.Fatalf("expected the empty playlist to survive into the tree, got %+v", col.Roots)
	}
	if !col.Roots[0].Empty {
		t.Fatalf("expected the playlist born with no entries to be flagged Empty")
	}
}

func TestRatingBucketBoundaries(t *testing.T) {
	cases := map[int]int{0: 0, 51: 1, 102: 2, 153: 3, 204: 4, 255: 5}
	for in, want := range cases {
		if got := ratingBucket(in); got != want {
			t.Fatalf("ratingBucket(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRatingBucketFloorsBetweenBoundaries(t *testing.T) {
	// 30 sits between the 0 and 51 boundaries; it must floor down to 0
	// rather than round up to 1.
	if got := ratingBucket(30); got != 0 {
		t.Fatalf("ratingBucket(30) = %d, want 0", got)
	}
	if got := ratingBucket(50); got != 0 {
		t.Fatalf("ratingBucket(50) = %d, want 0", got)
	}
}
