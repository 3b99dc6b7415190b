package anlz

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/crateport/crateport/internal/core"
)

func TestBeatGridMatchesScenarioS4(t *testing.T) {
	entries, ok := buildBeatGrid(120.0, 100, 10000)
	if !ok {
		t.Fatalf("expected a usable grid")
	}
	if len(entries) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(entries))
	}
	if entries[0].beatNumber != 1 || entries[0].positionMS != 100 || entries[0].tempoX100 != 12000 {
		t.Fatalf("entry 0 mismatch: %+v", entries[0])
	}
	if entries[4].beatNumber != 1 || entries[4].positionMS != 2100 || entries[4].tempoX100 != 12000 {
		t.Fatalf("entry 4 mismatch: %+v", entries[4])
	}
}

func TestBeatGridTooShortIsSkipped(t *testing.T) {
	if _, ok := buildBeatGrid(120.0, 0, 100); ok {
		t.Fatalf("expected a 100ms track at 120bpm (500ms/beat) to be too short")
	}
}

func TestContainerHeaderAndLength(t *testing.T) {
	data := buildContainer([][]byte{buildPPTH("track.mp3")})
	if string(data[0:4]) != "PMAI" {
		t.Fatalf("expected PMAI magic, got %q", data[0:4])
	}
	declaredLen := binary.BigEndian.Uint32(data[8:12])
	if int(declaredLen) != len(data) {
		t.Fatalf("declared length %d does not match actual length %d", declaredLen, len(data))
	}
}

func TestAnalysisDirMatchesHashFirstThreeHexDigits(t *testing.T) {
	dir := AnalysisDir("/Music/Track.mp3")
	if len(dir) < 5 || dir[0] != 'P' {
		t.Fatalf("expected dir to start with P<hex>, got %q", dir)
	}
	hex := fmt.Sprintf("%08X", pathHash("/Music/Track.mp3"))
	if want := "P" + hex[:3] + "/" + hex; dir != want {
		t.Fatalf("expected %q, got %q", want, dir)
	}
}

func TestBuildTrackTierMatrix(t *testing.T) {
	track := &core.Track{FilePath: "/music/a.mp3", BPM: 128, DurationSeconds: 180}

	a := BuildTrack(track, TierA)
	if _, ok := a["EXT"]; ok {
		t.Fatalf("tier-a must not produce .EXT")
	}

	c := BuildTrack(track, TierC)
	if _, ok := c["EXT"]; !ok {
		t.Fatalf("tier-c must produce .EXT")
	}
	if _, ok := c["2EX"]; !ok {
		t.Fatalf("tier-c must produce .2EX")
	}
}

func TestPCOBLoopStatusAsymmetry(t *testing.T) {
	hot := core.CuePoint{HotCueSlot: 0, StartMS: 1000}
	loop := core.CuePoint{HotCueSlot: 1, StartMS: 2000, LengthMS: 500}

	recHot := encodeCuePoint(hot, 0, false)
	recLoop := encodeCuePoint(loop, 1, false)

	if recHot[1] != 0 {
		t.Fatalf("expected status 0 for a non-loop hot cue, got %d", recHot[1])
	}
	if recLoop[1] != 4 {
		t.Fatalf("expected status 4 for an active loop, got %d", recLoop[1])
	}
}
