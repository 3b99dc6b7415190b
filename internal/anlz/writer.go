package anlz

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crateport/crateport/internal/core"
)

// Tier selects which analysis-file variants and cue-record format a
// track's analysis files use (spec.md §4.6 "tier", glossary "Tier").
type Tier string

const (
	TierA Tier = "tier-a"
	TierB Tier = "tier-b"
	TierC Tier = "tier-c"
)

func (t Tier) wantsExt() bool     { return t == TierB || t == TierC }
func (t Tier) wantsTwoExt() bool  { return t == TierC }
func (t Tier) extendedCues() bool { return t == TierB || t == TierC }

// BuildTrack assembles the .DAT (always), .EXT (tier-b and tier-c) and
// .2EX (tier-c only) file contents for one track (spec.md §4.5
// "File-variant matrix").
func BuildTrack(t *core.Track, tier Tier) map[string][]byte {
	out := map[string][]byte{}

	filename := filepath.Base(t.FilePath)
	durationMS := int64(t.DurationSeconds) * 1000

	datSections := [][]byte{buildPPTH(filename), buildPWAV()}

	if entries, ok := buildBeatGrid(t.BPM, t.GridAnchorMS, durationMS); ok {
		datSections = append(datSections, buildPQTZ(entries))
	}

	if memSection, ok := buildPCOB(0, t.MemoryCues(), tier.extendedCues()); ok {
		datSections = append(datSections, memSection)
	}
	if hotSection, ok := buildPCOB(1, t.HotCues(), tier.extendedCues()); ok {
		datSections = append(datSections, hotSection)
	}

	out["DAT"] = buildContainer(datSections)

	if tier.wantsExt() {
		out["EXT"] = buildContainer([][]byte{buildPWV3()})
	}
	if tier.wantsTwoExt() {
		out["2EX"] = buildContainer([][]byte{buildPSSI()})
	}

	return out
}

// WriteTrack writes BuildTrack's output under
// root/USBANLZ/<AnalysisDir>/ANLZ0000.<ext> (spec.md §6 "Outputs").
func WriteTrack(root string, t *core.Track, tier Tier) error {
	files := BuildTrack(t, tier)

	dir := filepath.Join(root, "USBANLZ", AnalysisDir(t.FilePath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("anlz: create %s: %w", dir, err)
	}

	for ext, data := range files {
		name := filepath.Join(dir, "ANLZ0000."+ext)
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("anlz: write %s: %w", name, err)
		}
	}
	return nil
}
