// Package convert is the conversion driver (C9, spec.md §4.9): it consumes
// a parsed Collection and a selected node subtree, deduplicates tracks into
// an export plan, and dispatches to whichever writer the target format
// names, forwarding progress and honouring cancellation throughout.
//
// Grounded on evanpurkhiser-tunedex/download/archive.go's top-level
// Archiver.Run, the same "build a plan, then dispatch by kind, reporting
// progress and checking a cancel flag as you go" shape used there for
// archive jobs.
package convert

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/crateport/crateport/internal/anlz"
	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/dbsoftware"
	cerrors "github.com/crateport/crateport/internal/errors"
	"github.com/crateport/crateport/internal/hwexport"
	"github.com/crateport/crateport/internal/keymap"
	"github.com/crateport/crateport/internal/m3uwriter"
	"github.com/crateport/crateport/internal/progress"
	"github.com/crateport/crateport/internal/xmlwriter"
)

// TargetFormat selects which writer the driver dispatches to (spec.md §6
// "target-format").
type TargetFormat string

const (
	TargetCDJHardware      TargetFormat = "cdj-hardware"
	TargetInterchangeXML   TargetFormat = "interchange-xml"
	TargetM3U              TargetFormat = "m3u"
	TargetDatabaseSoftware TargetFormat = "database-software"
)

// Options bundles the conversion-wide settings spec.md §6 enumerates.
type Options struct {
	TargetFormat TargetFormat
	Tier         anlz.Tier
	CopyAudio    bool
	VerifyCopy   bool
	KeyNotation  keymap.Format
	Overwrite    bool

	ConverterName    string
	ConverterVersion string
}

// Result summarises one conversion run.
type Result struct {
	TracksExported int
	Issues         []core.Issue

	// Hardware carries the per-file copy/write counters when TargetFormat
	// is cdj-hardware; nil otherwise.
	Hardware *hwexport.Result
}

// planCheckInterval is how often buildPlan polls the cancellation flag
// while walking the selected subtree (spec.md §4.9 "polls a cancellation
// flag between tracks").
const planCheckInterval = 200

// Run dispatches col (restricted to subtree, or the whole tree when
// subtree is nil) to the writer opts.TargetFormat names. rep may be nil, in
// which case progress is discarded; cancelled may be nil, in which case the
// conversion never cancels early.
func Run(col *core.Collection, subtree []*core.Node, outputRoot string, opts Options, cancelled func() bool, rep *progress.Reporter) (*Result, error) {
	if cancelled == nil {
		cancelled = func() bool { return false }
	}
	if rep == nil {
		rep = progress.NewReporter(0)
	}

	roots := subtree
	if roots == nil {
		roots = col.Roots
	}

	plan, err := buildPlan(col, roots, cancelled)
	if err != nil {
		rep.Cancel("cancelled while building export plan")
		return nil, err
	}

	kt := keymap.New()
	result := &Result{Issues: append([]core.Issue{}, col.Issues...)}

	switch opts.TargetFormat {
	case TargetCDJHardware:
		hwOpts := hwexport.Options{
			CopyAudio:        opts.CopyAudio,
			VerifyCopy:       opts.VerifyCopy,
			Overwrite:        opts.Overwrite,
			Tier:             opts.Tier,
			ConverterName:    opts.ConverterName,
			ConverterVersion: opts.ConverterVersion,
		}
		hwResult, err := hwexport.Export(plan, kt, outputRoot, hwOpts, cancelled, rep)
		if err != nil {
			finishOnError(rep, err)
			return nil, err
		}
		result.Hardware = hwResult
		result.Issues = append(result.Issues, hwResult.Issues...)

	case TargetInterchangeXML:
		data, err := xmlwriter.Build(plan, roots, kt, opts.KeyNotation)
		if err != nil {
			err = fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err)
			finishOnError(rep, err)
			return nil, err
		}
		path := filepath.Join(outputRoot, "collection.xml")
		if err := xmlwriter.WriteFile(path, data); err != nil {
			err = fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err)
			finishOnError(rep, err)
			return nil, err
		}
		rep.Report(100, "wrote "+path)

	case TargetM3U:
		if err := m3uwriter.WriteTree(outputRoot, roots, col.Tracks); err != nil {
			err = fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err)
			finishOnError(rep, err)
			return nil, err
		}
		rep.Report(100, "wrote playlists")

	case TargetDatabaseSoftware:
		path := filepath.Join(outputRoot, "collection.db")
		if err := dbsoftware.Build(path, plan, kt); err != nil {
			err = fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err)
			finishOnError(rep, err)
			return nil, err
		}
		rep.Report(100, "wrote "+path)

	default:
		err := fmt.Errorf("%w: unknown target format %q", cerrors.ErrInvalidConfig, opts.TargetFormat)
		finishOnError(rep, err)
		return nil, err
	}

	result.TracksExported = len(plan.Tracks)
	rep.Done(fmt.Sprintf("exported %d tracks", result.TracksExported))
	return result, nil
}

func finishOnError(rep *progress.Reporter, err error) {
	if errors.Is(err, cerrors.ErrCancelRequested) {
		rep.Cancel(err.Error())
		return
	}
	rep.Fail(err)
}

// buildPlan flattens the selected subtree into an export plan: a $ROOT
// folder of id 0 wraps roots, every descendant gets a dense pre-order id,
// and playlist track references are deduplicated into Plan.Tracks in
// first-seen order (spec.md §4.9 (a)-(c)). Smartlists are skipped — they
// are ignored for hardware export and have no track list of their own to
// contribute (spec.md §3 "Node").
func buildPlan(col *core.Collection, roots []*core.Node, cancelled func() bool) (*core.ExportPlan, error) {
	plan := core.NewExportPlan()
	plan.Nodes = append(plan.Nodes, core.PlanNode{ID: 0, ParentID: 0, Kind: core.NodeFolder, Name: "$ROOT"})

	nextID := uint32(1)
	var walkErr error

	var walk func(n *core.Node, parentID uint32, seq int)
	walk = func(n *core.Node, parentID uint32, seq int) {
		if walkErr != nil || n.Kind == core.NodeSmartlist {
			return
		}

		id := nextID
		nextID++
		pn := core.PlanNode{ID: id, ParentID: parentID, Seq: seq, Kind: n.Kind, Name: n.Name}

		if n.Kind == core.NodePlaylist {
			for _, fp := range n.Tracks {
				if len(plan.Tracks)%planCheckInterval == 0 && cancelled() {
					walkErr = cerrors.ErrCancelRequested
					return
				}
				t, ok := col.Tracks[fp]
				if !ok {
					continue
				}
				pn.TrackIDs = append(pn.TrackIDs, plan.AddTrack(t))
			}
		}

		plan.Nodes = append(plan.Nodes, pn)
		for i, c := range n.Children {
			walk(c, id, i)
			if walkErr != nil {
				return
			}
		}
	}

	for i, r := range roots {
		walk(r, 0, i)
		if walkErr != nil {
			break
		}
	}

	return plan, walkErr
}
