// Package hwexport orchestrates a hardware-export run: directory skeleton
// creation, optional audio copy/verify, per-track analysis files, the
// binary database, and the EXPORT.INFO side file (spec.md §4.7),
// grounded on the job/progress/cancel channel shape of
// evanpurkhiser-tunedex/download.Archiver, adapted to the driver-polls-a-
// flag cancellation model of spec.md §5.
package hwexport

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/crateport/crateport/internal/anlz"
	"github.com/crateport/crateport/internal/core"
	cerrors "github.com/crateport/crateport/internal/errors"
	"github.com/crateport/crateport/internal/keymap"
	"github.com/crateport/crateport/internal/pdb"
	"github.com/crateport/crateport/internal/progress"
	"github.com/crateport/crateport/internal/sanitize"
)

// Options configures one export run (spec.md §6 "Options").
type Options struct {
	CopyAudio  bool
	VerifyCopy bool
	Overwrite  bool
	Tier       anlz.Tier

	ConverterName    string
	ConverterVersion string
}

// Result is the aggregate outcome of a successful (or partially-failed
// but non-fatal) export run (spec.md §4.7 step 7).
type Result struct {
	TracksCopied  int
	TracksWritten int
	TotalBytes    int64
	Issues        []core.Issue
}

// Export runs the full sequence against plan, reporting progress on rep
// and polling cancelled between audio-copy files, between analysed tracks,
// and between track rows and tables in the database writer. On cancellation or a fatal error it removes
// the partial PIONEER/ tree it created (spec.md §4.7, §5 "Cancellation").
func Export(plan *core.ExportPlan, kt *keymap.Translator, outputRoot string, opts Options, cancelled func() bool, rep *progress.Reporter) (*Result, error) {
	pioneerRoot := filepath.Join(outputRoot, "PIONEER")
	contentsRoot := filepath.Join(outputRoot, "Contents")

	if err := validateOutputRoot(outputRoot, pioneerRoot, opts.Overwrite); err != nil {
		return nil, err
	}

	if err := createSkeleton(pioneerRoot, contentsRoot); err != nil {
		return nil, cerrors.WithSuggestion(fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err), "Check permissions on the output directory")
	}

	result := &Result{}

	if opts.CopyAudio {
		if err := copyAudio(plan, contentsRoot, opts.VerifyCopy, cancelled, rep, result); err != nil {
			removePartial(pioneerRoot, contentsRoot)
			return nil, err
		}
	}

	if cancelled() {
		removePartial(pioneerRoot, contentsRoot)
		return nil, cerrors.ErrCancelRequested
	}

	if err := writeAnalysisFiles(plan, pioneerRoot, opts.Tier, cancelled, rep, result); err != nil {
		removePartial(pioneerRoot, contentsRoot)
		return nil, err
	}

	if cancelled() {
		removePartial(pioneerRoot, contentsRoot)
		return nil, cerrors.ErrCancelRequested
	}

	if err := writeDatabase(plan, kt, pioneerRoot, cancelled); err != nil {
		removePartial(pioneerRoot, contentsRoot)
		return nil, err
	}

	result.TracksWritten = len(plan.Tracks)

	if err := writeExportInfo(pioneerRoot, opts, result); err != nil {
		removePartial(pioneerRoot, contentsRoot)
		return nil, cerrors.WithSuggestion(fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err), "Check permissions on the output directory")
	}

	return result, nil
}

func validateOutputRoot(outputRoot, pioneerRoot string, overwrite bool) error {
	info, err := os.Stat(outputRoot)
	if err != nil || !info.IsDir() {
		return cerrors.WithSuggestion(cerrors.ErrOutputNotWritable, "Create the output directory first, or choose an existing one")
	}

	entries, err := os.ReadDir(pioneerRoot)
	if err == nil && len(entries) > 0 {
		if !overwrite {
			return cerrors.WithSuggestion(cerrors.ErrOutputNotWritable, "Pass --overwrite to replace the existing PIONEER/ tree")
		}
		if err := os.RemoveAll(pioneerRoot); err != nil {
			return cerrors.WithSuggestion(cerrors.ErrOutputNotWritable, "Could not clear the existing PIONEER/ tree")
		}
	}

	return nil
}

func createSkeleton(pioneerRoot, contentsRoot string) error {
	dirs := []string{
		pioneerRoot,
		filepath.Join(pioneerRoot, "rekordbox"),
		filepath.Join(pioneerRoot, "USBANLZ"),
		contentsRoot,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func removePartial(pioneerRoot, contentsRoot string) {
	os.RemoveAll(pioneerRoot)
	os.RemoveAll(contentsRoot)
}

func copyAudio(plan *core.ExportPlan, contentsRoot string, verify bool, cancelled func() bool, rep *progress.Reporter, result *Result) error {
	total := len(plan.Tracks)
	for i, t := range plan.Tracks {
		if cancelled() {
			return cerrors.ErrCancelRequested
		}

		base, err := sanitize.Basename(filepath.Base(t.FilePath))
		if err != nil {
			result.Issues = append(result.Issues, core.Issue{
				Kind:    core.IssuePathUnrepresentable,
				Message: fmt.Sprintf("%s: %v", t.FilePath, err),
			})
			continue
		}

		if strings.EqualFold(filepath.Ext(t.FilePath), ".mp3") {
			if err := sniffMP3Header(t.FilePath); err != nil {
				result.Issues = append(result.Issues, core.Issue{
					Kind:    core.IssueAudioCopyFailed,
					Message: fmt.Sprintf("%s: %v", t.FilePath, err),
				})
				continue
			}
		}

		dest := filepath.Join(contentsRoot, base)
		n, err := copyFile(t.FilePath, dest)
		if err != nil {
			result.Issues = append(result.Issues, core.Issue{
				Kind:    core.IssueAudioCopyFailed,
				Message: fmt.Sprintf("%s: %v", t.FilePath, err),
			})
			continue
		}

		if verify {
			match, err := filesMatch(t.FilePath, dest)
			if err != nil || !match {
				return cerrors.WithSuggestion(cerrors.ErrVerifyMismatch, fmt.Sprintf("copy of %s did not verify", t.FilePath))
			}
		}

		t.FilePath = dest
		result.TracksCopied++
		result.TotalBytes += n

		if rep != nil {
			rep.Report(percentOf(i+1, total), fmt.Sprintf("copied %s (%s so far)", base, humanize.Bytes(uint64(result.TotalBytes))))
		}
	}
	return nil
}

// sniffMP3Header performs the same basic integrity check file_validator.py
// falls back to when mutagen isn't available: the first bytes of an MP3
// must carry an ID3 tag or a frame sync word, or the file is corrupt.
func sniffMP3Header(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, 10)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	header = header[:n]

	if bytes.HasPrefix(header, []byte("ID3")) || bytes.HasPrefix(header, []byte{0xFF, 0xFB}) {
		return nil
	}
	return errors.New("invalid MP3 header")
}

func copyFile(src, dest string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	return io.Copy(out, in)
}

func filesMatch(a, b string) (bool, error) {
	ha, err := sha256File(a)
	if err != nil {
		return false, err
	}
	hb, err := sha256File(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func writeAnalysisFiles(plan *core.ExportPlan, pioneerRoot string, tier anlz.Tier, cancelled func() bool, rep *progress.Reporter, result *Result) error {
	total := len(plan.Tracks)
	for i, t := range plan.Tracks {
		if cancelled() {
			return cerrors.ErrCancelRequested
		}

		if err := anlz.WriteTrack(pioneerRoot, t, tier); err != nil {
			return cerrors.WithSuggestion(fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err), "Check disk space and permissions on the output directory")
		}

		if rep != nil && (i%100 == 0 || i == total-1) {
			rep.Report(percentOf(i+1, total), fmt.Sprintf("analysed %s/%s tracks", humanize.Comma(int64(i+1)), humanize.Comma(int64(total))))
		}
	}
	return nil
}

func writeDatabase(plan *core.ExportPlan, kt *keymap.Translator, pioneerRoot string, cancelled func() bool) error {
	w := pdb.NewWriter()
	data, err := w.Build(plan, kt, cancelled)
	if err != nil {
		if errors.Is(err, cerrors.ErrCancelRequested) {
			return cerrors.ErrCancelRequested
		}
		if errors.Is(err, pdb.ErrCollectionTooLarge) {
			return cerrors.WithSuggestion(fmt.Errorf("%w: %v", cerrors.ErrCollectionTooLarge, err), "Export a subset of the collection")
		}
		return cerrors.WithSuggestion(fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err), "Check that every track has a representable title and path")
	}
	if err := pdb.WriteFiles(pioneerRoot, data); err != nil {
		return cerrors.WithSuggestion(fmt.Errorf("%w: %v", cerrors.ErrWriteFailed, err), "Check disk space and permissions on the output directory")
	}
	return nil
}

func writeExportInfo(pioneerRoot string, opts Options, result *Result) error {
	name := opts.ConverterName
	if name == "" {
		name = "crateport"
	}
	version := opts.ConverterVersion
	if version == "" {
		version = "dev"
	}

	text := fmt.Sprintf("Created by %s %s\nDate: %s\nTier: %s\nTracks: %s\n",
		name, version, time.Now().UTC().Format(time.RFC3339), opts.Tier, humanize.Comma(int64(result.TracksWritten)))
	if result.TracksCopied > 0 {
		text += fmt.Sprintf("Audio copied: %s (%s)\n", humanize.Comma(int64(result.TracksCopied)), humanize.Bytes(uint64(result.TotalBytes)))
	}
	return os.WriteFile(filepath.Join(pioneerRoot, "EXPORT.INFO"), []byte(text), 0o644)
}

func percentOf(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}
