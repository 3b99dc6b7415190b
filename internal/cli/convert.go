package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/crateport/crateport/internal/anlz"
	"github.com/crateport/crateport/internal/collection"
	"github.com/crateport/crateport/internal/convert"
	"github.com/crateport/crateport/internal/core"
	cerrors "github.com/crateport/crateport/internal/errors"
	"github.com/crateport/crateport/internal/fileindex"
	"github.com/crateport/crateport/internal/keymap"
	"github.com/crateport/crateport/internal/progress"
	"github.com/crateport/crateport/internal/tui"
	"github.com/crateport/crateport/internal/wizard"
)

var (
	convertSource      string
	convertMusicRoot   string
	convertOutput      string
	convertFormat      string
	convertTier        string
	convertCopyAudio   bool
	convertVerifyCopy  bool
	convertKeyNotation string
	convertOverwrite   bool
	convertNode        string
	convertNoInput     bool
	convertUI          bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a collection into a hardware or interchange export",
	Long: `Reads a Traktor-style NML collection and writes a Pioneer CDJ-style
export (binary database + analysis files), interchange XML, M3U
playlists, or a thin database-software target.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertSource, "source", "", "path to the source NML collection")
	convertCmd.Flags().StringVar(&convertMusicRoot, "music-root", "", "root directory audio paths are resolved against for repair")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "output directory")
	convertCmd.Flags().StringVar(&convertFormat, "target-format", "", "cdj-hardware, interchange-xml, m3u, or database-software")
	convertCmd.Flags().StringVar(&convertTier, "tier", "", "tier-a, tier-b, or tier-c (cdj-hardware only)")
	convertCmd.Flags().BoolVar(&convertCopyAudio, "copy-audio", false, "copy audio files into Contents/ (cdj-hardware only)")
	convertCmd.Flags().BoolVar(&convertVerifyCopy, "verify-copy", false, "verify copied audio with a SHA-256 comparison")
	convertCmd.Flags().StringVar(&convertKeyNotation, "key-notation", "", "open-key, classical, flat-classical, or pioneer")
	convertCmd.Flags().BoolVar(&convertOverwrite, "overwrite", false, "clear a non-empty PIONEER/ directory first")
	convertCmd.Flags().StringVar(&convertNode, "node", "", "convert only the named folder or playlist (searched for anywhere in the tree), instead of the whole tree")
	convertCmd.Flags().BoolVar(&convertNoInput, "no-input", false, "never prompt interactively for missing options")
	convertCmd.Flags().BoolVar(&convertUI, "tui", false, "show a progress bar UI instead of printing lines to stdout")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := firstNonEmpty(convertSource, cfg.Collection.SourcePath)
	output := convertOutput
	opts := convert.Options{
		TargetFormat:     convert.TargetFormat(firstNonEmpty(convertFormat, cfg.Export.TargetFormat)),
		Tier:             anlz.Tier(firstNonEmpty(convertTier, cfg.Export.Tier)),
		CopyAudio:        convertCopyAudio || cfg.Export.CopyAudio,
		VerifyCopy:       convertVerifyCopy || cfg.Export.VerifyCopy,
		Overwrite:        convertOverwrite || cfg.Export.Overwrite,
		ConverterName:    "crateport",
		ConverterVersion: Version,
	}

	notation, err := keymap.ParseFormat(firstNonEmpty(convertKeyNotation, cfg.Export.KeyNotation))
	if err != nil {
		return fmt.Errorf("%w: %v", cerrors.ErrInvalidConfig, err)
	}
	opts.KeyNotation = notation

	wiz := wizard.NewInteractive()
	wiz.SetEnabled(!convertNoInput)
	source, output, opts, err = wiz.PromptMissing(source, output, opts)
	if err != nil {
		return err
	}

	if source == "" {
		return fmt.Errorf("%w: --source is required", cerrors.ErrInvalidConfig)
	}
	if output == "" {
		return fmt.Errorf("%w: --output is required", cerrors.ErrInvalidConfig)
	}

	var idx *fileindex.Index
	if convertMusicRoot != "" || cfg.Collection.MusicRoot != "" {
		root := firstNonEmpty(convertMusicRoot, cfg.Collection.MusicRoot)
		idx, err = fileindex.Build(root, 65536)
		if err != nil {
			return fmt.Errorf("%w: %v", cerrors.ErrSourceUnreadable, err)
		}
	}

	col, err := collection.Load(source, collection.Options{Index: idx})
	if err != nil {
		return err
	}

	roots := col.Roots
	if convertNode != "" {
		node := findNode(col.Roots, convertNode)
		if node == nil {
			return fmt.Errorf("%w: node %q not found", cerrors.ErrInvalidConfig, convertNode)
		}
		roots = []*core.Node{node}
	}

	rep := progress.NewReporter(cfg.Progress.ChannelSize)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var cancelled atomic.Bool
	go func() {
		<-ctx.Done()
		cancelled.Store(true)
	}()

	resultCh := make(chan convertOutcome, 1)
	go func() {
		result, err := convert.Run(col, roots, output, opts, cancelled.Load, rep)
		resultCh <- convertOutcome{result: result, err: err}
	}()

	if convertUI {
		if err := tui.Run(rep, cancel); err != nil {
			return err
		}
	} else {
		printProgress(rep)
	}

	outcome := <-resultCh
	if outcome.err != nil {
		return outcome.err
	}

	if Verbose() && !JSONOutput() {
		Normal("parse time", FormatDuration(int(col.ParseTime.Seconds())))
	}
	return printResult(outcome.result)
}

type convertOutcome struct {
	result *convert.Result
	err    error
}

func printProgress(rep *progress.Reporter) {
	f := progress.NewFormatter(progress.WithPercent(Verbose()))
	for {
		select {
		case e, ok := <-rep.Events():
			if !ok {
				return
			}
			if Verbose() {
				fmt.Printf("%s %s\n", FormatProgress(e.Percent, 100, 20), f.Format(e))
			}
		case t, ok := <-rep.Terminal():
			if !ok {
				return
			}
			line := f.FormatTerminal(t)
			if t.Kind == progress.TerminalFailed {
				fmt.Fprintln(os.Stderr, line)
			} else {
				fmt.Println(line)
			}
			return
		}
	}
}

func printResult(result *convert.Result) error {
	if result == nil {
		return nil
	}
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	fmt.Printf("%s tracks exported\n", humanize.Comma(int64(result.TracksExported)))
	if result.Hardware != nil && result.Hardware.TracksCopied > 0 {
		fmt.Printf("%s audio files copied (%s)\n", humanize.Comma(int64(result.Hardware.TracksCopied)), humanize.Bytes(uint64(result.Hardware.TotalBytes)))
	}
	if len(result.Issues) > 0 && Verbose() {
		table := NewTableWriter(os.Stderr, "KIND", "MESSAGE")
		for _, issue := range result.Issues {
			table.Row(string(issue.Kind), TruncateString(issue.Message, 200))
		}
		table.Flush()
	}
	return nil
}

func findNode(roots []*core.Node, name string) *core.Node {
	for _, r := range roots {
		if r.Name == name {
			return r
		}
		var found *core.Node
		r.Walk(func(n *core.Node) {
			if found == nil && n.Name == name {
				found = n
			}
		})
		if found != nil {
			return found
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
