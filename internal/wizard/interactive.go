// Package wizard provides an interactive fallback for the convert command
// when required flags are missing and stdout is a terminal, grounded on
// tessro-riff/internal/wizard's device/search pickers generalised from
// Spotify device/search selection to conversion-option selection.
package wizard

import (
	"os"

	"golang.org/x/term"

	"github.com/crateport/crateport/internal/anlz"
	"github.com/crateport/crateport/internal/convert"
	"github.com/crateport/crateport/internal/keymap"
)

// Interactive gates whether the wizard may prompt at all.
type Interactive struct {
	enabled bool
}

// NewInteractive creates a wizard handler, enabled by default.
func NewInteractive() *Interactive {
	return &Interactive{enabled: true}
}

// SetEnabled enables or disables interactive mode, e.g. from a --no-input flag.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive prompting is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// NeedsSource returns true if a source collection path is required but
// missing.
func NeedsSource(sourcePath string) bool {
	return sourcePath == ""
}

// NeedsTargetFormat returns true if no target format was given on the
// command line.
func NeedsTargetFormat(format convert.TargetFormat) bool {
	return format == ""
}

// targetFormats lists the pickable target formats in a stable order.
var targetFormats = []convert.TargetFormat{
	convert.TargetCDJHardware,
	convert.TargetInterchangeXML,
	convert.TargetM3U,
	convert.TargetDatabaseSoftware,
}

var tiers = []anlz.Tier{anlz.TierA, anlz.TierB, anlz.TierC}

var keyFormats = []keymap.Format{
	keymap.FormatOpenKey,
	keymap.FormatClassical,
	keymap.FormatFlatClassical,
	keymap.FormatPioneer,
}

func keyFormatLabel(f keymap.Format) string {
	switch f {
	case keymap.FormatClassical:
		return "classical"
	case keymap.FormatFlatClassical:
		return "classical (flat)"
	case keymap.FormatPioneer:
		return "pioneer"
	default:
		return "open key"
	}
}

// PromptMissing fills in whatever fields of opts are unset by walking the
// user through a short series of pickers and text prompts. It is a no-op,
// returning opts unchanged, when i.CanInteract() is false.
func (i *Interactive) PromptMissing(sourcePath, outputRoot string, opts convert.Options) (string, string, convert.Options, error) {
	if !i.CanInteract() {
		return sourcePath, outputRoot, opts, nil
	}

	if NeedsSource(sourcePath) {
		p, err := RunTextPrompt("Source collection path", "/path/to/collection.nml")
		if err != nil {
			return sourcePath, outputRoot, opts, err
		}
		sourcePath = p
	}

	if outputRoot == "" {
		p, err := RunTextPrompt("Output directory", "/path/to/export")
		if err != nil {
			return sourcePath, outputRoot, opts, err
		}
		outputRoot = p
	}

	if NeedsTargetFormat(opts.TargetFormat) {
		labels := make([]string, len(targetFormats))
		for idx, f := range targetFormats {
			labels[idx] = string(f)
		}
		choice, err := RunPicker("Target format", labels)
		if err != nil {
			return sourcePath, outputRoot, opts, err
		}
		opts.TargetFormat = convert.TargetFormat(choice)
	}

	if opts.TargetFormat == convert.TargetCDJHardware && opts.Tier == "" {
		labels := make([]string, len(tiers))
		for idx, t := range tiers {
			labels[idx] = string(t)
		}
		choice, err := RunPicker("Analysis tier", labels)
		if err != nil {
			return sourcePath, outputRoot, opts, err
		}
		opts.Tier = anlz.Tier(choice)
	}

	if opts.KeyNotation == 0 && opts.TargetFormat != "" {
		labels := make([]string, len(keyFormats))
		for idx, f := range keyFormats {
			labels[idx] = keyFormatLabel(f)
		}
		choice, err := RunPicker("Key notation", labels)
		if err != nil {
			return sourcePath, outputRoot, opts, err
		}
		for idx, label := range labels {
			if label == choice {
				opts.KeyNotation = keyFormats[idx]
				break
			}
		}
	}

	return sourcePath, outputRoot, opts, nil
}
