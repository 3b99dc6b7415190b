// Package errors defines the conversion error taxonomy (spec.md §7) and
// the suggestion-wrapping idiom the rest of the module uses to surface
// actionable CLI output, generalised from the teacher's RiffError.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the taxonomy spec.md §7 names. Warning-only kinds
// (EncodingUndetermined, EntryMalformed, PathUnrepresentable,
// IndexUnusable, AudioCopyFailed) are recorded as core.Issue values
// instead of returned errors; these sentinels cover the kinds that can
// terminate a conversion.
var (
	ErrSourceUnreadable   = errors.New("source collection file is unreadable")
	ErrSourceUnparseable  = errors.New("source collection could not be parsed")
	ErrVerifyMismatch     = errors.New("copied audio file failed verification")
	ErrWriteFailed        = errors.New("failed to write output")
	ErrCollectionTooLarge = errors.New("collection exceeds the hardware track limit")
	ErrCancelRequested    = errors.New("conversion cancelled")
	ErrOutputNotWritable  = errors.New("output root is not writable")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// ExitCode maps a taxonomy error to the CLI exit code spec.md §6 defines.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidConfig):
		return 1
	case errors.Is(err, ErrSourceUnreadable):
		return 2
	case errors.Is(err, ErrSourceUnparseable):
		return 3
	case errors.Is(err, ErrOutputNotWritable):
		return 4
	case errors.Is(err, ErrCancelRequested):
		return 5
	default:
		return 6
	}
}

// ConversionError wraps a taxonomy error with a human-readable
// suggestion, the way the teacher's RiffError carries a Suggestion.
type ConversionError struct {
	Err        error
	Suggestion string
}

func (e *ConversionError) Error() string { return e.Err.Error() }
func (e *ConversionError) Unwrap() error { return e.Err }

// WithSuggestion wraps err with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &ConversionError{Err: err, Suggestion: suggestion}
}

// GetSuggestion returns an actionable suggestion for err, or "" if none
// applies.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var ce *ConversionError
	if errors.As(err, &ce) && ce.Suggestion != "" {
		return ce.Suggestion
	}

	switch {
	case errors.Is(err, ErrSourceUnreadable):
		return "Check that the collection path exists and is readable"
	case errors.Is(err, ErrSourceUnparseable):
		return "The file may not be a Traktor NML export, or may be severely corrupted"
	case errors.Is(err, ErrOutputNotWritable):
		return "Choose a different output directory or check its permissions"
	case errors.Is(err, ErrCollectionTooLarge):
		return "Export a subset of the collection, or a smaller playlist subtree"
	case errors.Is(err, ErrVerifyMismatch):
		return "Re-run with verify-copy disabled, or check the source disk for errors"
	case strings.Contains(strings.ToLower(err.Error()), "permission denied"):
		return "Check filesystem permissions on the source or destination path"
	default:
		return ""
	}
}

// Format renders err with its suggestion, if any, for CLI output.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if s := GetSuggestion(err); s != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), s)
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult accumulates non-fatal issues alongside a conversion's
// data, generalised from the teacher's generic partial-failure
// accumulator.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

func (p *PartialResult[T]) HasErrors() bool { return len(p.Errors) > 0 }

func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:\n", len(p.Errors))
	for i, err := range p.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}
