// Package consolidate fills destination columns of a master workbook from
// per-entity workbooks named after a lookup code.
package consolidate

import (
	"fmt"

	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate/models"
)

// Mode represents how the master workbook is processed.
type Mode string

const (
	// ModeCopy edits the fully loaded master in memory, copying literal
	// values from each per-entity workbook.
	ModeCopy Mode = "copy"
	// ModeStream reads the master row by row and writes a brand-new output
	// workbook, never holding a whole sheet in memory.
	ModeStream Mode = "stream"
	// ModeLink edits the master in memory, writing external-reference
	// formulas instead of copied values.
	ModeLink Mode = "link"
)

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCopy, ModeStream, ModeLink:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode: %q (must be copy, stream, or link)", s)
}

// Options configures a consolidation run.
type Options struct {
	// Mode specifies the processing mode (copy, stream, link).
	Mode Mode
	// SourceDir overrides the directory searched for per-entity files in
	// copy and stream modes. Empty means the master file's directory.
	SourceDir string
	// CacheSources keeps per-entity workbooks open and reuses them when the
	// same code appears on several rows. Off by default: every row reopens
	// its file, trading speed for freshness.
	CacheSources bool
	// OnRow, when non-nil, receives one report per processed row.
	OnRow func(models.RowReport)
	// Logf, when non-nil, receives sheet-level progress and diagnostics.
	Logf func(format string, args ...interface{})
}

// DefaultOptions returns options for an in-place value-copy run.
func DefaultOptions() Options {
	return Options{
		Mode: ModeCopy,
	}
}
