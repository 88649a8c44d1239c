// Package models defines data types shared across the consolidation pipeline.
package models

// RowStatus classifies the outcome of processing a single master row.
type RowStatus string

const (
	// StatusCopied means every destination column received a value copied
	// from the row's per-entity workbook.
	StatusCopied RowStatus = "copied"
	// StatusFormulaAdded means every destination column received an
	// external-reference formula.
	StatusFormulaAdded RowStatus = "formula_added"
	// StatusFileNotFound means no per-entity workbook exists for the row's
	// code. Link mode still writes formulas under this status.
	StatusFileNotFound RowStatus = "file_not_found"
	// StatusReadError means the per-entity workbook exists but could not be
	// opened or read.
	StatusReadError RowStatus = "read_error"
	// StatusSkipped means the row carries no code.
	StatusSkipped RowStatus = "skipped"
	// StatusHeaderPassthrough means the row precedes the data-start row and
	// was copied through unmodified.
	StatusHeaderPassthrough RowStatus = "header"
)

// RowReport describes the outcome of one processed row.
type RowReport struct {
	// Sheet is the master sheet name.
	Sheet string `json:"sheet"`
	// Row is the 1-based row number in the master sheet.
	Row int `json:"row"`
	// Code is the trimmed lookup code, empty for header and skipped rows.
	Code string `json:"code,omitempty"`
	// Status is the row outcome.
	Status RowStatus `json:"status"`
	// Detail carries diagnostic text, e.g. the cause of a read error.
	Detail string `json:"detail,omitempty"`
}
