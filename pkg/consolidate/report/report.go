// Package report renders consolidation run reports for the console and for
// machine consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate/models"
)

// labels maps row statuses to console wording.
var labels = map[models.RowStatus]string{
	models.StatusCopied:            "copied",
	models.StatusFormulaAdded:      "formula added",
	models.StatusFileNotFound:      "file not found",
	models.StatusReadError:         "read error",
	models.StatusSkipped:           "skipped (no code)",
	models.StatusHeaderPassthrough: "header",
}

// Line formats one row report as a console line.
func Line(r models.RowReport) string {
	label := labels[r.Status]
	if label == "" {
		label = string(r.Status)
	}
	if r.Detail != "" {
		label += " -> " + r.Detail
	}
	return fmt.Sprintf("  row %4d | code %-10s | %s", r.Row, r.Code, label)
}

// WriteJSON writes the collected row reports as a JSON array.
func WriteJSON(w io.Writer, reports []models.RowReport, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(reports)
}
