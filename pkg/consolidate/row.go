package consolidate

import (
	"github.com/xuri/excelize/v2"

	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate/models"
	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate/source"
)

// entitySource resolves codes to per-entity workbooks and manages their
// handles for the duration of one row.
type entitySource interface {
	Resolve(code string) source.Handle
	Open(h source.Handle) (*excelize.File, error)
	Release(f *excelize.File)
}

// assignment is the set of destination writes produced for one row. Keys are
// 1-based column indexes in the master sheet.
type assignment struct {
	values   map[int]interface{}
	formulas map[int]string
}

// rowProcessor resolves one code to its per-entity workbook and produces the
// destination assignments for the row.
type rowProcessor struct {
	mode      Mode
	resolver  entitySource
	cfg       compiled
	linkSheet string
}

// process handles a single trimmed, non-empty code. It never returns an
// error: every per-row fault is absorbed into the status and detail text.
func (p *rowProcessor) process(code string) (assignment, models.RowStatus, string) {
	h := p.resolver.Resolve(code)
	if p.mode == ModeLink {
		return p.link(h)
	}
	return p.copyValues(h)
}

// copyValues extracts every configured source cell and assigns it to its
// destination column. A missing file leaves the destinations untouched; an
// empty extraction overwrites the destination with an empty cell.
func (p *rowProcessor) copyValues(h source.Handle) (assignment, models.RowStatus, string) {
	if !h.Exists {
		return assignment{}, models.StatusFileNotFound, ""
	}
	f, err := p.resolver.Open(h)
	if err != nil {
		return assignment{}, models.StatusReadError, err.Error()
	}
	defer p.resolver.Release(f)

	a := assignment{values: make(map[int]interface{}, len(p.cfg.dests))}
	for _, d := range p.cfg.dests {
		v, _ := source.ExtractValue(f, d.cell)
		a.values[d.index] = v
	}
	return a, models.StatusCopied, ""
}

// link writes an external-reference formula into every destination column.
// The formula is emitted whether or not the file exists; existence only
// selects the reported status.
func (p *rowProcessor) link(h source.Handle) (assignment, models.RowStatus, string) {
	a := assignment{formulas: make(map[int]string, len(p.cfg.dests))}
	for _, d := range p.cfg.dests {
		formula, err := source.BuildExternalRef(h, p.linkSheet, d.cell)
		if err != nil {
			// compile already validated every source cell reference
			continue
		}
		a.formulas[d.index] = formula
	}
	if !h.Exists {
		return a, models.StatusFileNotFound, "formula added anyway"
	}
	return a, models.StatusFormulaAdded, ""
}

// applyToRow writes an assignment into a streamed row, padding the row out to
// the highest destination column first so no destination is dropped on short
// rows.
func applyToRow(row []interface{}, a assignment, maxDest int) []interface{} {
	for len(row) < maxDest {
		row = append(row, nil)
	}
	for idx, v := range a.values {
		row[idx-1] = v
	}
	return row
}
