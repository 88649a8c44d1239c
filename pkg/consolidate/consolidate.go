package consolidate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate/models"
	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate/source"
)

// Run consolidates the master workbook at masterPath into outputPath
// according to cfg and opts.
//
// The master must exist and open cleanly or the run fails before any output
// is produced. A configured target sheet missing from the master is reported
// and skipped. Per-row faults never abort the run; they surface through
// opts.OnRow. A failure to persist the output is returned as a *SaveError.
func Run(masterPath, outputPath string, cfg Config, opts Options) error {
	cc, err := cfg.compile()
	if err != nil {
		return err
	}
	if opts.Mode == "" {
		opts.Mode = ModeCopy
	}

	if _, err := os.Stat(masterPath); err != nil {
		return fmt.Errorf("%w: %s", ErrMasterNotFound, masterPath)
	}

	resolver := newRunResolver(masterPath, cfg, opts)
	defer resolver.Close()

	r := &run{
		cfg:  cfg,
		cc:   cc,
		opts: opts,
		proc: &rowProcessor{
			mode:      opts.Mode,
			resolver:  resolver,
			cfg:       cc,
			linkSheet: cfg.Link.Sheet,
		},
	}
	if opts.Mode == ModeStream {
		return r.stream(masterPath, outputPath)
	}
	return r.inPlace(masterPath, outputPath)
}

// newRunResolver picks the per-entity base directory for the run's mode:
// the fixed link directory in link mode, otherwise the explicit source
// directory or the master file's own directory.
func newRunResolver(masterPath string, cfg Config, opts Options) *source.Resolver {
	if opts.Mode == ModeLink {
		return source.NewResolver(source.AbsDir(cfg.Link.Dir), false)
	}
	dir := opts.SourceDir
	if dir == "" {
		dir = filepath.Dir(masterPath)
	}
	return source.NewResolver(dir, opts.CacheSources)
}

// run carries the per-run state shared by the sheet drivers.
type run struct {
	cfg  Config
	cc   compiled
	opts Options
	proc *rowProcessor
}

func (r *run) logf(format string, args ...interface{}) {
	if r.opts.Logf != nil {
		r.opts.Logf(format, args...)
	}
}

func (r *run) report(rep models.RowReport) {
	if r.opts.OnRow != nil {
		r.opts.OnRow(rep)
	}
}

// inPlace loads the whole master into memory, mutates the target sheets
// directly, and saves the result under outputPath.
func (r *run) inPlace(masterPath, outputPath string) error {
	f, err := excelize.OpenFile(masterPath)
	if err != nil {
		return fmt.Errorf("open master %q: %w", masterPath, err)
	}
	defer f.Close()

	for _, sheet := range r.cfg.TargetSheets {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			r.logf("sheet %q not present in master, skipping", sheet)
			continue
		}
		r.logf("processing sheet: %s", sheet)
		if err := r.inPlaceSheet(f, sheet); err != nil {
			return err
		}
		r.logf("finished sheet: %s", sheet)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return &SaveError{Path: outputPath, Err: err}
	}
	return nil
}

// inPlaceSheet walks data rows until the first empty code cell. With the
// whole sheet loaded there is no cheap row count to bound the walk, so the
// blank code is the terminal condition, as it always has been for this mode.
func (r *run) inPlaceSheet(f *excelize.File, sheet string) error {
	for row := r.cfg.DataStartRow; ; row++ {
		axis, err := excelize.CoordinatesToCellName(r.cc.codeCol, row)
		if err != nil {
			return err
		}
		raw, err := f.GetCellValue(sheet, axis)
		if err != nil {
			return fmt.Errorf("read %s!%s: %w", sheet, axis, err)
		}
		code := strings.TrimSpace(raw)
		if code == "" {
			r.report(models.RowReport{Sheet: sheet, Row: row, Status: models.StatusSkipped})
			return nil
		}

		a, status, detail := r.proc.process(code)
		if err := applyInPlace(f, sheet, row, a); err != nil {
			return err
		}
		r.report(models.RowReport{Sheet: sheet, Row: row, Code: code, Status: status, Detail: detail})
	}
}

// applyInPlace writes an assignment straight into the master's cells.
func applyInPlace(f *excelize.File, sheet string, row int, a assignment) error {
	for idx, v := range a.values {
		axis, err := excelize.CoordinatesToCellName(idx, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, axis, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, axis, err)
		}
	}
	for idx, formula := range a.formulas {
		axis, err := excelize.CoordinatesToCellName(idx, row)
		if err != nil {
			return err
		}
		if err := f.SetCellFormula(sheet, axis, formula); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, axis, err)
		}
	}
	return nil
}

// stream rebuilds the master into a brand-new workbook, reading one row at a
// time and writing one row at a time, so master size never matters.
func (r *run) stream(masterPath, outputPath string) error {
	in, err := excelize.OpenFile(masterPath)
	if err != nil {
		return fmt.Errorf("open master %q: %w", masterPath, err)
	}
	defer in.Close()

	out := excelize.NewFile()
	defer out.Close()

	written := make(map[string]bool)
	first := true
	for _, sheet := range r.cfg.TargetSheets {
		if idx, err := in.GetSheetIndex(sheet); err != nil || idx < 0 {
			r.logf("sheet %q not present in master, skipping", sheet)
			continue
		}
		r.logf("processing sheet: %s", sheet)
		if err := ensureSheet(out, sheet, first); err != nil {
			return err
		}
		first = false
		if err := r.streamSheet(in, out, sheet); err != nil {
			return err
		}
		written[sheet] = true
		r.logf("finished sheet: %s", sheet)
	}

	// Sheets outside the target list pass through unchanged, after all
	// target sheets. Names already written to the output are left as-is.
	for _, sheet := range in.GetSheetList() {
		if written[sheet] || isTarget(r.cfg.TargetSheets, sheet) {
			continue
		}
		r.logf("copying untouched sheet: %s", sheet)
		if err := ensureSheet(out, sheet, first); err != nil {
			return err
		}
		first = false
		if err := copySheet(in, out, sheet); err != nil {
			return err
		}
		written[sheet] = true
	}

	if err := out.SaveAs(outputPath); err != nil {
		return &SaveError{Path: outputPath, Err: err}
	}
	return nil
}

// streamSheet makes a single forward pass: every source row yields exactly
// one output row, in order. Unlike the in-place walk, a blank code does not
// stop the sheet; the pass is bounded by the source row count, so blank-code
// rows are copied through and traversal continues.
func (r *run) streamSheet(in, out *excelize.File, sheet string) error {
	rows, err := in.Rows(sheet)
	if err != nil {
		return fmt.Errorf("iterate %s: %w", sheet, err)
	}
	defer rows.Close()

	sw, err := out.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	rowNum := 0
	for rows.Next() {
		rowNum++
		cols, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("read %s row %d: %w", sheet, rowNum, err)
		}
		row := toCellValues(cols)

		rep := models.RowReport{Sheet: sheet, Row: rowNum}
		if rowNum < r.cfg.DataStartRow {
			rep.Status = models.StatusHeaderPassthrough
		} else {
			code := ""
			if r.cc.codeCol <= len(cols) {
				code = strings.TrimSpace(cols[r.cc.codeCol-1])
			}
			if code == "" {
				rep.Status = models.StatusSkipped
			} else {
				var a assignment
				a, rep.Status, rep.Detail = r.proc.process(code)
				rep.Code = code
				row = applyToRow(row, a, r.cc.maxDest)
			}
		}

		if err := writeRow(sw, rowNum, row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
		}
		r.report(rep)
	}
	return sw.Flush()
}

// copySheet copies a sheet value-by-value through the row iterator and a
// stream writer, keeping the pass as memory-bounded as the target sheets.
func copySheet(in, out *excelize.File, sheet string) error {
	rows, err := in.Rows(sheet)
	if err != nil {
		return fmt.Errorf("iterate %s: %w", sheet, err)
	}
	defer rows.Close()

	sw, err := out.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	rowNum := 0
	for rows.Next() {
		rowNum++
		cols, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("read %s row %d: %w", sheet, rowNum, err)
		}
		if err := writeRow(sw, rowNum, toCellValues(cols)); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
		}
	}
	return sw.Flush()
}

// ensureSheet creates sheet name in the output workbook, reusing excelize's
// default sheet slot for the first one.
func ensureSheet(out *excelize.File, name string, first bool) error {
	if first {
		return out.SetSheetName(out.GetSheetName(0), name)
	}
	_, err := out.NewSheet(name)
	return err
}

// toCellValues converts an iterator row to cell values, re-typing numeric
// text so numbers stay numbers in the rebuilt workbook.
func toCellValues(cols []string) []interface{} {
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		if c == "" {
			continue
		}
		row[i] = source.ParseValue(c)
	}
	return row
}

func writeRow(sw *excelize.StreamWriter, rowNum int, row []interface{}) error {
	if len(row) == 0 {
		return nil
	}
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return sw.SetRow(axis, row)
}

func isTarget(targets []string, sheet string) bool {
	for _, t := range targets {
		if t == sheet {
			return true
		}
	}
	return false
}
