package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildExternalRef constructs an external-reference formula pulling a single
// cell from another workbook:
//
//	'C:\presupuestos\[A100.xlsx]Hoja1'!$N$21
//
// The cell reference is anchored on both axes so the formula survives being
// copied to adjacent cells. The leading "=" is omitted, matching excelize's
// SetCellFormula convention. The target file is not required to exist;
// formulas are written optimistically.
func BuildExternalRef(h Handle, sheetName, cellRef string) (string, error) {
	abs, err := AbsoluteRef(cellRef)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("'%s[%s]%s'!%s", h.Dir, h.Filename, sheetName, abs), nil
}

// AbsoluteRef anchors a cell reference on both row and column, turning "N21"
// into "$N$21". Already-anchored references come back unchanged.
func AbsoluteRef(cellRef string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(normalizeRef(cellRef))
	if err != nil {
		return "", err
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("$%s$%d", name, row), nil
}
