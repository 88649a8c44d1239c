package source

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExtractValue reads the value at cellRef from the active sheet of an opened
// per-entity workbook. Any fault (no sheets, bad reference, read failure)
// degrades to (nil, false); extraction never aborts row processing.
func ExtractValue(f *excelize.File, cellRef string) (interface{}, bool) {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, false
		}
		sheet = sheets[0]
	}
	ref := normalizeRef(cellRef)
	if _, _, err := excelize.CellNameToCoordinates(ref); err != nil {
		return nil, false
	}
	raw, err := f.GetCellValue(sheet, ref)
	if err != nil || raw == "" {
		return nil, false
	}
	return ParseValue(raw), true
}

// ParseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func ParseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}

// normalizeRef strips anchoring dollar signs so "$N$21" and "N21" validate
// the same way.
func normalizeRef(cellRef string) string {
	return strings.ReplaceAll(cellRef, "$", "")
}
