package consolidate

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xuri/excelize/v2"
)

// Mapping binds one destination column in the master to one source cell in
// the per-entity workbooks.
type Mapping struct {
	// Column is the destination column letter in the master sheet.
	Column string `toml:"column"`
	// Cell is the source cell reference in the per-entity workbook.
	Cell string `toml:"cell"`
}

// LinkConfig configures formula-link mode.
type LinkConfig struct {
	// Dir is the fixed directory external-reference formulas point into.
	Dir string `toml:"dir"`
	// Sheet is the sheet name assumed inside every per-entity workbook.
	Sheet string `toml:"sheet"`
}

// Config describes the master workbook layout. It is immutable for the
// duration of a run; Run receives it by value.
type Config struct {
	// CodeColumn is the column letter holding the lookup code.
	CodeColumn string `toml:"code_column"`
	// DataStartRow is the first 1-based row holding entity data. Rows above
	// it are headers.
	DataStartRow int `toml:"data_start_row"`
	// TargetSheets lists the master sheets to consolidate.
	TargetSheets []string `toml:"target_sheets"`
	// Destinations maps destination columns to source cells, in write order.
	Destinations []Mapping `toml:"destinations"`
	// Link configures formula-link mode.
	Link LinkConfig `toml:"link"`
}

// DefaultConfig returns the layout of the CONSOLIDADO master workbook.
func DefaultConfig() Config {
	return Config{
		CodeColumn:   "D",
		DataStartRow: 6,
		TargetSheets: []string{"EDU", "HOSP", "EMPRESA"},
		Destinations: []Mapping{
			{Column: "F", Cell: "N21"},
			{Column: "G", Cell: "N25"},
			{Column: "I", Cell: "N49"},
			{Column: "K", Cell: "N153"},
			{Column: "M", Cell: "N161"},
		},
		Link: LinkConfig{
			Dir:   `C:\presupuestos`,
			Sheet: "Hoja1",
		},
	}
}

// LoadConfigFile reads a TOML layout file and overlays it on DefaultConfig.
// Fields absent from the file keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return DefaultConfig().merged(file), nil
}

// merged overlays the non-zero fields of o on top of c.
func (c Config) merged(o Config) Config {
	if o.CodeColumn != "" {
		c.CodeColumn = o.CodeColumn
	}
	if o.DataStartRow != 0 {
		c.DataStartRow = o.DataStartRow
	}
	if len(o.TargetSheets) != 0 {
		c.TargetSheets = o.TargetSheets
	}
	if len(o.Destinations) != 0 {
		c.Destinations = o.Destinations
	}
	if o.Link.Dir != "" {
		c.Link.Dir = o.Link.Dir
	}
	if o.Link.Sheet != "" {
		c.Link.Sheet = o.Link.Sheet
	}
	return c
}

// destColumn is a Mapping with its column letter resolved to a 1-based index.
type destColumn struct {
	letter string
	index  int
	cell   string
}

// compiled is a validated Config ready for row processing.
type compiled struct {
	codeCol int
	dests   []destColumn
	maxDest int
}

// compile validates the configuration and resolves column letters.
func (c Config) compile() (compiled, error) {
	var out compiled
	if c.DataStartRow < 1 {
		return out, fmt.Errorf("%w: data_start_row must be >= 1, got %d", ErrInvalidConfig, c.DataStartRow)
	}
	if len(c.TargetSheets) == 0 {
		return out, fmt.Errorf("%w: no target sheets", ErrInvalidConfig)
	}
	if len(c.Destinations) == 0 {
		return out, fmt.Errorf("%w: no destination columns", ErrInvalidConfig)
	}
	codeCol, err := excelize.ColumnNameToNumber(c.CodeColumn)
	if err != nil {
		return out, fmt.Errorf("%w: code column %q: %v", ErrInvalidConfig, c.CodeColumn, err)
	}
	out.codeCol = codeCol
	for _, m := range c.Destinations {
		idx, err := excelize.ColumnNameToNumber(m.Column)
		if err != nil {
			return out, fmt.Errorf("%w: destination column %q: %v", ErrInvalidConfig, m.Column, err)
		}
		ref := strings.ReplaceAll(m.Cell, "$", "")
		if _, _, err := excelize.CellNameToCoordinates(ref); err != nil {
			return out, fmt.Errorf("%w: source cell %q: %v", ErrInvalidConfig, m.Cell, err)
		}
		out.dests = append(out.dests, destColumn{letter: m.Column, index: idx, cell: m.Cell})
		if idx > out.maxDest {
			out.maxDest = idx
		}
	}
	return out, nil
}
