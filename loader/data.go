package loader

import (
	"fmt"
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
)

const (
	ColCellName = "CellName"
	ColNeName   = "NeName"
)

// DataExport is the live-data export: one row per cell, one column per
// parameter.
type DataExport struct {
	Columns []string
	Rows    []DataRow
	t       *Sheet
}

type DataRow struct {
	CellName string
	NeName   string
	cells    []string
}

// ReadDataExport reads the first sheet of the data export.
func ReadDataExport(path string) (*DataExport, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readSheet(f, "")
	if err != nil {
		return nil, err
	}
	if err := t.Require(ColCellName, ColNeName); err != nil {
		return nil, fmt.Errorf("data file: %w", err)
	}
	iCell, iNe := t.Col(ColCellName), t.Col(ColNeName)

	d := &DataExport{t: t}
	for _, h := range t.Header {
		if h = strings.TrimSpace(h); h != "" {
			d.Columns = append(d.Columns, h)
		}
	}
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		d.Rows = append(d.Rows, DataRow{
			CellName: strings.TrimSpace(Cell(row, iCell)),
			NeName:   strings.TrimSpace(Cell(row, iNe)),
			cells:    row,
		})
	}
	return d, nil
}

// Has reports whether the export carries a column for param.
func (d *DataExport) Has(param string) bool { return d.t.Col(param) >= 0 }

// Value returns the value of param on row, Empty when the column is absent.
func (d *DataExport) Value(r DataRow, param string) cellvalue.Value {
	return value(r.cells, d.t.Col(param))
}
