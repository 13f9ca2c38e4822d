// Package report writes the audit results as formatted workbooks.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Fill colours.
const (
	Green  = "90EE90"
	Yellow = "FFFF00"
	Violet = "CBC3E3"
	Pink   = "FFB6C1"
	Red    = "FF0000"
	Grey   = "D3D3D3"
)

const maxColWidth = 50

var thin = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

type styleKey struct {
	fill   string
	bold   bool
	border bool
	size   float64
}

// book wraps an excelize file with a style cache and per-column width
// tracking. Errors from cell writes are kept and returned by save.
type book struct {
	f      *excelize.File
	styles map[styleKey]int
	widths map[string]map[int]int
	first  bool
	err    error
}

func newBook() *book {
	return &book{
		f:      excelize.NewFile(),
		styles: map[styleKey]int{},
		widths: map[string]map[int]int{},
		first:  true,
	}
}

func (b *book) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func (b *book) style(k styleKey) int {
	if id, ok := b.styles[k]; ok {
		return id
	}
	st := &excelize.Style{Alignment: &excelize.Alignment{Vertical: "top"}}
	if k.fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Color: []string{k.fill}, Pattern: 1}
	}
	if k.bold || k.size > 0 {
		st.Font = &excelize.Font{Bold: k.bold, Size: k.size}
	}
	if k.border {
		st.Border = thin
	}
	id, err := b.f.NewStyle(st)
	b.fail(err)
	b.styles[k] = id
	return id
}

func (b *book) sheet(name string) {
	if b.first {
		b.fail(b.f.SetSheetName("Sheet1", name))
		b.first = false
		return
	}
	_, err := b.f.NewSheet(name)
	b.fail(err)
}

func addr(col, row int) string {
	a, _ := excelize.CoordinatesToCellName(col, row)
	return a
}

// put writes v without styling it.
func (b *book) put(sheet string, col, row int, v any) {
	if v == nil {
		return
	}
	b.fail(b.f.SetCellValue(sheet, addr(col, row), v))
	n := utf8.RuneCountInString(fmt.Sprint(v))
	w := b.widths[sheet]
	if w == nil {
		w = map[int]int{}
		b.widths[sheet] = w
	}
	if n > w[col] {
		w[col] = n
	}
}

func (b *book) paint(sheet string, col, row int, k styleKey) {
	a := addr(col, row)
	b.fail(b.f.SetCellStyle(sheet, a, a, b.style(k)))
}

// cell writes a table cell: bordered, optionally filled.
func (b *book) cell(sheet string, col, row int, v any, fill string) {
	b.put(sheet, col, row, v)
	b.paint(sheet, col, row, styleKey{fill: fill, border: true})
}

func (b *book) header(sheet string, row int, names []string) {
	for i, h := range names {
		b.put(sheet, i+1, row, h)
		b.paint(sheet, i+1, row, styleKey{fill: Grey, bold: true, border: true})
	}
}

func (b *book) title(sheet, text string) {
	b.put(sheet, 1, 1, text)
	b.paint(sheet, 1, 1, styleKey{bold: true, size: 14})
	b.fail(b.f.MergeCell(sheet, "A1", "B1"))
}

func (b *book) bold(sheet string, col, row int, v any) {
	b.put(sheet, col, row, v)
	b.paint(sheet, col, row, styleKey{bold: true})
}

// legend writes a swatch in column A and its meaning in column B.
func (b *book) legend(sheet string, row int, swatch, fill, meaning string) {
	b.put(sheet, 1, row, swatch)
	b.paint(sheet, 1, row, styleKey{fill: fill})
	b.put(sheet, 2, row, meaning)
}

func (b *book) merge(sheet string, col, from, to int) {
	if to <= from {
		return
	}
	b.fail(b.f.MergeCell(sheet, addr(col, from), addr(col, to)))
}

// save sizes every column to min(longest+2, 50) and writes the file.
func (b *book) save(dir, name string) (string, error) {
	defer b.f.Close()
	for sheet, cols := range b.widths {
		for col, n := range cols {
			c, _ := excelize.ColumnNumberToName(col)
			b.fail(b.f.SetColWidth(sheet, c, c, float64(min(n+2, maxColWidth))))
		}
	}
	if b.err != nil {
		return "", b.err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, name)
	if err := b.f.SaveAs(out); err != nil {
		return "", fmt.Errorf("save %s: %w", out, err)
	}
	return out, nil
}
