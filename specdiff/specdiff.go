// Package specdiff compares a parameter specification workbook with its
// updated edition and carries the differences back into the old workbook.
package specdiff

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
	"github.com/jalad-shrimali/nrcell-audit/loader"
)

// UpdatedSheet is the sheet of the updated specification.
const UpdatedSheet = "LTE - NR parameters"

// ChangedFill marks cells rewritten from the updated specification.
const ChangedFill = "CBC3E3"

// CompareColumns are the columns carried over from the updated specification.
var CompareColumns = []string{
	"lock / unlock",
	loader.ColDefault,
	loader.ColTDDMidBand,
	loader.ColFDD,
	loader.ColCoNode,
	loader.ColTDDHighBand,
	"Commentaire",
	"Delta 25.Q1 E//",
	"Comment 25.Q1 E//",
	"Delta 25.Q2 E//",
	"Comment 25.Q2 E//",
}

type Difference struct {
	Parameter string
	Column    string
	Old       string
	New       string
}

type Missing struct {
	Parameter string
	InOld     bool
	InNew     bool
}

type Result struct {
	Checked     int
	Differences []Difference
	Missing     []Missing
	// NewOnly lists listed parameters present in the updated sheet only,
	// compared case-insensitively.
	NewOnly []string
}

// index maps a trimmed parameter name to its first row.
type index struct {
	sheet *loader.Sheet
	rows  map[string][]string
	lower map[string]struct{}
}

func newIndex(s *loader.Sheet) (*index, error) {
	if err := s.Require(loader.ColParameter); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
	}
	ix := &index{sheet: s, rows: map[string][]string{}, lower: map[string]struct{}{}}
	iName := s.Col(loader.ColParameter)
	for _, r := range s.Rows {
		name := strings.TrimSpace(loader.Cell(r, iName))
		if name == "" {
			continue
		}
		if _, dup := ix.rows[name]; !dup {
			ix.rows[name] = r
		}
		ix.lower[strings.ToLower(name)] = struct{}{}
	}
	return ix, nil
}

func (ix *index) value(row []string, col string) string {
	return strings.TrimSpace(loader.Cell(row, ix.sheet.Col(col)))
}

// Compare diffs the listed parameters between the old sheet and the updated
// specification. A compare column missing from either sheet is an error.
func Compare(oldSheet, newSheet *loader.Sheet, params []string) (*Result, error) {
	oldIx, err := newIndex(oldSheet)
	if err != nil {
		return nil, err
	}
	newIx, err := newIndex(newSheet)
	if err != nil {
		return nil, err
	}
	for _, s := range []*loader.Sheet{oldSheet, newSheet} {
		if err := s.Require(CompareColumns...); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}

	res := &Result{Checked: len(params)}
	for _, p := range params {
		p = strings.TrimSpace(p)
		oldRow, inOld := oldIx.rows[p]
		newRow, inNew := newIx.rows[p]
		if !inOld || !inNew {
			res.Missing = append(res.Missing, Missing{Parameter: p, InOld: inOld, InNew: inNew})
		} else {
			for _, col := range CompareColumns {
				o, n := oldIx.value(oldRow, col), newIx.value(newRow, col)
				if !sameValue(o, n) {
					res.Differences = append(res.Differences, Difference{Parameter: p, Column: col, Old: o, New: n})
				}
			}
		}
		l := strings.ToLower(p)
		if _, ok := newIx.lower[l]; ok {
			if _, ok := oldIx.lower[l]; !ok {
				res.NewOnly = append(res.NewOnly, p)
			}
		}
	}
	return res, nil
}

// sameValue treats two empty cells, and numerically equal cells, as equal.
func sameValue(a, b string) bool {
	if a == b {
		return true
	}
	x, okx := cellvalue.ParseNumber(a)
	y, oky := cellvalue.ParseNumber(b)
	return okx && oky && x == y
}

// LabMissing lists LAB parameters absent from the old sheet, compared
// case-insensitively, in LAB order.
func LabMissing(oldSheet *loader.Sheet, lab []string) ([]string, error) {
	ix, err := newIndex(oldSheet)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range lab {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := ix.lower[strings.ToLower(p)]; !ok {
			out = append(out, p)
		}
	}
	return out, nil
}

/* ──────────── write-back ──────────── */

// Apply writes each difference into the old workbook in place. The cell takes
// the updated value and the ChangedFill background; its other formatting and
// any comment stay.
func Apply(oldPath, sheet string, diffs []Difference) (int, error) {
	if len(diffs) == 0 {
		return 0, nil
	}
	path, err := loader.ResolveWorkbook(oldPath)
	if err != nil {
		return 0, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	t, err := loader.FileSheet(f, sheet)
	if err != nil {
		return 0, err
	}
	if err := t.Require(loader.ColParameter); err != nil {
		return 0, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	iName := t.Col(loader.ColParameter)
	rowOf := map[string]int{}
	for r, row := range t.Rows {
		name := strings.TrimSpace(loader.Cell(row, iName))
		if _, dup := rowOf[name]; name != "" && !dup {
			rowOf[name] = r + 2 // 1-based, below the header
		}
	}

	updated := 0
	for _, d := range diffs {
		r, ok := rowOf[d.Parameter]
		if !ok {
			continue
		}
		c := t.Col(d.Column)
		if c < 0 {
			return updated, fmt.Errorf("sheet %q: %w: %q", sheet, loader.ErrMissingColumns, d.Column)
		}
		addr, _ := excelize.CoordinatesToCellName(c+1, r)
		if err := setValue(f, sheet, addr, d.New); err != nil {
			return updated, err
		}
		if err := fillCell(f, sheet, addr, ChangedFill); err != nil {
			return updated, err
		}
		updated++
	}
	if err := f.Save(); err != nil {
		return updated, fmt.Errorf("save %s: %w", path, err)
	}
	return updated, nil
}

func setValue(f *excelize.File, sheet, addr, raw string) error {
	v := cellvalue.Parse(raw)
	switch v.Kind() {
	case cellvalue.KindEmpty:
		return f.SetCellValue(sheet, addr, nil)
	case cellvalue.KindBool:
		return f.SetCellBool(sheet, addr, v.Bool())
	case cellvalue.KindNumber:
		return f.SetCellValue(sheet, addr, v.Float())
	}
	return f.SetCellStr(sheet, addr, raw)
}

// fillCell replaces the background of one cell, keeping its other style.
func fillCell(f *excelize.File, sheet, addr, color string) error {
	id, err := f.GetCellStyle(sheet, addr)
	if err != nil {
		return err
	}
	st, err := f.GetStyle(id)
	if err != nil || st == nil {
		st = &excelize.Style{}
	}
	st.Fill = excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	nid, err := f.NewStyle(st)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, addr, addr, nid)
}
