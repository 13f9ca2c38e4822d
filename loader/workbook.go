// Package loader turns the input workbooks, the node-category database and
// LAB text exports into the typed records the matcher works on. Every failure
// here is setup-fatal and is returned before any row is validated.
package loader

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
)

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrSheetNotFound  = errors.New("sheet not found")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoRows         = errors.New("sheet has no header row")
)

var spaceRE = regexp.MustCompile(`\s+`)

func norm(s string) string { return spaceRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ") }

/* ──────────── path probing ──────────── */

var workbookExts = []string{".xlsx", ".xlsm", ".xls"}

// ResolveWorkbook finds the workbook a user meant: the path as given, or,
// when it has no extension, the path with .xlsx, .xlsm or .xls appended.
// Zip-based candidates must open as a zip archive.
func ResolveWorkbook(path string) (string, error) {
	path = strings.Trim(strings.TrimSpace(path), `"'`)
	candidates := []string{path}
	if filepath.Ext(path) == "" {
		for _, ext := range workbookExts {
			candidates = append(candidates, path+ext)
		}
	}
	for _, p := range candidates {
		st, err := os.Stat(p)
		if err != nil || st.IsDir() {
			continue
		}
		if isZipWorkbook(p) {
			if zr, err := zip.OpenReader(p); err == nil {
				zr.Close()
				return p, nil
			}
			continue
		}
		return p, nil
	}
	return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
}

func isZipWorkbook(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

/* ──────────── sheets ──────────── */

// Sheet is a worksheet read into memory with its header indexed.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

func openWorkbook(path string) (*excelize.File, error) {
	p, err := ResolveWorkbook(path)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(p)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", p, err)
	}
	return f, nil
}

// ReadSheet reads one sheet of the workbook at path; an empty sheet name
// means the first sheet.
func ReadSheet(path, sheet string) (*Sheet, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readSheet(f, sheet)
}

// FileSheet reads one sheet of an already open workbook, for callers that
// write back into it.
func FileSheet(f *excelize.File, sheet string) (*Sheet, error) { return readSheet(f, sheet) }

func readSheet(f *excelize.File, sheet string) (*Sheet, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheet, strings.Join(f.GetSheetList(), ", "))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRows, sheet)
	}
	t := &Sheet{Name: sheet, Header: rows[0], Rows: rows[1:], index: map[string]int{}}
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	return t, nil
}

// Col finds a column by exact trimmed header, then by normalized header.
func (t *Sheet) Col(name string) int {
	if i, ok := t.index[strings.TrimSpace(name)]; ok {
		return i
	}
	n := norm(name)
	for i, h := range t.Header {
		if norm(h) == n {
			return i
		}
	}
	return -1
}

// ColFunc returns the first column whose normalized header satisfies match.
func (t *Sheet) ColFunc(match func(h string) bool) int {
	for i, h := range t.Header {
		if match(norm(h)) {
			return i
		}
	}
	return -1
}

func (t *Sheet) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if t.Col(n) < 0 {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(quoteAll(missing), ", "))
	}
	return nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

// Cell returns row[i], or "" when the row is short or i is -1. GetRows drops
// trailing empty cells, so rows are often shorter than the header.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func value(row []string, i int) cellvalue.Value { return cellvalue.Parse(Cell(row, i)) }
