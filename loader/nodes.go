package loader

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jalad-shrimali/nrcell-audit/network"
)

// ReadNodeWorkbook reads the node-category table from the first sheet of a
// workbook. Headers match case-insensitively; the dual-co column is any
// header mentioning both "dual" and "co".
func ReadNodeWorkbook(path string) (*network.Table, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readSheet(f, "")
	if err != nil {
		return nil, err
	}
	if err := t.Require("NeName"); err != nil {
		return nil, fmt.Errorf("node file: %w", err)
	}
	var (
		iNe   = t.Col("NeName")
		iType = t.Col("Type")
		iOp   = t.Col("Operateur")
		iCell = t.Col("Cell")
		iGen  = t.Col("Gen")
		iRem  = t.Col("Remarque")
		iDual = t.ColFunc(func(h string) bool { return strings.Contains(h, "dual") && strings.Contains(h, "co") })
	)
	rows := make([]network.NodeCategory, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, network.NodeCategory{
			NeName:   strings.TrimSpace(Cell(r, iNe)),
			Type:     strings.TrimSpace(Cell(r, iType)),
			Operator: strings.TrimSpace(Cell(r, iOp)),
			Cell:     strings.TrimSpace(Cell(r, iCell)),
			Gen:      strings.TrimSpace(Cell(r, iGen)),
			Remark:   strings.TrimSpace(Cell(r, iRem)),
			DualCo:   strings.TrimSpace(Cell(r, iDual)),
		})
	}
	return network.NewTable(rows), nil
}

/* ──────────── sqlite ──────────── */

const nodeQuery = `
        SELECT ne_name,
               COALESCE(type, ''), COALESCE(operateur, ''), COALESCE(cell, ''),
               COALESCE(gen, ''), COALESCE(remarque, ''), COALESCE(dual_co, '')
          FROM node_categories`

// ReadNodeDB loads the node-category table from a sqlite file opened
// read-only.
func ReadNodeDB(dbPath string) (*network.Table, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, dbPath)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return nil, fmt.Errorf("cannot open node DB at %s: %w", dbPath, err)
	}
	defer db.Close()

	rs, err := db.Query(nodeQuery)
	if err != nil {
		return nil, fmt.Errorf("query node DB %s: %w", dbPath, err)
	}
	defer rs.Close()

	var rows []network.NodeCategory
	for rs.Next() {
		var n network.NodeCategory
		if err := rs.Scan(&n.NeName, &n.Type, &n.Operator, &n.Cell, &n.Gen, &n.Remark, &n.DualCo); err != nil {
			return nil, fmt.Errorf("scan node DB %s: %w", dbPath, err)
		}
		rows = append(rows, n)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("read node DB %s: %w", dbPath, err)
	}
	return network.NewTable(rows), nil
}
