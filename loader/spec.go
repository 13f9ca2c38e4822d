package loader

import (
	"fmt"
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/matcher"
	"github.com/jalad-shrimali/nrcell-audit/rules"
)

// Column headers of the parameter specification sheets.
const (
	ColParameter   = "Parameter"
	ColDefault     = "Valeur par défaut RBS"
	ColTDDMidBand  = "Valeur Bytel TDD MidBand"
	ColFDD         = "Valeur Bytel FDD ESS 15MHz"
	ColTDDHighBand = "Valeur Bytel TDD HigBand"
	ColCoNode      = "Valeur Bytel TDD+FDD co-node\nAppliquer la valeur commune si valeur TDD et FDD sont même, sinon appliquer la valeur spécifiée dans cette colonne."
)

const (
	SheetNRCellCU = "NRCellCU"
	SheetNRCellDU = "NRCellDU"
)

// isCoNodeHeader matches the co-node column whatever follows its first line.
func isCoNodeHeader(h string) bool { return strings.HasPrefix(h, "valeur bytel tdd+fdd co-node") }

// SpecSheet is the parameter specification read from one sheet.
type SpecSheet struct {
	Sheet  string
	Params []matcher.ParameterSpec
	// ReadOnly lists parameters left out because their default is read-only.
	ReadOnly []string
	// CoNode is set when the sheet carries the co-node column.
	CoNode bool
}

// ReadParameterSpec reads the NRCellCU or NRCellDU specification sheet. The
// co-node column is required on NRCellCU and optional elsewhere.
func ReadParameterSpec(path, sheet string, rs *rules.Set) (*SpecSheet, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	if err := t.Require(ColParameter, ColDefault, ColTDDMidBand, ColFDD, ColTDDHighBand); err != nil {
		return nil, fmt.Errorf("parameter sheet %q: %w", sheet, err)
	}
	iCo := t.Col(ColCoNode)
	if iCo < 0 {
		iCo = t.ColFunc(isCoNodeHeader)
	}
	if iCo < 0 && sheet == SheetNRCellCU {
		return nil, fmt.Errorf("parameter sheet %q: %w: %q", sheet, ErrMissingColumns, "Valeur Bytel TDD+FDD co-node")
	}

	var (
		iName = t.Col(ColParameter)
		iDef  = t.Col(ColDefault)
		iTDD  = t.Col(ColTDDMidBand)
		iFDD  = t.Col(ColFDD)
		iHigh = t.Col(ColTDDHighBand)
	)
	out := &SpecSheet{Sheet: sheet, CoNode: iCo >= 0}
	seen := map[string]struct{}{}
	for _, row := range t.Rows {
		name := strings.TrimSpace(Cell(row, iName))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if rs.IsReadOnly(Cell(row, iDef)) {
			out.ReadOnly = append(out.ReadOnly, name)
			continue
		}
		p := matcher.ParameterSpec{
			Name:        name,
			Default:     value(row, iDef),
			TDD:         value(row, iTDD),
			TDDHighBand: value(row, iHigh),
			FDD:         value(row, iFDD),
			CoNode:      value(row, iCo),
		}
		out.Params = append(out.Params, p)
	}
	return out, nil
}
