package matcher

import (
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
	"github.com/jalad-shrimali/nrcell-audit/network"
)

// ParameterSpec is one row of the expectation spreadsheet.
type ParameterSpec struct {
	Name        string
	Default     cellvalue.Value
	TDD         cellvalue.Value // TDD MidBand
	TDDHighBand cellvalue.Value
	FDD         cellvalue.Value
	CoNode      cellvalue.Value
}

// Observation is one parameter value seen on one cell of the data export.
type Observation struct {
	Parameter string
	Value     cellvalue.Value
	CellName  string
	NeName    string
}

// Column names the spec column an expected value came from.
type Column string

const (
	ColumnNone        Column = ""
	ColumnCoNode      Column = "co-node"
	ColumnTDD         Column = "tdd"
	ColumnTDDHighBand Column = "tdd-highband"
	ColumnFDD         Column = "fdd"
	ColumnDefault     Column = "default"
	ColumnCellLocalID Column = "cell-local-id"
)

// Resolution is the expected value governing one comparison.
type Resolution struct {
	Value  cellvalue.Value
	Column Column
	// AllEmpty is set when no value was found because every spec column is
	// empty or NA. The expected state is then "empty" rather than missing.
	AllEmpty bool
}

func (r Resolution) Found() bool { return r.Column != ColumnNone }

// Text is the expected value as written in the spec.
func (r Resolution) Text() string { return strings.TrimSpace(r.Value.String()) }

// Resolve picks the expected value for ctx: co-node first on TDD+FDD nodes,
// then the cell-type column, then the default.
func (m *Matcher) Resolve(spec ParameterSpec, ctx network.Context) Resolution {
	usable := func(v cellvalue.Value) bool { return !m.norm.IsEmptyOrNA(v) }

	if ctx.IsCoNode() && usable(spec.CoNode) {
		return Resolution{Value: spec.CoNode, Column: ColumnCoNode}
	}
	switch ctx.CellType {
	case network.TDD:
		if usable(spec.TDD) {
			return Resolution{Value: spec.TDD, Column: ColumnTDD}
		}
		if usable(spec.TDDHighBand) {
			return Resolution{Value: spec.TDDHighBand, Column: ColumnTDDHighBand}
		}
	case network.FDD:
		if usable(spec.FDD) {
			return Resolution{Value: spec.FDD, Column: ColumnFDD}
		}
	}
	if usable(spec.Default) {
		return Resolution{Value: spec.Default, Column: ColumnDefault}
	}
	all := true
	for _, v := range []cellvalue.Value{spec.Default, spec.TDD, spec.TDDHighBand, spec.FDD, spec.CoNode} {
		if usable(v) {
			all = false
			break
		}
	}
	return Resolution{AllEmpty: all}
}
