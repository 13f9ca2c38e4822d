// Package network derives the radio context of an observation: duplex mode and
// operator from the cell-name conventions, and the node category from the
// node-category table.
package network

import (
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/rules"
)

type CellType string

const (
	TDD         CellType = "TDD"
	FDD         CellType = "FDD"
	UnknownCell CellType = "unknown"
)

type Operator string

const (
	BYT             Operator = "BYT"
	SFR             Operator = "SFR"
	UnknownOperator Operator = "unknown"
)

// CoNode is the category of a node hosting both TDD and FDD cells.
const CoNode = "TDD+FDD"

// CellTypeOf reads the duplex mode from the leading character: Y… FDD, Q… TDD.
func CellTypeOf(rs *rules.Set, cellName string) CellType {
	c := strings.TrimSpace(cellName)
	if c == "" {
		return UnknownCell
	}
	switch {
	case rs.IsFDDPrefix(c[0]):
		return FDD
	case rs.IsTDDPrefix(c[0]):
		return TDD
	}
	return UnknownCell
}

// OperatorOf reads the operator from the trailing character: A–F BYT, N–S SFR.
func OperatorOf(rs *rules.Set, cellName string) Operator {
	c := strings.TrimSpace(cellName)
	if c == "" {
		return UnknownOperator
	}
	last := c[len(c)-1]
	switch {
	case rs.IsBYTSuffix(last):
		return BYT
	case rs.IsSFRSuffix(last):
		return SFR
	}
	return UnknownOperator
}

/* ──────────── node categories ──────────── */

// NodeCategory is one row of the node-category table.
type NodeCategory struct {
	NeName   string
	Type     string
	Operator string
	Cell     string
	Gen      string
	Remark   string
	DualCo   string
	Known    bool
}

// IsCoLocated reports whether the Cell column describes a TDD+FDD node.
func (n NodeCategory) IsCoLocated() bool {
	c := strings.ToUpper(n.Cell)
	return strings.Contains(c, "TDD") && strings.Contains(c, "FDD")
}

// Table maps trimmed node names to categories. It is read-only after NewTable.
type Table struct {
	rows map[string]NodeCategory
}

func NewTable(rows []NodeCategory) *Table {
	t := &Table{rows: make(map[string]NodeCategory, len(rows))}
	for _, r := range rows {
		name := strings.TrimSpace(r.NeName)
		if name == "" {
			continue
		}
		r.NeName = name
		r.Known = true
		t.rows[name] = r
	}
	return t
}

// Lookup returns the category of neName, or an unknown category with every
// field empty. A nil table behaves as empty.
func (t *Table) Lookup(neName string) NodeCategory {
	if t != nil {
		if r, ok := t.rows[strings.TrimSpace(neName)]; ok {
			return r
		}
	}
	return NodeCategory{}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

/* ──────────── per-observation context ──────────── */

// Context is everything the resolver needs to know about where a value lives.
type Context struct {
	CellName string
	NeName   string
	CellType CellType
	Operator Operator
	Node     NodeCategory
	// Category is the node type refined to CoNode for co-located nodes, or
	// the name-based override when the table has no row for the node.
	Category string
}

func NewContext(rs *rules.Set, t *Table, cellName, neName string) Context {
	node := t.Lookup(neName)
	ctx := Context{
		CellName: strings.TrimSpace(cellName),
		NeName:   strings.TrimSpace(neName),
		CellType: CellTypeOf(rs, cellName),
		Operator: OperatorOf(rs, cellName),
		Node:     node,
	}
	switch {
	case node.Known && node.IsCoLocated():
		ctx.Category = CoNode
	case node.Known && strings.TrimSpace(node.Type) != "":
		ctx.Category = strings.TrimSpace(node.Type)
	default:
		ctx.Category = rs.NodeCategoryByName(neName)
	}
	return ctx
}

func (c Context) IsCoNode() bool { return strings.EqualFold(c.Category, CoNode) }

// HasTag reports whether the node's remark, type or category mentions tag.
func (c Context) HasTag(tag string) bool {
	t := strings.ToUpper(strings.TrimSpace(tag))
	if t == "" {
		return false
	}
	for _, f := range []string{c.Node.Remark, c.Node.Type, c.Category} {
		if strings.Contains(strings.ToUpper(f), t) {
			return true
		}
	}
	return false
}

// NodeLetter is the leading letter of the node name (E, X or G on this network).
func (c Context) NodeLetter() string { return NodeLetter(c.NeName) }

func NodeLetter(neName string) string {
	n := strings.ToUpper(strings.TrimSpace(neName))
	if n == "" {
		return ""
	}
	switch n[0] {
	case 'E', 'X', 'G':
		return n[:1]
	}
	return ""
}
