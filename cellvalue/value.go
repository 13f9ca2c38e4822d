// Package cellvalue models a single spreadsheet cell as a closed sum type and
// canonicalizes the many spellings a cell can take in the parameter workbooks
// (French and English booleans, Excel float coercion, N/A markers).
package cellvalue

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBool
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// Value is one of Empty | Bool | Number | Text. The zero Value is Empty.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string // raw text for Text, original rendering for Number (may be "")
}

func Empty() Value           { return Value{} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Number(f float64) Value { return Value{kind: KindNumber, n: f} }
func Text(s string) Value    { return Value{kind: KindText, s: s} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsEmpty() bool  { return v.kind == KindEmpty }
func (v Value) Bool() bool     { return v.b }
func (v Value) Float() float64 { return v.n }

// String renders the value the way it appeared in the sheet.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		if v.s != "" {
			return v.s
		}
		if math.IsNaN(v.n) {
			return "nan"
		}
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindText:
		return v.s
	default:
		return ""
	}
}

/* ──────────── parsing spreadsheet text ──────────── */

var decimalRE = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Parse turns the formatted text of a workbook cell into a typed Value.
// Excel renders native booleans as TRUE/FALSE; those become Bool. Anything
// that reads as a plain decimal becomes Number, keeping its original text.
func Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return Empty()
	case s == "TRUE":
		return Bool(true)
	case s == "FALSE":
		return Bool(false)
	}
	if decimalRE.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Value{kind: KindNumber, n: f, s: s}
		}
	}
	return Text(s)
}

// ParseNumber reads s as a finite float.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalRE.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsDecimal reports whether s is an optionally signed decimal literal.
func IsDecimal(s string) bool { return decimalRE.MatchString(strings.TrimSpace(s)) }
