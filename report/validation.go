package report

import (
	"github.com/jalad-shrimali/nrcell-audit/audit"
	"github.com/jalad-shrimali/nrcell-audit/loader"
	"github.com/jalad-shrimali/nrcell-audit/matcher"
)

const (
	SheetValidation = "Parameter_Validation"
	SheetWrong      = "Wrong_Parameters"
	SheetMissing    = "Missing_Data"
	SheetSummary    = "Summary"

	coNodeHeader = "Valeur Bytel TDD+FDD co-node"
)

// ValidationFile is the report name for a spec sheet.
func ValidationFile(sheet string) string { return sheet + "_Parameter_Validation.xlsx" }

// OutcomeFill is the background of the Value and CellName cells of a row.
func OutcomeFill(o matcher.Outcome) string {
	switch {
	case o.IsCorrect():
		return Green
	case o == matcher.Incorrect:
		return Yellow
	case o == matcher.NoData:
		return Violet
	case o == matcher.Skipped:
		return Pink
	}
	return ""
}

func specHeaders(coNode bool) []string {
	h := []string{loader.ColParameter, loader.ColDefault, loader.ColTDDMidBand, loader.ColFDD, loader.ColTDDHighBand}
	if coNode {
		h = append(h, coNodeHeader)
	}
	return h
}

func specValues(p matcher.ParameterSpec, coNode bool) []any {
	v := []any{p.Name, p.Default.String(), p.TDD.String(), p.FDD.String(), p.TDDHighBand.String()}
	if coNode {
		v = append(v, p.CoNode.String())
	}
	return v
}

func row(b *book, sheet string, r int, values []any, fills map[int]string) {
	for i, v := range values {
		b.cell(sheet, i+1, r, v, fills[i])
	}
}

// WriteValidation writes the parameter validation workbook into dir and
// returns its path.
func WriteValidation(res *audit.Result, dir string) (string, error) {
	b := newBook()
	writeMain(b, res)
	writeWrong(b, res)
	writeMissing(b, res)
	writeSummary(b, res)
	return b.save(dir, ValidationFile(res.Sheet))
}

func writeMain(b *book, res *audit.Result) {
	const s = SheetValidation
	b.sheet(s)
	spec := specHeaders(res.CoNode)
	b.header(s, 1, append(append([]string{}, spec...),
		"Value", "CellName", "NeName", "CellType", "NodeType", "Validation", "Expected"))

	iValue := len(spec)
	r := 2
	for _, g := range res.Groups {
		start := r
		for i, x := range g.Rows {
			vals := make([]any, len(spec))
			if i == 0 {
				vals = specValues(g.Spec, res.CoNode)
			}
			vals = append(vals, x.Value, x.CellName, x.NeName, string(x.CellType), x.NodeType,
				string(x.Result.Outcome), x.Result.Expected)
			fill := OutcomeFill(x.Result.Outcome)
			row(b, s, r, vals, map[int]string{iValue: fill, iValue + 1: fill})
			r++
		}
		for c := 1; c <= len(spec); c++ {
			b.merge(s, c, start, r-1)
		}
	}

	l := r + 2
	b.bold(s, 1, l, "LEGEND:")
	b.legend(s, l+1, "Green", Green, "= Correct value")
	b.legend(s, l+2, "Yellow", Yellow, "= Incorrect value")
	b.legend(s, l+3, "Violet", Violet, "= No data")
	b.legend(s, l+4, "Pink", Pink, "= Skipped (administrativeState and nRTAC)")

	b.bold(s, 1, l+6, "VALIDATION RULES:")
	for i, line := range []string{
		"'14 = 14ms' accepts '14' (value before the explanation)",
		"'-10 = -10 dBm' accepts '-10'",
		"'20 = 20slots en ZTD' applies to ZTD nodes only",
		"'Profile=0' for TDD cells, 'Profile=1' for FDD cells on TDD+FDD nodes",
		"cellLocalId is checked against the cell name suffix table",
		"N/A expected values count as empty",
		"French VRAI/FAUX shown as true/false",
	} {
		b.put(s, 1, l+7+i, "• "+line)
	}
}

func writeWrong(b *book, res *audit.Result) {
	wrong := res.Filter(matcher.Incorrect)
	if len(wrong) == 0 {
		return
	}
	const s = SheetWrong
	b.sheet(s)
	spec := specHeaders(res.CoNode)
	b.header(s, 1, append(append([]string{}, spec...),
		"Actual_Value", "Expected_Value", "CellName", "NeName", "CellType", "NodeType"))

	specOf := specIndex(res)
	iActual := len(spec)
	for i, w := range wrong {
		vals := append(specValues(specOf[w.Parameter], res.CoNode),
			w.Value, w.Result.Expected, w.CellName, w.NeName, string(w.CellType), w.NodeType)
		row(b, s, i+2, vals, map[int]string{iActual: Yellow, iActual + 1: Yellow})
	}
}

func writeMissing(b *book, res *audit.Result) {
	missing := res.Filter(matcher.NoData)
	if len(missing) == 0 {
		return
	}
	const s = SheetMissing
	b.sheet(s)
	headers := []string{"Parameter", "CellName", "NeName", "CellType", "NodeType",
		loader.ColDefault, loader.ColTDDMidBand, loader.ColFDD, loader.ColTDDHighBand}
	b.header(s, 1, headers)

	specOf := specIndex(res)
	violet := map[int]string{}
	for i := range headers {
		violet[i] = Violet
	}
	for i, m := range missing {
		p := specOf[m.Parameter]
		row(b, s, i+2, []any{m.Parameter, m.CellName, m.NeName, string(m.CellType), m.NodeType,
			p.Default.String(), p.TDD.String(), p.FDD.String(), p.TDDHighBand.String()}, violet)
	}
}

func writeSummary(b *book, res *audit.Result) {
	const s = SheetSummary
	b.sheet(s)
	b.title(s, "Validation Summary")
	b.put(s, 1, 2, "Run ID")
	b.put(s, 2, 2, res.RunID)

	b.header(s, 3, []string{"Category", "Count"})
	r := 4
	for _, o := range matcher.Outcomes() {
		b.cell(s, 1, r, string(o), "")
		b.cell(s, 2, r, res.Counts[o], "")
		r++
	}
	b.cell(s, 1, r, "Total", "")
	b.cell(s, 2, r, res.Total, "")

	r += 2
	b.bold(s, 1, r, "Parameters Not Found in Data File")
	b.fail(b.f.MergeCell(s, addr(1, r), addr(2, r)))
	if len(res.MissingParams) == 0 {
		b.put(s, 1, r+1, "All parameters were found in data file")
	}
	for i, p := range res.MissingParams {
		b.cell(s, 1, r+1+i, p, "")
	}

	if len(res.ReadOnly) > 0 {
		r += len(res.MissingParams) + 3
		b.bold(s, 1, r, "Read-only Parameters Not Validated")
		b.fail(b.f.MergeCell(s, addr(1, r), addr(2, r)))
		for i, p := range res.ReadOnly {
			b.cell(s, 1, r+1+i, p, "")
		}
	}
}

func specIndex(res *audit.Result) map[string]matcher.ParameterSpec {
	m := make(map[string]matcher.ParameterSpec, len(res.Groups))
	for _, g := range res.Groups {
		m[g.Spec.Name] = g.Spec
	}
	return m
}
