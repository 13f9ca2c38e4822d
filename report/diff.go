package report

import (
	"github.com/jalad-shrimali/nrcell-audit/specdiff"
)

const (
	DiffFile = "Parameter_Differences.xlsx"

	SheetDifferences = "Differences"
	SheetNotCompared = "Not_Compared"
	SheetLabMissing  = "LAB_Missing"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// WriteDiff writes a summary of a spec comparison into dir. lab lists LAB
// parameters absent from the old spec; a nil lab omits that sheet.
func WriteDiff(res *specdiff.Result, lab []string, dir string) (string, error) {
	b := newBook()

	s := SheetDifferences
	b.sheet(s)
	b.header(s, 1, []string{"Parameter", "Column", "Old Value", "New Value"})
	for i, d := range res.Differences {
		row(b, s, i+2, []any{d.Parameter, d.Column, d.Old, d.New}, map[int]string{3: specdiff.ChangedFill})
	}

	s = SheetNotCompared
	b.sheet(s)
	b.header(s, 1, []string{"Parameter", "In OLD", "In UPDATED", "New in UPDATED"})
	newOnly := map[string]bool{}
	for _, p := range res.NewOnly {
		newOnly[p] = true
	}
	for i, m := range res.Missing {
		row(b, s, i+2, []any{m.Parameter, yesNo(m.InOld), yesNo(m.InNew), yesNo(newOnly[m.Parameter])}, nil)
	}

	if lab != nil {
		s = SheetLabMissing
		b.sheet(s)
		b.header(s, 1, []string{"LAB parameter not in OLD"})
		for i, p := range lab {
			b.cell(s, 1, i+2, p, "")
		}
	}

	s = SheetSummary
	b.sheet(s)
	b.title(s, "Parameter Comparison Summary")
	for i, st := range []struct {
		label string
		n     int
	}{
		{"Parameters Checked", res.Checked},
		{"Differing Cells", len(res.Differences)},
		{"Parameters Missing in a File", len(res.Missing)},
		{"Parameters New in UPDATED", len(res.NewOnly)},
	} {
		b.cell(s, 1, i+3, st.label, "")
		b.cell(s, 2, i+3, st.n, "")
	}
	return b.save(dir, DiffFile)
}
