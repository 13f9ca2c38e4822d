package report

import (
	"fmt"

	"github.com/jalad-shrimali/nrcell-audit/audit"
	"github.com/jalad-shrimali/nrcell-audit/licence"
	"github.com/jalad-shrimali/nrcell-audit/loader"
)

const (
	LicenceFile = "License_Validation_Report.xlsx"

	SheetLicence          = "License_Validation"
	SheetIncorrectEntries = "Incorrect_Entries"
)

var licenceHeaders = []string{
	loader.ColFeatureName, loader.ColFeatureState, loader.ColBytelNodes, loader.ColActivation,
	"NeName", "featureState", "serviceState", "Validation",
}

// featureCols is the number of leading feature columns, merged per feature.
const featureCols = 4

func statusFill(s licence.Status) string {
	switch s {
	case licence.Incorrect:
		return Red
	case licence.NotFound:
		return Yellow
	}
	return ""
}

func licenceRow(b *book, sheet string, r int, x licence.Row, withFeature bool) {
	vals := make([]any, featureCols)
	if withFeature {
		vals = []any{x.Feature.Name, x.Feature.StateID, x.Feature.BytelNodes, x.Feature.Rule}
	}
	vals = append(vals, x.NeName, x.FeatureState, x.ServiceState, string(x.Status))
	fills := map[int]string{}
	if f := statusFill(x.Status); f != "" {
		for i := featureCols; i < len(vals); i++ {
			fills[i] = f
		}
	}
	row(b, sheet, r, vals, fills)
}

// WriteLicence writes the licence validation workbook into dir and returns
// its path.
func WriteLicence(res *audit.LicenceResult, dir string) (string, error) {
	b := newBook()

	s := SheetLicence
	b.sheet(s)
	b.header(s, 1, licenceHeaders)
	r, start := 2, 2
	for i, x := range res.Rows {
		first := i == 0 || res.Rows[i-1].Feature != x.Feature
		if first && i > 0 {
			for c := 1; c <= featureCols; c++ {
				b.merge(s, c, start, r-1)
			}
			start = r
		}
		licenceRow(b, s, r, x, first)
		r++
	}
	for c := 1; c <= featureCols; c++ {
		b.merge(s, c, start, r-1)
	}
	l := r + 2
	b.bold(s, 1, l, "LEGEND:")
	b.legend(s, l+1, "RED highlighting", Red, "= Incorrect feature state (from NeName to Validation)")
	b.legend(s, l+2, "YELLOW highlighting", Yellow, "= Feature not found in data file (from NeName to Validation)")

	s = SheetIncorrectEntries
	b.sheet(s)
	if len(res.Incorrect) == 0 {
		b.put(s, 1, 1, "No incorrect entries found!")
	} else {
		b.header(s, 1, licenceHeaders)
		for i, x := range res.Incorrect {
			licenceRow(b, s, i+2, x, true)
		}
	}

	s = SheetSummary
	b.sheet(s)
	b.title(s, "License Validation Summary")
	found := len(res.Rows) - res.Counts[licence.NotFound]
	stats := []struct {
		label string
		n     any
	}{
		{"Run ID", res.RunID},
		{"Total Features in Parameter File", res.Features},
		{"Total Validation Entries", len(res.Rows)},
		{"Unique Sites Found", res.Sites},
		{"Features Found in Data File", found},
		{"Features Not Found in Data File", len(res.NotFound)},
		{"CORRECT Feature States", res.Counts[licence.Correct]},
		{"INCORRECT Feature States", res.Counts[licence.Incorrect]},
		{"UNKNOWN Feature States", res.Counts[licence.StatusUnknown]},
		{"NOT FOUND Features", res.Counts[licence.NotFound]},
	}
	for i, st := range stats {
		b.cell(s, 1, i+3, st.label, "")
		b.cell(s, 2, i+3, st.n, "")
	}
	r = len(stats) + 5
	b.bold(s, 1, r, "Features Not Found in Data File")
	b.fail(b.f.MergeCell(s, addr(1, r), addr(2, r)))
	if len(res.NotFound) == 0 {
		b.put(s, 1, r+1, "All features were found in data file")
	}
	for i, f := range res.NotFound {
		b.cell(s, 1, r+1+i, fmt.Sprintf("%s (FeatureState: %s)", f.Name, f.StateID), "")
	}

	return b.save(dir, LicenceFile)
}
