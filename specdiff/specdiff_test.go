package specdiff

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/nrcell-audit/loader"
)

func header() []any {
	h := []any{loader.ColParameter}
	for _, c := range CompareColumns {
		h = append(h, c)
	}
	return h
}

// specRow fills every compare column with base, then applies overrides.
func specRow(name, base string, overrides map[string]string) []any {
	r := []any{name}
	for _, c := range CompareColumns {
		v := base
		if o, ok := overrides[c]; ok {
			v = o
		}
		r = append(r, v)
	}
	return r
}

func saveBook(t *testing.T, name, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		addr, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, addr, &r))
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func fixtures(t *testing.T) (oldPath string, oldSheet, newSheet *loader.Sheet) {
	t.Helper()
	oldPath = saveBook(t, "old.xlsx", loader.SheetNRCellDU, [][]any{
		header(),
		specRow("ssbPeriodicity", "20", nil),
		specRow("dlMaxMuMimoLayers", "", map[string]string{loader.ColTDDMidBand: "4", "Commentaire": "old"}),
		specRow("legacyOnly", "1", nil),
	})
	newPath := saveBook(t, "new.xlsx", UpdatedSheet, [][]any{
		header(),
		specRow("ssbPeriodicity", "20.0", nil),
		specRow("dlMaxMuMimoLayers", "", map[string]string{loader.ColTDDMidBand: "8", "Commentaire": "new"}),
		specRow("brandNew", "1", nil),
	})
	var err error
	oldSheet, err = loader.ReadSheet(oldPath, loader.SheetNRCellDU)
	require.NoError(t, err)
	newSheet, err = loader.ReadSheet(newPath, UpdatedSheet)
	require.NoError(t, err)
	return oldPath, oldSheet, newSheet
}

func TestCompare(t *testing.T) {
	_, oldSheet, newSheet := fixtures(t)

	res, err := Compare(oldSheet, newSheet, []string{"ssbPeriodicity", "dlMaxMuMimoLayers", "legacyOnly", "BRANDNEW", "nowhere"})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Checked)
	assert.Equal(t, []Difference{
		{Parameter: "dlMaxMuMimoLayers", Column: loader.ColTDDMidBand, Old: "4", New: "8"},
		{Parameter: "dlMaxMuMimoLayers", Column: "Commentaire", Old: "old", New: "new"},
	}, res.Differences)
	assert.Equal(t, []Missing{
		{Parameter: "legacyOnly", InOld: true},
		{Parameter: "BRANDNEW"},
		{Parameter: "nowhere"},
	}, res.Missing)
	assert.Equal(t, []string{"BRANDNEW"}, res.NewOnly)
}

func TestCompare_MissingColumn(t *testing.T) {
	_, oldSheet, _ := fixtures(t)
	path := saveBook(t, "bad.xlsx", UpdatedSheet, [][]any{{loader.ColParameter, "Commentaire"}, {"x", "y"}})
	bad, err := loader.ReadSheet(path, UpdatedSheet)
	require.NoError(t, err)

	_, err = Compare(oldSheet, bad, []string{"x"})
	require.ErrorIs(t, err, loader.ErrMissingColumns)
	assert.Contains(t, err.Error(), "lock / unlock")
}

func TestApply(t *testing.T) {
	oldPath, oldSheet, newSheet := fixtures(t)
	res, err := Compare(oldSheet, newSheet, []string{"dlMaxMuMimoLayers"})
	require.NoError(t, err)

	n, err := Apply(oldPath, loader.SheetNRCellDU, res.Differences)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenFile(oldPath)
	require.NoError(t, err)
	defer f.Close()

	after, err := loader.ReadSheet(oldPath, loader.SheetNRCellDU)
	require.NoError(t, err)
	iTDD := after.Col(loader.ColTDDMidBand)
	assert.Equal(t, "8", loader.Cell(after.Rows[1], iTDD))
	assert.Equal(t, "new", loader.Cell(after.Rows[1], after.Col("Commentaire")))
	assert.Equal(t, "20", loader.Cell(after.Rows[0], iTDD), "unchanged rows keep their value")

	addr, _ := excelize.CoordinatesToCellName(iTDD+1, 3)
	id, err := f.GetCellStyle(loader.SheetNRCellDU, addr)
	require.NoError(t, err)
	st, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotEmpty(t, st.Fill.Color)
	assert.Contains(t, strings.ToUpper(st.Fill.Color[0]), ChangedFill)
}

func TestApply_HeaderCaseVariant(t *testing.T) {
	h := header()
	h[1] = "Lock /  Unlock"
	oldPath := saveBook(t, "old.xlsx", loader.SheetNRCellDU, [][]any{
		h,
		specRow("p", "1", nil),
	})
	newPath := saveBook(t, "new.xlsx", UpdatedSheet, [][]any{
		header(),
		specRow("p", "1", map[string]string{"lock / unlock": "LOCKED"}),
	})
	oldSheet, err := loader.ReadSheet(oldPath, loader.SheetNRCellDU)
	require.NoError(t, err)
	newSheet, err := loader.ReadSheet(newPath, UpdatedSheet)
	require.NoError(t, err)

	res, err := Compare(oldSheet, newSheet, []string{"p"})
	require.NoError(t, err)
	require.Len(t, res.Differences, 1)

	n, err := Apply(oldPath, loader.SheetNRCellDU, res.Differences)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after, err := loader.ReadSheet(oldPath, loader.SheetNRCellDU)
	require.NoError(t, err)
	assert.Equal(t, "LOCKED", loader.Cell(after.Rows[0], 1))
}

func TestApply_NoDifferences(t *testing.T) {
	n, err := Apply("does-not-matter.xlsx", loader.SheetNRCellDU, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLabMissing(t *testing.T) {
	_, oldSheet, _ := fixtures(t)
	got, err := LabMissing(oldSheet, []string{"SSBPERIODICITY", "", "labOnly", "legacyonly"})
	require.NoError(t, err)
	assert.Equal(t, []string{"labOnly"}, got)
}
