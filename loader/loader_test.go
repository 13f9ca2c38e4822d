package loader

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
	"github.com/jalad-shrimali/nrcell-audit/rules"
)

// writeBook saves a workbook with one sheet per entry; each sheet's first row
// is the header.
func writeBook(t *testing.T, name string, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for sheet, rows := range sheets {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		for i, row := range rows {
			addr, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(sheet, addr, &r))
		}
	}
	if _, ok := sheets["Sheet1"]; !ok {
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestResolveWorkbook(t *testing.T) {
	path := writeBook(t, "spec.xlsx", map[string][][]any{"S": {{"a"}}})

	got, err := ResolveWorkbook(strings.TrimSuffix(path, ".xlsx"))
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = ResolveWorkbook(`"` + path + `"`)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	bad := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))
	_, err = ResolveWorkbook(bad)
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = ResolveWorkbook(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func specHeader(withCoNode bool) []any {
	h := []any{ColParameter, ColDefault, ColTDDMidBand, ColFDD, ColTDDHighBand}
	if withCoNode {
		h = append(h, ColCoNode)
	}
	return h
}

func TestReadParameterSpec(t *testing.T) {
	rs := rules.Default()
	path := writeBook(t, "spec.xlsx", map[string][][]any{
		SheetNRCellCU: {
			specHeader(true),
			{"cellBarred", "NOT_BARRED", "", "", "", ""},
			{"t310", "14 = 14ms", "", "", "", "Profile=0 (TDD) / Profile=1 (FDD)"},
			{"nCI", "Read-Only"},
			{"t310", "dup"},
			{""},
		},
		SheetNRCellDU: {
			specHeader(false),
			{"ssbFrequency", 8.0, 640000},
		},
	})

	s, err := ReadParameterSpec(path, SheetNRCellCU, rs)
	require.NoError(t, err)
	assert.True(t, s.CoNode)
	require.Len(t, s.Params, 2)
	assert.Equal(t, "cellBarred", s.Params[0].Name)
	assert.Equal(t, "14 = 14ms", s.Params[1].Default.String())
	assert.Equal(t, "Profile=0 (TDD) / Profile=1 (FDD)", s.Params[1].CoNode.String())
	assert.Equal(t, []string{"nCI"}, s.ReadOnly)

	du, err := ReadParameterSpec(path, SheetNRCellDU, rs)
	require.NoError(t, err)
	assert.False(t, du.CoNode)
	require.Len(t, du.Params, 1)
	assert.Equal(t, cellvalue.KindNumber, du.Params[0].TDD.Kind())
	assert.True(t, du.Params[0].CoNode.IsEmpty())
}

func TestReadParameterSpec_Errors(t *testing.T) {
	rs := rules.Default()
	path := writeBook(t, "spec.xlsx", map[string][][]any{
		SheetNRCellCU: {specHeader(false)},
		"Other":       {{ColParameter, ColDefault}},
	})

	_, err := ReadParameterSpec(path, SheetNRCellCU, rs)
	assert.True(t, errors.Is(err, ErrMissingColumns), "co-node column is required on NRCellCU")

	_, err = ReadParameterSpec(path, "Other", rs)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.Contains(t, err.Error(), ColFDD)

	_, err = ReadParameterSpec(path, SheetNRCellDU, rs)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestReadDataExport(t *testing.T) {
	path := writeBook(t, "data.xlsx", map[string][][]any{
		"export": {
			{"NeName", "CellName", "cellBarred", "t310", "featureX"},
			{"X1", "Q1A", "NOT_BARRED", 14, true},
			{"X2", "Y1N", "BARRED"},
		},
	})

	d, err := ReadDataExport(path)
	require.NoError(t, err)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, "Q1A", d.Rows[0].CellName)
	assert.Equal(t, "X2", d.Rows[1].NeName)
	assert.True(t, d.Has("t310"))
	assert.False(t, d.Has("missing"))
	assert.Equal(t, "14", d.Value(d.Rows[0], "t310").String())
	assert.Equal(t, cellvalue.KindBool, d.Value(d.Rows[0], "featureX").Kind())
	assert.True(t, d.Value(d.Rows[1], "t310").IsEmpty())

	bad := writeBook(t, "bad.xlsx", map[string][][]any{"export": {{"NeName", "x"}}})
	_, err = ReadDataExport(bad)
	assert.True(t, errors.Is(err, ErrMissingColumns))
}

func TestReadNodeWorkbook(t *testing.T) {
	path := writeBook(t, "nodes.xlsx", map[string][][]any{
		"nodes": {
			{"nename", "TYPE", "Operateur", "Cell", "Gen", "Remarque", "Eligible Dual-Co"},
			{" X1 ", "BYT", "BYT", "TDD+FDD", "Gen3", "ZTD", "oui"},
		},
	})

	tbl, err := ReadNodeWorkbook(path)
	require.NoError(t, err)
	n := tbl.Lookup("X1")
	assert.True(t, n.Known)
	assert.True(t, n.IsCoLocated())
	assert.Equal(t, "ZTD", n.Remark)
	assert.Equal(t, "oui", n.DualCo)
}

func TestReadNodeDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE node_categories (
		ne_name TEXT PRIMARY KEY, type TEXT, operateur TEXT, cell TEXT,
		gen TEXT, remarque TEXT, dual_co TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO node_categories VALUES
		('X1', 'BYT', 'BYT', 'TDD', 'Gen2', NULL, NULL),
		('E2', 'ZTD', NULL, 'FDD', NULL, 'en ZTD', 'non')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	tbl, err := ReadNodeDB(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Gen2", tbl.Lookup("X1").Gen)
	assert.Equal(t, "", tbl.Lookup("X1").Remark)
	assert.Equal(t, "non", tbl.Lookup("E2").DualCo)

	_, err = ReadNodeDB(filepath.Join(t.TempDir(), "none.db"))
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestReadFeatures(t *testing.T) {
	spec := writeBook(t, "features.xlsx", map[string][][]any{
		SheetFeatures: {
			{ColFeatureName, ColFeatureState, ColBytelNodes, ColSupported, ColActivation},
			{"Carrier Aggregation", "CXC4011", "E, X", "yes", "A activer sur site X"},
			{"", "CXC0000"},
		},
	})
	features, err := ReadFeatures(spec)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "CXC4011", features[0].StateID)
	assert.Equal(t, "A activer sur site X", features[0].Rule)

	data := writeBook(t, "states.xlsx", map[string][][]any{
		"states": {
			{ColFeatureStateID, ColStateNeName, ColStateValue, ColServiceState},
			{"CXC4011", "X1", 1, "OPERABLE"},
		},
	})
	states, err := ReadFeatureStates(data)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "1", states[0].FeatureState.String())

	_, err = ReadFeatures(data)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

const labSample = `INFO: connected
=====================
NRCellDU=Q90265A
Total: 3 MOs
X90265 some node line
administrativeState                  1 (UNLOCKED)
bandListManual                       i[0] =
>>> bandListManual.arfcnValueNRDl = 640000
>>> bandListManual.bandNumber = 78

ssbFrequency                         640000
NRCellDU=Q90265B
cellBarred                           1 (NOT_BARRED)
`

func TestExtractLAB(t *testing.T) {
	params, err := ExtractLAB(strings.NewReader(labSample), "NRCellDU")
	require.NoError(t, err)
	assert.Equal(t, []LabParam{
		{Name: "administrativeState"},
		{Name: "bandListManual"},
		{Struct: "bandListManual", Name: "arfcnValueNRDl"},
		{Struct: "bandListManual", Name: "bandNumber"},
		{Name: "ssbFrequency"},
		{Name: "cellBarred"},
	}, params)

	var buf bytes.Buffer
	require.NoError(t, WriteLabCSV(&buf, params[:3]))
	assert.Equal(t, "Struct;Parameter\n;administrativeState\n;bandListManual\nbandListManual;arfcnValueNRDl\n", buf.String())

	_, err = ExtractLAB(strings.NewReader(labSample), "NRCellCU")
	assert.Error(t, err)
}

func TestNameListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteNames(f, []LabParam{{Name: "a"}, {Name: "b"}}))
	require.NoError(t, f.Close())

	names, err := ReadNameList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}
