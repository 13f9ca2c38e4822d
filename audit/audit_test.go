package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/nrcell-audit/loader"
	"github.com/jalad-shrimali/nrcell-audit/matcher"
	"github.com/jalad-shrimali/nrcell-audit/network"
)

func saveSheet(t *testing.T, name, sheet string, rows [][]any) string {
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

func inputs(t *testing.T) Config {
	t.Helper()
	spec := saveSheet(t, "spec.xlsx", loader.SheetNRCellDU, [][]any{
		{loader.ColParameter, loader.ColDefault, loader.ColTDDMidBand, loader.ColFDD, loader.ColTDDHighBand},
		{"cellLocalId", "", "", "", ""},
		{"ssbPeriodicity", "20", "20", "10", ""},
		{"administrativeState", "UNLOCKED", "", "", ""},
		{"retiredParam", "1", "", "", ""},
		{"nrPci", "read-only", "", "", ""},
		{"featureOn", "true", "", "", ""},
	})
	data := saveSheet(t, "data.xlsx", "export", [][]any{
		{loader.ColCellName, loader.ColNeName, "cellLocalId", "ssbPeriodicity", "administrativeState", "featureOn"},
		{"Q90265A", "E90265", "51", "20", "LOCKED", "VRAI"},
		{"Y90265B", "E90265", "99", "", "UNLOCKED", "FAUX"},
	})
	return Config{SpecPath: spec, Sheet: loader.SheetNRCellDU, DataPath: data}
}

func TestRun(t *testing.T) {
	res, err := Run(context.Background(), inputs(t))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, loader.SheetNRCellDU, res.Sheet)
	assert.False(t, res.CoNode)
	assert.Equal(t, []string{"retiredParam"}, res.MissingParams)
	assert.Equal(t, []string{"nrPci"}, res.ReadOnly)
	assert.Equal(t, 8, res.Total)

	var names []string
	for _, g := range res.Groups {
		names = append(names, g.Spec.Name)
		require.Len(t, g.Rows, 2)
		assert.Equal(t, "Q90265A", g.Rows[0].CellName, "rows keep export order")
	}
	assert.Equal(t, []string{"cellLocalId", "ssbPeriodicity", "administrativeState", "featureOn"}, names)

	outcomes := func(g Group) []matcher.Outcome {
		return []matcher.Outcome{g.Rows[0].Result.Outcome, g.Rows[1].Result.Outcome}
	}
	assert.Equal(t, []matcher.Outcome{matcher.Correct, matcher.Incorrect}, outcomes(res.Groups[0]))
	assert.Equal(t, "12", res.Groups[0].Rows[1].Result.Expected)
	assert.Equal(t, []matcher.Outcome{matcher.Correct, matcher.NoData}, outcomes(res.Groups[1]))
	assert.Equal(t, []matcher.Outcome{matcher.Skipped, matcher.Skipped}, outcomes(res.Groups[2]))
	assert.Equal(t, []matcher.Outcome{matcher.Correct, matcher.Incorrect}, outcomes(res.Groups[3]))

	fo := res.Groups[3].Rows
	assert.Equal(t, "true", fo[0].Value)
	assert.Equal(t, "false", fo[1].Value)
	assert.Equal(t, network.TDD, fo[0].CellType)
	assert.Equal(t, network.FDD, fo[1].CellType)
	assert.Equal(t, "BYT", fo[0].NodeType)

	assert.Equal(t, map[matcher.Outcome]int{
		matcher.Correct:   3,
		matcher.Incorrect: 2,
		matcher.NoData:    1,
		matcher.Skipped:   2,
	}, res.Counts)

	wrong := res.Filter(matcher.Incorrect)
	require.Len(t, wrong, 2)
	assert.Equal(t, "cellLocalId", wrong[0].Parameter)
	assert.Equal(t, "featureOn", wrong[1].Parameter)
}

func TestRun_SetupErrors(t *testing.T) {
	cfg := inputs(t)
	cfg.Sheet = loader.SheetNRCellCU
	_, err := Run(context.Background(), cfg)
	require.ErrorIs(t, err, loader.ErrSheetNotFound)

	cfg = inputs(t)
	cfg.DataPath = filepath.Join(t.TempDir(), "nope.xlsx")
	_, err = Run(context.Background(), cfg)
	require.ErrorIs(t, err, loader.ErrFileNotFound)

	cfg = inputs(t)
	cfg.NodesDB = filepath.Join(t.TempDir(), "nodes.db")
	_, err = Run(context.Background(), cfg)
	require.ErrorIs(t, err, loader.ErrFileNotFound)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, inputs(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadNodes_Empty(t *testing.T) {
	tbl, err := LoadNodes("", " ")
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
}

func TestRunLicence(t *testing.T) {
	spec := saveSheet(t, "features.xlsx", loader.SheetFeatures, [][]any{
		{loader.ColFeatureName, loader.ColFeatureState, loader.ColBytelNodes, loader.ColSupported, loader.ColActivation},
		{"Carrier Aggregation", "CXC4012345", "E, X", "yes", "A activer"},
		{"Ghost Feature", "CXC4099999", "G", "", "A activer"},
	})
	data := saveSheet(t, "states.xlsx", "export", [][]any{
		{loader.ColFeatureStateID, loader.ColStateNeName, loader.ColStateValue, loader.ColServiceState},
		{"CXC4012345", "E90265", "ACTIVATED", "OPERABLE"},
		{"CXC4012345", "X90240", "DEACTIVATED", "INOPERABLE"},
	})

	res, err := RunLicence(context.Background(), LicenceConfig{SpecPath: spec, DataPath: data})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, 2, res.Sites)
	require.Len(t, res.NotFound, 1)
	assert.Equal(t, "Ghost Feature", res.NotFound[0].Name)
}
