package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/nrcell-audit/loader"
	"github.com/jalad-shrimali/nrcell-audit/ui"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	old := ui.Out
	ui.Out = &buf
	t.Cleanup(func() { ui.Out = old })

	cmd := NewRootCmd()
	cmd.SetArgs(append(args, "--no-input"))
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func saveSheet(t *testing.T, dir, name, sheet string, rows [][]any) string {
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
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCheck_MissingInput(t *testing.T) {
	_, err := run(t, "check", "--sheet", "nrcelldu")
	require.ErrorIs(t, err, errNoInput)
	assert.Contains(t, err.Error(), "--spec")

	_, err = run(t, "check", "--sheet", "LTE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NRCellCU, NRCellDU")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	spec := saveSheet(t, dir, "spec.xlsx", loader.SheetNRCellDU, [][]any{
		{loader.ColParameter, loader.ColDefault, loader.ColTDDMidBand, loader.ColFDD, loader.ColTDDHighBand},
		{"ssbPeriodicity", "20", "", "", ""},
		{"gone", "1", "", "", ""},
	})
	data := saveSheet(t, dir, "data.xlsx", "export", [][]any{
		{loader.ColCellName, loader.ColNeName, "ssbPeriodicity"},
		{"Q90265A", "E90265", "20"},
	})
	out := filepath.Join(dir, "out")

	stdout, err := run(t, "check", "--sheet", "NRCellDU", "--spec", spec, "--data", data, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Parameters not found in data file (1)")
	assert.Contains(t, stdout, "gone")
	assert.FileExists(t, filepath.Join(out, "NRCellDU_Parameter_Validation.xlsx"))
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	lab := filepath.Join(dir, "lab.txt")
	require.NoError(t, os.WriteFile(lab, []byte("NRCellDU=1\nssbPeriodicity 20\n>>> bwp.subCarrierSpacing = 30\n"), 0o644))
	names := filepath.Join(dir, "names.txt")

	_, err := run(t, "extract", lab, "--section", "NRCellDU", "--out", dir, "--names", names)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "Extracted_params_NRCellDU.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Struct;Parameter\n;ssbPeriodicity\nssbPeriodicity;subCarrierSpacing\n", string(b))

	got, err := loader.ReadNameList(names)
	require.NoError(t, err)
	assert.Equal(t, []string{"ssbPeriodicity", "subCarrierSpacing"}, got)
}

func TestRulesFlag(t *testing.T) {
	_, err := run(t, "extract", "x.txt", "--section", "NRCellDU", "--rules", filepath.Join(t.TempDir(), "none.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read rules")
}
