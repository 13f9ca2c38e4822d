package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Compiles(t *testing.T) {
	s := Default()

	assert.True(t, s.IsSkipped("administrativeState"))
	assert.True(t, s.IsSkipped("nRTAC"))
	assert.False(t, s.IsSkipped("cellBarred"))
	assert.True(t, s.IsReadOnly(" Read-Only "))
	assert.True(t, s.IsCellLocalID("cellLocalId"))

	v, ok := s.CellLocalID("Q90265A")
	require.True(t, ok)
	assert.Equal(t, "51", v)

	_, ok = s.CellLocalID("Z90265A")
	assert.False(t, ok)
}

func TestNodeCategoryByName(t *testing.T) {
	s := Default()

	assert.Equal(t, "TDD+FDD", s.NodeCategoryByName("x90240_site"))
	assert.Equal(t, "ZTD", s.NodeCategoryByName("X90295"))
	assert.Equal(t, "BYT", s.NodeCategoryByName("E12345"))
	assert.Equal(t, "", s.NodeCategoryByName("  "))
}

func TestStripKeyPrefix_LongestWins(t *testing.T) {
	s := Default()

	assert.Equal(t, "energyefficiency", s.StripKeyPrefix("vsDataEnergyEfficiency"))
	assert.Equal(t, "name", s.StripKeyPrefix("parameterName"))
	assert.Equal(t, "barred", s.StripKeyPrefix("CellBarred"))
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	data := `
[parameters]
skip_substrings = ["foo"]
excluded = ["BarParam"]

[cell_local_id]
QA = "7"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.IsSkipped("xFOOx"))
	assert.True(t, s.IsSkipped("barparam"))
	assert.False(t, s.IsSkipped("administrativeState"))

	v, ok := s.CellLocalID("q1a")
	require.True(t, ok)
	assert.Equal(t, "7", v)
}

func TestCompile_RejectsBadCellLocalID(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	cfg.CellLocalID = map[string]string{"QAB": "1"}
	_, err = Compile(cfg)
	assert.Error(t, err)

	cfg.CellLocalID = map[string]string{"QA": "x"}
	_, err = Compile(cfg)
	assert.Error(t, err)
}
