package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/workbook"
)

func TestReconcileFuzzyMatch(t *testing.T) {
	golden := []model.GoldenRecord{
		{Type: "toilet", Location: "main school - kitchen"},
	}
	produced := []model.ExpandedAssetUnit{
		{Type: "toilet, wall mounted", Location: "kitchen", SheetName: "Page_1"},
	}

	result := Reconcile(golden, produced)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.Extra)
	assert.InDelta(t, 100.0, result.MatchPercentage, 0.001)
}

func TestReconcileNoMatch(t *testing.T) {
	golden := []model.GoldenRecord{
		{Type: "shower", Location: "gym"},
	}
	produced := []model.ExpandedAssetUnit{
		{Type: "toilet", Location: "office"},
	}

	result := Reconcile(golden, produced)
	require.Len(t, result.Missing, 1)
	require.Len(t, result.Extra, 1)
	assert.Equal(t, "shower", result.Missing[0].Type)
	assert.Equal(t, "toilet", result.Extra[0].Type)
	assert.InDelta(t, 0.0, result.MatchPercentage, 0.001)
}

func TestReconcileEmptyGolden(t *testing.T) {
	result := Reconcile(nil, []model.ExpandedAssetUnit{{Type: "tap", Location: "kitchen"}})
	assert.InDelta(t, 0.0, result.MatchPercentage, 0.001)
	assert.Len(t, result.Extra, 1)
}

func TestReconcileSeparatorCleaning(t *testing.T) {
	golden := []model.GoldenRecord{
		{Type: "tap", Location: "block a/first floor"},
	}
	produced := []model.ExpandedAssetUnit{
		{Type: "tap", Location: "Block A - First Floor"},
	}

	result := Reconcile(golden, produced)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.Extra)
}

func TestReconcileGreedyFirstFit(t *testing.T) {
	golden := []model.GoldenRecord{
		{Type: "tap", Location: "kitchen"},
		{Type: "tap", Location: "kitchen"},
	}
	produced := []model.ExpandedAssetUnit{
		{Type: "tap", Location: "kitchen", SheetName: "Page_1"},
	}

	result := Reconcile(golden, produced)
	// One golden record consumes the only produced row; the second stays missing.
	require.Len(t, result.Missing, 1)
	assert.Empty(t, result.Extra)
	assert.InDelta(t, 50.0, result.MatchPercentage, 0.001)
}

func TestReconcileDuplicateProducedConsumedOnce(t *testing.T) {
	golden := []model.GoldenRecord{
		{Type: "tap", Location: "kitchen"},
	}
	produced := []model.ExpandedAssetUnit{
		{Type: "tap", Location: "kitchen", SheetName: "Page_1"},
		{Type: "tap", Location: "kitchen", SheetName: "Page_2"},
	}

	result := Reconcile(golden, produced)
	assert.Empty(t, result.Missing)
	require.Len(t, result.Extra, 1)
	assert.Equal(t, "Page_2", result.Extra[0].SheetName)
}

func TestReadGolden(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golden.xlsx")
	require.NoError(t, workbook.Write(path, []workbook.Sheet{{
		Name: "Sheet1",
		Rows: [][]string{
			{"Asset Type", "*Room", "Notes"},
			{" Toilet ", "Main School", "ignored"},
			{"", "", ""},
			{"Shower", "Gym", ""},
		},
	}}))

	golden, err := ReadGolden(path)
	require.NoError(t, err)
	require.Len(t, golden, 2)
	assert.Equal(t, model.GoldenRecord{Type: "toilet", Location: "main school"}, golden[0])
	assert.Equal(t, model.GoldenRecord{Type: "shower", Location: "gym"}, golden[1])
}

func TestReadGoldenMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golden.xlsx")
	require.NoError(t, workbook.Write(path, []workbook.Sheet{{
		Name: "Sheet1",
		Rows: [][]string{{"Asset Type", "Location"}},
	}}))

	_, err := ReadGolden(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "*Room")
}

func TestWriteReconciliationSentinelRow(t *testing.T) {
	dir := t.TempDir()
	missingPath := filepath.Join(dir, "missing.xlsx")
	extraPath := filepath.Join(dir, "extra.xlsx")

	result := model.ReconciliationResult{
		Missing:         []model.GoldenRecord{{Type: "shower", Location: "gym"}},
		MatchPercentage: 50.0,
	}
	require.NoError(t, WriteReconciliation(missingPath, extraPath, result))

	sheets, err := workbook.ReadSheets(missingPath)
	require.NoError(t, err)
	rows := sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Match Percentage: 50.00%", rows[2][0])

	sheets, err = workbook.ReadSheets(extraPath)
	require.NoError(t, err)
	rows = sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Match Percentage: 50.00%", rows[1][0])
}
