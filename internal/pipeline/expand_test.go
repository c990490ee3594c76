package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
)

func TestExpandMultipliesCounts(t *testing.T) {
	records := []model.AssetRecord{
		{Type: "Toilet", Location: "Main School", Count: "6", SheetName: "Page_1"},
	}

	units := Expand(records)
	require.Len(t, units, 6)
	for _, u := range units {
		assert.Equal(t, model.ExpandedAssetUnit{Type: "Toilet", Location: "Main School", SheetName: "Page_1"}, u)
	}
}

func TestExpandDropsDeletedRows(t *testing.T) {
	records := []model.AssetRecord{
		{Type: "Toilet", Location: "Main School", Count: "6", Delete: "1"},
		{Type: "Tap", Location: "Kitchen", Count: "2", Delete: "0"},
		{Type: "Shower", Location: "Gym", Count: "1", Delete: "no"},
	}

	units := Expand(records)
	require.Len(t, units, 3)
	assert.Equal(t, "Tap", units[0].Type)
	assert.Equal(t, "Shower", units[2].Type)
}

func TestExpandSkipsUnusableRows(t *testing.T) {
	records := []model.AssetRecord{
		{Type: "", Location: "Kitchen", Count: "2"},
		{Type: "Tap", Location: "Kitchen", Count: ""},
		{Type: "Tap", Location: "Kitchen", Count: "abc"},
		{Type: "Tap", Location: "Kitchen", Count: "0"},
		{Type: "Tap", Location: "Kitchen", Count: "-3"},
	}

	assert.Empty(t, Expand(records))
}

func TestExpandDropsZeroCountExtraction(t *testing.T) {
	records := MaterializeRecords([]TableExtraction{{
		Table:   model.Table{Name: "Page_1"},
		Verdict: model.VerdictAgreed,
		Candidates: []model.AssetCandidate{
			{Type: "Tap", Location: "Kitchen", Count: 0},
		},
	}})
	require.Len(t, records, 1)
	assert.Equal(t, "0", records[0].Count)

	// A backend reporting zero of an asset must not yield a phantom unit.
	assert.Empty(t, Expand(records))
}

func TestExpandCoercesFloatCounts(t *testing.T) {
	records := []model.AssetRecord{
		{Type: "Tap", Location: "Kitchen", Count: "3.0"},
	}
	assert.Len(t, Expand(records), 3)
}

func TestExpandPreservesRowOrder(t *testing.T) {
	records := []model.AssetRecord{
		{Type: "A", Location: "L1", Count: "2"},
		{Type: "B", Location: "L2", Count: "1"},
	}

	units := Expand(records)
	require.Len(t, units, 3)
	assert.Equal(t, []string{"A", "A", "B"}, []string{units[0].Type, units[1].Type, units[2].Type})
}

func TestExpandIsIdempotentOverArtifact(t *testing.T) {
	dir := t.TempDir()
	reviewPath := filepath.Join(dir, "review.xlsx")
	records := []model.AssetRecord{
		{Type: "Toilet", Location: "Main School", Count: "2", SheetName: "Page_1"},
		{Type: "Tap", Location: "Kitchen", Count: "1", SheetName: "Page_1", Delete: "1"},
	}
	require.NoError(t, WriteReviewArtifacts(filepath.Join(dir, "data.xlsx"), reviewPath, records))

	run := func(outName string) []model.ExpandedAssetUnit {
		loaded, err := ReadReviewRecords(reviewPath)
		require.NoError(t, err)
		out := filepath.Join(dir, outName)
		require.NoError(t, WriteExpanded(out, Expand(loaded)))
		units, err := ReadExpanded(out)
		require.NoError(t, err)
		require.Len(t, units, 2)
		return units
	}

	assert.Equal(t, run("out1.xlsx"), run("out2.xlsx"))
}
