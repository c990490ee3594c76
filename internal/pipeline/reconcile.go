package pipeline

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/workbook"
)

// Golden workbook column headers, as delivered by the surveying party.
const (
	goldenTypeColumn     = "Asset Type"
	goldenLocationColumn = "*Room"
)

// ReadGolden loads the externally supplied reference list. Values are
// normalized (trimmed, lowercased) on read. Missing columns are fatal for the
// file; the golden workbook is not under our control and silently guessing
// columns would corrupt the comparison.
func ReadGolden(path string) ([]model.GoldenRecord, error) {
	sheets, err := workbook.ReadSheets(path)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 || len(sheets[0].Rows) == 0 {
		return nil, eris.Errorf("pipeline: golden workbook %s has no rows", path)
	}

	header := sheets[0].Rows[0]
	typeIdx, locIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case goldenTypeColumn:
			typeIdx = i
		case goldenLocationColumn:
			locIdx = i
		}
	}
	if typeIdx < 0 {
		return nil, eris.Errorf("pipeline: golden workbook %s is missing column %q", path, goldenTypeColumn)
	}
	if locIdx < 0 {
		return nil, eris.Errorf("pipeline: golden workbook %s is missing column %q", path, goldenLocationColumn)
	}

	var golden []model.GoldenRecord
	for _, row := range sheets[0].Rows[1:] {
		if workbook.IsBlankRow(row) {
			continue
		}
		rec := model.GoldenRecord{}
		if typeIdx < len(row) {
			rec.Type = normalizeField(row[typeIdx])
		}
		if locIdx < len(row) {
			rec.Location = normalizeField(row[locIdx])
		}
		golden = append(golden, rec)
	}
	return golden, nil
}

// Reconcile fuzzily matches the produced units against the golden list.
// Matching is greedy first-fit in original order on both sides; the tie-break
// is part of the contract since it decides which records land in missing
// versus extra on ambiguous inputs.
func Reconcile(golden []model.GoldenRecord, produced []model.ExpandedAssetUnit) model.ReconciliationResult {
	normalized := make([]model.ExpandedAssetUnit, len(produced))
	for i, p := range produced {
		normalized[i] = model.ExpandedAssetUnit{
			Type:      normalizeField(p.Type),
			Location:  normalizeField(p.Location),
			SheetName: p.SheetName,
		}
	}

	matchedProduced := make([]bool, len(normalized))
	var missing []model.GoldenRecord

	for _, g := range golden {
		found := false
		for i, p := range normalized {
			if matchedProduced[i] {
				continue
			}
			if typeMatch(g.Type, p.Type) && locationMatch(g.Location, p.Location) {
				matchedProduced[i] = true
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, g)
		}
	}

	var extra []model.ExpandedAssetUnit
	for i, p := range normalized {
		if !matchedProduced[i] {
			extra = append(extra, p)
		}
	}

	pct := 0.0
	if len(golden) > 0 {
		pct = float64(len(golden)-len(missing)) / float64(len(golden)) * 100
	}

	return model.ReconciliationResult{
		Missing:         missing,
		Extra:           extra,
		MatchPercentage: pct,
	}
}

// WriteReconciliation persists the missing and extra difference sets, each
// ending with a presentation-only sentinel row carrying the match percentage.
func WriteReconciliation(missingPath, extraPath string, result model.ReconciliationResult) error {
	sentinel := fmt.Sprintf("Match Percentage: %.2f%%", result.MatchPercentage)

	missingRows := [][]string{{"asset_type", "asset_location"}}
	for _, g := range result.Missing {
		missingRows = append(missingRows, []string{g.Type, g.Location})
	}
	missingRows = append(missingRows, []string{sentinel, ""})
	if err := workbook.Write(missingPath, []workbook.Sheet{{Name: assetSheetName, Rows: missingRows}}); err != nil {
		return eris.Wrap(err, "pipeline: write missing artifact")
	}

	extraRows := [][]string{{"asset_type", "asset_location", "sheet_name"}}
	for _, u := range result.Extra {
		extraRows = append(extraRows, []string{u.Type, u.Location, u.SheetName})
	}
	extraRows = append(extraRows, []string{sentinel, "", ""})
	if err := workbook.Write(extraPath, []workbook.Sheet{{Name: assetSheetName, Rows: extraRows}}); err != nil {
		return eris.Wrap(err, "pipeline: write extra artifact")
	}
	return nil
}

func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cleanLocation flattens the separators surveyors use interchangeably so
// "kitchen/1st floor" and "kitchen - 1st floor" tokenize the same way.
func cleanLocation(s string) string {
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// containsAllTokens reports whether every token occurs somewhere in s as a
// substring. An empty token set matches vacuously.
func containsAllTokens(tokens []string, s string) bool {
	for _, t := range tokens {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

// typeMatch holds when either side's type tokens are all found inside the
// other side's type string. Either direction suffices: golden lists often use
// a shorter canonical name than the extracted description, or vice versa.
func typeMatch(golden, produced string) bool {
	return containsAllTokens(strings.Fields(cleanLocation(golden)), produced) ||
		containsAllTokens(strings.Fields(cleanLocation(produced)), golden)
}

// locationMatch is the same containment over separator-cleaned locations.
func locationMatch(golden, produced string) bool {
	cg, cp := cleanLocation(golden), cleanLocation(produced)
	return containsAllTokens(strings.Fields(cg), cp) ||
		containsAllTokens(strings.Fields(cp), cg)
}
