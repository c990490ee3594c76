package pipeline

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/workbook"
)

const assetSheetName = "assets"

// MaterializeRecords flattens per-table extractions into review rows, one per
// candidate, in table order. A table whose secondary answer was empty while
// the primary found assets contributes exactly one placeholder row instead of
// asset rows. The human control columns start empty; only reviewers set them.
func MaterializeRecords(extractions []TableExtraction) []model.AssetRecord {
	var records []model.AssetRecord
	for _, ext := range extractions {
		if ext.Verdict == model.VerdictSecondaryEmptyPrimaryNonEmpty {
			records = append(records, model.AssetRecord{
				SheetName: ext.Table.Name,
				Flag:      ext.Verdict.Flag(),
			})
			continue
		}
		for _, c := range ext.Candidates {
			records = append(records, model.AssetRecord{
				Type:      c.Type,
				Location:  c.Location,
				Count:     strconv.Itoa(c.Count),
				SheetName: ext.Table.Name,
				Flag:      ext.Verdict.Flag(),
			})
		}
	}
	return records
}

// WriteReviewArtifacts persists the records twice: once as the raw extraction
// artifact and once as the copy a human reviewer edits. The two files start
// out identical.
func WriteReviewArtifacts(dataPath, reviewPath string, records []model.AssetRecord) error {
	sheet := recordsSheet(records)
	if err := workbook.Write(dataPath, []workbook.Sheet{sheet}); err != nil {
		return eris.Wrap(err, "pipeline: write extraction artifact")
	}
	if err := workbook.Write(reviewPath, []workbook.Sheet{sheet}); err != nil {
		return eris.Wrap(err, "pipeline: write review artifact")
	}
	return nil
}

func recordsSheet(records []model.AssetRecord) workbook.Sheet {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, model.ReviewColumns)
	for _, r := range records {
		rows = append(rows, []string{
			r.Type, r.Location, r.Count, r.SheetName, r.Flag,
			r.Delete, r.SonnetWrong, r.RowAdded,
		})
	}
	return workbook.Sheet{Name: assetSheetName, Rows: rows}
}

// ReadReviewRecords loads a (possibly human-edited) review workbook back into
// records. Columns are located by header name so reviewers may reorder them;
// the five data columns are required, the control columns are optional and
// default to empty.
func ReadReviewRecords(path string) ([]model.AssetRecord, error) {
	sheets, err := workbook.ReadSheets(path)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 || len(sheets[0].Rows) == 0 {
		return nil, eris.Errorf("pipeline: review workbook %s has no rows", path)
	}

	header := sheets[0].Rows[0]
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"asset_type", "asset_location", "asset_count", "sheet_name", "flag"} {
		if _, ok := idx[required]; !ok {
			return nil, eris.Errorf("pipeline: review workbook %s is missing column %q", path, required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []model.AssetRecord
	for _, row := range sheets[0].Rows[1:] {
		if workbook.IsBlankRow(row) {
			continue
		}
		records = append(records, model.AssetRecord{
			Type:        cell(row, "asset_type"),
			Location:    cell(row, "asset_location"),
			Count:       cell(row, "asset_count"),
			SheetName:   cell(row, "sheet_name"),
			Flag:        cell(row, "flag"),
			Delete:      cell(row, "delete"),
			SonnetWrong: cell(row, "sonnet_wrong"),
			RowAdded:    cell(row, "row_added"),
		})
	}
	return records, nil
}
