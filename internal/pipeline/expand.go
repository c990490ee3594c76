package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/workbook"
)

// Expand turns approved review rows into one row per physical unit. Rows
// marked for deletion are dropped; rows without a usable type or count
// contribute zero units. Row order is preserved, all units of a row emitted
// before the next row's. Deterministic: the same input always yields the same
// output.
func Expand(records []model.AssetRecord) []model.ExpandedAssetUnit {
	var units []model.ExpandedAssetUnit
	for _, r := range records {
		if r.MarkedDeleted() {
			continue
		}
		for i := 0; i < r.UnitCount(); i++ {
			units = append(units, model.ExpandedAssetUnit{
				Type:      r.Type,
				Location:  r.Location,
				SheetName: r.SheetName,
			})
		}
	}
	return units
}

// WriteExpanded persists the multiplied units as the stage-5 artifact.
func WriteExpanded(path string, units []model.ExpandedAssetUnit) error {
	rows := make([][]string, 0, len(units)+1)
	rows = append(rows, model.ExpandedColumns)
	for _, u := range units {
		rows = append(rows, []string{u.Type, u.Location, u.SheetName})
	}
	if err := workbook.Write(path, []workbook.Sheet{{Name: assetSheetName, Rows: rows}}); err != nil {
		return eris.Wrap(err, "pipeline: write expanded artifact")
	}
	return nil
}

// ReadExpanded loads a multiplied-quantities artifact back, for the
// reconciliation stage.
func ReadExpanded(path string) ([]model.ExpandedAssetUnit, error) {
	sheets, err := workbook.ReadSheets(path)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 || len(sheets[0].Rows) == 0 {
		return nil, eris.Errorf("pipeline: expanded workbook %s has no rows", path)
	}

	var units []model.ExpandedAssetUnit
	for _, row := range sheets[0].Rows[1:] {
		if workbook.IsBlankRow(row) {
			continue
		}
		u := model.ExpandedAssetUnit{}
		if len(row) > 0 {
			u.Type = row[0]
		}
		if len(row) > 1 {
			u.Location = row[1]
		}
		if len(row) > 2 {
			u.SheetName = row[2]
		}
		units = append(units, u)
	}
	return units, nil
}
