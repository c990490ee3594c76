package workbook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet is a named grid of string cells, in source order.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadSheets reads every sheet of an XLSX file into string grids, preserving
// sheet order.
func ReadSheets(path string) ([]Sheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "workbook: open %s", path)
	}
	return fromFile(f), nil
}

// ReadSheetsFromBytes reads every sheet of an in-memory XLSX document, as
// returned by the document-conversion service.
func ReadSheetsFromBytes(b []byte) ([]Sheet, error) {
	f, err := xlsx.OpenBinary(b)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: open binary")
	}
	return fromFile(f), nil
}

func fromFile(f *xlsx.File) []Sheet {
	sheets := make([]Sheet, 0, len(f.Sheets))
	for _, sh := range f.Sheets {
		s := Sheet{Name: sh.Name}
		for _, row := range sh.Rows {
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = cell.String()
			}
			s.Rows = append(s.Rows, cells)
		}
		sheets = append(sheets, s)
	}
	return sheets
}

// Write persists sheets as a single XLSX file. The file is written whole to a
// temp path and renamed into place, so a partially written artifact is never
// observed at the final path.
func Write(path string, sheets []Sheet) error {
	f := xlsx.NewFile()
	for _, s := range sheets {
		sh, err := f.AddSheet(SanitizeSheetName(s.Name))
		if err != nil {
			return eris.Wrapf(err, "workbook: add sheet %q", s.Name)
		}
		for _, rowData := range s.Rows {
			row := sh.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "workbook: mkdir for %s", path)
	}

	tmp := path + ".tmp"
	if err := f.Save(tmp); err != nil {
		return eris.Wrapf(err, "workbook: save %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return eris.Wrapf(err, "workbook: rename into %s", path)
	}
	return nil
}

// SanitizeSheetName enforces the XLSX sheet-name rules: at most 31 characters
// and none of \ / : * ? " < > |.
func SanitizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(`\/:*?"<>|`, r) {
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()
	if s == "" {
		s = "Sheet"
	}
	if len(s) > 31 {
		s = s[:31]
	}
	return s
}

// IsBlankRow reports whether every cell of the row is empty after trimming.
// A row with no cells is blank.
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
