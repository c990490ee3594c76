package model

import "strings"

// Table is a named rectangular grid extracted from one source page: a header
// row followed by data rows. Every row has the same column count as the header.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// RowCount returns the number of data rows (the header is not counted).
func (t Table) RowCount() int {
	return len(t.Rows)
}

// ToCSV renders the table in a plain delimited form, header first, for
// transmission to an extraction backend. Cells containing commas, quotes or
// newlines are quoted the way encoding/csv would quote them.
func (t Table) ToCSV() string {
	var b strings.Builder
	writeCSVRow(&b, t.Header)
	for _, row := range t.Rows {
		writeCSVRow(&b, row)
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.ContainsAny(cell, ",\"\n") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		} else {
			b.WriteString(cell)
		}
	}
	b.WriteByte('\n')
}
