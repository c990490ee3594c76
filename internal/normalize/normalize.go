// Package normalize turns raw converted sheets into clean rectangular tables:
// sheets are split on fully-blank rows, oversized bodies are rechunked into
// bounded windows with a repeated header, and every row is squared up to the
// header width.
package normalize

import (
	"fmt"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/workbook"
)

// MaxBodyRows bounds the number of data rows per emitted table. Longer bodies
// are partitioned into consecutive chunks, each carrying a copy of the header.
const MaxBodyRows = 15

// Workbook normalizes every sheet in order and returns the resulting tables.
// A sheet that yields no tables (only blank rows, or headers without data) is
// skipped; that is not an error.
func Workbook(sheets []workbook.Sheet) []model.Table {
	var tables []model.Table
	for _, s := range sheets {
		tables = append(tables, SheetTables(s)...)
	}
	return tables
}

// SheetTables normalizes a single sheet. Naming: if the sheet yields exactly
// one table it keeps the sheet name unchanged; otherwise each table gets a
// 1-based "_table_N" suffix.
func SheetTables(s workbook.Sheet) []model.Table {
	var tables []model.Table
	for _, segment := range splitOnBlankRows(s.Rows) {
		header := segment[0]
		body := segment[1:]
		if len(body) == 0 {
			continue
		}
		body = squareUp(body, len(header))
		for start := 0; start < len(body); start += MaxBodyRows {
			end := start + MaxBodyRows
			if end > len(body) {
				end = len(body)
			}
			tables = append(tables, model.Table{
				Header: header,
				Rows:   body[start:end],
			})
		}
	}

	if len(tables) == 1 {
		tables[0].Name = s.Name
		return tables
	}
	for i := range tables {
		tables[i].Name = fmt.Sprintf("%s_table_%d", s.Name, i+1)
	}
	return tables
}

// splitOnBlankRows partitions rows into runs of consecutive non-blank rows.
func splitOnBlankRows(rows [][]string) [][][]string {
	var segments [][][]string
	var current [][]string
	for _, row := range rows {
		if workbook.IsBlankRow(row) {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, row)
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// squareUp pads or truncates every row to exactly width cells so the table is
// rectangular with respect to its header.
func squareUp(rows [][]string, width int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) == width {
			out[i] = row
			continue
		}
		squared := make([]string, width)
		copy(squared, row)
		out[i] = squared
	}
	return out
}
