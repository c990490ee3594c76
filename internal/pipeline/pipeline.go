// Package pipeline implements the staged extraction flow: PDF page filtering,
// per-page conversion to sheets, table normalization, dual-backend asset
// extraction with agreement flagging, review materialization, quantity
// expansion and golden-set reconciliation. Each stage reads the previous
// stage's artifact and writes its own; nothing is mutated in place.
package pipeline

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/normalize"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/pdfsplit"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/workbook"
)

// Layout maps a file nickname to the stage-indexed artifact paths under one
// output root.
type Layout struct {
	Root string
}

func (l Layout) FilteredPDF(nick string) string {
	return filepath.Join(l.Root, "1-FilteredManually", nick+"-filtered-pages.pdf")
}

func (l Layout) PDFExtract(nick string) string {
	return filepath.Join(l.Root, "2-ExportPDFToExcel", nick+"-pdf-extract.xlsx")
}

func (l Layout) AssetsData(nick string) string {
	return filepath.Join(l.Root, "3-ExcelToData", nick+"-assets-data.xlsx")
}

func (l Layout) HumanReview(nick string) string {
	return filepath.Join(l.Root, "4-HumanReview", nick+"-assets-data-human-review.xlsx")
}

func (l Layout) Multiplied(nick string) string {
	return filepath.Join(l.Root, "5-MultipliedQuantities", nick+"-assets-multiplied.xlsx")
}

func (l Layout) MissingInCreated(nick string) string {
	return filepath.Join(l.Root, "6-CompareGoldenOutput", nick+"-missing-in-created.xlsx")
}

func (l Layout) ExtraInCreated(nick string) string {
	return filepath.Join(l.Root, "6-CompareGoldenOutput", nick+"-extra-in-created.xlsx")
}

// Runner drives the automated stages for one file at a time.
type Runner struct {
	layout    Layout
	converter *Converter
	extractor *Extractor
}

// NewRunner wires a runner over its stage implementations.
func NewRunner(layout Layout, converter *Converter, extractor *Extractor) *Runner {
	return &Runner{layout: layout, converter: converter, extractor: extractor}
}

// Layout exposes the artifact layout the runner writes into.
func (r *Runner) Layout() Layout {
	return r.layout
}

// CheckCount returns the number of tables flagged for human attention across
// every file this runner has processed.
func (r *Runner) CheckCount() int64 {
	return r.extractor.CheckCount()
}

// FileSummary reports what processing one file produced.
type FileSummary struct {
	Tables    int
	AssetRows int
	Checks    int64
}

// ProcessFile runs stages 1 through 4 for one PDF: page filtering, per-page
// conversion, normalization, extraction and review materialization. pages
// uses pdfcpu selection syntax; empty means all pages. The review gate itself
// is a human handoff, so processing ends once the review artifact exists.
func (r *Runner) ProcessFile(ctx context.Context, pdfPath, nick string, pages []string) (FileSummary, error) {
	filtered := r.layout.FilteredPDF(nick)
	if err := pdfsplit.Trim(pdfPath, filtered, pages); err != nil {
		return FileSummary{}, err
	}

	sheets, err := r.converter.ConvertPDF(ctx, filtered)
	if err != nil {
		return FileSummary{}, err
	}
	if err := workbook.Write(r.layout.PDFExtract(nick), sheets); err != nil {
		return FileSummary{}, err
	}

	tables := normalize.Workbook(sheets)
	var checks int64
	extractions := make([]TableExtraction, 0, len(tables))
	for _, t := range tables {
		ext, err := r.extractor.ExtractTable(ctx, t)
		if err != nil {
			return FileSummary{}, err
		}
		if ext.Verdict == model.VerdictDisagreed || ext.Verdict == model.VerdictSecondaryEmptyPrimaryNonEmpty {
			checks++
		}
		extractions = append(extractions, ext)
	}

	records := MaterializeRecords(extractions)
	if err := WriteReviewArtifacts(r.layout.AssetsData(nick), r.layout.HumanReview(nick), records); err != nil {
		return FileSummary{}, err
	}

	summary := FileSummary{Tables: len(tables), AssetRows: len(records), Checks: checks}
	zap.L().Info("file processed",
		zap.String("file", nick),
		zap.Int("tables", summary.Tables),
		zap.Int("assets", summary.AssetRows),
		zap.Int64("checks", summary.Checks),
	)
	return summary, nil
}

// Multiply runs the quantity-expansion stage over the (human-edited) review
// artifact and returns the number of units written. Invoked separately from
// ProcessFile because the review gate is an out-of-band handoff; a missing
// review artifact is fatal for the file.
func (r *Runner) Multiply(nick string) (int, error) {
	records, err := ReadReviewRecords(r.layout.HumanReview(nick))
	if err != nil {
		return 0, err
	}
	units := Expand(records)
	if err := WriteExpanded(r.layout.Multiplied(nick), units); err != nil {
		return 0, err
	}
	zap.L().Info("quantities expanded",
		zap.String("file", nick),
		zap.Int("rows", len(records)),
		zap.Int("units", len(units)),
	)
	return len(units), nil
}

// Compare reconciles the multiplied units against a golden reference workbook
// and writes the missing and extra difference artifacts.
func (r *Runner) Compare(nick, goldenPath string) (model.ReconciliationResult, error) {
	golden, err := ReadGolden(goldenPath)
	if err != nil {
		return model.ReconciliationResult{}, err
	}
	produced, err := ReadExpanded(r.layout.Multiplied(nick))
	if err != nil {
		return model.ReconciliationResult{}, err
	}

	result := Reconcile(golden, produced)
	if err := WriteReconciliation(r.layout.MissingInCreated(nick), r.layout.ExtraInCreated(nick), result); err != nil {
		return model.ReconciliationResult{}, err
	}

	zap.L().Info("golden comparison complete",
		zap.String("file", nick),
		zap.Int("golden", len(golden)),
		zap.Int("missing", len(result.Missing)),
		zap.Int("extra", len(result.Extra)),
		zap.Float64("match_percentage", result.MatchPercentage),
	)
	return result, nil
}
