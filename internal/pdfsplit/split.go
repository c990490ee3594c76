// Package pdfsplit wraps the pdfcpu operations the pipeline needs: page
// selection for the manually filtered input and single-page splitting ahead
// of per-page conversion.
package pdfsplit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rotisserie/eris"
)

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, eris.Wrapf(err, "pdfsplit: read %s", path)
	}
	return ctx.PageCount, nil
}

// Trim writes a copy of the PDF containing only the selected pages, using
// pdfcpu page selection syntax such as "1-3,7". An empty selection copies the
// document whole.
func Trim(inPath, outPath string, pages []string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return eris.Wrapf(err, "pdfsplit: mkdir for %s", outPath)
	}
	if len(pages) == 0 {
		data, err := os.ReadFile(inPath)
		if err != nil {
			return eris.Wrapf(err, "pdfsplit: read %s", inPath)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return eris.Wrapf(err, "pdfsplit: write %s", outPath)
		}
		return nil
	}
	if err := api.TrimFile(inPath, outPath, pages, nil); err != nil {
		return eris.Wrapf(err, "pdfsplit: trim %s", inPath)
	}
	return nil
}

// SplitPages splits the PDF into single-page documents under outDir and
// returns their paths in page order.
func SplitPages(path, outDir string) ([]string, error) {
	count, err := PageCount(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "pdfsplit: mkdir %s", outDir)
	}
	if err := api.SplitFile(path, outDir, 1, nil); err != nil {
		return nil, eris.Wrapf(err, "pdfsplit: split %s", path)
	}

	// pdfcpu names the parts <base>_<page>.pdf.
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	pages := make([]string, 0, count)
	for n := 1; n <= count; n++ {
		p := filepath.Join(outDir, fmt.Sprintf("%s_%d.pdf", base, n))
		if _, err := os.Stat(p); err != nil {
			return nil, eris.Wrapf(err, "pdfsplit: missing page file %s", p)
		}
		pages = append(pages, p)
	}
	return pages, nil
}
