package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/pdfsplit"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/resilience"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/workbook"
	"github.com/RoelRotti/legionella-exploration-milestone/pkg/pdfservices"
)

// Converter turns a filtered PDF into sheets by splitting it into single
// pages and sending each page through the document-conversion service.
// Conversion quality is much better page by page than for the whole document.
type Converter struct {
	client pdfservices.Client
	retry  resilience.RetryConfig
}

// NewConverter builds a converter over the conversion service client.
func NewConverter(client pdfservices.Client, retry resilience.RetryConfig) *Converter {
	return &Converter{client: client, retry: retry}
}

// ConvertPDF converts every page of the PDF at path and merges the resulting
// sheets in page order. Pages that fail to convert are logged and omitted;
// only a document yielding zero usable sheets is an error.
func (c *Converter) ConvertPDF(ctx context.Context, path string) ([]workbook.Sheet, error) {
	workDir, err := os.MkdirTemp("", "pdf-pages-")
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create page work dir")
	}
	defer os.RemoveAll(workDir)

	pages, err := pdfsplit.SplitPages(path, workDir)
	if err != nil {
		return nil, err
	}

	var merged []workbook.Sheet
	for i, pagePath := range pages {
		pageNum := i + 1
		sheets, err := c.convertPage(ctx, pagePath)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			zap.L().Warn("page conversion failed, omitting page",
				zap.String("pdf", path),
				zap.Int("page", pageNum),
				zap.Error(err),
			)
			continue
		}
		for j, s := range sheets {
			s.Name = fmt.Sprintf("Page_%d", pageNum)
			if len(sheets) > 1 {
				s.Name = fmt.Sprintf("Page_%d_%d", pageNum, j+1)
			}
			merged = append(merged, s)
		}
	}

	if len(merged) == 0 {
		return nil, eris.Errorf("pipeline: no pages of %s could be converted", path)
	}
	return merged, nil
}

func (c *Converter) convertPage(ctx context.Context, pagePath string) ([]workbook.Sheet, error) {
	pdf, err := os.ReadFile(pagePath)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read page %s", pagePath)
	}

	retry := c.retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("pdfservices", "export_xlsx")
	}
	data, err := resilience.Retry(ctx, retry, func(ctx context.Context) ([]byte, error) {
		return c.client.ExportToXLSX(ctx, pdf)
	})
	if err != nil {
		return nil, err
	}
	return workbook.ReadSheetsFromBytes(data)
}
