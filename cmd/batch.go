package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/pipeline"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/store"
)

var (
	batchLimit    int
	batchLanguage string
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir>",
	Short: "Process every PDF in a folder, auto-approving the review gate",
	Long:  "Runs stages 1-5 over each PDF in the input folder. The human review gate is auto-approved: the multiplied artifact is produced straight from the unedited review file. Per-file failures are recorded and do not abort sibling files.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := requireBackendKeys(); err != nil {
			return err
		}
		if cmd.Flags().Changed("language") {
			cfg.Pipeline.Language = batchLanguage
		}
		runner, err := newRunner()
		if err != nil {
			return err
		}

		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		pdfs, err := listPDFs(args[0])
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(pdfs) > batchLimit {
			pdfs = pdfs[:batchLimit]
		}
		if len(pdfs) == 0 {
			zap.L().Info("no PDFs found", zap.String("dir", args[0]))
			return nil
		}

		return processBatch(ctx, runner, st, args[0], pdfs)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of files to process (0 = all)")
	batchCmd.Flags().StringVar(&batchLanguage, "language", "", "report language, english or nederlands (default: configured)")
	rootCmd.AddCommand(batchCmd)
}

func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read dir %s", dir)
	}
	var pdfs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(dir, e.Name()))
		}
	}
	return pdfs, nil
}

// processBatch runs the files concurrently. Individual failures are logged
// and recorded but never abort the batch.
func processBatch(ctx context.Context, runner *pipeline.Runner, st store.Store, inputDir string, pdfs []string) error {
	run, err := st.CreateRun(ctx, cfg.Pipeline.Language, inputDir)
	if err != nil {
		return err
	}

	zap.L().Info("processing batch",
		zap.String("run_id", run.ID),
		zap.Int("files", len(pdfs)),
		zap.Int("concurrency", cfg.Batch.MaxConcurrentFiles),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Batch.MaxConcurrentFiles)

	var succeeded, failed atomic.Int64

	for _, pdfPath := range pdfs {
		pdfPath := pdfPath
		g.Go(func() error {
			nick := fileNickname(pdfPath)
			log := zap.L().With(zap.String("file", nick))

			summary, err := processAndMultiply(gctx, runner, pdfPath, nick)
			result := store.FileResult{
				RunID:      run.ID,
				File:       pdfPath,
				Succeeded:  err == nil,
				AssetRows:  summary.AssetRows,
				CheckCount: summary.Checks,
			}
			if err != nil {
				failed.Add(1)
				result.Error = err.Error()
				log.Error("file failed", zap.Error(err))
			} else {
				succeeded.Add(1)
				log.Info("file complete",
					zap.String("multiplied", runner.Layout().Multiplied(nick)),
				)
			}
			if recErr := st.RecordFileResult(gctx, result); recErr != nil {
				log.Warn("failed to record file result", zap.Error(recErr))
			}
			return nil // don't abort batch on individual failure
		})
	}

	if err := g.Wait(); err != nil {
		_ = st.FinishRun(ctx, run.ID, store.RunStatusFailed)
		return eris.Wrap(err, "batch processing")
	}

	status := store.RunStatusCompleted
	if succeeded.Load() == 0 && failed.Load() > 0 {
		status = store.RunStatusFailed
	}
	if err := st.FinishRun(ctx, run.ID, status); err != nil {
		return err
	}

	zap.L().Info("batch complete",
		zap.String("run_id", run.ID),
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int64("checks", runner.CheckCount()),
	)
	return nil
}

func processAndMultiply(ctx context.Context, runner *pipeline.Runner, pdfPath, nick string) (pipeline.FileSummary, error) {
	summary, err := runner.ProcessFile(ctx, pdfPath, nick, nil)
	if err != nil {
		return summary, err
	}
	// Auto-approve: expand straight from the unedited review artifact.
	_, err = runner.Multiply(nick)
	return summary, err
}
