package main

import (
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	processNickname    string
	processPages       []string
	processAssetsKnown bool
)

var processCmd = &cobra.Command{
	Use:   "process <pdf>",
	Short: "Run extraction stages 1-4 for one PDF, up to the human review gate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := requireBackendKeys(); err != nil {
			return err
		}
		if cmd.Flags().Changed("assets-known") {
			cfg.Pipeline.AssetsKnown = processAssetsKnown
		}
		runner, err := newRunner()
		if err != nil {
			return err
		}

		pdfPath := args[0]
		nick := processNickname
		if nick == "" {
			nick = fileNickname(pdfPath)
		}

		summary, err := runner.ProcessFile(ctx, pdfPath, nick, processPages)
		if err != nil {
			return err
		}

		zap.L().Info("awaiting human review",
			zap.String("review_file", runner.Layout().HumanReview(nick)),
			zap.Int64("flagged_tables", summary.Checks),
		)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processNickname, "nickname", "", "artifact name prefix (default: PDF base name)")
	processCmd.Flags().StringSliceVar(&processPages, "pages", nil, "page selection, e.g. 1-3,7 (default: all pages)")
	processCmd.Flags().BoolVar(&processAssetsKnown, "assets-known", true, "the pages are known to contain asset tables (selects the stricter prompt)")
	rootCmd.AddCommand(processCmd)
}

// fileNickname derives the artifact prefix from a PDF path.
func fileNickname(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
