package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "legionella",
	Short: "Legionella risk-assessment asset extraction pipeline",
	Long:  "Converts legionella risk-assessment PDFs into reviewed, multiplied asset lists: per-page table conversion, dual-model extraction with agreement flagging, a human review gate, quantity expansion and golden-set comparison.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
