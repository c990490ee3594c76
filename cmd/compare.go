package main

import (
	"github.com/spf13/cobra"
)

var compareGolden string

var compareCmd = &cobra.Command{
	Use:   "compare <nickname>",
	Short: "Reconcile the multiplied asset list against a golden reference workbook",
	Long:  "Fuzzily matches 5-MultipliedQuantities/<nickname>-assets-multiplied.xlsx against the golden workbook (columns \"Asset Type\" and \"*Room\") and writes the missing and extra difference sets with a match percentage.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		_, err = runner.Compare(args[0], compareGolden)
		return err
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareGolden, "golden", "", "path to the golden reference workbook")
	_ = compareCmd.MarkFlagRequired("golden")
	rootCmd.AddCommand(compareCmd)
}
