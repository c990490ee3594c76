package main

import (
	"github.com/spf13/cobra"
)

var multiplyCmd = &cobra.Command{
	Use:   "multiply <nickname>",
	Short: "Expand the human-approved review file into one row per physical unit",
	Long:  "Reads 4-HumanReview/<nickname>-assets-data-human-review.xlsx, applies reviewer delete directives, multiplies rows by their counts and writes the stage-5 artifact. Run after the review file has been edited and approved.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		_, err = runner.Multiply(args[0])
		return err
	},
}

func init() {
	rootCmd.AddCommand(multiplyCmd)
}
