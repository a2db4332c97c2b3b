package main

import (
	"github.com/spf13/cobra"
)

var (
	category string
	filter   string
)

var careersCmd = &cobra.Command{
	Use:   "careers",
	Short: "List catalog careers",
	Example: `  lantern careers --category Technology
  lantern careers --filter 'skills["programming"] >= 4 && min_gpa <= 3.0'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(true)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		careers, err := a.engine.Careers(category, filter)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"total":   len(careers),
			"careers": careers,
		})
	},
}

func init() {
	rootCmd.AddCommand(careersCmd)

	careersCmd.Flags().StringVar(&category, "category", "", "only careers of this category")
	careersCmd.Flags().StringVar(&filter, "filter", "", "CEL expression over id, name, category, min_gpa, skills and interests")
}
