package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/fipe-cli/internal/report"
)

var analyzeReportFlag string

var analyzeCmd = &cobra.Command{
	Use:         "analyze",
	Short:       "Print missing values, duplicates, statistics and brand counts",
	Annotations: map[string]string{skipCapability: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		t, err := loadStage(cmd.Context(), out)
		if err != nil {
			return err
		}
		summary, err := analyzeStage(t, out)
		if err != nil {
			return err
		}
		if analyzeReportFlag != "" {
			return report.WriteXLSX(analyzeReportFlag, summary, nil)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeReportFlag, "report", "", "write an XLSX report to this path")
	rootCmd.AddCommand(analyzeCmd)
}
