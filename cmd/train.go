package main

import (
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and compare RandomForest and XGBoost on the dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		t, err := loadStage(cmd.Context(), out)
		if err != nil {
			return err
		}
		_, err = trainStage(cmd.Context(), t, out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
