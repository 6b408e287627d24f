package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chartsCmd = &cobra.Command{
	Use:         "charts",
	Short:       "Render the brand, gear and monthly price charts",
	Annotations: map[string]string{skipCapability: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		t, err := loadStage(cmd.Context(), out)
		if err != nil {
			return err
		}
		paths, err := chartStage(t, out)
		if err != nil {
			return err
		}
		for _, p := range paths {
			_, _ = fmt.Fprintln(out, p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
}
