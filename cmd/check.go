package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/fipe-cli/internal/capability"
	"github.com/sells-group/fipe-cli/internal/ensemble"
)

var checkCmd = &cobra.Command{
	Use:         "check",
	Short:       "Check that the boosted learner is available",
	Annotations: map[string]string{skipCapability: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		res := capability.Check(lookupModel, goos)
		if !res.Available {
			res.Print(out)
			return res.Err()
		}
		_, _ = fmt.Fprintf(out, "Modelos disponíveis (%s):", res.Platform)
		for _, k := range ensemble.Available() {
			_, _ = fmt.Fprintf(out, " %s", k)
		}
		_, _ = fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
