package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fipe-cli/internal/capability"
	"github.com/sells-group/fipe-cli/internal/config"
	"github.com/sells-group/fipe-cli/internal/ensemble"
)

// skipCapability marks commands that run without the boosted learner.
const skipCapability = "skip-capability"

var cfg *config.Config

var (
	datasetFlag   string
	outputDirFlag string
)

// goos and lookupModel are swapped in tests to exercise the capability gate
// on other platforms and builds.
var goos = runtime.GOOS

var lookupModel capability.LookupFunc = ensemble.Lookup

var rootCmd = &cobra.Command{
	Use:          "fipe-cli",
	Short:        "FIPE used-car price analysis",
	Long:         "Loads the FIPE price table, prints exploratory statistics, renders charts and compares a random forest against gradient boosting for price prediction.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("dataset") {
			c.Dataset.Path = datasetFlag
		}
		if cmd.Flags().Changed("output-dir") {
			c.Output.Dir = outputDirFlag
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if cmd.Annotations[skipCapability] == "true" {
			return nil
		}
		res := capability.Check(lookupModel, goos)
		if !res.Available {
			res.Print(cmd.OutOrStdout())
			return res.Err()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&datasetFlag, "dataset", "", "dataset path or URL (overrides dataset.path)")
	rootCmd.PersistentFlags().StringVar(&outputDirFlag, "output-dir", "", "directory for charts (overrides output.dir)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
