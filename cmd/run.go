package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fipe-cli/internal/model"
	"github.com/sells-group/fipe-cli/internal/report"
)

var (
	reportFlag  string
	summaryFlag string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: load, analyze, chart, train",
	Long:  "Loads the dataset, prints the exploratory analysis, writes the three charts and compares the regressors. The run is recorded when store.driver is set.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if cmd.Flags().Changed("report") {
			cfg.Output.Report = reportFlag
		}
		if cmd.Flags().Changed("summary") {
			cfg.Output.Summary = summaryFlag
		}

		st, err := initOptionalStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		var run *model.Run
		if st != nil {
			run, err = st.CreateRun(ctx, cfg.Dataset.Path)
			if err != nil {
				return eris.Wrap(err, "create run")
			}
		}

		result, err := runPipeline(ctx, cmd.OutOrStdout())
		if err != nil {
			if st != nil {
				if ferr := st.FailRun(context.WithoutCancel(ctx), run.ID, err.Error()); ferr != nil {
					zap.L().Warn("record failed run", zap.Error(ferr))
				}
			}
			return err
		}

		if st != nil {
			if err := st.CompleteRun(ctx, run.ID, result); err != nil {
				return eris.Wrap(err, "complete run")
			}
			run, err = st.GetRun(ctx, run.ID)
			if err != nil {
				return eris.Wrap(err, "reload run")
			}
			zap.L().Info("run recorded", zap.String("run_id", run.ID))
		}

		if cfg.Output.Summary != "" {
			if run == nil {
				run = &model.Run{Dataset: cfg.Dataset.Path, Status: model.RunStatusComplete}
			}
			run.Result = result
			if err := report.WriteYAML(cfg.Output.Summary, run); err != nil {
				return err
			}
		}
		return nil
	},
}

// runPipeline executes every stage in order and collects the run result.
func runPipeline(ctx context.Context, out io.Writer) (*model.RunResult, error) {
	t, err := loadStage(ctx, out)
	if err != nil {
		return nil, err
	}

	summary, err := analyzeStage(t, out)
	if err != nil {
		return nil, err
	}

	charts, err := chartStage(t, out)
	if err != nil {
		return nil, err
	}

	rep, err := trainStage(ctx, t, out)
	if err != nil {
		return nil, err
	}

	if cfg.Output.Report != "" {
		if err := report.WriteXLSX(cfg.Output.Report, summary, rep); err != nil {
			return nil, err
		}
		zap.L().Info("report written", zap.String("path", cfg.Output.Report))
	}

	return &model.RunResult{
		Rows:         t.Len(),
		Duplicates:   summary.Duplicates,
		MissingCells: summary.TotalMissing(),
		TrainRows:    rep.TrainRows,
		TestRows:     rep.TestRows,
		Features:     rep.Features,
		Scores:       rep.Results,
		Winner:       rep.Winner,
		Charts:       charts,
	}, nil
}

func init() {
	runCmd.Flags().StringVar(&reportFlag, "report", "", "write an XLSX report to this path")
	runCmd.Flags().StringVar(&summaryFlag, "summary", "", "write a YAML run summary to this path")
	rootCmd.AddCommand(runCmd)
}

