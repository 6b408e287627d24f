package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fipe-cli/internal/analysis"
	"github.com/sells-group/fipe-cli/internal/chart"
	"github.com/sells-group/fipe-cli/internal/dataset"
	"github.com/sells-group/fipe-cli/internal/ensemble"
	"github.com/sells-group/fipe-cli/internal/fetcher"
	"github.com/sells-group/fipe-cli/internal/train"
)

// loadStage reads the configured dataset.
func loadStage(ctx context.Context, out io.Writer) (*dataset.Table, error) {
	_, _ = fmt.Fprintln(out, "Carregando os dados...")

	var delim rune
	if d := []rune(cfg.Dataset.Delimiter); len(d) == 1 {
		delim = d[0]
	}
	timeout := time.Duration(cfg.Fetch.TimeoutSecs) * time.Second

	return dataset.Load(ctx, cfg.Dataset.Path, dataset.LoadOptions{
		Charset:   cfg.Dataset.Charset,
		Delimiter: delim,
		Sheet:     cfg.Dataset.Sheet,
		TrimSpace: cfg.Dataset.TrimSpace,
		Resolve: fetcher.ResolveOptions{
			HTTP: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
				UserAgent:  cfg.Fetch.UserAgent,
				Timeout:    timeout,
				MaxRetries: cfg.Fetch.MaxRetries,
			}),
			FTP: fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: timeout}),
		},
	})
}

// analyzeStage prints the exploratory summary of t.
func analyzeStage(t *dataset.Table, out io.Writer) (*analysis.Summary, error) {
	_, _ = fmt.Fprintln(out, "\nAnalisando os dados...")
	s, err := analysis.Run(t)
	if err != nil {
		return nil, err
	}
	s.Print(out)
	return s, nil
}

// chartStage renders the charts into the output directory.
func chartStage(t *dataset.Table, out io.Writer) ([]string, error) {
	_, _ = fmt.Fprintln(out, "\nGerando gráficos...")
	dir := cfg.Output.Dir
	if dir == "" {
		dir = "."
	}
	paths, err := chart.Render(t, dir)
	if err != nil {
		return nil, err
	}
	zap.L().Info("charts written", zap.Strings("paths", paths))
	return paths, nil
}

// trainStage fits and compares both regressors and prints the results.
func trainStage(ctx context.Context, t *dataset.Table, out io.Writer) (*train.Report, error) {
	_, _ = fmt.Fprintln(out, "\nTreinando modelos...")
	rep, err := train.Run(ctx, t, trainOptions())
	if err != nil {
		return nil, err
	}
	rep.Print(out)
	return rep, nil
}

func trainOptions() train.Options {
	return train.Options{
		TestSize: cfg.Training.TestSize,
		Seed:     cfg.Training.Seed,
		Forest: ensemble.Params{
			Estimators:     cfg.Training.Estimators,
			MaxDepth:       cfg.Forest.MaxDepth,
			MinSamplesLeaf: cfg.Forest.MinSamplesLeaf,
			Workers:        cfg.Training.Workers,
		},
		Boost: ensemble.Params{
			Estimators:   cfg.Training.Estimators,
			MaxDepth:     cfg.Boost.MaxDepth,
			LearningRate: cfg.Boost.LearningRate,
			Lambda:       cfg.Boost.Lambda,
			Subsample:    cfg.Boost.Subsample,
			Workers:      cfg.Training.Workers,
		},
	}
}
