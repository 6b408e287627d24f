package train

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fipe-cli/internal/dataset"
	"github.com/sells-group/fipe-cli/internal/ensemble"
	"github.com/sells-group/fipe-cli/internal/failure"
	"github.com/sells-group/fipe-cli/internal/preprocess"
)

// Options configures a comparison run.
type Options struct {
	TestSize float64
	Seed     int64
	Forest   ensemble.Params
	Boost    ensemble.Params
	// Kinds lists the models to compare, in report order. Empty means
	// RandomForest then XGBoost.
	Kinds []ensemble.Kind
}

// Report is the outcome of a comparison run.
type Report struct {
	Results   []Result
	Winner    string
	TrainRows int
	TestRows  int
	Features  []string
}

// Run prepares t, fits every model on the training rows and scores it on
// the held-out rows. Missing features are zero-filled on copies at fit and
// at predict time.
func Run(ctx context.Context, t *dataset.Table, opts Options) (*Report, error) {
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = []ensemble.Kind{ensemble.KindForest, ensemble.KindBoosted}
	}

	factories := make([]ensemble.Factory, len(kinds))
	for i, k := range kinds {
		f, ok := ensemble.Lookup(k)
		if !ok {
			return nil, failure.New(failure.KindMissingCapability,
				eris.Errorf("train: model %s is not available in this build", k))
		}
		factories[i] = f
	}

	p, err := Prepare(t, opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}
	xTrain := preprocess.FillNaN(p.XTrain, 0)
	xTest := preprocess.FillNaN(p.XTest, 0)

	rep := &Report{
		TrainRows: len(p.YTrain),
		TestRows:  len(p.YTest),
		Features:  p.Features,
	}
	for i, k := range kinds {
		params := opts.Forest
		if k == ensemble.KindBoosted {
			params = opts.Boost
		}
		params.Seed = opts.Seed
		model := factories[i](params)

		start := time.Now()
		if err := model.Fit(ctx, xTrain, p.YTrain); err != nil {
			return nil, eris.Wrapf(err, "train: fit %s", model.Name())
		}
		pred, err := model.Predict(xTest)
		if err != nil {
			return nil, eris.Wrapf(err, "train: predict %s", model.Name())
		}

		res := Evaluate(model.Name(), p.YTest, pred)
		rep.Results = append(rep.Results, res)
		zap.L().Info("train: model evaluated",
			zap.String("model", res.Name),
			zap.Float64("mae", res.MAE),
			zap.Float64("mse", res.MSE),
			zap.Float64("r2", res.R2),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	rep.Winner = Winner(rep.Results)
	return rep, nil
}

// Print writes the evaluation table and the winner line.
func (r *Report) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "\nResultados da Avaliação dos Modelos:")
	for _, res := range r.Results {
		_, _ = fmt.Fprintf(w, "%s - MAE: %s, MSE: %s, R²: %s\n",
			res.Name, FormatFloat(res.MAE), FormatFloat(res.MSE), FormatFloat(res.R2))
	}
	_, _ = fmt.Fprintf(w, "\nMelhor modelo: %s\n", r.Winner)
}

// FormatFloat renders v in plain decimal notation with the shortest
// round-trip digits, switching to exponent form only for extreme values.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	a := math.Abs(v)
	if a != 0 && (a >= 1e16 || a < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
