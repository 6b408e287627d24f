// Package train runs the model comparison: encoding, splitting, fitting
// both ensembles and scoring them on the held-out rows.
package train

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/sells-group/fipe-cli/internal/dataset"
	"github.com/sells-group/fipe-cli/internal/failure"
	"github.com/sells-group/fipe-cli/internal/preprocess"
	"github.com/sells-group/fipe-cli/internal/stats"
)

// CategoricalColumns are label-encoded before training.
var CategoricalColumns = []string{
	dataset.ColBrand,
	dataset.ColModel,
	dataset.ColFuel,
	dataset.ColGear,
	dataset.ColEngineSize,
	dataset.ColMonth,
}

// ExcludedColumns never enter the feature matrix.
var ExcludedColumns = []string{
	dataset.ColPrice,
	dataset.ColFipeCode,
	dataset.ColAuthentication,
}

// Prepared is the split, model-ready data. The matrices keep NaN for
// missing feature cells.
type Prepared struct {
	Features []string
	XTrain   *mat.Dense
	XTest    *mat.Dense
	YTrain   []float64
	YTest    []float64
	Median   float64
	Encoders map[string]*preprocess.LabelEncoder
}

// Prepare encodes the categorical columns, imputes missing targets with the
// median of the whole column and splits the rows.
func Prepare(t *dataset.Table, testSize float64, seed int64) (*Prepared, error) {
	encoded, encoders, err := preprocess.Encode(t, CategoricalColumns)
	if err != nil {
		return nil, eris.Wrap(err, "train: encode")
	}

	features, err := encoded.Drop(ExcludedColumns...)
	if err != nil {
		return nil, eris.Wrap(err, "train: select features")
	}

	price, err := encoded.Column(dataset.ColPrice)
	if err != nil {
		return nil, eris.Wrap(err, "train: target")
	}
	if !price.IsNumeric() {
		return nil, eris.Wrapf(parseErr(dataset.ColPrice), "train: target")
	}
	// The median covers held-out rows too.
	median := stats.Median(price.Floats())
	target := stats.FillNaN(price.Floats(), median)

	trainIdx, testIdx, err := preprocess.Split(t.Len(), testSize, seed)
	if err != nil {
		return nil, eris.Wrap(err, "train: split")
	}

	xTrain, err := preprocess.Matrix(features, trainIdx)
	if err != nil {
		return nil, eris.Wrap(err, "train: training matrix")
	}
	xTest, err := preprocess.Matrix(features, testIdx)
	if err != nil {
		return nil, eris.Wrap(err, "train: held-out matrix")
	}

	p := &Prepared{
		Features: features.Names(),
		XTrain:   xTrain,
		XTest:    xTest,
		YTrain:   preprocess.Select(target, trainIdx),
		YTest:    preprocess.Select(target, testIdx),
		Median:   median,
		Encoders: encoders,
	}
	zap.L().Info("train: data prepared",
		zap.Strings("features", p.Features),
		zap.Int("train_rows", len(trainIdx)),
		zap.Int("test_rows", len(testIdx)),
		zap.Float64("target_median", median),
	)
	return p, nil
}

func parseErr(col string) error {
	return failure.New(failure.KindParse, eris.Errorf("column %q is not numeric", col))
}
