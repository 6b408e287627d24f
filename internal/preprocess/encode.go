// Package preprocess turns the listing table into model-ready matrices.
package preprocess

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fipe-cli/internal/dataset"
)

// MissingLabel is the string a missing cell encodes as.
const MissingLabel = "nan"

// LabelEncoder maps string labels to integer codes. Codes are the rank of
// the label among the sorted distinct labels seen at fit time.
type LabelEncoder struct {
	Classes []string
	index   map[string]int
}

// FitLabelEncoder learns the classes of labels.
func FitLabelEncoder(labels []string) *LabelEncoder {
	index := make(map[string]int)
	for _, l := range labels {
		index[l] = 0
	}
	classes := make([]string, 0, len(index))
	for l := range index {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	for i, l := range classes {
		index[l] = i
	}
	return &LabelEncoder{Classes: classes, index: index}
}

// Transform encodes labels. Labels unseen at fit time are an error.
func (e *LabelEncoder) Transform(labels []string) ([]int, error) {
	codes := make([]int, len(labels))
	for i, l := range labels {
		code, ok := e.index[l]
		if !ok {
			return nil, eris.Errorf("preprocess: unseen label %q", l)
		}
		codes[i] = code
	}
	return codes, nil
}

// Labels returns the cells of c as labels, missing cells as MissingLabel.
func Labels(c *dataset.Column) []string {
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		if c.Missing[i] {
			out[i] = MissingLabel
			continue
		}
		out[i] = v
	}
	return out
}

// MonthLabels is Labels for a reference-month column: values outside the
// calendar are treated as missing.
func MonthLabels(c *dataset.Column) []string {
	out := Labels(c)
	for i, v := range out {
		if _, ok := dataset.MonthIndex(v); !ok {
			out[i] = MissingLabel
		}
	}
	return out
}

// Encode returns a copy of t with each of cols replaced by its label codes,
// together with the fitted encoders keyed by column name.
func Encode(t *dataset.Table, cols []string) (*dataset.Table, map[string]*LabelEncoder, error) {
	out := t.Clone()
	encoders := make(map[string]*LabelEncoder, len(cols))
	for _, name := range cols {
		c, err := out.Column(name)
		if err != nil {
			return nil, nil, eris.Wrap(err, "preprocess: encode")
		}
		labels := Labels(c)
		if name == dataset.ColMonth {
			labels = MonthLabels(c)
		}
		enc := FitLabelEncoder(labels)
		codes, err := enc.Transform(labels)
		if err != nil {
			return nil, nil, err
		}
		if err := out.SetCodes(name, codes); err != nil {
			return nil, nil, eris.Wrap(err, "preprocess: encode")
		}
		encoders[name] = enc
	}
	return out, encoders, nil
}
