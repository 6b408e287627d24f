// Package analysis computes the exploratory summary printed before
// charting and training.
package analysis

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fipe-cli/internal/dataset"
	"github.com/sells-group/fipe-cli/internal/stats"
)

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column string
	Count  int
}

// ColumnStats pairs a numeric column with its description.
type ColumnStats struct {
	Column string
	stats.Description
}

// ValueCount is one entry of a value_counts-style frequency table.
type ValueCount struct {
	Value string
	Count int
}

// Summary is the read-only result of the analysis stage.
type Summary struct {
	Rows        int
	Missing     []MissingCount
	Duplicates  int
	Describe    []ColumnStats
	BrandCounts []ValueCount
}

// Run analyses t. It fails only when the brand column is absent.
func Run(t *dataset.Table) (*Summary, error) {
	brand, err := t.Column(dataset.ColBrand)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: brand counts")
	}

	s := &Summary{
		Rows:        t.Len(),
		Missing:     MissingCounts(t),
		Duplicates:  CountDuplicates(t),
		Describe:    DescribeNumeric(t),
		BrandCounts: ValueCounts(brand),
	}

	zap.L().Info("analysis: complete",
		zap.Int("rows", s.Rows),
		zap.Int("duplicates", s.Duplicates),
		zap.Int("numeric_columns", len(s.Describe)),
		zap.Int("brands", len(s.BrandCounts)),
	)
	return s, nil
}

// MissingCounts returns the missing-cell count of every column in file order.
func MissingCounts(t *dataset.Table) []MissingCount {
	out := make([]MissingCount, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		out = append(out, MissingCount{Column: c.Name, Count: c.MissingCount()})
	}
	return out
}

// TotalMissing sums the per-column missing counts.
func (s *Summary) TotalMissing() int {
	n := 0
	for _, m := range s.Missing {
		n += m.Count
	}
	return n
}

// CountDuplicates counts rows identical to an earlier row across all
// columns. Missing cells compare equal to each other.
func CountDuplicates(t *dataset.Table) int {
	cols := t.Columns()
	seen := make(map[string]struct{}, t.Len())
	dups := 0

	var b strings.Builder
	for i := 0; i < t.Len(); i++ {
		b.Reset()
		for j, c := range cols {
			if j > 0 {
				b.WriteByte(0)
			}
			if c.Missing[i] {
				b.WriteByte(1)
				continue
			}
			b.WriteString(c.Values[i])
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// DescribeNumeric describes every numeric column in file order.
func DescribeNumeric(t *dataset.Table) []ColumnStats {
	var out []ColumnStats
	for _, c := range t.Columns() {
		if !c.IsNumeric() {
			continue
		}
		out = append(out, ColumnStats{Column: c.Name, Description: stats.Describe(c.Floats())})
	}
	return out
}

// ValueCounts returns the frequency of each non-missing value, most
// frequent first. Ties keep first-appearance order.
func ValueCounts(c *dataset.Column) []ValueCount {
	index := make(map[string]int)
	var out []ValueCount
	for i, v := range c.Values {
		if c.Missing[i] {
			continue
		}
		if j, ok := index[v]; ok {
			out[j].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
