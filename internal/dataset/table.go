// Package dataset holds the in-memory listing table and its loaders.
package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"

	"github.com/sells-group/fipe-cli/internal/failure"
)

// naTokens are the cell values read as missing.
var naTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(raw string) bool {
	return naTokens[raw]
}

// Column is one named column. Values keeps the raw cells as read, the
// numeric view comes from the frame's detected series type.
type Column struct {
	Name    string
	Values  []string
	Missing []bool

	numeric bool
	floats  []float64
}

// IsNumeric reports whether every present cell parsed as a number.
func (c *Column) IsNumeric() bool {
	return c.numeric
}

// Float returns the numeric value of row i, NaN when missing or non-numeric.
func (c *Column) Float(i int) float64 {
	if !c.numeric {
		return math.NaN()
	}
	return c.floats[i]
}

// Floats returns a copy of the numeric values with NaN for missing cells.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.Values))
	for i := range out {
		out[i] = c.Float(i)
	}
	return out
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

func columnFromSeries(s series.Series, raw []string) *Column {
	c := &Column{Name: s.Name, Values: raw, Missing: s.IsNaN()}
	switch s.Type() {
	case series.Int, series.Float:
		c.numeric = true
		c.floats = s.Float()
	}
	return c
}

// Table is an in-memory, column-oriented view of the listing file backed by
// a gota DataFrame.
type Table struct {
	df      dataframe.DataFrame
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a Table from a header and data rows. Every row must have the
// header's width. Duplicate header names are suffixed ".1", ".2", ...
func New(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, failure.New(failure.KindParse, eris.New("dataset: no columns to parse"))
	}

	names := dedupeNames(header)
	cells := make([][]string, len(names))
	for j := range cells {
		cells[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, failure.New(failure.KindParse,
				eris.Errorf("dataset: row %d has %d fields, expected %d", i+2, len(row), len(names)))
		}
		for j, v := range row {
			cells[j][i] = v
		}
	}

	df, err := newFrame(names, rows)
	if err != nil {
		return nil, failure.New(failure.KindParse, eris.Wrap(err, "dataset: build frame"))
	}

	t := &Table{df: df, index: make(map[string]int, len(names)), rows: len(rows)}
	for j, name := range df.Names() {
		t.columns = append(t.columns, columnFromSeries(df.Col(name), cells[j]))
		t.index[name] = j
	}
	return t, nil
}

// newFrame loads the records with type detection. A frame needs at least one
// data row, so a header-only file becomes empty string series.
func newFrame(names []string, rows [][]string) (dataframe.DataFrame, error) {
	if len(rows) == 0 {
		cols := make([]series.Series, len(names))
		for j, name := range names {
			cols[j] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, names)
	records = append(records, rows...)
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues()),
	)
	return df, df.Err
}

func naValues() []string {
	out := make([]string, 0, len(naTokens))
	for tok := range naTokens {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func dedupeNames(header []string) []string {
	seen := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return t.rows
}

// Names returns the column names in file order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Columns returns the columns in file order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column or a MissingColumn error.
func (t *Table) Column(name string) (*Column, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, failure.New(failure.KindMissingColumn, eris.Errorf("dataset: column %q not found", name))
	}
	return t.columns[j], nil
}

// Row returns the raw cells of row i in column order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Clone returns a copy that shares no column slices with t.
func (t *Table) Clone() *Table {
	out := &Table{df: t.df.Copy(), index: make(map[string]int, len(t.columns)), rows: t.rows}
	for j, c := range t.columns {
		cp := &Column{
			Name:    c.Name,
			Values:  append([]string(nil), c.Values...),
			Missing: append([]bool(nil), c.Missing...),
			numeric: c.numeric,
		}
		if c.floats != nil {
			cp.floats = append([]float64(nil), c.floats...)
		}
		out.columns = append(out.columns, cp)
		out.index[c.Name] = j
	}
	return out
}

// SetCodes replaces the named column with integer codes. The column becomes
// numeric with no missing cells.
func (t *Table) SetCodes(name string, codes []int) error {
	j, ok := t.index[name]
	if !ok {
		return failure.New(failure.KindMissingColumn, eris.Errorf("dataset: column %q not found", name))
	}
	if len(codes) != t.rows {
		return eris.Errorf("dataset: %d codes for %d rows", len(codes), t.rows)
	}

	df := t.df.Mutate(series.New(codes, series.Int, name))
	if df.Err != nil {
		return eris.Wrapf(df.Err, "dataset: set codes %s", name)
	}

	raw := make([]string, t.rows)
	for i, code := range codes {
		raw[i] = strconv.Itoa(code)
	}
	t.df = df
	t.columns[j] = columnFromSeries(df.Col(name), raw)
	return nil
}

// Drop returns a table without the named columns. Every name must exist.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !t.Has(n) {
			return nil, failure.New(failure.KindMissingColumn, eris.Errorf("dataset: column %q not found", n))
		}
		drop[n] = true
	}

	df := t.df.Drop(names)
	if df.Err != nil {
		return nil, eris.Wrap(df.Err, "dataset: drop columns")
	}

	out := &Table{df: df, index: make(map[string]int, len(t.columns)), rows: t.rows}
	for _, c := range t.columns {
		if drop[c.Name] {
			continue
		}
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	return out, nil
}
