// Package chart renders the descriptive PNG charts of the listing table.
package chart

import (
	"image/color"
	"math"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sells-group/fipe-cli/internal/analysis"
	"github.com/sells-group/fipe-cli/internal/dataset"
	"github.com/sells-group/fipe-cli/internal/failure"
)

// Output file names, written to the output directory.
const (
	BrandFile = "grafico_marcas.png"
	GearFile  = "grafico_gear.png"
	MonthFile = "grafico_preco_meses.png"
)

const (
	width  = 12 * vg.Inch
	height = 6 * vg.Inch
)

// MonthMean is the mean price of one calendar month.
type MonthMean struct {
	Month string
	Index int
	Mean  float64
}

// CountBy returns the value counts of col, most frequent first.
func CountBy(t *dataset.Table, col string) ([]analysis.ValueCount, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	return analysis.ValueCounts(c), nil
}

// MeanByMonth averages priceCol per month of monthCol in calendar order.
// Months with no priced rows are omitted and labels outside the calendar
// are ignored.
func MeanByMonth(t *dataset.Table, monthCol, priceCol string) ([]MonthMean, error) {
	months, err := t.Column(monthCol)
	if err != nil {
		return nil, err
	}
	prices, err := t.Column(priceCol)
	if err != nil {
		return nil, err
	}

	var sums, counts [12]float64
	for i := 0; i < t.Len(); i++ {
		if months.Missing[i] {
			continue
		}
		m, ok := dataset.MonthIndex(months.Values[i])
		if !ok {
			continue
		}
		p := prices.Float(i)
		if math.IsNaN(p) {
			continue
		}
		sums[m] += p
		counts[m]++
	}

	var out []MonthMean
	for m := range dataset.Months {
		if counts[m] == 0 {
			continue
		}
		out = append(out, MonthMean{Month: dataset.Months[m], Index: m, Mean: sums[m] / counts[m]})
	}
	return out, nil
}

// Render writes the brand, gear and monthly price charts into dir and
// returns the written paths. Existing files are overwritten.
func Render(t *dataset.Table, dir string) ([]string, error) {
	brands, err := CountBy(t, dataset.ColBrand)
	if err != nil {
		return nil, eris.Wrap(err, "chart: brand counts")
	}
	gears, err := CountBy(t, dataset.ColGear)
	if err != nil {
		return nil, eris.Wrap(err, "chart: gear counts")
	}
	means, err := MeanByMonth(t, dataset.ColMonth, dataset.ColPrice)
	if err != nil {
		return nil, eris.Wrap(err, "chart: monthly means")
	}

	jobs := []struct {
		file string
		plot func() (*plot.Plot, error)
	}{
		{BrandFile, func() (*plot.Plot, error) {
			return barChart(brands, "Distribuição da Quantidade de Carros por Marca", "brand")
		}},
		{GearFile, func() (*plot.Plot, error) {
			return barChart(gears, "Distribuição da Quantidade de Carros por Tipo de Engrenagem", "gear")
		}},
		{MonthFile, func() (*plot.Plot, error) {
			return monthChart(means)
		}},
	}

	paths := make([]string, 0, len(jobs))
	for _, job := range jobs {
		p, err := job.plot()
		if err != nil {
			return paths, eris.Wrapf(err, "chart: build %s", job.file)
		}
		path := filepath.Join(dir, job.file)
		if err := save(p, path); err != nil {
			return paths, err
		}
		zap.L().Debug("chart: written", zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return failure.New(failure.KindIO, eris.Wrapf(err, "chart: save %s", path))
	}
	return nil
}

func barChart(counts []analysis.ValueCount, title, xLabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel

	if len(counts) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		labels[i] = c.Value
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

func monthChart(means []MonthMean) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Evolução da Média de Preço dos Carros"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = dataset.ColMonth
	p.Add(plotter.NewGrid())

	// Absent months break the line, one segment per run of adjacent months.
	for _, seg := range segments(means) {
		xys := make(plotter.XYs, len(seg))
		for i, m := range seg {
			xys[i].X = float64(m.Index)
			xys[i].Y = m.Mean
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		blue := color.RGBA{B: 255, A: 255}
		line.Color = blue
		line.Width = vg.Points(2)
		points.Color = blue
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
	}

	p.NominalX(dataset.Months...)
	return p, nil
}

func segments(means []MonthMean) [][]MonthMean {
	var out [][]MonthMean
	start := 0
	for i := 1; i <= len(means); i++ {
		if i == len(means) || means[i].Index != means[i-1].Index+1 {
			out = append(out, means[start:i])
			start = i
		}
	}
	return out
}
