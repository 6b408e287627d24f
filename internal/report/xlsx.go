// Package report exports the analysis and model comparison to files.
package report

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/fipe-cli/internal/analysis"
	"github.com/sells-group/fipe-cli/internal/failure"
	"github.com/sells-group/fipe-cli/internal/train"
)

// Sheet names of the workbook written by WriteXLSX.
const (
	SheetMissing = "Faltantes"
	SheetStats   = "Estatisticas"
	SheetBrands  = "Marcas"
	SheetModels  = "Modelos"
)

// WriteXLSX writes the summary and, when rep is non-nil, the model scores
// to a workbook at path.
func WriteXLSX(path string, s *analysis.Summary, rep *train.Report) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet(SheetMissing)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}
	addStrings(sheet, "coluna", "faltantes")
	for _, m := range s.Missing {
		row := sheet.AddRow()
		row.AddCell().SetString(m.Column)
		row.AddCell().SetInt(m.Count)
	}
	row := sheet.AddRow()
	row.AddCell().SetString("duplicados")
	row.AddCell().SetInt(s.Duplicates)

	sheet, err = f.AddSheet(SheetStats)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}
	addStrings(sheet, "coluna", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, c := range s.Describe {
		row := sheet.AddRow()
		row.AddCell().SetString(c.Column)
		row.AddCell().SetInt(c.Count)
		for _, v := range []float64{c.Mean, c.Std, c.Min, c.Q25, c.Q50, c.Q75, c.Max} {
			setStat(row.AddCell(), v)
		}
	}

	sheet, err = f.AddSheet(SheetBrands)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}
	addStrings(sheet, "marca", "quantidade")
	for _, b := range s.BrandCounts {
		row := sheet.AddRow()
		row.AddCell().SetString(b.Value)
		row.AddCell().SetInt(b.Count)
	}

	if rep != nil {
		sheet, err = f.AddSheet(SheetModels)
		if err != nil {
			return eris.Wrap(err, "report: add sheet")
		}
		addStrings(sheet, "modelo", "MAE", "MSE", "R2", "melhor")
		for _, r := range rep.Results {
			row := sheet.AddRow()
			row.AddCell().SetString(r.Name)
			setScore(row.AddCell(), r.MAE)
			setScore(row.AddCell(), r.MSE)
			setScore(row.AddCell(), r.R2)
			row.AddCell().SetBool(r.Name == rep.Winner)
		}
	}

	if err := f.Save(path); err != nil {
		return failure.New(failure.KindIO, eris.Wrapf(err, "report: save %s", path))
	}
	return nil
}

func addStrings(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// setStat writes a describe statistic the way the console table shows it.
func setStat(c *xlsx.Cell, v float64) {
	if math.IsNaN(v) {
		c.SetString(analysis.NaNLabel)
		return
	}
	setScore(c, v)
}

// setScore writes a model metric; non-finite values use the console spelling.
func setScore(c *xlsx.Cell, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.SetString(train.FormatFloat(v))
		return
	}
	c.SetFloat(v)
}
