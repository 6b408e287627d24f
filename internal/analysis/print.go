package analysis

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Print writes the Portuguese console report of s to out.
func (s *Summary) Print(out io.Writer) {
	p := message.NewPrinter(language.BrazilianPortuguese)

	_, _ = fmt.Fprintln(out, "Valores faltantes:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, m := range s.Missing {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", m.Column, p.Sprintf("%d", m.Count))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nValores duplicados: %s\n", p.Sprintf("%d", s.Duplicates))

	_, _ = fmt.Fprintln(out, "\nEstatísticas das variáveis numéricas:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprint(w, "\t")
	for _, c := range s.Describe {
		_, _ = fmt.Fprintf(w, "%s\t", c.Column)
	}
	_, _ = fmt.Fprintln(w)
	for _, row := range describeRows {
		_, _ = fmt.Fprintf(w, "%s\t", row.label)
		for _, c := range s.Describe {
			_, _ = fmt.Fprintf(w, "%s\t", formatStat(p, row.value(c)))
		}
		_, _ = fmt.Fprintln(w)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out, "\nContagem de marcas:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, b := range s.BrandCounts {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", b.Value, p.Sprintf("%d", b.Count))
	}
	_ = w.Flush()
}

type describeRow struct {
	label string
	value func(ColumnStats) float64
}

var describeRows = []describeRow{
	{"count", func(c ColumnStats) float64 { return float64(c.Count) }},
	{"mean", func(c ColumnStats) float64 { return c.Mean }},
	{"std", func(c ColumnStats) float64 { return c.Std }},
	{"min", func(c ColumnStats) float64 { return c.Min }},
	{"25%", func(c ColumnStats) float64 { return c.Q25 }},
	{"50%", func(c ColumnStats) float64 { return c.Q50 }},
	{"75%", func(c ColumnStats) float64 { return c.Q75 }},
	{"max", func(c ColumnStats) float64 { return c.Max }},
}

// NaNLabel is how an undefined statistic is shown.
const NaNLabel = "NaN"

func formatStat(p *message.Printer, v float64) string {
	if math.IsNaN(v) {
		return NaNLabel
	}
	return p.Sprintf("%.6f", v)
}
