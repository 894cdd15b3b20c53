package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/aguepe1/Fleet-Simulator/core/model"
)

// WriteHTMLReport renders the service level history and the three
// distribution summaries as a standalone HTML page.
func WriteHTMLReport(w io.Writer, res model.SearchResult) error {
	page := components.NewPage()
	page.PageTitle = "Reserve fleet search"
	page.AddCharts(
		historyChart(res),
		pmfChart("Repair duration", res.Distributions.Repair),
		pmfChart("Maintenance duration", res.Distributions.Maintenance),
		hazardChart(res.Distributions.Failure),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func historyChart(res model.SearchResult) *charts.Line {
	line := charts.NewLine()
	subtitle := fmt.Sprintf("state %s, minimum %d, perfect %d", res.State, res.MinimumReserve, res.PerfectReserve)
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Service level by reserve size", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Reserve units"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Service level (%)"}),
	)
	xs := make([]string, len(res.History))
	ys := make([]opts.LineData, len(res.History))
	for i, p := range res.History {
		xs[i] = strconv.Itoa(p.Reserve)
		ys[i] = opts.LineData{Value: p.ServiceLevel * 100}
	}
	line.SetXAxis(xs).AddSeries("Service level", ys)
	return line
}

func pmfChart(title string, s model.PMFSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("shape %.2f, scale %.4f", s.Shape, s.Scale)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Days"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Probability"}),
	)
	xs := make([]string, len(s.Days))
	ys := make([]opts.BarData, len(s.Days))
	for i, d := range s.Days {
		xs[i] = strconv.Itoa(d)
		ys[i] = opts.BarData{Value: s.Probabilities[i]}
	}
	bar.SetXAxis(xs).AddSeries("PMF", ys)
	return bar
}

func hazardChart(h model.HazardSummary) *charts.Line {
	line := charts.NewLine()
	subtitle := "failures disabled"
	if h.Enabled {
		subtitle = fmt.Sprintf("shape %.2f, scale %.4f, MTTF %.2f days", h.Shape, h.Scale, h.MTTF)
	}
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Failure hazard", Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Age (days)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Daily failure probability"}),
	)
	xs := make([]string, len(h.Ages))
	ys := make([]opts.LineData, len(h.Ages))
	for i, a := range h.Ages {
		xs[i] = strconv.Itoa(a)
		ys[i] = opts.LineData{Value: h.Rates[i]}
	}
	line.SetXAxis(xs).AddSeries("Hazard", ys)
	return line
}
