package qdie

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHistogram writes an HTML bar chart of h to w.
func RenderHistogram(w io.Writer, title string, h *Histogram) error {
	labels := make([]string, h.Sides)
	items := make([]opts.BarData, h.Sides)

	for i, count := range h.Counts {
		labels[i] = strconv.Itoa(i + 1)
		items[i] = opts.BarData{Value: count}
	}

	subtitle := fmt.Sprintf(
		"n=%d, chi2=%.3f (df=%d, critical=%.3f)",
		h.Total(), h.ChiSquare(), h.Sides-1, ChiSquareCritical(h.Sides-1),
	)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("count", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render histogram: %w", err)
	}

	return nil
}
