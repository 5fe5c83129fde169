package render

import (
	"fmt"
	"io"

	"pspicdash/internal/catalog"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Interactive writes a standalone HTML page with an ECharts rendition of the
// chart, embedded by the section pages for hover tooltips.
func Interactive(w io.Writer, c Chart) error {
	if c.Kind == catalog.ChartBar {
		return interactiveBar(c).Render(w)
	}
	return interactivePie(c).Render(w)
}

func initOpts(c Chart, height int) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle:       c.Title,
		Width:           "100%",
		Height:          fmt.Sprintf("%dpx", height),
		BackgroundColor: "#ffffff",
	})
}

func interactivePie(c Chart) *charts.Pie {
	data := make([]opts.PieData, len(c.Data.Buckets))
	for i, b := range c.Data.Buckets {
		data[i] = opts.PieData{
			Name:      b.Label,
			Value:     b.Count,
			ItemStyle: &opts.ItemStyle{Color: colorAt(c.Colors, i)},
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(c, 360),
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: fmt.Sprintf("%d total", c.Data.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}: {c} ({d}%)",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Bottom: "0",
			Type:   "scroll",
		}),
	)
	pie.AddSeries(c.Title, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{d}%",
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"0%", "60%"},
				Center: []string{"50%", "45%"},
			}),
		)
	return pie
}

func interactiveBar(c Chart) *charts.Bar {
	labels := make([]string, len(c.Data.Buckets))
	data := make([]opts.BarData, len(c.Data.Buckets))
	for i, b := range c.Data.Buckets {
		labels[i] = b.Label
		data[i] = opts.BarData{
			Value:     b.Count,
			ItemStyle: &opts.ItemStyle{Color: colorAt(c.Colors, i)},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(c, max(300, len(labels)*40)),
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: fmt.Sprintf("%d total", c.Data.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithGridOpts(opts.Grid{
			Left: "130",
		}),
	)
	bar.SetXAxis(labels).AddSeries(c.Title, data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "right",
		}))
	bar.XYReversal()
	return bar
}

func colorAt(colors []string, i int) string {
	if len(colors) == 0 {
		return "#0ea5e9"
	}
	return colors[i%len(colors)]
}
