package present

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EChartsAsset is the script a page loads before embedding a Widget
const EChartsAsset = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

const widgetID = "bigfive-radar"

// Widget is a radar chart ready to embed in an HTML page: a container
// element and the script that draws into it.
type Widget struct {
	Element string
	Script  string
}

// RenderWidget draws the chart as an ECharts radar polygon. ECharts closes
// the polygon itself, so the repeated first point is dropped. Charts with
// fewer than three spokes render nothing.
func RenderWidget(chart RadarChart) Widget {
	n := len(chart.R)
	if n > 1 && len(chart.Theta) == n && chart.Theta[0] == chart.Theta[n-1] {
		n--
	}
	if n < 3 || len(chart.Theta) < n {
		return Widget{}
	}

	indicators := make([]*opts.Indicator, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		indicators[i] = &opts.Indicator{
			Name: chart.Theta[i],
			Min:  float32(chart.RadialRange[0]),
			Max:  float32(chart.RadialRange[1]),
		}
		values[i] = chart.R[i]
	}

	size := strconv.Itoa(chart.Height) + "px"
	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: widgetID,
			Width:   size,
			Height:  size,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(chart.ShowLegend)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator:   indicators,
			Shape:       "polygon",
			SplitNumber: len(gridLevels),
		}),
	)
	radar.AddSeries("Scores", []opts.RadarData{{Name: "Scores", Value: values}},
		charts.WithAreaStyleOpts(opts.AreaStyle{}),
	)

	snippet := radar.RenderSnippet()
	return Widget{Element: snippet.Element, Script: snippet.Script}
}
