package http

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/openhelio/solar-motion/internal/pipeline"
)

// interactiveChart renders the series as a self-contained ECharts page, one
// smoothed line per region over the shared angle axis.
func interactiveChart(res *pipeline.Result) ([]byte, error) {
	subtitle := fmt.Sprintf("%d amostras por região", res.FrameCount)
	if res.Source != "" {
		subtitle = fmt.Sprintf("%s - %s", res.Source, subtitle)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Movimento do Sol - Irradiância Solar",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Movimento do Sol - Irradiância Solar", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Ângulo Solar (graus)", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Irradiância (W/m²)", Min: 0, Max: 1000}),
	)

	labels := make([]string, len(res.Angles))
	for i, a := range res.Angles {
		labels[i] = strconv.FormatFloat(a, 'f', 1, 64)
	}
	line.SetXAxis(labels)

	for _, reg := range res.Regions {
		data := make([]opts.LineData, len(reg.Values))
		for i, v := range reg.Values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(reg.Name, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, fmt.Errorf("render interactive chart: %w", err)
	}
	return buf.Bytes(), nil
}
