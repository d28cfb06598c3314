package charts

import (
	"math"

	"github.com/mkotlarz/streampulse/internal/analytics"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#E50914", "#F87171", "#FB923C", "#FACC15", "#4ADE80",
	"#22D3EE", "#818CF8", "#E879F9", "#94A3B8", "#F472B6",
}

// Bar builds a single-series bar chart from aggregated buckets.
func Bar(title, xAxis, yAxis string, buckets []analytics.Bucket) *Config {
	if len(buckets) == 0 {
		return nil
	}
	return &Config{
		ChartType: "bar",
		Title:     title,
		XAxis:     xAxis,
		YAxis:     yAxis,
		Series:    []Series{{Name: yAxis, Data: points(buckets)}},
		Colors:    assignColors(len(buckets)),
		ShowGrid:  true,
	}
}

// Pie builds a share-of-total pie chart from aggregated buckets.
func Pie(title string, buckets []analytics.Bucket) *Config {
	if len(buckets) == 0 {
		return nil
	}
	return &Config{
		ChartType:  "pie",
		Title:      title,
		Series:     []Series{{Name: title, Data: points(buckets)}},
		Colors:     assignColors(len(buckets)),
		ShowLegend: true,
	}
}

// Line builds a single-series line chart; bucket order is the axis order.
func Line(title, xAxis, yAxis string, buckets []analytics.Bucket) *Config {
	if len(buckets) == 0 {
		return nil
	}
	return &Config{
		ChartType: "line",
		Title:     title,
		XAxis:     xAxis,
		YAxis:     yAxis,
		Series:    []Series{{Name: yAxis, Data: points(buckets), Color: defaultColors[0]}},
		ShowGrid:  true,
	}
}

// MultiLine builds one line per series, all aligned on the same axis order.
func MultiLine(title, xAxis, yAxis string, series []analytics.Series) *Config {
	if len(series) == 0 {
		return nil
	}
	cfg := &Config{
		ChartType:  "line",
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		ShowLegend: true,
		ShowGrid:   true,
	}
	for i, s := range series {
		cfg.Series = append(cfg.Series, Series{
			Name:  s.Name,
			Data:  points(s.Buckets),
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	cfg.Colors = assignColors(len(cfg.Series))
	return cfg
}

// Combo builds the dual-axis release-cadence chart: a bar series of release
// counts on the left axis and a line series of viewership hours on the
// right axis.
func Combo(title, xAxis string, c analytics.Cadence) *Config {
	if len(c.Labels) == 0 {
		return nil
	}
	bars := make([]Point, len(c.Labels))
	lines := make([]Point, len(c.Labels))
	for i, label := range c.Labels {
		bars[i] = Point{Label: label, Value: c.Releases[i]}
		lines[i] = Point{Label: label, Value: round2(c.Hours[i])}
	}
	return &Config{
		ChartType:  "combo",
		Title:      title,
		XAxis:      xAxis,
		YAxis:      "Number of Releases",
		Y2Axis:     "Total Hours Viewed (millions)",
		ShowLegend: true,
		ShowGrid:   true,
		Series: []Series{
			{Name: "Number of Releases", Data: bars, Kind: "bar", Axis: "left", Color: defaultColors[8]},
			{Name: "Viewership Hours", Data: lines, Kind: "line", Axis: "right", Color: defaultColors[0]},
		},
	}
}

// CorrelationHeatmap builds the heatmap payload from a correlation matrix.
// Cell values are rounded for display.
func CorrelationHeatmap(title string, m analytics.CorrelationMatrix) *Config {
	if len(m.Labels) == 0 {
		return nil
	}
	values := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]float64, len(row))
		for j, v := range row {
			values[i][j] = round2(v)
		}
	}
	return &Config{
		ChartType: "heatmap",
		Title:     title,
		Heatmap: &Heatmap{
			Rows:   m.Labels,
			Cols:   m.Labels,
			Values: values,
		},
	}
}

func points(buckets []analytics.Bucket) []Point {
	pts := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		pts = append(pts, Point{Label: b.Label, Value: round2(b.Value)})
	}
	return pts
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
