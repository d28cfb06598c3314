package charts

// Config is a render-ready chart payload. The page draws exactly what it is
// given; all aggregation happens server-side.
type Config struct {
	ChartType  string   `json:"chartType"` // "bar", "pie", "line", "combo", "heatmap"
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Y2Axis     string   `json:"y2Axis,omitempty"` // secondary axis label for combo charts
	Series     []Series `json:"series,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	ShowLegend bool     `json:"showLegend"`
	ShowGrid   bool     `json:"showGrid"`
	Heatmap    *Heatmap `json:"heatmap,omitempty"`
}

// Series is one data series in a chart.
type Series struct {
	Name  string  `json:"name"`
	Data  []Point `json:"data"`
	Color string  `json:"color,omitempty"`
	Kind  string  `json:"kind,omitempty"` // per-series type in combo charts: "bar" or "line"
	Axis  string  `json:"axis,omitempty"` // "left" (default) or "right"
}

// Point is a single labelled value.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Heatmap carries a labelled matrix for heatmap charts.
type Heatmap struct {
	Rows   []string    `json:"rows"`
	Cols   []string    `json:"cols"`
	Values [][]float64 `json:"values"`
}
