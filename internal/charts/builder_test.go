package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotlarz/streampulse/internal/analytics"
)

func sampleBuckets() []analytics.Bucket {
	return []analytics.Bucket{
		{Label: "English", Value: 1234.567, Count: 3},
		{Label: "Korean", Value: 622.8, Count: 1},
	}
}

func TestBar(t *testing.T) {
	cfg := Bar("Viewership by Language", "Language", "Hours Viewed (millions)", sampleBuckets())
	require.NotNil(t, cfg)

	assert.Equal(t, "bar", cfg.ChartType)
	assert.Equal(t, "Viewership by Language", cfg.Title)
	assert.Equal(t, "Language", cfg.XAxis)
	require.Len(t, cfg.Series, 1)
	require.Len(t, cfg.Series[0].Data, 2)
	assert.Equal(t, "English", cfg.Series[0].Data[0].Label)
	assert.Equal(t, 1234.57, cfg.Series[0].Data[0].Value)
	assert.Len(t, cfg.Colors, 2)
	assert.True(t, cfg.ShowGrid)
}

func TestBar_EmptyBuckets(t *testing.T) {
	assert.Nil(t, Bar("t", "x", "y", nil))
}

func TestPie(t *testing.T) {
	cfg := Pie("Share", sampleBuckets())
	require.NotNil(t, cfg)
	assert.Equal(t, "pie", cfg.ChartType)
	assert.True(t, cfg.ShowLegend)
	assert.Nil(t, Pie("Share", nil))
}

func TestLine(t *testing.T) {
	cfg := Line("Monthly", "Month", "Hours", sampleBuckets())
	require.NotNil(t, cfg)
	assert.Equal(t, "line", cfg.ChartType)
	assert.Equal(t, defaultColors[0], cfg.Series[0].Color)
	assert.Nil(t, Line("Monthly", "Month", "Hours", nil))
}

func TestMultiLine(t *testing.T) {
	series := []analytics.Series{
		{Name: "Movie", Buckets: sampleBuckets()},
		{Name: "Show", Buckets: sampleBuckets()},
	}
	cfg := MultiLine("Monthly by Type", "Month", "Hours", series)
	require.NotNil(t, cfg)
	require.Len(t, cfg.Series, 2)
	assert.Equal(t, "Movie", cfg.Series[0].Name)
	assert.Equal(t, "Show", cfg.Series[1].Name)
	assert.NotEqual(t, cfg.Series[0].Color, cfg.Series[1].Color)
	assert.True(t, cfg.ShowLegend)
	assert.Nil(t, MultiLine("t", "x", "y", nil))
}

func TestCombo(t *testing.T) {
	cadence := analytics.Cadence{
		Labels:   []string{"Jan", "Feb"},
		Releases: []float64{4, 0},
		Hours:    []float64{1094.699, 0},
	}
	cfg := Combo("Release Cadence", "Month", cadence)
	require.NotNil(t, cfg)

	assert.Equal(t, "combo", cfg.ChartType)
	assert.Equal(t, "Number of Releases", cfg.YAxis)
	assert.Equal(t, "Total Hours Viewed (millions)", cfg.Y2Axis)
	require.Len(t, cfg.Series, 2)

	bars, lines := cfg.Series[0], cfg.Series[1]
	assert.Equal(t, "bar", bars.Kind)
	assert.Equal(t, "left", bars.Axis)
	assert.Equal(t, 4.0, bars.Data[0].Value)
	assert.Equal(t, "line", lines.Kind)
	assert.Equal(t, "right", lines.Axis)
	assert.Equal(t, 1094.7, lines.Data[0].Value)

	assert.Nil(t, Combo("t", "x", analytics.Cadence{}))
}

func TestCorrelationHeatmap(t *testing.T) {
	m := analytics.CorrelationMatrix{
		Labels: []string{"A", "B"},
		Values: [][]float64{
			{1, 0.123456},
			{0.123456, 1},
		},
	}
	cfg := CorrelationHeatmap("Correlation", m)
	require.NotNil(t, cfg)

	assert.Equal(t, "heatmap", cfg.ChartType)
	require.NotNil(t, cfg.Heatmap)
	assert.Equal(t, m.Labels, cfg.Heatmap.Rows)
	assert.Equal(t, m.Labels, cfg.Heatmap.Cols)
	assert.Equal(t, 0.12, cfg.Heatmap.Values[0][1])

	assert.Nil(t, CorrelationHeatmap("t", analytics.CorrelationMatrix{}))
}
