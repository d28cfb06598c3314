package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	v := Apply(testTable(), Filter{})
	s := Summarize(v)

	assert.Equal(t, 6, s.Titles)
	assert.InDelta(t, 812.1+665.1+622.8+429.6+209.7+50, s.TotalHours, 1e-9)
	assert.InDelta(t, s.TotalHours/6, s.AvgHours, 1e-9)
	assert.InDelta(t, 4.0/6*100, s.ShowPercent, 1e-9)
	assert.InDelta(t, 2.0/6*100, s.MoviePercent, 1e-9)

	assert.Equal(t, "2,789.3", s.TotalHoursLabel)
	assert.Equal(t, "6", s.TitlesLabel)
	assert.Equal(t, "66.7% / 33.3%", s.SplitLabel)
}

func TestSummarize_EmptyView(t *testing.T) {
	v := Apply(testTable(), Filter{Languages: []string{"Klingon"}})
	s := Summarize(v)

	assert.Zero(t, s.Titles)
	assert.Zero(t, s.TotalHours)
	assert.Zero(t, s.AvgHours)
	assert.Zero(t, s.ShowPercent)
	assert.Equal(t, "0", s.TitlesLabel)
}
