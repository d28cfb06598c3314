package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotlarz/streampulse/internal/dataset"
)

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"perfect negative", []float64{1, 2, 3}, []float64{3, 2, 1}, -1},
		{"self", []float64{5, 1, 9}, []float64{5, 1, 9}, 1},
		{"one constant", []float64{1, 1, 1}, []float64{1, 2, 3}, 0},
		{"both constant", []float64{4, 4}, []float64{4, 4}, 1},
		{"empty", nil, nil, 0},
		{"length mismatch", []float64{1, 2}, []float64{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pearson(tt.x, tt.y), 1e-9)
		})
	}
}

func TestCorrelate_IncludesDurationWhenPresent(t *testing.T) {
	m := Correlate(Apply(testTable(), Filter{}))

	require.Equal(t, []string{"Hours Viewed", "Duration (min)", "Release Month", "Release Weekday"}, m.Labels)
	require.Len(t, m.Values, 4)
	for i := range m.Values {
		require.Len(t, m.Values[i], 4)
		assert.InDelta(t, 1.0, m.Values[i][i], 1e-9)
		for j := range m.Values[i] {
			assert.InDelta(t, m.Values[j][i], m.Values[i][j], 1e-9, "matrix must be symmetric")
			assert.LessOrEqual(t, m.Values[i][j], 1.0+1e-9)
			assert.GreaterOrEqual(t, m.Values[i][j], -1.0-1e-9)
		}
	}
}

func TestCorrelate_DropsDurationWhenAbsent(t *testing.T) {
	table := &dataset.Table{Records: []dataset.Record{
		{Title: "a", HoursViewed: 10, ReleaseDate: date(2023, 1, 2)},
		{Title: "b", HoursViewed: 20, ReleaseDate: date(2023, 5, 9)},
		{Title: "c", HoursViewed: 15, ReleaseDate: date(2023, 9, 20)},
	}}
	m := Correlate(Apply(table, Filter{}))
	assert.Equal(t, []string{"Hours Viewed", "Release Month", "Release Weekday"}, m.Labels)
}

func TestCorrelate_UsesDatedRecordsOnly(t *testing.T) {
	table := &dataset.Table{Records: []dataset.Record{
		{Title: "dated", HoursViewed: 10, ReleaseDate: date(2023, 1, 2)},
		{Title: "dated2", HoursViewed: 30, ReleaseDate: date(2023, 7, 4)},
		{Title: "undated", HoursViewed: 99999},
	}}
	m := Correlate(Apply(table, Filter{}))
	// With the undated outlier excluded, month and hours move together
	// across the two remaining points.
	idxHours, idxMonth := 0, 1
	assert.InDelta(t, 1.0, m.Values[idxHours][idxMonth], 1e-9)
}
