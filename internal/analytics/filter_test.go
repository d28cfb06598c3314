package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotlarz/streampulse/internal/dataset"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTable() *dataset.Table {
	recs := []dataset.Record{
		{Title: "The Night Agent", ContentType: "Show", Language: "English", ReleaseDate: date(2023, 3, 23), HoursViewed: 812.1},
		{Title: "Ginny & Georgia", ContentType: "Show", Language: "English", ReleaseDate: date(2023, 1, 5), HoursViewed: 665.1},
		{Title: "The Glory", ContentType: "Show", Language: "Korean", ReleaseDate: date(2022, 12, 30), HoursViewed: 622.8},
		{Title: "La Reina del Sur", ContentType: "Show", Language: "Spanish", ReleaseDate: date(2023, 1, 1), HoursViewed: 429.6},
		{Title: "Luther: The Fallen Sun", ContentType: "Movie", Language: "English", ReleaseDate: date(2023, 3, 10), HoursViewed: 209.7, DurationMin: 129},
		{Title: "Undated Special", ContentType: "Movie", Language: "English", HoursViewed: 50},
	}
	for i := range recs {
		if recs[i].HasDate() {
			recs[i].MonthName = recs[i].ReleaseDate.Format("Jan")
			recs[i].Weekday = recs[i].ReleaseDate.Weekday().String()
			recs[i].Season = dataset.SeasonOf(recs[i].ReleaseDate.Month())
		}
	}
	return &dataset.Table{Records: recs}
}

func titles(v View) []string {
	out := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		out = append(out, v.At(i).Title)
	}
	return out
}

func TestApply_EmptyFilterKeepsAll(t *testing.T) {
	table := testTable()
	v := Apply(table, Filter{})
	assert.Equal(t, table.Len(), v.Len())
}

func TestApply_ByContentType(t *testing.T) {
	v := Apply(testTable(), Filter{Types: []string{"movie"}})
	assert.Equal(t, []string{"Luther: The Fallen Sun", "Undated Special"}, titles(v))
}

func TestApply_ByLanguageCaseInsensitive(t *testing.T) {
	v := Apply(testTable(), Filter{Languages: []string{"KOREAN", "spanish"}})
	assert.Equal(t, []string{"The Glory", "La Reina del Sur"}, titles(v))
}

func TestApply_DateRangeExcludesDatelessRows(t *testing.T) {
	v := Apply(testTable(), Filter{From: date(2023, 1, 1), To: date(2023, 3, 15)})
	assert.Equal(t, []string{"Ginny & Georgia", "La Reina del Sur", "Luther: The Fallen Sun"}, titles(v))
}

func TestApply_DimensionsAreANDCombined(t *testing.T) {
	v := Apply(testTable(), Filter{
		Types:     []string{"Show"},
		Languages: []string{"English"},
		From:      date(2023, 2, 1),
	})
	assert.Equal(t, []string{"The Night Agent"}, titles(v))
}

func TestFilterIsEmpty(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.False(t, Filter{Types: []string{"Show"}}.IsEmpty())
	assert.False(t, Filter{From: date(2023, 1, 1)}.IsEmpty())
}

func TestFilterOptions(t *testing.T) {
	opts := FilterOptions(testTable())

	assert.Equal(t, []string{"Movie", "Show"}, opts.ContentTypes)
	assert.Equal(t, []string{"English", "Korean", "Spanish"}, opts.Languages)
	require.False(t, opts.MinDate.IsZero())
	assert.Equal(t, date(2022, 12, 30), opts.MinDate)
	assert.Equal(t, date(2023, 3, 23), opts.MaxDate)
}
