package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mkotlarz/streampulse/internal/dataset"
)

// HolidayImpact is the holiday/event analyzer output: viewership summed per
// release date inside any ±window of the given dates, plus the matching
// records for the table underneath the chart.
type HolidayImpact struct {
	Window   int              `json:"window"`
	Dates    []time.Time      `json:"dates"`
	ByDate   []Bucket         `json:"by_date"`
	Releases []dataset.Record `json:"releases"`
}

// ParseDateList parses a comma-separated YYYY-MM-DD list. Empty entries are
// skipped; a malformed entry fails the whole list so the caller can 400.
func ParseDateList(s string) ([]time.Time, error) {
	var dates []time.Time
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", part)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", part)
		}
		dates = append(dates, t)
	}
	return dates, nil
}

// HolidayWindow selects the releases within ±window days of any date and
// aggregates their hours by release date.
func HolidayWindow(v View, dates []time.Time, window int) HolidayImpact {
	impact := HolidayImpact{Window: window, Dates: dates}

	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		if dataset.NearAnyDate(r.ReleaseDate, dates, window) {
			impact.Releases = append(impact.Releases, r)
		}
	}
	sort.SliceStable(impact.Releases, func(i, j int) bool {
		return impact.Releases[i].ReleaseDate.Before(impact.Releases[j].ReleaseDate)
	})

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range impact.Releases {
		key := r.ReleaseDate.Format("2006-01-02")
		sums[key] += r.HoursViewed
		counts[key]++
	}
	for key, total := range sums {
		impact.ByDate = append(impact.ByDate, Bucket{Label: key, Value: total, Count: counts[key]})
	}
	SortByLabel(impact.ByDate)
	return impact
}
