package dataset

import "time"

// SeasonOf maps a release month to its meteorological-ish season, matching
// the bucketing the dashboard has always used: Dec/Jan/Feb are Winter,
// Mar-May Spring, Jun-Aug Summer, everything else Fall.
func SeasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}

// NearAnyDate reports whether t falls within ±window days of any of the
// given dates. Times are compared at day granularity.
func NearAnyDate(t time.Time, dates []time.Time, window int) bool {
	if t.IsZero() || window < 0 {
		return false
	}
	day := t.Truncate(24 * time.Hour)
	for _, d := range dates {
		diff := day.Sub(d.Truncate(24 * time.Hour))
		if diff < 0 {
			diff = -diff
		}
		if diff <= time.Duration(window)*24*time.Hour {
			return true
		}
	}
	return false
}

// deriveCalendar fills the derived fields of a record in place.
func deriveCalendar(r *Record, holidays []time.Time, window int) {
	if !r.HasDate() {
		return
	}
	r.MonthName = r.ReleaseDate.Format("Jan")
	r.Weekday = r.ReleaseDate.Weekday().String()
	r.Season = SeasonOf(r.ReleaseDate.Month())
	r.NearHoliday = NearAnyDate(r.ReleaseDate, holidays, window)
}
