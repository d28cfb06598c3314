package dataset

import "time"

// Record is one row of the viewing dataset: a piece of content plus the
// calendar fields derived from its release date at load time. Records are
// immutable once loaded.
type Record struct {
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	Language    string    `json:"language"`
	ReleaseDate time.Time `json:"release_date"`
	HoursViewed float64   `json:"hours_viewed"` // millions
	DurationMin float64   `json:"duration_min"` // 0 when the column is absent

	// Derived calendar fields. Zero values when ReleaseDate is unknown.
	MonthName   string `json:"month_name"` // "Jan".."Dec"
	Weekday     string `json:"weekday"`    // "Monday".."Sunday"
	Season      string `json:"season"`
	NearHoliday bool   `json:"near_holiday"`
}

// HasDate reports whether the record carries a usable release date.
// Dateless records stay in language/type aggregates but are skipped by
// calendar groupings.
func (r Record) HasDate() bool {
	return !r.ReleaseDate.IsZero()
}

// Table is a read-only snapshot of a loaded dataset. A new Table replaces
// the old one wholesale on reload or upload.
type Table struct {
	Records []Record
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// DateRange returns the min and max release dates across dated records.
// ok is false when no record has a date.
func (t *Table) DateRange() (min, max time.Time, ok bool) {
	for _, r := range t.Records {
		if !r.HasDate() {
			continue
		}
		if !ok || r.ReleaseDate.Before(min) {
			min = r.ReleaseDate
		}
		if !ok || r.ReleaseDate.After(max) {
			max = r.ReleaseDate
		}
		ok = true
	}
	return min, max, ok
}

// Fixed categorical orders used by every calendar grouping so charts come
// out in calendar order rather than value order.
var (
	SeasonOrder  = []string{"Winter", "Spring", "Summer", "Fall"}
	WeekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	MonthOrder   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)
