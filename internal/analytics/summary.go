package analytics

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Summary is the KPI block at the top of the dashboard, computed over the
// filtered view.
type Summary struct {
	TotalHours   float64 `json:"total_hours"` // millions
	Titles       int     `json:"titles"`
	AvgHours     float64 `json:"avg_hours"` // millions per title
	ShowPercent  float64 `json:"show_percent"`
	MoviePercent float64 `json:"movie_percent"`

	// Pre-formatted display strings so every client renders the same
	// grouped numbers.
	TotalHoursLabel string `json:"total_hours_label"`
	TitlesLabel     string `json:"titles_label"`
	AvgHoursLabel   string `json:"avg_hours_label"`
	SplitLabel      string `json:"split_label"`
}

var kpiPrinter = message.NewPrinter(language.English)

// Summarize computes the KPI block for a view.
func Summarize(v View) Summary {
	var s Summary
	var shows, movies int

	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		s.TotalHours += r.HoursViewed
		switch strings.ToLower(r.ContentType) {
		case "show":
			shows++
		case "movie":
			movies++
		}
	}
	s.Titles = v.Len()
	if s.Titles > 0 {
		s.AvgHours = s.TotalHours / float64(s.Titles)
		s.ShowPercent = float64(shows) / float64(s.Titles) * 100
		s.MoviePercent = float64(movies) / float64(s.Titles) * 100
	}

	s.TotalHoursLabel = kpiPrinter.Sprintf("%v", number.Decimal(s.TotalHours, number.MaxFractionDigits(1), number.MinFractionDigits(1)))
	s.TitlesLabel = kpiPrinter.Sprintf("%v", number.Decimal(s.Titles))
	s.AvgHoursLabel = kpiPrinter.Sprintf("%v", number.Decimal(s.AvgHours, number.MaxFractionDigits(1), number.MinFractionDigits(1)))
	s.SplitLabel = kpiPrinter.Sprintf("%.1f%% / %.1f%%", s.ShowPercent, s.MoviePercent)
	return s
}
