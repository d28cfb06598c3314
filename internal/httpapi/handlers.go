package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mkotlarz/streampulse/internal/analytics"
	"github.com/mkotlarz/streampulse/internal/charts"
	"github.com/mkotlarz/streampulse/internal/dataset"
	"github.com/mkotlarz/streampulse/pkg/icron"
)

// parseFilter reads the shared filter query params: types, langs, from, to.
func parseFilter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()
	f := analytics.Filter{
		Types:     splitList(q.Get("types")),
		Languages: splitList(q.Get("langs")),
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid from date %q (want YYYY-MM-DD)", v)
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid to date %q (want YYYY-MM-DD)", v)
		}
		f.To = t
	}
	return f, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// filteredView resolves the filter params into a view, writing a 400 on
// bad input. ok is false when a response has already been written.
func (s *Server) filteredView(w http.ResponseWriter, r *http.Request) (analytics.View, bool) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return analytics.View{}, false
	}
	return s.svc.Filter(f), true
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, meta := s.svc.Snapshot()
	if meta.RefreshCron != "" {
		if info, err := icron.GetTriggerInfo(meta.RefreshCron, time.Now()); err == nil {
			meta.NextRefresh = info.Next
		}
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	table, _ := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, analytics.FilterOptions(table))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	v, ok := s.filteredView(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(v))
}

// chart builders shared by /api/dashboard and /api/charts/{name}.

func chartContentType(v analytics.View) *charts.Config {
	buckets := analytics.GroupBy(v, analytics.ByContentType, analytics.HoursViewed, analytics.AggSum)
	analytics.SortByValueDesc(buckets)
	return charts.Bar("Total Viewership Hours by Content Type", "Content Type", "Total Hours Viewed (millions)", buckets)
}

func chartContentShare(v analytics.View) *charts.Config {
	buckets := analytics.GroupBy(v, analytics.ByContentType, analytics.HoursViewed, analytics.AggSum)
	analytics.SortByValueDesc(buckets)
	return charts.Pie("Viewership Share by Content Type", buckets)
}

func chartLanguages(v analytics.View, limit int) *charts.Config {
	buckets := analytics.GroupBy(v, analytics.ByLanguage, analytics.HoursViewed, analytics.AggSum)
	analytics.SortByValueDesc(buckets)
	buckets = analytics.Limit(buckets, limit)
	return charts.Bar("Total Viewership Hours by Language", "Language", "Total Hours Viewed (millions)", buckets)
}

func chartMonthly(v analytics.View) *charts.Config {
	buckets := analytics.Reindex(
		analytics.GroupBy(v, analytics.ByMonth, analytics.HoursViewed, analytics.AggSum),
		dataset.MonthOrder)
	return charts.Line("Total Viewership Hours by Release Month", "Month", "Total Hours Viewed (millions)", buckets)
}

func chartMonthlyByType(v analytics.View) *charts.Config {
	series := analytics.GroupBySplit(v, analytics.ByMonth, analytics.ByContentType, analytics.HoursViewed, dataset.MonthOrder)
	return charts.MultiLine("Viewership Trends by Content Type and Release Month", "Month", "Total Hours Viewed (millions)", series)
}

func chartSeasons(v analytics.View) *charts.Config {
	buckets := analytics.Reindex(
		analytics.GroupBy(v, analytics.BySeason, analytics.HoursViewed, analytics.AggSum),
		dataset.SeasonOrder)
	return charts.Bar("Total Viewership Hours by Release Season", "Season", "Total Hours Viewed (millions)", buckets)
}

func chartCadence(v analytics.View, by string) (*charts.Config, error) {
	switch by {
	case "", "month":
		c := analytics.ReleaseCadence(v, analytics.ByMonth, dataset.MonthOrder)
		return charts.Combo("Monthly Release Patterns and Viewership Hours", "Month", c), nil
	case "weekday":
		c := analytics.ReleaseCadence(v, analytics.ByWeekday, dataset.WeekdayOrder)
		return charts.Combo("Weekly Release Patterns and Viewership Hours", "Day of the Week", c), nil
	default:
		return nil, fmt.Errorf("invalid cadence dimension %q (want month or weekday)", by)
	}
}

func chartCorrelation(v analytics.View) *charts.Config {
	return charts.CorrelationHeatmap("Correlation of Numeric Fields", analytics.Correlate(v))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	v, ok := s.filteredView(w, r)
	if !ok {
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/charts/"), "/")
	var cfg *charts.Config
	switch name {
	case "content-type":
		cfg = chartContentType(v)
	case "content-share":
		cfg = chartContentShare(v)
	case "languages":
		limit, err := intParam(r, "limit", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cfg = chartLanguages(v, limit)
	case "monthly":
		cfg = chartMonthly(v)
	case "monthly-by-type":
		cfg = chartMonthlyByType(v)
	case "seasons":
		cfg = chartSeasons(v)
	case "cadence":
		var err error
		cfg, err = chartCadence(v, r.URL.Query().Get("by"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	case "correlation":
		cfg = chartCorrelation(v)
	default:
		writeError(w, http.StatusNotFound, "unknown chart "+name)
		return
	}

	if cfg == nil {
		writeError(w, http.StatusNotFound, "no data matches the current filters")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type dashboardResponse struct {
	Summary analytics.Summary         `json:"summary"`
	Charts  map[string]*charts.Config `json:"charts"`
}

// handleDashboard builds every chart in one response. The builds are
// independent, so they fan out on an errgroup.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	v, ok := s.filteredView(w, r)
	if !ok {
		return
	}

	resp := dashboardResponse{Charts: make(map[string]*charts.Config, 8)}
	var (
		contentType, contentShare, languages *charts.Config
		monthly, monthlyByType, seasons      *charts.Config
		cadenceMonth, cadenceWeekday         *charts.Config
		correlation                          *charts.Config
	)

	g, _ := errgroup.WithContext(r.Context())
	g.Go(func() error { resp.Summary = analytics.Summarize(v); return nil })
	g.Go(func() error { contentType = chartContentType(v); return nil })
	g.Go(func() error { contentShare = chartContentShare(v); return nil })
	g.Go(func() error { languages = chartLanguages(v, 0); return nil })
	g.Go(func() error { monthly = chartMonthly(v); return nil })
	g.Go(func() error { monthlyByType = chartMonthlyByType(v); return nil })
	g.Go(func() error { seasons = chartSeasons(v); return nil })
	g.Go(func() error {
		var err error
		cadenceMonth, err = chartCadence(v, "month")
		return err
	})
	g.Go(func() error {
		var err error
		cadenceWeekday, err = chartCadence(v, "weekday")
		return err
	})
	g.Go(func() error { correlation = chartCorrelation(v); return nil })
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for name, cfg := range map[string]*charts.Config{
		"content-type":    contentType,
		"content-share":   contentShare,
		"languages":       languages,
		"monthly":         monthly,
		"monthly-by-type": monthlyByType,
		"seasons":         seasons,
		"cadence-month":   cadenceMonth,
		"cadence-weekday": cadenceWeekday,
		"correlation":     correlation,
	} {
		if cfg != nil {
			resp.Charts[name] = cfg
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type topTitlesResponse struct {
	Title   string           `json:"title"`
	Records []dataset.Record `json:"records"`
}

func (s *Server) handleTopTitles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	v, ok := s.filteredView(w, r)
	if !ok {
		return
	}
	limit, err := intParam(r, "limit", s.topDefault)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, topTitlesResponse{
		Title:   fmt.Sprintf("Top %d Titles by Hours Viewed", limit),
		Records: analytics.TopTitles(v, limit),
	})
}

type holidayResponse struct {
	Chart  *charts.Config          `json:"chart"`
	Impact analytics.HolidayImpact `json:"impact"`
}

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	v, ok := s.filteredView(w, r)
	if !ok {
		return
	}

	dates := s.holidayDates
	if raw := r.URL.Query().Get("dates"); raw != "" {
		parsed, err := analytics.ParseDateList(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dates = parsed
	}
	window, err := intParam(r, "window", s.holidayWindow)
	if err != nil || window < 0 {
		writeError(w, http.StatusBadRequest, "window must be a non-negative integer")
		return
	}

	impact := analytics.HolidayWindow(v, dates, window)
	writeJSON(w, http.StatusOK, holidayResponse{
		Chart:  charts.Bar("Viewership for Releases Near Important Dates", "Release Date", "Total Hours Viewed (millions)", impact.ByDate),
		Impact: impact,
	})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
