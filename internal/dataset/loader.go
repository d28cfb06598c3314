package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/mkotlarz/streampulse/pkg/log"
)

// LoadOptions control derived-field computation during CSV parsing.
type LoadOptions struct {
	HolidayDates  []time.Time
	HolidayWindow int // ±days
}

// Column aliases accepted in the CSV header, keyed by snake_case form.
// The exported dataset uses "Hours Viewed", "Language Indicator" etc., but
// user uploads come in all sorts of shapes.
var headerAliases = map[string]string{
	"title":              "title",
	"content_type":       "content_type",
	"type":               "content_type",
	"language_indicator": "language",
	"language":           "language",
	"release_date":       "release_date",
	"date":               "release_date",
	"hours_viewed":       "hours_viewed",
	"views":              "hours_viewed",
	"duration":           "duration",
	"duration_min":       "duration",
	"runtime":            "duration",
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006-01-02 15:04:05"}

var titleCaser = cases.Title(language.English)

// LoadFile reads and parses a CSV dataset from disk.
func LoadFile(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f, opts)
}

// Load parses CSV rows into a Table. The header row is mapped by
// snake_cased name, so column order does not matter and unknown columns are
// skipped. A dataset without title and hours-viewed columns is rejected.
func Load(r io.Reader, opts LoadOptions) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols := make([]string, len(headers))
	seen := make(map[string]bool)
	for i, h := range headers {
		key := headerAliases[toSnakeCase(strings.TrimSpace(h))]
		cols[i] = key
		if key != "" {
			seen[key] = true
		}
	}
	if !seen["title"] || !seen["hours_viewed"] {
		return nil, fmt.Errorf("CSV is missing required columns (need at least Title and Hours Viewed)")
	}

	var (
		records  []Record
		skipped  int
		detected int
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		var rec Record
		for i, val := range row {
			if i >= len(cols) {
				break
			}
			val = strings.TrimSpace(val)
			switch cols[i] {
			case "title":
				rec.Title = val
			case "content_type":
				rec.ContentType = titleCaser.String(val)
			case "language":
				rec.Language = titleCaser.String(val)
			case "release_date":
				rec.ReleaseDate = parseDate(val)
			case "hours_viewed":
				rec.HoursViewed = parseNumber(val)
			case "duration":
				rec.DurationMin = parseNumber(val)
			}
		}

		if rec.Title == "" {
			skipped++
			continue
		}
		if rec.Language == "" {
			rec.Language = detectLanguage(rec.Title)
			detected++
		}
		deriveCalendar(&rec, opts.HolidayDates, opts.HolidayWindow)
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV contains no usable rows")
	}
	if skipped > 0 || detected > 0 {
		log.Debug("dataset load: %d rows, %d skipped, %d languages inferred from titles", len(records), skipped, detected)
	}

	return &Table{Records: records}, nil
}

// parseNumber parses a float that may carry comma thousands separators,
// e.g. "812,100,000" or "1,234.5".
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseDate tries the accepted layouts and returns the zero time when none
// matches.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// detectLanguage infers a display language name from the title text for
// rows that ship without a language column. Unreliable detections fall back
// to "Unknown" rather than polluting the language dimension.
func detectLanguage(title string) string {
	info := whatlanggo.Detect(title)
	if !info.IsReliable() {
		return "Unknown"
	}
	iso := info.Lang.Iso6391()
	if iso == "" {
		return "Unknown"
	}
	tag, err := language.Parse(iso)
	if err != nil {
		return "Unknown"
	}
	return display.English.Languages().Name(tag)
}

// toSnakeCase converts "Column Name" to "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
