package analytics

import (
	"sort"

	"github.com/mkotlarz/streampulse/internal/dataset"
)

// Bucket is one aggregate group: a label, the aggregated measure value and
// the number of records that landed in the group.
type Bucket struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Series is a named bucket list, one per sub-dimension value when a
// grouping is split by a second dimension.
type Series struct {
	Name    string   `json:"name"`
	Buckets []Bucket `json:"buckets"`
}

type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggMean  Aggregation = "mean"
	AggCount Aggregation = "count"
)

// DimFunc extracts a grouping label from a record. Records mapping to the
// empty label are skipped (e.g. calendar dimensions of dateless rows).
type DimFunc func(dataset.Record) string

// MeasureFunc extracts the numeric measure to aggregate.
type MeasureFunc func(dataset.Record) float64

// Standard dimensions and measures.
var (
	ByLanguage    DimFunc = func(r dataset.Record) string { return r.Language }
	ByContentType DimFunc = func(r dataset.Record) string { return r.ContentType }
	ByMonth       DimFunc = func(r dataset.Record) string { return r.MonthName }
	ByWeekday     DimFunc = func(r dataset.Record) string { return r.Weekday }
	BySeason      DimFunc = func(r dataset.Record) string { return r.Season }
	ByReleaseDay  DimFunc = func(r dataset.Record) string {
		if !r.HasDate() {
			return ""
		}
		return r.ReleaseDate.Format("2006-01-02")
	}

	HoursViewed MeasureFunc = func(r dataset.Record) float64 { return r.HoursViewed }
	DurationMin MeasureFunc = func(r dataset.Record) float64 { return r.DurationMin }
)

// GroupBy buckets a view by dim and aggregates measure per bucket.
// Buckets come back in first-seen order; use Reindex or SortByValueDesc to
// impose calendar or ranking order.
func GroupBy(v View, dim DimFunc, measure MeasureFunc, agg Aggregation) []Bucket {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string

	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		label := dim(r)
		if label == "" {
			continue
		}
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
		sums[label] += measure(r)
	}

	buckets := make([]Bucket, 0, len(order))
	for _, label := range order {
		b := Bucket{Label: label, Count: counts[label]}
		switch agg {
		case AggCount:
			b.Value = float64(counts[label])
		case AggMean:
			b.Value = sums[label] / float64(counts[label])
		default:
			b.Value = sums[label]
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// Reindex reorders buckets to a fixed label order, inserting zero-valued
// buckets for absent labels so calendar charts keep their full axis.
func Reindex(buckets []Bucket, order []string) []Bucket {
	byLabel := make(map[string]Bucket, len(buckets))
	for _, b := range buckets {
		byLabel[b.Label] = b
	}
	out := make([]Bucket, 0, len(order))
	for _, label := range order {
		if b, ok := byLabel[label]; ok {
			out = append(out, b)
		} else {
			out = append(out, Bucket{Label: label})
		}
	}
	return out
}

// SortByValueDesc orders buckets by value, largest first. Ties keep the
// grouping order (stable).
func SortByValueDesc(buckets []Bucket) {
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Value > buckets[j].Value })
}

// SortByLabel orders buckets lexically, used for date-keyed groupings where
// the label is an ISO date.
func SortByLabel(buckets []Bucket) {
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Label < buckets[j].Label })
}

// Limit truncates a bucket list to the top n entries; n <= 0 means all.
func Limit(buckets []Bucket, n int) []Bucket {
	if n > 0 && len(buckets) > n {
		return buckets[:n]
	}
	return buckets
}

// GroupBySplit buckets by dim within each value of split, producing one
// series per split value aligned on the given label order. Series are
// sorted by name for deterministic output.
func GroupBySplit(v View, dim, split DimFunc, measure MeasureFunc, order []string) []Series {
	type key struct{ split, label string }
	sums := make(map[key]float64)
	splitSeen := make(map[string]bool)
	var splits []string

	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		label := dim(r)
		sv := split(r)
		if label == "" || sv == "" {
			continue
		}
		if !splitSeen[sv] {
			splitSeen[sv] = true
			splits = append(splits, sv)
		}
		sums[key{sv, label}] += measure(r)
	}
	sort.Strings(splits)

	series := make([]Series, 0, len(splits))
	for _, sv := range splits {
		buckets := make([]Bucket, 0, len(order))
		for _, label := range order {
			buckets = append(buckets, Bucket{Label: label, Value: sums[key{sv, label}]})
		}
		series = append(series, Series{Name: sv, Buckets: buckets})
	}
	return series
}

// Cadence pairs release counts with total hours viewed per calendar bucket,
// feeding the dual-axis release-strategy charts.
type Cadence struct {
	Labels   []string  `json:"labels"`
	Releases []float64 `json:"releases"`
	Hours    []float64 `json:"hours"`
}

// ReleaseCadence computes releases vs. viewership per dim in the given
// calendar order.
func ReleaseCadence(v View, dim DimFunc, order []string) Cadence {
	counts := Reindex(GroupBy(v, dim, HoursViewed, AggCount), order)
	hours := Reindex(GroupBy(v, dim, HoursViewed, AggSum), order)

	c := Cadence{
		Labels:   order,
		Releases: make([]float64, len(order)),
		Hours:    make([]float64, len(order)),
	}
	for i := range order {
		c.Releases[i] = counts[i].Value
		c.Hours[i] = hours[i].Value
	}
	return c
}

// TopTitles returns the n records with the highest hours viewed, ties
// broken by title for stable output.
func TopTitles(v View, n int) []dataset.Record {
	recs := make([]dataset.Record, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		recs = append(recs, v.At(i))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].HoursViewed != recs[j].HoursViewed {
			return recs[i].HoursViewed > recs[j].HoursViewed
		}
		return recs[i].Title < recs[j].Title
	})
	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
