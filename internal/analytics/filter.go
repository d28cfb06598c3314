package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/mkotlarz/streampulse/internal/dataset"
)

// Filter is a user-chosen predicate restricting which records are
// aggregated. Dimensions are AND-combined; values within a dimension are
// OR-combined. An empty set or zero time means no restriction on that
// dimension.
type Filter struct {
	Types     []string  `json:"types,omitempty"`
	Languages []string  `json:"languages,omitempty"`
	From      time.Time `json:"from,omitempty"`
	To        time.Time `json:"to,omitempty"`
}

func (f Filter) IsEmpty() bool {
	return len(f.Types) == 0 && len(f.Languages) == 0 && f.From.IsZero() && f.To.IsZero()
}

// View is a filtered window over a table: indices into the parent, no data
// copy. Aggregations read records through it.
type View struct {
	table *dataset.Table
	idx   []int
}

func (v View) Len() int { return len(v.idx) }

func (v View) At(i int) dataset.Record {
	return v.table.Records[v.idx[i]]
}

// Apply evaluates the filter in a single pass and returns a View of the
// matching records. Value matching is case-insensitive. Records without a
// release date are excluded once a date bound is set.
func Apply(t *dataset.Table, f Filter) View {
	n := t.Len()
	idx := make([]int, 0, n)

	typeSet := toLowerSet(f.Types)
	langSet := toLowerSet(f.Languages)

	for i, r := range t.Records {
		if typeSet != nil && !typeSet[strings.ToLower(r.ContentType)] {
			continue
		}
		if langSet != nil && !langSet[strings.ToLower(r.Language)] {
			continue
		}
		if !f.From.IsZero() && (!r.HasDate() || r.ReleaseDate.Before(f.From)) {
			continue
		}
		if !f.To.IsZero() && (!r.HasDate() || r.ReleaseDate.After(f.To)) {
			continue
		}
		idx = append(idx, i)
	}
	return View{table: t, idx: idx}
}

func toLowerSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}

// Options holds the distinct values the sidebar controls offer.
type Options struct {
	ContentTypes []string  `json:"content_types"`
	Languages    []string  `json:"languages"`
	MinDate      time.Time `json:"min_date"`
	MaxDate      time.Time `json:"max_date"`
}

// FilterOptions collects the filterable values of a table.
func FilterOptions(t *dataset.Table) Options {
	opts := Options{
		ContentTypes: distinct(t, func(r dataset.Record) string { return r.ContentType }),
		Languages:    distinct(t, func(r dataset.Record) string { return r.Language }),
	}
	if min, max, ok := t.DateRange(); ok {
		opts.MinDate = min
		opts.MaxDate = max
	}
	return opts
}

func distinct(t *dataset.Table, dim func(dataset.Record) string) []string {
	seen := make(map[string]bool)
	var vals []string
	for _, r := range t.Records {
		v := dim(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}
