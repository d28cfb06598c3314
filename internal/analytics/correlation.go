package analytics

import (
	"math"

	"github.com/mkotlarz/streampulse/internal/dataset"
)

// CorrelationMatrix is the heatmap input: a symmetric Pearson matrix over
// the numeric fields of the filtered view.
type CorrelationMatrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"` // Values[i][j] = corr(Labels[i], Labels[j])
}

// numeric fields the matrix correlates. Weekday is indexed Monday=1 so the
// release-strategy signal (weekday vs. viewership) shows up.
var correlationFields = []struct {
	label string
	fn    MeasureFunc
}{
	{"Hours Viewed", HoursViewed},
	{"Duration (min)", DurationMin},
	{"Release Month", func(r dataset.Record) float64 {
		if !r.HasDate() {
			return 0
		}
		return float64(r.ReleaseDate.Month())
	}},
	{"Release Weekday", func(r dataset.Record) float64 {
		if !r.HasDate() {
			return 0
		}
		wd := int(r.ReleaseDate.Weekday())
		if wd == 0 {
			wd = 7 // Sunday last, matching the weekday axis
		}
		return float64(wd)
	}},
}

// Correlate builds the Pearson correlation matrix over dated records. The
// duration column is dropped from the matrix when the dataset doesn't carry
// it, so the heatmap never shows an all-zero row.
func Correlate(v View) CorrelationMatrix {
	fields := correlationFields
	if !hasDuration(v) {
		trimmed := make([]struct {
			label string
			fn    MeasureFunc
		}, 0, len(fields)-1)
		for _, f := range fields {
			if f.label != "Duration (min)" {
				trimmed = append(trimmed, f)
			}
		}
		fields = trimmed
	}

	// Column-major extraction over dated records only.
	cols := make([][]float64, len(fields))
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		if !r.HasDate() {
			continue
		}
		for j, f := range fields {
			cols[j] = append(cols[j], f.fn(r))
		}
	}

	m := CorrelationMatrix{
		Labels: make([]string, len(fields)),
		Values: make([][]float64, len(fields)),
	}
	for i, f := range fields {
		m.Labels[i] = f.label
		m.Values[i] = make([]float64, len(fields))
	}
	for i := range fields {
		for j := range fields {
			if j < i {
				m.Values[i][j] = m.Values[j][i]
				continue
			}
			m.Values[i][j] = pearson(cols[i], cols[j])
		}
	}
	return m
}

func hasDuration(v View) bool {
	for i := 0; i < v.Len(); i++ {
		if v.At(i).DurationMin > 0 {
			return true
		}
	}
	return false
}

// pearson computes the Pearson correlation coefficient of two equal-length
// samples. Zero-variance inputs correlate to 0 rather than NaN, except the
// self-correlation of identical slices which is 1 by definition.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 && varY == 0 {
		return 1
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
