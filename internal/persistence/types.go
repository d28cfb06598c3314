package persistence

import (
	"time"

	"github.com/mkotlarz/streampulse/internal/analytics"
)

// Dataset is a stored CSV upload (or the bundled file). The raw bytes are
// kept verbatim and re-parsed on activation; records are never edited in
// place.
type Dataset struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source"` // "bundled" or "upload"
	CSV        []byte    `json:"-"`
	RowCount   int       `json:"row_count"`
	UploadedAt time.Time `json:"uploaded_at"`
	Active     bool      `json:"active"`
}

// FilterPreset is a named, saved filter predicate.
type FilterPreset struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Filter    analytics.Filter `json:"filter"`
	CreatedAt time.Time        `json:"created_at"`
}
