// Package repository holds the read-only, per-year BMI index served to the
// dashboard.
package repository

import (
	"context"
	"fmt"
	"strings"
)

// DefaultSelectionLimit is the number of bars a chart shows.
const DefaultSelectionLimit = 10

// Order selects which end of a year's bucket a selection reads.
type Order string

// Supported orders.
const (
	Ascending  Order = "ascending"
	Descending Order = "descending"
)

// ParseOrder accepts the canonical names, their short forms and the
// dashboard's original "menor"/"maior" values. Empty input means Ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascending", "asc", "menor":
		return Ascending, nil
	case "descending", "desc", "maior":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
}

// Bucket holds one year's athletes as two index-aligned sequences sorted
// ascending by BMI: Names[i] and BMI[i] describe the same entry.
type Bucket struct {
	Names []string
	BMI   []float64
}

// Len returns the number of entries in the bucket.
func (b Bucket) Len() int { return len(b.Names) }

// Selection is the chart payload for one year and order.
type Selection struct {
	Year  int       `json:"year" yaml:"year"`
	Order Order     `json:"order" yaml:"order"`
	Names []string  `json:"names" yaml:"names"`
	BMI   []float64 `json:"bmi" yaml:"bmi"`
}

// Store provides read access to the per-year index.
type Store interface {
	// Years returns the distinct years, most recent first.
	Years(ctx context.Context) []int

	// DefaultYear returns the most recent year; false when the index is empty.
	DefaultYear(ctx context.Context) (int, bool)

	// Bucket returns a copy of a year's bucket and whether the year exists.
	Bucket(ctx context.Context, year int) (Bucket, bool)

	// Select returns up to limit entries of a year in the given order.
	// Returns ErrYearNotFound if the year is unknown.
	Select(ctx context.Context, year int, order Order, limit int) (Selection, error)

	// Count returns the number of entries across all years.
	Count(ctx context.Context) int
}
