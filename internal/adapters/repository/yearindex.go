package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/athletebmi/internal/domain/athlete"
	"github.com/okian/athletebmi/pkg/metrics"
)

// YearIndex is an immutable Store built from BMI-sorted entries.
//
// Buckets are filled by walking the sorted input once, so ascending BMI order
// carries over into every bucket without a second sort.
type YearIndex struct {
	buckets map[int]Bucket
	years   []int // descending
	count   int
}

var _ Store = (*YearIndex)(nil)

// NewYearIndex groups entries by year. The caller must pass entries already
// sorted ascending by BMI (see athlete.SortByBMI); the slice is not retained.
func NewYearIndex(_ context.Context, sorted []athlete.Entry) *YearIndex {
	idx := &YearIndex{
		buckets: make(map[int]Bucket),
		count:   len(sorted),
	}

	for _, e := range sorted {
		b, ok := idx.buckets[e.Year]
		if !ok {
			idx.years = append(idx.years, e.Year)
		}
		b.Names = append(b.Names, e.Name)
		b.BMI = append(b.BMI, e.BMI)
		idx.buckets[e.Year] = b
	}

	sort.Sort(sort.Reverse(sort.IntSlice(idx.years)))
	return idx
}

// Years implements Store.
func (idx *YearIndex) Years(_ context.Context) []int {
	out := make([]int, len(idx.years))
	copy(out, idx.years)
	return out
}

// DefaultYear implements Store.
func (idx *YearIndex) DefaultYear(_ context.Context) (int, bool) {
	if len(idx.years) == 0 {
		return 0, false
	}
	return idx.years[0], true
}

// Bucket implements Store.
func (idx *YearIndex) Bucket(_ context.Context, year int) (Bucket, bool) {
	b, ok := idx.buckets[year]
	if !ok {
		return Bucket{}, false
	}
	return Bucket{
		Names: append([]string(nil), b.Names...),
		BMI:   append([]float64(nil), b.BMI...),
	}, true
}

// Select implements Store.
func (idx *YearIndex) Select(_ context.Context, year int, order Order, limit int) (Selection, error) {
	b, ok := idx.buckets[year]
	if !ok {
		metrics.RecordSelectionError("year_not_found")
		return Selection{}, fmt.Errorf("%w: %d", ErrYearNotFound, year)
	}
	if limit < 1 {
		limit = DefaultSelectionLimit
	}
	n := min(limit, b.Len())

	sel := Selection{
		Year:  year,
		Order: order,
		Names: make([]string, n),
		BMI:   make([]float64, n),
	}

	switch order {
	case Ascending:
		copy(sel.Names, b.Names[:n])
		copy(sel.BMI, b.BMI[:n])
	case Descending:
		last := b.Len() - 1
		for i := 0; i < n; i++ {
			sel.Names[i] = b.Names[last-i]
			sel.BMI[i] = b.BMI[last-i]
		}
	default:
		metrics.RecordSelectionError("invalid_order")
		return Selection{}, fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}

	metrics.RecordSelection(string(order), n)
	return sel, nil
}

// Count implements Store.
func (idx *YearIndex) Count(_ context.Context) int {
	return idx.count
}
