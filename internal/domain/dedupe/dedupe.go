// Package dedupe tracks which athletes were already recorded for a year.
package dedupe

import (
	"context"
	"sync/atomic"
)

// Key identifies one athlete in one year.
type Key struct {
	Year int
	ID   string
}

// Deduper records seen keys to ensure first-occurrence-wins semantics.
type Deduper interface {
	// SeenAndRecord checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key Key) bool

	// Size returns the number of recorded keys.
	Size() int64
}

// yearDeduper keeps one id set per year, mirroring how the dataset is
// grouped downstream. It is built and consumed by the single startup pass
// and is not safe for concurrent writers.
type yearDeduper struct {
	seen map[int]map[string]struct{}
	size atomic.Int64
}

// NewYearDeduper creates an empty per-year deduper.
func NewYearDeduper() Deduper {
	return &yearDeduper{seen: make(map[int]map[string]struct{})}
}

// SeenAndRecord implements Deduper.
func (d *yearDeduper) SeenAndRecord(_ context.Context, key Key) bool {
	ids, ok := d.seen[key.Year]
	if !ok {
		ids = make(map[string]struct{})
		d.seen[key.Year] = ids
	}
	if _, exists := ids[key.ID]; exists {
		return true
	}
	ids[key.ID] = struct{}{}
	d.size.Add(1)
	return false
}

// Size implements Deduper.
func (d *yearDeduper) Size() int64 {
	return d.size.Load()
}
