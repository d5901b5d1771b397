package athlete

import (
	"context"
	"sort"

	"github.com/okian/athletebmi/internal/domain/dedupe"
)

// Aggregate turns raw rows into entries, in input order. Rows without a
// computable BMI are dropped before the deduper sees them, so they never
// shadow a later valid row for the same athlete and year. Of the remaining
// rows only the first per (athlete, year) is kept.
func Aggregate(ctx context.Context, records []RawRecord, d dedupe.Deduper) ([]Entry, AggregateStats) {
	stats := AggregateStats{RowsRead: len(records)}
	entries := make([]Entry, 0, len(records))

	for i := range records {
		r := &records[i]
		bmi, ok := BMI(r.Height, r.Weight)
		if !ok {
			stats.SkippedMissing++
			continue
		}
		if d.SeenAndRecord(ctx, dedupe.Key{Year: r.Year, ID: r.ID}) {
			stats.Duplicates++
			continue
		}
		entries = append(entries, Entry{
			ID:   r.ID,
			Name: r.Name,
			Team: r.Team,
			Year: r.Year,
			BMI:  bmi,
		})
	}

	stats.Entries = len(entries)
	return entries, stats
}

// SortByBMI orders entries ascending by BMI in place. The sort is stable:
// equal BMIs keep their input order.
func SortByBMI(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BMI < entries[j].BMI
	})
}
