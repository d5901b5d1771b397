// Package athlete contains the athlete records and the BMI pipeline that turns
// raw rows into per-year entries.
package athlete

// RawRecord is one row of the source table. Height, Weight and Age are NaN
// when the source cell is empty or not a number.
type RawRecord struct {
	ID     string
	Name   string
	Sex    string
	Age    float64
	Height float64 // centimeters
	Weight float64 // kilograms
	Team   string
	NOC    string
	Year   int
	Season string
	Sport  string
	Event  string
	Medal  string
}

// Entry is one athlete in one year with a computed BMI.
type Entry struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Team string  `json:"team"`
	Year int     `json:"year"`
	BMI  float64 `json:"bmi"`
}

// AggregateStats counts how the raw rows were consumed by Aggregate.
type AggregateStats struct {
	RowsRead       int `json:"rows_read"`
	SkippedMissing int `json:"skipped_missing"`
	Duplicates     int `json:"duplicates"`
	Entries        int `json:"entries"`
}
