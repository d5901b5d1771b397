// Package loader reads the athlete events table into raw records.
package loader

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/athletebmi/internal/domain/athlete"
)

// Column names of the athlete events layout.
const (
	ColID     = "ID"
	ColName   = "Name"
	ColSex    = "Sex"
	ColAge    = "Age"
	ColHeight = "Height"
	ColWeight = "Weight"
	ColTeam   = "Team"
	ColNOC    = "NOC"
	ColYear   = "Year"
	ColSeason = "Season"
	ColSport  = "Sport"
	ColEvent  = "Event"
	ColMedal  = "Medal"
)

// RequiredColumns must be present in the header; the rest are optional.
var RequiredColumns = []string{ColID, ColName, ColSex, ColHeight, ColWeight, ColTeam, ColYear} //nolint:gochecknoglobals // fixed layout

// nanValues are the cells read as "no value".
var nanValues = []string{"NA", "NaN", ""} //nolint:gochecknoglobals // fixed layout

var columnTypes = map[string]series.Type{ //nolint:gochecknoglobals // fixed layout
	ColID:     series.String,
	ColName:   series.String,
	ColSex:    series.String,
	ColAge:    series.Float,
	ColHeight: series.Float,
	ColWeight: series.Float,
	ColTeam:   series.String,
	ColNOC:    series.String,
	ColYear:   series.Int,
	ColSeason: series.String,
	ColSport:  series.String,
	ColEvent:  series.String,
	ColMedal:  series.String,
}

var nan = math.NaN() //nolint:gochecknoglobals // constant NaN

// CSVLoader reads a delimited file with a header row.
type CSVLoader struct {
	delimiter rune
}

// Option configures a CSVLoader.
type Option func(*CSVLoader)

// WithDelimiter sets the field delimiter. Zero keeps the default comma.
func WithDelimiter(d rune) Option {
	return func(l *CSVLoader) {
		if d != 0 {
			l.delimiter = d
		}
	}
}

// NewCSVLoader creates a loader with the given options.
func NewCSVLoader(opts ...Option) *CSVLoader {
	l := &CSVLoader{delimiter: ','}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load opens path and reads every row into a RawRecord, in file order.
func (l *CSVLoader) Load(ctx context.Context, path string) ([]athlete.RawRecord, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return l.Read(ctx, f)
}

// Read parses records from r. Height, weight and age cells that are missing or
// not numeric load as NaN; a year that is not an integer is ErrMalformed.
func (l *CSVLoader) Read(ctx context.Context, r io.Reader) ([]athlete.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(l.delimiter),
		dataframe.WithLazyQuotes(true),
		dataframe.NaNValues(nanValues),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, df.Err)
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, name := range RequiredColumns {
		if !present[name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	years, err := df.Col(ColYear).Int()
	if err != nil {
		return nil, fmt.Errorf("%w: column %s: %w", ErrMalformed, ColYear, err)
	}

	text := func(name string) []string {
		if !present[name] {
			return nil
		}
		return cleanStrings(df.Col(name))
	}
	number := func(name string) []float64 {
		if !present[name] {
			return nil
		}
		return df.Col(name).Float()
	}

	var (
		ids     = text(ColID)
		names   = text(ColName)
		sexes   = text(ColSex)
		teams   = text(ColTeam)
		nocs    = text(ColNOC)
		seasons = text(ColSeason)
		sports  = text(ColSport)
		events  = text(ColEvent)
		medals  = text(ColMedal)
		ages    = number(ColAge)
		heights = number(ColHeight)
		weights = number(ColWeight)
	)

	n := df.Nrow()
	records := make([]athlete.RawRecord, n)
	for i := 0; i < n; i++ {
		records[i] = athlete.RawRecord{
			ID:     ids[i],
			Name:   names[i],
			Sex:    sexes[i],
			Age:    at(ages, i, nan),
			Height: heights[i],
			Weight: weights[i],
			Team:   teams[i],
			NOC:    at(nocs, i, ""),
			Year:   years[i],
			Season: at(seasons, i, ""),
			Sport:  at(sports, i, ""),
			Event:  at(events, i, ""),
			Medal:  at(medals, i, ""),
		}
	}

	return records, nil
}

// cleanStrings returns the column records with missing cells as "".
func cleanStrings(s series.Series) []string {
	out := s.Records()
	for i, missing := range s.IsNaN() {
		if missing {
			out[i] = ""
		}
	}
	return out
}

// at indexes an optional column, falling back when the column is absent.
func at[T any](col []T, i int, fallback T) T {
	if col == nil {
		return fallback
	}
	return col[i]
}
