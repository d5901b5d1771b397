// Package athletegen writes synthetic datasets in the athlete events layout
// for demos and load tests.
package athletegen

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"

	"github.com/okian/athletebmi/pkg/logger"
)

// Header is the column layout of the generated file.
var Header = []string{ //nolint:gochecknoglobals // fixed layout
	"ID", "Name", "Sex", "Age", "Height", "Weight", "Team", "NOC",
	"Games", "Year", "Season", "City", "Sport", "Event", "Medal",
}

const missing = "NA"

// Generation defaults.
const (
	DefaultRows          = 1000
	DefaultMissingRate   = 0.2
	DefaultDuplicateRate = 0.1
)

// ErrInvalidConfig is returned for configurations that cannot produce a file.
var ErrInvalidConfig = errors.New("invalid generator config")

// Config controls a generation run.
type Config struct {
	Rows          int     // rows to write, duplicates included
	Seed          int64   // same seed, same file
	Years         []int   // candidate years; defaults to every Summer Games since 1896
	MissingRate   float64 // share of rows with NA height or weight
	DuplicateRate float64 // share of rows repeating an earlier athlete and year
}

// Stats describes what a run wrote.
type Stats struct {
	Rows       int
	Missing    int
	Duplicates int
}

// Body-type profiles, each a sport with a typical height and weight range.
type profile struct {
	sport        string
	event        string
	heightMin    float64
	heightRange  float64
	weightMin    float64
	weightRange  float64
	femaleFactor float64
}

var profiles = []profile{ //nolint:gochecknoglobals // fixed table
	{"Athletics", "Athletics %s's Marathon", 160, 20, 48, 17, 0.92},
	{"Athletics", "Athletics %s's Shot Put", 178, 20, 95, 45, 0.85},
	{"Basketball", "Basketball %s's Basketball", 185, 30, 80, 35, 0.9},
	{"Gymnastics", "Gymnastics %s's Individual All-Around", 145, 30, 38, 35, 0.88},
	{"Judo", "Judo %s's Heavyweight", 175, 25, 90, 60, 0.85},
	{"Swimming", "Swimming %s's 100 metres Freestyle", 172, 28, 62, 30, 0.9},
	{"Weightlifting", "Weightlifting %s's Super-Heavyweight", 170, 25, 105, 60, 0.85},
	{"Speed Skating", "Speed Skating %s's 500 metres", 165, 25, 58, 30, 0.9},
}

var teams = []struct{ team, noc string }{ //nolint:gochecknoglobals // fixed table
	{"Brazil", "BRA"}, {"China", "CHN"}, {"Denmark", "DEN"}, {"France", "FRA"},
	{"Germany", "GER"}, {"Japan", "JPN"}, {"Kenya", "KEN"}, {"Netherlands", "NED"},
	{"United States", "USA"}, {"Australia", "AUS"},
}

var (
	givenNames  = []string{"Ana", "Bruno", "Chen", "Dara", "Emil", "Fatima", "Gustavo", "Hana", "Ivan", "Julia", "Kofi", "Lena"} //nolint:gochecknoglobals // fixed table
	familyNames = []string{"Silva", "Wang", "Nielsen", "Martin", "Muller", "Sato", "Kiprop", "de Vries", "Smith", "Jones"}     //nolint:gochecknoglobals // fixed table
	medals      = []string{"Gold", "Silver", "Bronze"}                                                                          //nolint:gochecknoglobals // fixed table
)

// DefaultYears lists Summer Games years from 1896 to 2016, skipping the
// cancelled editions.
func DefaultYears() []int {
	var years []int
	for y := 1896; y <= 2016; y += 4 {
		if y == 1916 || y == 1940 || y == 1944 {
			continue
		}
		years = append(years, y)
	}
	return years
}

func (c *Config) normalize() error {
	if c.Rows < 0 {
		return fmt.Errorf("%w: rows must not be negative", ErrInvalidConfig)
	}
	if c.MissingRate < 0 || c.MissingRate > 1 || c.DuplicateRate < 0 || c.DuplicateRate > 1 {
		return fmt.Errorf("%w: rates must be within [0, 1]", ErrInvalidConfig)
	}
	if len(c.Years) == 0 {
		c.Years = DefaultYears()
	}
	return nil
}

// Write generates cfg.Rows rows plus the header and writes them to w as CSV.
func Write(ctx context.Context, w io.Writer, cfg Config) (Stats, error) {
	if err := cfg.normalize(); err != nil {
		return Stats{}, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible synthetic data

	out := csv.NewWriter(w)
	if err := out.Write(Header); err != nil {
		return Stats{}, fmt.Errorf("write header: %w", err)
	}

	var (
		stats   Stats
		written [][]string
	)
	for i := 0; i < cfg.Rows; i++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("generation cancelled: %w", err)
		}

		var row []string
		if len(written) > 0 && rng.Float64() < cfg.DuplicateRate {
			row = duplicateRow(rng, written[rng.Intn(len(written))])
			stats.Duplicates++
		} else {
			row = newRow(rng, i+1, cfg.Years)
			if rng.Float64() < cfg.MissingRate {
				blankMeasurement(rng, row)
				stats.Missing++
			}
		}

		if err := out.Write(row); err != nil {
			return stats, fmt.Errorf("write row %d: %w", i+1, err)
		}
		written = append(written, row)
		stats.Rows++
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return stats, fmt.Errorf("flush: %w", err)
	}

	logger.Get().Debug(ctx, "generated athlete dataset",
		logger.Int("rows", stats.Rows),
		logger.Int("missing", stats.Missing),
		logger.Int("duplicates", stats.Duplicates),
	)
	return stats, nil
}

// newRow builds one athlete appearance with an id unique to the run.
func newRow(rng *rand.Rand, id int, years []int) []string {
	p := profiles[rng.Intn(len(profiles))]
	t := teams[rng.Intn(len(teams))]
	year := years[rng.Intn(len(years))]

	sex, label, factor := "M", "Men", 1.0
	if rng.Intn(2) == 0 {
		sex, label, factor = "F", "Women", p.femaleFactor
	}
	height := (p.heightMin + rng.Float64()*p.heightRange) * factor
	weight := (p.weightMin + rng.Float64()*p.weightRange) * factor

	medal := missing
	if rng.Intn(10) == 0 {
		medal = medals[rng.Intn(len(medals))]
	}

	return []string{
		strconv.Itoa(id),
		givenNames[rng.Intn(len(givenNames))] + " " + familyNames[rng.Intn(len(familyNames))],
		sex,
		strconv.Itoa(16 + rng.Intn(20)),
		strconv.FormatFloat(height, 'f', 0, 64),
		strconv.FormatFloat(weight, 'f', 0, 64),
		t.team,
		t.noc,
		strconv.Itoa(year) + " Summer",
		strconv.Itoa(year),
		"Summer",
		"",
		p.sport,
		fmt.Sprintf(p.event, label),
		medal,
	}
}

// duplicateRow repeats an athlete and year with a different medal, as
// athletes entered in several events do.
func duplicateRow(rng *rand.Rand, src []string) []string {
	row := append([]string(nil), src...)
	row[len(row)-1] = missing
	if rng.Intn(3) == 0 {
		row[len(row)-1] = medals[rng.Intn(len(medals))]
	}
	return row
}

func blankMeasurement(rng *rand.Rand, row []string) {
	const heightCol, weightCol = 4, 5
	switch rng.Intn(3) {
	case 0:
		row[heightCol] = missing
	case 1:
		row[weightCol] = missing
	default:
		row[heightCol], row[weightCol] = missing, missing
	}
}
