// Package insights holds dataset-wide statistics that are not part of the
// BMI chart: medal points per country, gender counts, world-record presence
// and mean age. They are computed from the same raw rows at startup and are
// exposed only through /stats and the CLI summary command.
package insights

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/athletebmi/internal/domain/athlete"
)

// Medal point values.
const (
	goldPoints   = 3
	silverPoints = 2
	bronzePoints = 1
)

// Gender labels.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

const worldRecordMarker = "World Record"

// MedalPoints converts a medal name to points. Anything else, including the
// dataset's "NA", is worth nothing.
func MedalPoints(medal string) int {
	switch medal {
	case "Gold":
		return goldPoints
	case "Silver":
		return silverPoints
	case "Bronze":
		return bronzePoints
	default:
		return 0
	}
}

// IsWorldRecord reports whether an event name marks a world record.
func IsWorldRecord(event string) bool {
	return strings.Contains(event, worldRecordMarker)
}

// GenderLabel maps the dataset's sex code to a label.
func GenderLabel(sex string) string {
	switch sex {
	case "M":
		return GenderMale
	case "F":
		return GenderFemale
	default:
		return GenderOther
	}
}

// CountryPoints is the medal score of one NOC.
type CountryPoints struct {
	NOC    string `json:"noc" yaml:"noc"`
	Points int    `json:"points" yaml:"points"`
}

// Summary aggregates the auxiliary statistics of a dataset.
type Summary struct {
	// MedalPointsByNOC is sorted by points desc, then NOC asc.
	MedalPointsByNOC []CountryPoints `json:"medal_points_by_noc" yaml:"medal_points_by_noc"`
	// AthletesByGender counts distinct athlete ids per gender label.
	AthletesByGender map[string]int `json:"athletes_by_gender" yaml:"athletes_by_gender"`
	HasWorldRecord   bool           `json:"has_world_record" yaml:"has_world_record"`
	// MeanAge averages the rows with a known age; 0 when there are none.
	MeanAge float64 `json:"mean_age" yaml:"mean_age"`
}

// Summarize computes a Summary in one pass over the raw rows.
func Summarize(records []athlete.RawRecord) Summary {
	points := make(map[string]int)
	genderIDs := make(map[string]map[string]struct{})
	var (
		hasRecord bool
		ageSum    float64
		ageCount  int
	)

	for i := range records {
		r := &records[i]

		if r.NOC != "" {
			points[r.NOC] += MedalPoints(r.Medal)
		}

		label := GenderLabel(r.Sex)
		ids, ok := genderIDs[label]
		if !ok {
			ids = make(map[string]struct{})
			genderIDs[label] = ids
		}
		ids[r.ID] = struct{}{}

		if !hasRecord && IsWorldRecord(r.Event) {
			hasRecord = true
		}

		if !math.IsNaN(r.Age) && !math.IsInf(r.Age, 0) {
			ageSum += r.Age
			ageCount++
		}
	}

	s := Summary{
		MedalPointsByNOC: make([]CountryPoints, 0, len(points)),
		AthletesByGender: make(map[string]int, len(genderIDs)),
		HasWorldRecord:   hasRecord,
	}
	for noc, p := range points {
		s.MedalPointsByNOC = append(s.MedalPointsByNOC, CountryPoints{NOC: noc, Points: p})
	}
	sort.Slice(s.MedalPointsByNOC, func(i, j int) bool {
		a, b := s.MedalPointsByNOC[i], s.MedalPointsByNOC[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.NOC < b.NOC
	})
	for label, ids := range genderIDs {
		s.AthletesByGender[label] = len(ids)
	}
	if ageCount > 0 {
		s.MeanAge = ageSum / float64(ageCount)
	}
	return s
}

// TopCountries returns at most n entries of MedalPointsByNOC.
func (s Summary) TopCountries(n int) []CountryPoints {
	if n < 0 || n >= len(s.MedalPointsByNOC) {
		return s.MedalPointsByNOC
	}
	return s.MedalPointsByNOC[:n]
}
