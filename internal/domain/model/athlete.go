// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Sex of an athlete as recorded in the source data.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Season distinguishes Summer and Winter Games.
type Season string

const (
	SeasonSummer Season = "Summer"
	SeasonWinter Season = "Winter"
)

// Medal is the outcome of a participation. The zero value means no medal.
type Medal string

const (
	MedalNone   Medal = ""
	MedalGold   Medal = "Gold"
	MedalSilver Medal = "Silver"
	MedalBronze Medal = "Bronze"
)

// NoMedalLabel is shown wherever a missing medal has to be displayed.
const NoMedalLabel = "No Medal"

// ParseMedal accepts Gold, Silver or Bronze in any case. NA and empty mean no medal.
func ParseMedal(s string) (Medal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan":
		return MedalNone, nil
	case "gold":
		return MedalGold, nil
	case "silver":
		return MedalSilver, nil
	case "bronze":
		return MedalBronze, nil
	default:
		return MedalNone, fmt.Errorf("%w: medal %q", ErrInvalidValue, s)
	}
}

// Won reports whether the participation produced a medal.
func (m Medal) Won() bool { return m != MedalNone }

// Label returns the medal name, or "No Medal".
func (m Medal) Label() string {
	if m == MedalNone {
		return NoMedalLabel
	}
	return string(m)
}

// Measure is an optional numeric column. Invalid means the source said NA.
type Measure struct {
	Value float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Measure { return Measure{Value: v, Valid: true} }

// ParseMeasure turns "NA" or an empty string into an invalid Measure.
func ParseMeasure(s string) (Measure, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return Measure{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Measure{}, fmt.Errorf("%w: number %q", ErrInvalidValue, s)
	}
	return Some(v), nil
}

// AthleteEvent is one athlete's participation in one event at one Games.
// Region and Notes come from the NOC lookup and are empty when the NOC is unknown.
// The struct is comparable so whole rows can be used as map keys.
type AthleteEvent struct {
	ID     int
	Name   string
	Sex    Sex
	Age    Measure
	Height Measure
	Weight Measure
	Team   string
	NOC    string
	Games  string
	Year   int
	Season Season
	City   string
	Sport  string
	Event  string
	Medal  Medal

	Region string
	Notes  string
}

// MedalCounts returns the one-hot gold, silver and bronze indicators of the row.
func (a AthleteEvent) MedalCounts() (gold, silver, bronze int) {
	switch a.Medal {
	case MedalGold:
		return 1, 0, 0
	case MedalSilver:
		return 0, 1, 0
	case MedalBronze:
		return 0, 0, 1
	}
	return 0, 0, 0
}

// Region is one entry of the NOC lookup table.
type Region struct {
	NOC   string
	Name  string
	Notes string
}

// RegionLookup maps a NOC code to its region.
type RegionLookup map[string]Region

// Resolve returns the region for noc, or the zero Region when it is unknown.
func (l RegionLookup) Resolve(noc string) (Region, bool) {
	r, ok := l[noc]
	return r, ok
}

// Raw is the unprocessed content of the two source tables.
type Raw struct {
	Rows    []AthleteEvent
	Regions RegionLookup
}
