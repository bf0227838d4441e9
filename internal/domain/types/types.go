// Package types contains the result shapes returned by aggregations and served over HTTP.
package types

// Filters lists the selectable values for every view. Years and Countries
// start with "Overall"; Regions is the plain sorted list used by the country view.
type Filters struct {
	Years     []string `json:"years"`
	Countries []string `json:"countries"`
	Regions   []string `json:"regions"`
	Sports    []string `json:"sports"`
}

// Grouping keys of a medal tally.
const (
	GroupByRegion = "region"
	GroupByYear   = "year"
)

// MedalTallyRow is one line of a medal tally. Label is a region or a year.
type MedalTallyRow struct {
	Label  string `json:"label"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Total  int    `json:"total"`
}

// MedalTally is the tally for one year/country selection.
type MedalTally struct {
	Title   string          `json:"title"`
	Year    string          `json:"year"`
	Country string          `json:"country"`
	GroupBy string          `json:"group_by"`
	Rows    []MedalTallyRow `json:"rows"`
}

// YearCount is a count for one edition year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// OverTime is a per-edition count of distinct values of one column.
type OverTime struct {
	Column string      `json:"column"`
	Points []YearCount `json:"points"`
}

// Heatmap is a Sport x Year count matrix. Cells[i][j] belongs to Sports[i] and Years[j].
type Heatmap struct {
	Sports []string `json:"sports"`
	Years  []int    `json:"years"`
	Cells  [][]int  `json:"cells"`
	Max    int      `json:"max"`
}

// AthleteRank is one line of a most-successful table.
type AthleteRank struct {
	Name   string `json:"name"`
	Medals int    `json:"medals"`
	Sport  string `json:"sport"`
	Region string `json:"region,omitempty"`
}

// PhysicalPoint is one athlete in the height vs weight scatter.
type PhysicalPoint struct {
	Name   string  `json:"name"`
	Sex    string  `json:"sex"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Medal  string  `json:"medal"`
	Sport  string  `json:"sport"`
}

// GenderCount is the number of male and female athletes in one edition.
type GenderCount struct {
	Year   int `json:"year"`
	Male   int `json:"male"`
	Female int `json:"female"`
}

// DensityCurve is a kernel density estimate evaluated on an even grid.
// X and Y are empty when the sample is too small to estimate.
type DensityCurve struct {
	Name      string    `json:"name"`
	Samples   int       `json:"samples"`
	Bandwidth float64   `json:"bandwidth"`
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
}

// OverallStats are the headline numbers of the overall view.
type OverallStats struct {
	Editions   int `json:"editions"`
	HostCities int `json:"host_cities"`
	Sports     int `json:"sports"`
	Events     int `json:"events"`
	Nations    int `json:"nations"`
	Athletes   int `json:"athletes"`
}

// Overview bundles everything the overall view shows above the fold.
type Overview struct {
	Stats    OverallStats `json:"stats"`
	Nations  OverTime     `json:"nations"`
	Events   OverTime     `json:"events"`
	Athletes OverTime     `json:"athletes"`
}

// CountryProfile bundles the country-wise view.
type CountryProfile struct {
	Country     string        `json:"country"`
	Medals      []YearCount   `json:"medals"`
	Heatmap     Heatmap       `json:"heatmap"`
	TopAthletes []AthleteRank `json:"top_athletes"`
}
