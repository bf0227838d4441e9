package model

import (
	"slices"
	"sort"
)

// Overall is the selector value meaning "no filter".
const Overall = "Overall"

// Dataset is the preprocessed, read-only table the aggregations run on.
// It must not be modified after Preprocess returns.
type Dataset struct {
	Rows []AthleteEvent

	years   []int
	regions []string
	sports  []string

	yearSet   map[int]struct{}
	regionSet map[string]struct{}
	sportSet  map[string]struct{}
}

// Preprocess keeps Summer rows, joins each NOC to its region, and drops rows
// that are exact duplicates of an earlier row. The input slice is not modified.
func Preprocess(raw Raw) *Dataset {
	seen := make(map[AthleteEvent]struct{}, len(raw.Rows))
	rows := make([]AthleteEvent, 0, len(raw.Rows))

	for _, r := range raw.Rows {
		if r.Season != SeasonSummer {
			continue
		}
		if reg, ok := raw.Regions.Resolve(r.NOC); ok {
			r.Region = reg.Name
			r.Notes = reg.Notes
		} else {
			r.Region, r.Notes = "", ""
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		rows = append(rows, r)
	}
	return NewDataset(rows)
}

// NewDataset indexes already preprocessed rows.
func NewDataset(rows []AthleteEvent) *Dataset {
	ds := &Dataset{
		Rows:      rows,
		yearSet:   make(map[int]struct{}),
		regionSet: make(map[string]struct{}),
		sportSet:  make(map[string]struct{}),
	}
	for _, r := range rows {
		ds.yearSet[r.Year] = struct{}{}
		if r.Region != "" {
			ds.regionSet[r.Region] = struct{}{}
		}
		if r.Sport != "" {
			ds.sportSet[r.Sport] = struct{}{}
		}
	}
	for y := range ds.yearSet {
		ds.years = append(ds.years, y)
	}
	sort.Ints(ds.years)
	for r := range ds.regionSet {
		ds.regions = append(ds.regions, r)
	}
	sort.Strings(ds.regions)
	for s := range ds.sportSet {
		ds.sports = append(ds.sports, s)
	}
	sort.Strings(ds.sports)
	return ds
}

// Years returns the distinct edition years in ascending order.
func (d *Dataset) Years() []int { return slices.Clone(d.years) }

// Regions returns the distinct resolved regions in ascending order.
func (d *Dataset) Regions() []string { return slices.Clone(d.regions) }

// Sports returns the distinct sports in ascending order.
func (d *Dataset) Sports() []string { return slices.Clone(d.sports) }

// HasYear reports whether any row belongs to year.
func (d *Dataset) HasYear(year int) bool {
	_, ok := d.yearSet[year]
	return ok
}

// HasRegion reports whether region is a resolved region of the dataset.
func (d *Dataset) HasRegion(region string) bool {
	_, ok := d.regionSet[region]
	return ok
}

// HasSport reports whether any row belongs to sport.
func (d *Dataset) HasSport(sport string) bool {
	_, ok := d.sportSet[sport]
	return ok
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }
