package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
)

// Columns accepted by DataOverTime.
const (
	ColumnRegion  = "region"
	ColumnEvent   = "event"
	ColumnAthlete = "athlete"
)

// intercalatedYear is the 1906 Athens Games, which the IOC does not count as an edition.
const intercalatedYear = 1906

// columnValue resolves a column name or alias to its canonical name and accessor.
func columnValue(column string) (string, func(model.AthleteEvent) string, error) {
	switch strings.ToLower(strings.TrimSpace(column)) {
	case ColumnRegion, "nations":
		return ColumnRegion, func(r model.AthleteEvent) string { return r.Region }, nil
	case ColumnEvent, "events":
		return ColumnEvent, func(r model.AthleteEvent) string { return r.Event }, nil
	case ColumnAthlete, "athletes", "name":
		return ColumnAthlete, func(r model.AthleteEvent) string { return r.Name }, nil
	default:
		return "", nil, fmt.Errorf("%w: column %q", ErrInvalidFilter, column)
	}
}

// DataOverTime counts the distinct values of column in every edition,
// in ascending year order. An empty value is one value of its own, so the
// unresolved regions of an edition count as a single nation.
func DataOverTime(ds *model.Dataset, column string) (types.OverTime, error) {
	name, value, err := columnValue(column)
	if err != nil {
		return types.OverTime{}, err
	}

	type yearValue struct {
		year  int
		value string
	}
	seen := make(map[yearValue]struct{})
	counts := make(map[int]int)
	for _, r := range ds.Rows {
		k := yearValue{r.Year, value(r)}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		counts[r.Year]++
	}

	return types.OverTime{Column: name, Points: yearCounts(counts)}, nil
}

func yearCounts(counts map[int]int) []types.YearCount {
	points := make([]types.YearCount, 0, len(counts))
	for y, c := range counts {
		points = append(points, types.YearCount{Year: y, Count: c})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// EventHeatmap counts distinct events per sport and edition.
func EventHeatmap(ds *model.Dataset) types.Heatmap {
	type yse struct {
		year         int
		sport, event string
	}
	seen := make(map[yse]struct{})
	p := newPivot()
	for _, r := range ds.Rows {
		k := yse{r.Year, r.Sport, r.Event}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		p.add(r.Sport, r.Year)
	}
	return p.heatmap()
}

type nameCount struct {
	name  string
	count int
}

// topNames counts medals per athlete name and keeps the limit best, ties by name.
func topNames(rows []model.AthleteEvent, keep func(model.AthleteEvent) bool, limit int) []nameCount {
	counts := make(map[string]int)
	for _, r := range rows {
		if !r.Medal.Won() || !keep(r) {
			continue
		}
		counts[r.Name]++
	}
	ranked := make([]nameCount, 0, len(counts))
	for n, c := range counts {
		ranked = append(ranked, nameCount{n, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// firstRows returns the first dataset row of each wanted name.
func firstRows(ds *model.Dataset, ranked []nameCount) map[string]model.AthleteEvent {
	want := make(map[string]struct{}, len(ranked))
	for _, nc := range ranked {
		want[nc.name] = struct{}{}
	}
	first := make(map[string]model.AthleteEvent, len(ranked))
	for _, r := range ds.Rows {
		if _, ok := want[r.Name]; !ok {
			continue
		}
		if _, ok := first[r.Name]; !ok {
			first[r.Name] = r
			if len(first) == len(want) {
				break
			}
		}
	}
	return first
}

// MostSuccessful ranks athletes by medal count, optionally within one sport.
// Sport and region are taken from the athlete's first row in the dataset.
// A non-positive limit means DefaultTopAthletes.
func MostSuccessful(ds *model.Dataset, sport string, limit int) ([]types.AthleteRank, error) {
	s, bySport, err := selectSport(ds, sport)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopAthletes
	}

	ranked := topNames(ds.Rows, func(r model.AthleteEvent) bool {
		return !bySport || r.Sport == s
	}, limit)
	first := firstRows(ds, ranked)

	out := make([]types.AthleteRank, 0, len(ranked))
	for _, nc := range ranked {
		r := first[nc.name]
		out = append(out, types.AthleteRank{Name: nc.name, Medals: nc.count, Sport: r.Sport, Region: r.Region})
	}
	return out, nil
}

// OverallStats returns the headline counts of the whole dataset.
func OverallStats(ds *model.Dataset) types.OverallStats {
	years := make(map[int]struct{})
	cities := make(map[string]struct{})
	events := make(map[string]struct{})
	athletes := make(map[string]struct{})
	for _, r := range ds.Rows {
		if r.Year != intercalatedYear {
			years[r.Year] = struct{}{}
		}
		cities[r.City] = struct{}{}
		events[r.Event] = struct{}{}
		athletes[r.Name] = struct{}{}
	}
	return types.OverallStats{
		Editions:   len(years),
		HostCities: len(cities),
		Sports:     len(ds.Sports()),
		Events:     len(events),
		Nations:    len(ds.Regions()),
		Athletes:   len(athletes),
	}
}
