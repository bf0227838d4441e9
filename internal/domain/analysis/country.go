package analysis

import (
	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
)

func regionMedals(ds *model.Dataset, region string) []model.AthleteEvent {
	var out []model.AthleteEvent
	for _, r := range dedupeTeamMedals(ds.Rows, true) {
		if r.Region == region {
			out = append(out, r)
		}
	}
	return out
}

// YearwiseMedalTally counts the medals a country won in each edition.
// Editions without a medal are absent.
func YearwiseMedalTally(ds *model.Dataset, country string) ([]types.YearCount, error) {
	region, err := requireRegion(ds, country)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int)
	for _, r := range regionMedals(ds, region) {
		counts[r.Year]++
	}
	return yearCounts(counts), nil
}

// CountryEventHeatmap counts a country's medals per sport and edition.
func CountryEventHeatmap(ds *model.Dataset, country string) (types.Heatmap, error) {
	region, err := requireRegion(ds, country)
	if err != nil {
		return types.Heatmap{}, err
	}
	p := newPivot()
	for _, r := range regionMedals(ds, region) {
		p.add(r.Sport, r.Year)
	}
	return p.heatmap(), nil
}

// MostSuccessfulCountrywise ranks a country's athletes by medal count.
// A non-positive limit means DefaultTopCountryAthletes.
func MostSuccessfulCountrywise(ds *model.Dataset, country string, limit int) ([]types.AthleteRank, error) {
	region, err := requireRegion(ds, country)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopCountryAthletes
	}

	ranked := topNames(ds.Rows, func(r model.AthleteEvent) bool { return r.Region == region }, limit)
	first := firstRows(ds, ranked)

	out := make([]types.AthleteRank, 0, len(ranked))
	for _, nc := range ranked {
		out = append(out, types.AthleteRank{Name: nc.name, Medals: nc.count, Sport: first[nc.name].Sport, Region: region})
	}
	return out, nil
}

// CountryProfile bundles the three country-wise aggregations.
func CountryProfile(ds *model.Dataset, country string, limit int) (types.CountryProfile, error) {
	medals, err := YearwiseMedalTally(ds, country)
	if err != nil {
		return types.CountryProfile{}, err
	}
	hm, err := CountryEventHeatmap(ds, country)
	if err != nil {
		return types.CountryProfile{}, err
	}
	top, err := MostSuccessfulCountrywise(ds, country, limit)
	if err != nil {
		return types.CountryProfile{}, err
	}
	return types.CountryProfile{Country: NormalizeSelector(country), Medals: medals, Heatmap: hm, TopAthletes: top}, nil
}
