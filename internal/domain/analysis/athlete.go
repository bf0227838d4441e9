package analysis

import (
	"sort"

	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
)

// Curve names of AgeDistribution, in output order.
const (
	CurveOverall = "Overall Age"
	CurveGold    = "Gold Medalist"
	CurveSilver  = "Silver Medalist"
	CurveBronze  = "Bronze Medalist"
)

// uniqueAthletes keeps the first row of every (name, region) pair.
func uniqueAthletes(ds *model.Dataset) []model.AthleteEvent {
	type nameRegion struct{ name, region string }
	seen := make(map[nameRegion]struct{})
	out := make([]model.AthleteEvent, 0, len(ds.Rows)/2)
	for _, r := range ds.Rows {
		k := nameRegion{r.Name, r.Region}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// WeightVHeight returns one point per athlete that has both a height and a weight.
// Athletes without a medal on their first row are labelled "No Medal".
func WeightVHeight(ds *model.Dataset, sport string) ([]types.PhysicalPoint, error) {
	s, bySport, err := selectSport(ds, sport)
	if err != nil {
		return nil, err
	}
	out := []types.PhysicalPoint{}
	for _, r := range uniqueAthletes(ds) {
		if bySport && r.Sport != s {
			continue
		}
		if !r.Height.Valid || !r.Weight.Valid {
			continue
		}
		out = append(out, types.PhysicalPoint{
			Name:   r.Name,
			Sex:    string(r.Sex),
			Weight: r.Weight.Value,
			Height: r.Height.Value,
			Medal:  r.Medal.Label(),
			Sport:  r.Sport,
		})
	}
	return out, nil
}

// MenVsWomen counts male and female athletes per edition.
// An athlete is counted once, in the edition of their first row.
func MenVsWomen(ds *model.Dataset) []types.GenderCount {
	perYear := make(map[int]*types.GenderCount)
	for _, r := range uniqueAthletes(ds) {
		gc, ok := perYear[r.Year]
		if !ok {
			gc = &types.GenderCount{Year: r.Year}
			perYear[r.Year] = gc
		}
		switch r.Sex {
		case model.SexMale:
			gc.Male++
		case model.SexFemale:
			gc.Female++
		}
	}
	out := make([]types.GenderCount, 0, len(perYear))
	for _, gc := range perYear {
		out = append(out, *gc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// AgeDistribution estimates the age density of all athletes and of gold,
// silver and bronze medalists.
func AgeDistribution(ds *model.Dataset) []types.DensityCurve {
	var all, gold, silver, bronze []float64
	for _, r := range uniqueAthletes(ds) {
		if !r.Age.Valid {
			continue
		}
		all = append(all, r.Age.Value)
		switch r.Medal {
		case model.MedalGold:
			gold = append(gold, r.Age.Value)
		case model.MedalSilver:
			silver = append(silver, r.Age.Value)
		case model.MedalBronze:
			bronze = append(bronze, r.Age.Value)
		}
	}
	return []types.DensityCurve{
		GaussianKDE(CurveOverall, all, DensityPoints),
		GaussianKDE(CurveGold, gold, DensityPoints),
		GaussianKDE(CurveSilver, silver, DensityPoints),
		GaussianKDE(CurveBronze, bronze, DensityPoints),
	}
}
