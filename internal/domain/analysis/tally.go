package analysis

import (
	"sort"
	"strconv"

	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
)

// teamMedalKey identifies one medal as awarded: every member of a winning
// team shares it, so a team event contributes a single medal.
type teamMedalKey struct {
	Team  string
	NOC   string
	Games string
	Year  int
	City  string
	Sport string
	Event string
	Medal model.Medal
}

// dedupeTeamMedals keeps the first row of every teamMedalKey. With medalsOnly
// rows without a medal are skipped.
func dedupeTeamMedals(rows []model.AthleteEvent, medalsOnly bool) []model.AthleteEvent {
	seen := make(map[teamMedalKey]struct{})
	out := make([]model.AthleteEvent, 0, len(rows)/4)
	for _, r := range rows {
		if medalsOnly && !r.Medal.Won() {
			continue
		}
		k := teamMedalKey{r.Team, r.NOC, r.Games, r.Year, r.City, r.Sport, r.Event, r.Medal}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

func addMedals(row *types.MedalTallyRow, r model.AthleteEvent) {
	g, s, b := r.MedalCounts()
	row.Gold += g
	row.Silver += s
	row.Bronze += b
	row.Total += g + s + b
}

// FetchMedalTally computes the medal tally for a year and country selection.
//
// With only a country selected the tally has one row per edition in ascending
// year order. Otherwise it has one row per region ordered by gold, silver and
// bronze descending, then by name. Every participating group appears, even
// with zero medals.
func FetchMedalTally(ds *model.Dataset, year, country string) (types.MedalTally, error) {
	y, byYear, err := selectYear(ds, year)
	if err != nil {
		return types.MedalTally{}, err
	}
	region, byRegion, err := selectRegion(ds, country)
	if err != nil {
		return types.MedalTally{}, err
	}

	tally := types.MedalTally{
		Title:   MedalTallyTitle(year, country),
		Year:    NormalizeSelector(year),
		Country: NormalizeSelector(country),
		GroupBy: types.GroupByRegion,
		Rows:    []types.MedalTallyRow{},
	}

	rows := dedupeTeamMedals(ds.Rows, false)

	if byRegion && !byYear {
		tally.GroupBy = types.GroupByYear
		perYear := make(map[int]*types.MedalTallyRow)
		for _, r := range rows {
			if r.Region != region {
				continue
			}
			row, ok := perYear[r.Year]
			if !ok {
				row = &types.MedalTallyRow{Label: strconv.Itoa(r.Year)}
				perYear[r.Year] = row
			}
			addMedals(row, r)
		}
		years := make([]int, 0, len(perYear))
		for yr := range perYear {
			years = append(years, yr)
		}
		sort.Ints(years)
		for _, yr := range years {
			tally.Rows = append(tally.Rows, *perYear[yr])
		}
		return tally, nil
	}

	perRegion := make(map[string]*types.MedalTallyRow)
	for _, r := range rows {
		if r.Region == "" {
			continue
		}
		if byYear && r.Year != y {
			continue
		}
		if byRegion && r.Region != region {
			continue
		}
		row, ok := perRegion[r.Region]
		if !ok {
			row = &types.MedalTallyRow{Label: r.Region}
			perRegion[r.Region] = row
		}
		addMedals(row, r)
	}
	for _, row := range perRegion {
		tally.Rows = append(tally.Rows, *row)
	}
	sort.Slice(tally.Rows, func(i, j int) bool {
		a, b := tally.Rows[i], tally.Rows[j]
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if a.Silver != b.Silver {
			return a.Silver > b.Silver
		}
		if a.Bronze != b.Bronze {
			return a.Bronze > b.Bronze
		}
		return a.Label < b.Label
	})
	return tally, nil
}
