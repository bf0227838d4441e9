// Package analysis holds the pure aggregations behind every dashboard view.
//
// Every function reads a *model.Dataset and never modifies it. Selector
// arguments accept "Overall" (or an empty string) to mean no filter.
package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
)

// Default table sizes.
const (
	DefaultTopAthletes        = 15
	DefaultTopCountryAthletes = 10
)

func isOverall(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, model.Overall)
}

// selectYear resolves a year selector. ok is false for "Overall".
func selectYear(ds *model.Dataset, year string) (y int, ok bool, err error) {
	if isOverall(year) {
		return 0, false, nil
	}
	y, err = strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0, false, fmt.Errorf("%w: year %q", ErrInvalidFilter, year)
	}
	if !ds.HasYear(y) {
		return 0, false, fmt.Errorf("%w: year %d", ErrNotFound, y)
	}
	return y, true, nil
}

// selectRegion resolves a country selector. ok is false for "Overall".
func selectRegion(ds *model.Dataset, country string) (string, bool, error) {
	if isOverall(country) {
		return "", false, nil
	}
	country = strings.TrimSpace(country)
	if !ds.HasRegion(country) {
		return "", false, fmt.Errorf("%w: country %q", ErrNotFound, country)
	}
	return country, true, nil
}

// requireRegion is selectRegion for views that need a concrete country.
func requireRegion(ds *model.Dataset, country string) (string, error) {
	region, ok, err := selectRegion(ds, country)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: a country must be selected", ErrInvalidFilter)
	}
	return region, nil
}

// selectSport resolves a sport selector. ok is false for "Overall".
func selectSport(ds *model.Dataset, sport string) (string, bool, error) {
	if isOverall(sport) {
		return "", false, nil
	}
	sport = strings.TrimSpace(sport)
	if !ds.HasSport(sport) {
		return "", false, fmt.Errorf("%w: sport %q", ErrNotFound, sport)
	}
	return sport, true, nil
}

// CountryYearList returns the year and country selector values, each led by "Overall".
func CountryYearList(ds *model.Dataset) (years, countries []string) {
	dsYears := ds.Years()
	years = make([]string, 0, len(dsYears)+1)
	years = append(years, model.Overall)
	for _, y := range dsYears {
		years = append(years, strconv.Itoa(y))
	}
	countries = append([]string{model.Overall}, ds.Regions()...)
	return years, countries
}

// Sports returns "Overall" followed by every sport in ascending order.
func Sports(ds *model.Dataset) []string {
	return append([]string{model.Overall}, ds.Sports()...)
}

// Filters gathers every selector list.
func Filters(ds *model.Dataset) types.Filters {
	years, countries := CountryYearList(ds)
	return types.Filters{
		Years:     years,
		Countries: countries,
		Regions:   ds.Regions(),
		Sports:    Sports(ds),
	}
}

// MedalTallyTitle is the headline shown above a medal tally.
func MedalTallyTitle(year, country string) string {
	year, country = NormalizeSelector(year), NormalizeSelector(country)
	switch {
	case !isOverall(year) && !isOverall(country):
		return fmt.Sprintf("%s performance in %s Olympics", country, year)
	case !isOverall(country):
		return country + " overall performance"
	case !isOverall(year):
		return fmt.Sprintf("Medal Tally in %s Olympics", year)
	default:
		return "Overall Tally"
	}
}

// NormalizeSelector maps every spelling of "no filter" to "Overall" and trims
// other values, so equal selections produce equal cache keys.
func NormalizeSelector(s string) string {
	if isOverall(s) {
		return model.Overall
	}
	return strings.TrimSpace(s)
}
