package site

import (
	"context"
	"slices"
	"strconv"

	"github.com/okian/olympics/internal/adapters/http/api"
	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
)

// View keys carried in ?view=.
const (
	viewTally    = "tally"
	viewOverall  = "overall"
	viewCountry  = "country"
	viewAthletes = "athletes"
)

const maxSelectorLen = 128

type viewLink struct {
	Key     string
	Label   string
	Checked bool
}

var views = []viewLink{
	{Key: viewTally, Label: "Medal Tally"},
	{Key: viewOverall, Label: "Overall Analysis"},
	{Key: viewCountry, Label: "Country-wise Analysis"},
	{Key: viewAthletes, Label: "Athlete-wise Analysis"},
}

type card struct {
	Label string
	Value string
}

// page is everything a template needs. Only the fields of the selected view are set.
type page struct {
	View    string
	Views   []viewLink
	Filters types.Filters
	Error   string

	Year    string
	Country string
	Sport   string

	Tally *types.MedalTally

	Cards      []card
	Heatmap    types.Heatmap
	Successful []types.AthleteRank

	Profile *types.CountryProfile
}

func newPage(view string) *page {
	if !slices.ContainsFunc(views, func(v viewLink) bool { return v.Key == view }) {
		view = viewTally
	}
	p := &page{View: view, Views: slices.Clone(views)}
	for i := range p.Views {
		p.Views[i].Checked = p.Views[i].Key == view
	}
	return p
}

func (h *RootHandler) tally(ctx context.Context, p *page, year, country string) error {
	p.Year = analysis.NormalizeSelector(year)
	p.Country = analysis.NormalizeSelector(country)
	t, err := h.deps.MedalTally(ctx, p.Year, p.Country)
	if err != nil {
		return err
	}
	p.Tally = &t
	return nil
}

func (h *RootHandler) overall(ctx context.Context, p *page, sport string) error {
	p.Sport = analysis.NormalizeSelector(sport)

	ov, err := h.deps.Overview(ctx)
	if err != nil {
		return err
	}
	s := ov.Stats
	p.Cards = []card{
		{Label: "Editions", Value: strconv.Itoa(s.Editions)},
		{Label: "Host Cities", Value: strconv.Itoa(s.HostCities)},
		{Label: "Sports", Value: strconv.Itoa(s.Sports)},
		{Label: "Events", Value: strconv.Itoa(s.Events)},
		{Label: "Nations", Value: strconv.Itoa(s.Nations)},
		{Label: "Athletes", Value: strconv.Itoa(s.Athletes)},
	}

	hm, err := h.deps.EventHeatmap(ctx)
	if err != nil {
		return err
	}
	p.Heatmap = hm

	p.Successful, err = h.deps.MostSuccessful(ctx, p.Sport)
	return err
}

// country defaults to the first region, as the country select has no "Overall".
func (h *RootHandler) country(ctx context.Context, p *page, country string) error {
	p.Country = analysis.NormalizeSelector(country)
	if p.Country == model.Overall {
		if len(p.Filters.Regions) == 0 {
			return api.NewKind("site", api.ErrNotFound, "no countries in the dataset")
		}
		p.Country = p.Filters.Regions[0]
	}
	prof, err := h.deps.CountryProfile(ctx, p.Country)
	if err != nil {
		return err
	}
	p.Profile = &prof
	return nil
}

// athletes only validates the sport; the charts fetch their own data.
func (h *RootHandler) athletes(p *page, sport string) error {
	p.Sport = analysis.NormalizeSelector(sport)
	if !slices.Contains(p.Filters.Sports, p.Sport) {
		return api.NewKind("site", api.ErrNotFound, "unknown sport "+strconv.Quote(p.Sport))
	}
	return nil
}
