package api

import (
	"context"
	"net/http"

	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/types"
)

// CountryHandler serves the country-wise view. Every route requires ?country=.
type CountryHandler struct {
	deps Dependencies
}

// NewCountryHandler creates a new country handler.
func NewCountryHandler(deps Dependencies) *CountryHandler {
	return &CountryHandler{deps: deps}
}

type countryMedalsResponse struct {
	Country string            `json:"country"`
	Medals  []types.YearCount `json:"medals"`
}

type countryAthletesResponse struct {
	Country  string              `json:"country"`
	Athletes []types.AthleteRank `json:"athletes"`
}

// country reads the country parameter; the domain rejects a missing one.
func country(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	return param(w, r, op, "country")
}

// HandleMedals handles GET /api/country/medals.
func (h *CountryHandler) HandleMedals(w http.ResponseWriter, r *http.Request) {
	const op = "country_medals"
	c, ok := country(w, r, op)
	if !ok {
		return
	}
	serve(w, r, h.deps, op, func(ctx context.Context) (countryMedalsResponse, error) {
		medals, err := h.deps.CountryMedals(ctx, c)
		return countryMedalsResponse{Country: analysis.NormalizeSelector(c), Medals: medals}, err
	})
}

// HandleHeatmap handles GET /api/country/heatmap.
func (h *CountryHandler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	const op = "country_heatmap"
	c, ok := country(w, r, op)
	if !ok {
		return
	}
	serve(w, r, h.deps, op, func(ctx context.Context) (types.Heatmap, error) {
		return h.deps.CountryHeatmap(ctx, c)
	})
}

// HandleTopAthletes handles GET /api/country/top-athletes.
func (h *CountryHandler) HandleTopAthletes(w http.ResponseWriter, r *http.Request) {
	const op = "country_top_athletes"
	c, ok := country(w, r, op)
	if !ok {
		return
	}
	serve(w, r, h.deps, op, func(ctx context.Context) (countryAthletesResponse, error) {
		top, err := h.deps.CountryTopAthletes(ctx, c)
		return countryAthletesResponse{Country: analysis.NormalizeSelector(c), Athletes: top}, err
	})
}

// HandleProfile handles GET /api/country/profile.
func (h *CountryHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "country_profile"
	c, ok := country(w, r, op)
	if !ok {
		return
	}
	serve(w, r, h.deps, op, func(ctx context.Context) (types.CountryProfile, error) {
		return h.deps.CountryProfile(ctx, c)
	})
}
