package api

import (
	"context"
	"net/http"

	"github.com/okian/olympics/internal/domain/types"
)

// TallyHandler serves the selector lists and the medal tally.
type TallyHandler struct {
	deps Dependencies
}

// NewTallyHandler creates a new tally handler.
func NewTallyHandler(deps Dependencies) *TallyHandler {
	return &TallyHandler{deps: deps}
}

// HandleFilters handles GET /api/filters.
func (h *TallyHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.deps, "filters", h.deps.Filters)
}

// HandleMedalTally handles GET /api/medal-tally?year=&country=.
// Missing parameters mean Overall.
func (h *TallyHandler) HandleMedalTally(w http.ResponseWriter, r *http.Request) {
	const op = "medal_tally"
	year, ok := param(w, r, op, "year")
	if !ok {
		return
	}
	country, ok := param(w, r, op, "country")
	if !ok {
		return
	}
	serve(w, r, h.deps, op, func(ctx context.Context) (types.MedalTally, error) {
		return h.deps.MedalTally(ctx, year, country)
	})
}
