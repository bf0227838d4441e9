package api

import (
	"context"
	"net/http"

	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/types"
)

// AthleteHandler serves the athlete-wise view.
type AthleteHandler struct {
	deps Dependencies
}

// NewAthleteHandler creates a new athlete handler.
func NewAthleteHandler(deps Dependencies) *AthleteHandler {
	return &AthleteHandler{deps: deps}
}

type curvesResponse struct {
	Curves []types.DensityCurve `json:"curves"`
}

type pointsResponse struct {
	Sport  string                `json:"sport"`
	Points []types.PhysicalPoint `json:"points"`
}

type genderResponse struct {
	Years []types.GenderCount `json:"years"`
}

// HandleAgeDistribution handles GET /api/athletes/age-distribution.
func (h *AthleteHandler) HandleAgeDistribution(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.deps, "age_distribution", func(ctx context.Context) (curvesResponse, error) {
		curves, err := h.deps.AgeDistribution(ctx)
		return curvesResponse{Curves: curves}, err
	})
}

// HandleHeightWeight handles GET /api/athletes/height-weight?sport=.
func (h *AthleteHandler) HandleHeightWeight(w http.ResponseWriter, r *http.Request) {
	const op = "height_weight"
	sport, ok := param(w, r, op, "sport")
	if !ok {
		return
	}
	serve(w, r, h.deps, op, func(ctx context.Context) (pointsResponse, error) {
		points, err := h.deps.HeightWeight(ctx, sport)
		return pointsResponse{Sport: analysis.NormalizeSelector(sport), Points: points}, err
	})
}

// HandleMenVsWomen handles GET /api/athletes/men-vs-women.
func (h *AthleteHandler) HandleMenVsWomen(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.deps, "men_vs_women", func(ctx context.Context) (genderResponse, error) {
		years, err := h.deps.MenVsWomen(ctx)
		return genderResponse{Years: years}, err
	})
}
