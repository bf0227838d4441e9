package api

import (
	"context"
	"net/http"

	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/types"
)

// OverallHandler serves the overall analysis view.
type OverallHandler struct {
	deps Dependencies
}

// NewOverallHandler creates a new overall analysis handler.
func NewOverallHandler(deps Dependencies) *OverallHandler {
	return &OverallHandler{deps: deps}
}

type athletesResponse struct {
	Sport    string              `json:"sport"`
	Athletes []types.AthleteRank `json:"athletes"`
}

// HandleOverview handles GET /api/overview.
func (h *OverallHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.deps, "overview", h.deps.Overview)
}

// HandleOverTime handles GET /api/over-time?column=region|event|athlete.
func (h *OverallHandler) HandleOverTime(w http.ResponseWriter, r *http.Request) {
	const op = "over_time"
	column, ok := param(w, r, op, "column")
	if !ok {
		return
	}
	if column == "" {
		column = analysis.ColumnRegion
	}
	serve(w, r, h.deps, op, func(ctx context.Context) (types.OverTime, error) {
		return h.deps.OverTime(ctx, column)
	})
}

// HandleEventHeatmap handles GET /api/heatmap/events.
func (h *OverallHandler) HandleEventHeatmap(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.deps, "event_heatmap", h.deps.EventHeatmap)
}

// HandleMostSuccessful handles GET /api/most-successful?sport=.
func (h *OverallHandler) HandleMostSuccessful(w http.ResponseWriter, r *http.Request) {
	const op = "most_successful"
	sport, ok := param(w, r, op, "sport")
	if !ok {
		return
	}
	serve(w, r, h.deps, op, func(ctx context.Context) (athletesResponse, error) {
		top, err := h.deps.MostSuccessful(ctx, sport)
		return athletesResponse{Sport: analysis.NormalizeSelector(sport), Athletes: top}, err
	})
}
