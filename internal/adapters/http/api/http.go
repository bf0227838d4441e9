// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Ready reports whether the dataset is loaded.
	Ready() bool

	Filters(ctx context.Context) (types.Filters, error)
	MedalTally(ctx context.Context, year, country string) (types.MedalTally, error)

	Overview(ctx context.Context) (types.Overview, error)
	OverTime(ctx context.Context, column string) (types.OverTime, error)
	EventHeatmap(ctx context.Context) (types.Heatmap, error)
	MostSuccessful(ctx context.Context, sport string) ([]types.AthleteRank, error)

	CountryMedals(ctx context.Context, country string) ([]types.YearCount, error)
	CountryHeatmap(ctx context.Context, country string) (types.Heatmap, error)
	CountryTopAthletes(ctx context.Context, country string) ([]types.AthleteRank, error)
	CountryProfile(ctx context.Context, country string) (types.CountryProfile, error)

	AgeDistribution(ctx context.Context) ([]types.DensityCurve, error)
	HeightWeight(ctx context.Context, sport string) ([]types.PhysicalPoint, error)
	MenVsWomen(ctx context.Context) ([]types.GenderCount, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	tallyHandler   *TallyHandler
	overallHandler *OverallHandler
	countryHandler *CountryHandler
	athleteHandler *AthleteHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		tallyHandler:   NewTallyHandler(deps),
		overallHandler: NewOverallHandler(deps),
		countryHandler: NewCountryHandler(deps),
		athleteHandler: NewAthleteHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/api/filters", MetricsMiddleware(s.tallyHandler.HandleFilters, "filters"))
	mux.HandleFunc("/api/medal-tally", MetricsMiddleware(s.tallyHandler.HandleMedalTally, "medal_tally"))

	mux.HandleFunc("/api/overview", MetricsMiddleware(s.overallHandler.HandleOverview, "overview"))
	mux.HandleFunc("/api/over-time", MetricsMiddleware(s.overallHandler.HandleOverTime, "over_time"))
	mux.HandleFunc("/api/heatmap/events", MetricsMiddleware(s.overallHandler.HandleEventHeatmap, "event_heatmap"))
	mux.HandleFunc("/api/most-successful", MetricsMiddleware(s.overallHandler.HandleMostSuccessful, "most_successful"))

	mux.HandleFunc("/api/country/medals", MetricsMiddleware(s.countryHandler.HandleMedals, "country_medals"))
	mux.HandleFunc("/api/country/heatmap", MetricsMiddleware(s.countryHandler.HandleHeatmap, "country_heatmap"))
	mux.HandleFunc("/api/country/top-athletes", MetricsMiddleware(s.countryHandler.HandleTopAthletes, "country_top_athletes"))
	mux.HandleFunc("/api/country/profile", MetricsMiddleware(s.countryHandler.HandleProfile, "country_profile"))

	mux.HandleFunc("/api/athletes/age-distribution", MetricsMiddleware(s.athleteHandler.HandleAgeDistribution, "age_distribution"))
	mux.HandleFunc("/api/athletes/height-weight", MetricsMiddleware(s.athleteHandler.HandleHeightWeight, "height_weight"))
	mux.HandleFunc("/api/athletes/men-vs-women", MetricsMiddleware(s.athleteHandler.HandleMenVsWomen, "men_vs_women"))
}

// maxSelectorLen bounds query parameter values.
const maxSelectorLen = 128

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// WriteError writes err as a JSON {code, message} body with the status its
// kind maps to. Server-side failures are logged.
func WriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	fail(w, r, op, err)
}

// fail writes err as a JSON error. Server-side failures are logged.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	apiErr := Wrap(op, err)
	code, name := status(apiErr)
	if code >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("requestId", RequestIDFromContext(r.Context())),
			logger.Error(err))
	}
	if code == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
	}
	writeError(w, code, name, apiErr.Err)
}

// get rejects anything but GET and HEAD and reports whether to continue.
func get(w http.ResponseWriter, r *http.Request, op string) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		fail(w, r, op, NewKind(op, ErrMethodNotAllowed, "method "+r.Method+" not allowed"))
		return false
	}
	return true
}

// ready fails with 503 until the dataset is loaded.
func ready(w http.ResponseWriter, r *http.Request, deps Dependencies, op string) bool {
	if !deps.Ready() {
		fail(w, r, op, NewKind(op, ErrUnavailable, "dataset not loaded"))
		return false
	}
	return true
}

// param returns the trimmed query parameter name, failing on oversized values.
func param(w http.ResponseWriter, r *http.Request, op, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if len(v) > maxSelectorLen {
		fail(w, r, op, NewKind(op, ErrBadRequest, name+" is too long"))
		return "", false
	}
	return v, true
}

// serve runs the common checks and writes compute's result as JSON.
func serve[T any](w http.ResponseWriter, r *http.Request, deps Dependencies, op string, compute func(context.Context) (T, error)) {
	if !get(w, r, op) || !ready(w, r, deps, op) {
		return
	}
	out, err := compute(r.Context())
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
