package charts

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/olympics/internal/adapters/cache"
	"github.com/okian/olympics/internal/adapters/http/api"
	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/pkg/metrics"
)

// Dependencies are the queries behind the charts.
type Dependencies interface {
	Ready() bool
	OverTime(ctx context.Context, column string) (types.OverTime, error)
	CountryMedals(ctx context.Context, country string) ([]types.YearCount, error)
	MenVsWomen(ctx context.Context) ([]types.GenderCount, error)
	HeightWeight(ctx context.Context, sport string) ([]types.PhysicalPoint, error)
	AgeDistribution(ctx context.Context) ([]types.DensityCurve, error)
}

// Chart names, used in routes, cache keys and metric labels.
const (
	ChartOverTime        = "over_time"
	ChartCountryMedals   = "country_medals"
	ChartMenVsWomen      = "men_vs_women"
	ChartHeightWeight    = "height_weight"
	ChartAgeDistribution = "age_distribution"
)

const cacheControl = "public, max-age=300"

// Handler serves PNG charts.
type Handler struct {
	deps     Dependencies
	renderer *Renderer
	images   *cache.LRU[[]byte]
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithSize sets the rendered image size.
func WithSize(width, height int) Option {
	return func(h *Handler) {
		h.renderer = NewRenderer(width, height)
	}
}

// WithCache memoizes rendered images.
func WithCache(c *cache.LRU[[]byte]) Option {
	return func(h *Handler) {
		h.images = c
	}
}

// NewHandler creates a chart handler.
func NewHandler(deps Dependencies, opts ...Option) *Handler {
	h := &Handler{deps: deps, renderer: NewRenderer(DefaultWidth, DefaultHeight)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the chart routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/charts/over-time.png", api.MetricsMiddleware(h.HandleOverTime, "chart_"+ChartOverTime))
	mux.HandleFunc("/charts/country-medals.png", api.MetricsMiddleware(h.HandleCountryMedals, "chart_"+ChartCountryMedals))
	mux.HandleFunc("/charts/men-vs-women.png", api.MetricsMiddleware(h.HandleMenVsWomen, "chart_"+ChartMenVsWomen))
	mux.HandleFunc("/charts/height-weight.png", api.MetricsMiddleware(h.HandleHeightWeight, "chart_"+ChartHeightWeight))
	mux.HandleFunc("/charts/age-distribution.png", api.MetricsMiddleware(h.HandleAgeDistribution, "chart_"+ChartAgeDistribution))
}

// HandleOverTime handles GET /charts/over-time.png?column=region|event|athlete.
func (h *Handler) HandleOverTime(w http.ResponseWriter, r *http.Request) {
	column := r.URL.Query().Get("column")
	if column == "" {
		column = analysis.ColumnRegion
	}
	h.serve(w, r, ChartOverTime, column, func(ctx context.Context) (Spec, error) {
		ot, err := h.deps.OverTime(ctx, column)
		return OverTimeSpec(ot), err
	})
}

// HandleCountryMedals handles GET /charts/country-medals.png?country=.
func (h *Handler) HandleCountryMedals(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	h.serve(w, r, ChartCountryMedals, country, func(ctx context.Context) (Spec, error) {
		medals, err := h.deps.CountryMedals(ctx, country)
		return CountryMedalsSpec(analysis.NormalizeSelector(country), medals), err
	})
}

// HandleMenVsWomen handles GET /charts/men-vs-women.png.
func (h *Handler) HandleMenVsWomen(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, ChartMenVsWomen, "", func(ctx context.Context) (Spec, error) {
		years, err := h.deps.MenVsWomen(ctx)
		return MenVsWomenSpec(years), err
	})
}

// HandleHeightWeight handles GET /charts/height-weight.png?sport=.
func (h *Handler) HandleHeightWeight(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	h.serve(w, r, ChartHeightWeight, sport, func(ctx context.Context) (Spec, error) {
		points, err := h.deps.HeightWeight(ctx, sport)
		return HeightWeightSpec(sport, points), err
	})
}

// HandleAgeDistribution handles GET /charts/age-distribution.png.
func (h *Handler) HandleAgeDistribution(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, ChartAgeDistribution, "", func(ctx context.Context) (Spec, error) {
		curves, err := h.deps.AgeDistribution(ctx)
		return AgeDistributionSpec(curves), err
	})
}

// serve runs the request checks, then renders build's Spec or takes it from the cache.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name, selector string, build func(context.Context) (Spec, error)) {
	op := "chart_" + name
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		api.WriteError(w, r, op, api.NewKind(op, api.ErrMethodNotAllowed, "method "+r.Method+" not allowed"))
		return
	}
	if !h.deps.Ready() {
		api.WriteError(w, r, op, api.NewKind(op, api.ErrUnavailable, "dataset not loaded"))
		return
	}

	key := name + "|" + analysis.NormalizeSelector(selector)
	render := func(ctx context.Context) ([]byte, error) {
		spec, err := build(ctx)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		img, err := h.renderer.Render(spec)
		if err != nil {
			metrics.RecordChartRenderError(name)
			return nil, err
		}
		metrics.RecordChartRender(name, float64(time.Since(start).Microseconds())/1000)
		return img, nil
	}

	var (
		img []byte
		err error
	)
	if h.images != nil {
		img, _, err = h.images.GetOrCompute(r.Context(), key, render)
	} else {
		img, err = render(r.Context())
	}
	if err != nil {
		api.WriteError(w, r, op, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(img)
}
