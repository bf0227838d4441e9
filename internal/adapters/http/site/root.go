// Package site serves the server-rendered dashboard.
package site

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/okian/olympics/internal/adapters/http/api"
	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/pkg/logger"
)

// Error constants
var (
	ErrTemplate = errors.New("dashboard template failed")
	ErrRender   = errors.New("dashboard render failed")
)

// Dependencies are the aggregations the dashboard reads.
type Dependencies interface {
	Ready() bool
	Filters(ctx context.Context) (types.Filters, error)
	MedalTally(ctx context.Context, year, country string) (types.MedalTally, error)
	Overview(ctx context.Context) (types.Overview, error)
	EventHeatmap(ctx context.Context) (types.Heatmap, error)
	MostSuccessful(ctx context.Context, sport string) ([]types.AthleteRank, error)
	CountryProfile(ctx context.Context, country string) (types.CountryProfile, error)
}

// Register attaches the dashboard and its static assets to mux.
func Register(_ context.Context, mux *http.ServeMux, deps Dependencies) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler(deps)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/", api.MetricsMiddleware(root.HandleRoot, "site"))
}

// RootHandler renders the dashboard at /.
type RootHandler struct {
	deps  Dependencies
	pages *template.Template
}

// NewRootHandler creates a new root handler. It panics when the embedded
// templates do not parse.
func NewRootHandler(deps Dependencies) *RootHandler {
	pages, err := parseTemplates()
	if err != nil {
		panic(err)
	}
	return &RootHandler{deps: deps, pages: pages}
}

// HandleRoot handles GET / and renders the view selected by ?view=.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	p := newPage(r.URL.Query().Get("view"))
	if r.URL.Path != "/" {
		p.Error = "Page not found."
		h.render(w, r, http.StatusNotFound, p)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
		p.Error = "Method " + r.Method + " not allowed."
		h.render(w, r, http.StatusMethodNotAllowed, p)
		return
	}

	if !h.deps.Ready() {
		p.Error = "The dataset is still loading. Try again shortly."
		h.render(w, r, http.StatusServiceUnavailable, p)
		return
	}

	if err := h.build(r.Context(), r, p); err != nil {
		code := api.HTTPStatus(err)
		if code >= http.StatusInternalServerError {
			logger.Get().Error(r.Context(), "dashboard view failed",
				logger.String("view", p.View),
				logger.String("requestId", api.RequestIDFromContext(r.Context())),
				logger.Error(err))
			p.Error = "Something went wrong while building this view."
		} else {
			p.Error = api.Wrap("site", err).Err.Error()
		}
		h.render(w, r, code, p)
		return
	}
	h.render(w, r, http.StatusOK, p)
}

// build fills p for its view.
func (h *RootHandler) build(ctx context.Context, r *http.Request, p *page) error {
	q := r.URL.Query()
	for _, name := range []string{"year", "country", "sport"} {
		if len(q.Get(name)) > maxSelectorLen {
			return api.NewKind("site", api.ErrBadRequest, name+" is too long")
		}
	}

	filters, err := h.deps.Filters(ctx)
	if err != nil {
		return err
	}
	p.Filters = filters

	switch p.View {
	case viewOverall:
		return h.overall(ctx, p, q.Get("sport"))
	case viewCountry:
		return h.country(ctx, p, q.Get("country"))
	case viewAthletes:
		return h.athletes(p, q.Get("sport"))
	default:
		return h.tally(ctx, p, q.Get("year"), q.Get("country"))
	}
}

// render executes the layout into a buffer so a template failure still
// produces a clean 500.
func (h *RootHandler) render(w http.ResponseWriter, r *http.Request, code int, p *page) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, "layout", p); err != nil {
		logger.Get().Error(r.Context(), "dashboard render failed",
			logger.String("view", p.View),
			logger.Error(errors.Join(ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}
