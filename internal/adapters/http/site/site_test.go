package site_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/olympics/internal/adapters/http/site"
	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/internal/testdataset"
	"github.com/okian/olympics/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

type fixtureDeps struct {
	ds    *model.Dataset
	ready bool
	err   error
}

func (f *fixtureDeps) Ready() bool { return f.ready }

func (f *fixtureDeps) Filters(context.Context) (types.Filters, error) {
	return analysis.Filters(f.ds), f.err
}

func (f *fixtureDeps) MedalTally(_ context.Context, year, country string) (types.MedalTally, error) {
	return analysis.FetchMedalTally(f.ds, year, country)
}

func (f *fixtureDeps) Overview(context.Context) (types.Overview, error) {
	return types.Overview{Stats: analysis.OverallStats(f.ds)}, nil
}

func (f *fixtureDeps) EventHeatmap(context.Context) (types.Heatmap, error) {
	return analysis.EventHeatmap(f.ds), nil
}

func (f *fixtureDeps) MostSuccessful(_ context.Context, sport string) ([]types.AthleteRank, error) {
	return analysis.MostSuccessful(f.ds, sport, 0)
}

func (f *fixtureDeps) CountryProfile(_ context.Context, country string) (types.CountryProfile, error) {
	return analysis.CountryProfile(f.ds, country, 0)
}

func get(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, target, http.NoBody))
	return w
}

func TestDashboard(t *testing.T) {
	Convey("Given a dashboard over the fixture", t, func() {
		deps := &fixtureDeps{ds: testdataset.Dataset(), ready: true}
		mux := http.NewServeMux()
		site.Register(context.Background(), mux, deps)

		Convey("The default view is the overall medal tally", func() {
			w := get(mux, http.MethodGet, "/")
			body := w.Body.String()

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
			So(body, ShouldContainSubstring, "Olympics Data Analysis")
			So(body, ShouldContainSubstring, "Overall Tally")
			So(body, ShouldContainSubstring, `value="tally" onchange="this.form.submit()" checked`)
			So(strings.Index(body, "<td>USA</td>"), ShouldBeLessThan, strings.Index(body, "<td>UK</td>"))
		})

		Convey("The tally headline follows the selection", func() {
			w := get(mux, http.MethodGet, "/?view=tally&year=2000&country=USA")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "USA performance in 2000 Olympics")
			So(w.Body.String(), ShouldContainSubstring, `<option value="2000" selected>`)

			w = get(mux, http.MethodGet, "/?country=USA")
			So(w.Body.String(), ShouldContainSubstring, "USA overall performance")
			So(w.Body.String(), ShouldContainSubstring, "<th>Year</th>")
		})

		Convey("An unknown year renders a 404 page", func() {
			w := get(mux, http.MethodGet, "/?year=1850")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, `class="alert"`)
		})

		Convey("The overall view shows cards, charts, the heatmap and top athletes", func() {
			w := get(mux, http.MethodGet, "/?view=overall&sport=Swimming")
			body := w.Body.String()

			So(w.Code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, "<h3>Editions</h3><p>2</p>")
			So(body, ShouldContainSubstring, "/charts/over-time.png?column=region")
			So(body, ShouldContainSubstring, "Number of Events over Time (Every Sport)")
			So(body, ShouldContainSubstring, "background-color:#")
			So(body, ShouldContainSubstring, "<td>Alice</td>")
			So(body, ShouldNotContainSubstring, "<td>Carl</td>")
		})

		Convey("The country view defaults to the first region", func() {
			w := get(mux, http.MethodGet, "/?view=country")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Norway - Medal Tally Over the Years")
			So(w.Body.String(), ShouldContainSubstring, "/charts/country-medals.png?country=Norway")
		})

		Convey("The country view escapes the selection into chart URLs", func() {
			w := get(mux, http.MethodGet, "/?view=country&country=USA")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Top 10 Athletes from USA")
			So(w.Body.String(), ShouldContainSubstring, "<td>Beth</td>")
			So(w.Body.String(), ShouldContainSubstring, "<td>Swimming</td><td>USA</td>")

			w = get(mux, http.MethodGet, "/?view=country&country=Atlantis")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("The athlete view links every chart", func() {
			w := get(mux, http.MethodGet, "/?view=athletes&sport=Rowing")
			body := w.Body.String()
			So(w.Code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, "/charts/age-distribution.png")
			So(body, ShouldContainSubstring, "/charts/height-weight.png?sport=Rowing")
			So(body, ShouldContainSubstring, "/charts/men-vs-women.png")

			So(get(mux, http.MethodGet, "/?view=athletes&sport=Curling").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("An unknown view falls back to the tally", func() {
			w := get(mux, http.MethodGet, "/?view=nope")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Overall Tally")
		})

		Convey("Oversized selectors are rejected", func() {
			w := get(mux, http.MethodGet, "/?year="+strings.Repeat("9", 200))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Unknown paths and methods are refused", func() {
			So(get(mux, http.MethodGet, "/some-asset").Code, ShouldEqual, http.StatusNotFound)

			w := get(mux, http.MethodPost, "/")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldContainSubstring, http.MethodGet)
		})

		Convey("HEAD writes headers only", func() {
			w := get(mux, http.MethodHead, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.Len(), ShouldEqual, 0)
		})

		Convey("The stylesheet is served", func() {
			w := get(mux, http.MethodGet, "/static/style.css")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, ".card-container")
		})

		Convey("A loading dataset answers 503", func() {
			deps.ready = false
			So(get(mux, http.MethodGet, "/").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("A failing dependency answers 500 without leaking the cause", func() {
			deps.err = errors.New("disk on fire")
			w := get(mux, http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldNotContainSubstring, "disk on fire")
		})
	})
}

func TestSiteErrors(t *testing.T) {
	Convey("Given site error constants", t, func() {
		So(site.ErrTemplate, ShouldNotBeNil)
		So(site.ErrRender, ShouldNotBeNil)
		So(site.ErrTemplate, ShouldNotEqual, site.ErrRender)
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() {
			site.Register(context.Background(), nil, &fixtureDeps{})
		}, ShouldPanic)
	})
}
