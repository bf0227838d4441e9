package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/okian/olympics/internal/adapters/http/api"
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

// fixtureDeps answers every query straight from the analysis package.
type fixtureDeps struct {
	ds    *model.Dataset
	ready bool
	err   error
}

func newDeps() *fixtureDeps {
	return &fixtureDeps{ds: testdataset.Dataset(), ready: true}
}

func (f *fixtureDeps) Ready() bool { return f.ready }

func (f *fixtureDeps) Filters(context.Context) (types.Filters, error) {
	return analysis.Filters(f.ds), f.err
}

func (f *fixtureDeps) MedalTally(_ context.Context, year, country string) (types.MedalTally, error) {
	if f.err != nil {
		return types.MedalTally{}, f.err
	}
	return analysis.FetchMedalTally(f.ds, year, country)
}

func (f *fixtureDeps) Overview(context.Context) (types.Overview, error) {
	nations, _ := analysis.DataOverTime(f.ds, analysis.ColumnRegion)
	return types.Overview{Stats: analysis.OverallStats(f.ds), Nations: nations}, f.err
}

func (f *fixtureDeps) OverTime(_ context.Context, column string) (types.OverTime, error) {
	return analysis.DataOverTime(f.ds, column)
}

func (f *fixtureDeps) EventHeatmap(context.Context) (types.Heatmap, error) {
	return analysis.EventHeatmap(f.ds), f.err
}

func (f *fixtureDeps) MostSuccessful(_ context.Context, sport string) ([]types.AthleteRank, error) {
	return analysis.MostSuccessful(f.ds, sport, 0)
}

func (f *fixtureDeps) CountryMedals(_ context.Context, country string) ([]types.YearCount, error) {
	return analysis.YearwiseMedalTally(f.ds, country)
}

func (f *fixtureDeps) CountryHeatmap(_ context.Context, country string) (types.Heatmap, error) {
	return analysis.CountryEventHeatmap(f.ds, country)
}

func (f *fixtureDeps) CountryTopAthletes(_ context.Context, country string) ([]types.AthleteRank, error) {
	return analysis.MostSuccessfulCountrywise(f.ds, country, 0)
}

func (f *fixtureDeps) CountryProfile(_ context.Context, country string) (types.CountryProfile, error) {
	return analysis.CountryProfile(f.ds, country, 0)
}

func (f *fixtureDeps) AgeDistribution(context.Context) ([]types.DensityCurve, error) {
	return analysis.AgeDistribution(f.ds), f.err
}

func (f *fixtureDeps) HeightWeight(_ context.Context, sport string) ([]types.PhysicalPoint, error) {
	return analysis.WeightVHeight(f.ds, sport)
}

func (f *fixtureDeps) MenVsWomen(context.Context) ([]types.GenderCount, error) {
	return analysis.MenVsWomen(f.ds), f.err
}

type staticStats map[string]interface{}

func (s staticStats) GetStats() map[string]interface{} { return s }

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, staticStats{"started": true, "rows": 9}).Register(context.Background(), mux)
	return mux
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var out T
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestTallyRoutes(t *testing.T) {
	Convey("Given the API over the fixture", t, func() {
		mux := newMux(newDeps())

		Convey("When listing filters", func() {
			w := do(mux, http.MethodGet, "/api/filters")

			Convey("Then the selector lists are returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				f := decode[types.Filters](w)
				So(f.Countries, ShouldResemble, []string{"Overall", "Norway", "UK", "USA"})
			})
		})

		Convey("When fetching the overall tally without parameters", func() {
			w := do(mux, http.MethodGet, "/api/medal-tally")

			Convey("Then the tally is grouped by region", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				tally := decode[types.MedalTally](w)
				So(tally.Title, ShouldEqual, "Overall Tally")
				So(tally.Rows[0], ShouldResemble, types.MedalTallyRow{Label: "USA", Gold: 2, Silver: 1, Total: 3})
			})
		})

		Convey("When fetching one country's tally", func() {
			w := do(mux, http.MethodGet, "/api/medal-tally?year=Overall&country=USA")

			Convey("Then it is grouped by year", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				tally := decode[types.MedalTally](w)
				So(tally.GroupBy, ShouldEqual, types.GroupByYear)
				So(tally.Title, ShouldEqual, "USA overall performance")
			})
		})

		Convey("When the year does not exist", func() {
			w := do(mux, http.MethodGet, "/api/medal-tally?year=1999")

			Convey("Then 404 is returned with a JSON body", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				body := decode[errorBody](w)
				So(body.Code, ShouldEqual, "not_found")
				So(body.Message, ShouldContainSubstring, "1999")
			})
		})

		Convey("When the year is malformed", func() {
			w := do(mux, http.MethodGet, "/api/medal-tally?year=twenty")

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorBody](w).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When a parameter is oversized", func() {
			w := do(mux, http.MethodGet, "/api/medal-tally?country="+strings.Repeat("x", 200))

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When using the wrong method", func() {
			w := do(mux, http.MethodPost, "/api/medal-tally")

			Convey("Then 405 is returned with an Allow header", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldContainSubstring, http.MethodGet)
				So(decode[errorBody](w).Code, ShouldEqual, "method_not_allowed")
			})
		})
	})
}

func TestOverallRoutes(t *testing.T) {
	Convey("Given the API over the fixture", t, func() {
		mux := newMux(newDeps())

		Convey("When fetching the overview", func() {
			w := do(mux, http.MethodGet, "/api/overview")

			Convey("Then the stat cards are filled", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				ov := decode[types.Overview](w)
				So(ov.Stats.Editions, ShouldEqual, 2)
				So(ov.Stats.Athletes, ShouldEqual, 6)
			})
		})

		Convey("When counting events over time", func() {
			w := do(mux, http.MethodGet, "/api/over-time?column=event")
			bad := do(mux, http.MethodGet, "/api/over-time?column=weather")
			def := do(mux, http.MethodGet, "/api/over-time")

			Convey("Then known columns succeed and unknown ones are rejected", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[types.OverTime](w).Points, ShouldHaveLength, 3)
				So(bad.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[types.OverTime](def).Column, ShouldEqual, analysis.ColumnRegion)
			})
		})

		Convey("When fetching the event heatmap", func() {
			w := do(mux, http.MethodGet, "/api/heatmap/events")

			Convey("Then a sport by year matrix is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				hm := decode[types.Heatmap](w)
				So(hm.Sports, ShouldResemble, []string{"Athletics", "Rowing", "Swimming"})
				So(hm.Years, ShouldResemble, []int{1906, 2000, 2004})
			})
		})

		Convey("When ranking athletes of a sport", func() {
			w := do(mux, http.MethodGet, "/api/most-successful?sport=Rowing")
			missing := do(mux, http.MethodGet, "/api/most-successful?sport=Curling")

			Convey("Then only that sport is ranked", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Sport    string              `json:"sport"`
					Athletes []types.AthleteRank `json:"athletes"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Sport, ShouldEqual, "Rowing")
				So(body.Athletes, ShouldHaveLength, 2)
				So(missing.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestCountryRoutes(t *testing.T) {
	Convey("Given the API over the fixture", t, func() {
		mux := newMux(newDeps())

		Convey("When fetching a country's medals", func() {
			w := do(mux, http.MethodGet, "/api/country/medals?country=USA")

			Convey("Then medals per year are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Country string            `json:"country"`
					Medals  []types.YearCount `json:"medals"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Country, ShouldEqual, "USA")
				So(body.Medals, ShouldResemble, []types.YearCount{{Year: 2000, Count: 2}, {Year: 2004, Count: 1}})
			})
		})

		Convey("When the country is missing or unknown", func() {
			missing := do(mux, http.MethodGet, "/api/country/heatmap")
			unknown := do(mux, http.MethodGet, "/api/country/top-athletes?country=Atlantis")

			Convey("Then 400 and 404 are returned", func() {
				So(missing.Code, ShouldEqual, http.StatusBadRequest)
				So(unknown.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When fetching a profile", func() {
			w := do(mux, http.MethodGet, "/api/country/profile?country=Norway")

			Convey("Then the three views are bundled", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				p := decode[types.CountryProfile](w)
				So(p.Country, ShouldEqual, "Norway")
				So(p.TopAthletes[0].Name, ShouldEqual, "Olav")
			})
		})
	})
}

func TestAthleteRoutes(t *testing.T) {
	Convey("Given the API over the fixture", t, func() {
		mux := newMux(newDeps())

		Convey("When fetching every athlete view", func() {
			age := do(mux, http.MethodGet, "/api/athletes/age-distribution")
			hw := do(mux, http.MethodGet, "/api/athletes/height-weight?sport=Overall")
			mw := do(mux, http.MethodGet, "/api/athletes/men-vs-women")

			Convey("Then each returns its wrapped payload", func() {
				So(age.Code, ShouldEqual, http.StatusOK)
				So(age.Body.String(), ShouldContainSubstring, `"curves"`)
				So(hw.Code, ShouldEqual, http.StatusOK)
				So(hw.Body.String(), ShouldContainSubstring, `"points"`)
				So(mw.Code, ShouldEqual, http.StatusOK)
				So(mw.Body.String(), ShouldContainSubstring, `"female"`)
			})
		})
	})
}

func TestServiceState(t *testing.T) {
	Convey("Given a dataset that is not loaded yet", t, func() {
		deps := newDeps()
		deps.ready = false
		mux := newMux(deps)

		Convey("When querying", func() {
			ready := do(mux, http.MethodGet, "/readyz")
			tally := do(mux, http.MethodGet, "/api/medal-tally")

			Convey("Then 503 is returned", func() {
				So(ready.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(tally.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})

	Convey("Given a backend that fails", t, func() {
		deps := newDeps()
		deps.err = errors.New("boom")
		mux := newMux(deps)

		Convey("When querying", func() {
			w := do(mux, http.MethodGet, "/api/filters")

			Convey("Then 500 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode[errorBody](w).Code, ShouldEqual, "internal_error")
			})
		})
	})

	Convey("Given a ready service", t, func() {
		mux := newMux(newDeps())

		Convey("When probing health, readiness and stats", func() {
			health := do(mux, http.MethodGet, "/healthz")
			ready := do(mux, http.MethodGet, "/readyz")
			stats := do(mux, http.MethodGet, "/stats")
			badStats := do(mux, http.MethodDelete, "/stats")

			Convey("Then each responds", func() {
				So(health.Code, ShouldEqual, http.StatusOK)
				So(health.Body.String(), ShouldContainSubstring, "olympics_explorer")
				So(ready.Code, ShouldEqual, http.StatusOK)
				So(ready.Body.String(), ShouldContainSubstring, "ready")
				So(stats.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]any](stats)["rows"], ShouldEqual, 9.0)
				So(badStats.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given domain errors", t, func() {
		notFound := api.Wrap("op", analysis.ErrNotFound)
		invalid := api.Wrap("op", analysis.ErrInvalidFilter)
		cancelled := api.Wrap("op", context.Canceled)
		other := api.Wrap("op", errors.New("x"))

		Convey("Then Wrap classifies them", func() {
			So(errors.Is(notFound, api.ErrNotFound), ShouldBeTrue)
			So(errors.Is(notFound, analysis.ErrNotFound), ShouldBeTrue)
			So(errors.Is(invalid, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(cancelled, api.ErrUnavailable), ShouldBeTrue)
			So(errors.Is(other, api.ErrInternal), ShouldBeTrue)
			So(other.Error(), ShouldEqual, "op: x")
		})

		Convey("Then wrapping an API error keeps it", func() {
			e := api.NewKind("read", api.ErrBadRequest, "bad")
			So(api.Wrap("outer", e), ShouldEqual, e)
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}), logger.Nop())

		Convey("When the client sends no id", func() {
			w := do(h, http.MethodGet, "/")

			Convey("Then a new UUID is generated and echoed", func() {
				_, err := uuid.Parse(seen)
				So(err, ShouldBeNil)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
				So(w.Code, ShouldEqual, http.StatusTeapot)
			})
		})

		Convey("When the client sends a valid id", func() {
			id := uuid.NewString()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, id)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is kept", func() {
				So(seen, ShouldEqual, id)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, id)
			})
		})

		Convey("When the client sends garbage", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, "<script>")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is replaced", func() {
				So(seen, ShouldNotEqual, "<script>")
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
			})
		})
	})
}
