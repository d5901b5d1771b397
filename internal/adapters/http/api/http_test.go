package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/athletebmi/internal/adapters/http/api"
	"github.com/okian/athletebmi/internal/adapters/repository"
	service "github.com/okian/athletebmi/internal/app"
	"github.com/okian/athletebmi/internal/domain/insights"
	"github.com/okian/athletebmi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	years      []int
	defaultOK  bool
	err        error
	lastYear   int
	lastOrder  repository.Order
	selections map[int]repository.Selection
}

func (m *mockDependencies) Years(_ context.Context) ([]int, error) {
	return m.years, m.err
}

func (m *mockDependencies) DefaultYear(_ context.Context) (int, bool, error) {
	if m.err != nil {
		return 0, false, m.err
	}
	if !m.defaultOK || len(m.years) == 0 {
		return 0, false, nil
	}
	return m.years[0], true, nil
}

func (m *mockDependencies) Select(_ context.Context, year int, order repository.Order) (repository.Selection, error) {
	m.lastYear, m.lastOrder = year, order
	if m.err != nil {
		return repository.Selection{}, m.err
	}
	sel, ok := m.selections[year]
	if !ok {
		return repository.Selection{}, fmt.Errorf("%w: %d", repository.ErrYearNotFound, year)
	}
	sel.Order = order
	return sel, nil
}

type mockStatsProvider struct {
	stats      map[string]interface{}
	summary    insights.Summary
	summaryErr error
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func (m *mockStatsProvider) Summary(_ context.Context) (insights.Summary, error) {
	return m.summary, m.summaryErr
}

func newDeps() *mockDependencies {
	return &mockDependencies{
		years:     []int{2016, 2012},
		defaultOK: true,
		selections: map[int]repository.Selection{
			2016: {Year: 2016, Names: []string{"Ana", "Bia"}, BMI: []float64{18.5, 20.1}},
			2012: {Year: 2012, Names: []string{"Caio"}, BMI: []float64{24.2}},
		},
	}
}

func serve(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newDeps()
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"started": true}}
		server := api.NewServer(deps, statsProvider)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then the health endpoint reports ok", func() {
				w := serve(mux, http.MethodGet, "/healthz")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				So(decodeError(w)["status"], ShouldEqual, "ok")
			})

			Convey("And the metrics endpoint exposes Prometheus text", func() {
				serve(mux, http.MethodGet, "/healthz")
				w := serve(mux, http.MethodGet, "/metrics")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "athletebmi_dashboard_http_requests_total")
			})

			Convey("And the stats endpoint is accessible", func() {
				w := serve(mux, http.MethodGet, "/stats")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the years endpoint is accessible", func() {
				w := serve(mux, http.MethodGet, "/api/years")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the bmi endpoint is accessible", func() {
				w := serve(mux, http.MethodGet, "/api/bmi")
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When registering on a nil mux", func() {
			Convey("Then it should panic", func() {
				So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
			})
		})
	})
}

func TestChartHandler_Years(t *testing.T) {
	Convey("Given a chart handler", t, func() {
		deps := newDeps()
		h := api.NewChartHandler(deps)

		Convey("When requesting the years", func() {
			w := serve(http.HandlerFunc(h.HandleYears), http.MethodGet, "/api/years")

			Convey("Then years and the default are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Years   []int `json:"years"`
					Default *int  `json:"default"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Years, ShouldResemble, []int{2016, 2012})
				So(body.Default, ShouldNotBeNil)
				So(*body.Default, ShouldEqual, 2016)
			})
		})

		Convey("When the dataset is empty", func() {
			deps.years = nil
			w := serve(http.HandlerFunc(h.HandleYears), http.MethodGet, "/api/years")

			Convey("Then an empty list and a null default are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"years":[]`)
				So(w.Body.String(), ShouldContainSubstring, `"default":null`)
			})
		})

		Convey("When the service is not started", func() {
			deps.err = service.ErrNotStarted
			w := serve(http.HandlerFunc(h.HandleYears), http.MethodGet, "/api/years")

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["code"], ShouldEqual, "unavailable")
			})
		})

		Convey("When using a non-GET method", func() {
			w := serve(http.HandlerFunc(h.HandleYears), http.MethodPost, "/api/years")

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestChartHandler_BMI(t *testing.T) {
	Convey("Given a chart handler", t, func() {
		deps := newDeps()
		h := api.NewChartHandler(deps)
		handle := http.HandlerFunc(h.HandleBMI)

		Convey("When requesting a year and order", func() {
			w := serve(handle, http.MethodGet, "/api/bmi?year=2012&order=descending")

			Convey("Then the selection is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastYear, ShouldEqual, 2012)
				So(deps.lastOrder, ShouldEqual, repository.Descending)

				var sel repository.Selection
				So(json.Unmarshal(w.Body.Bytes(), &sel), ShouldBeNil)
				So(sel.Year, ShouldEqual, 2012)
				So(sel.Order, ShouldEqual, repository.Descending)
				So(sel.Names, ShouldResemble, []string{"Caio"})
				So(sel.BMI, ShouldResemble, []float64{24.2})
			})
		})

		Convey("When year and order are omitted", func() {
			w := serve(handle, http.MethodGet, "/api/bmi")

			Convey("Then the most recent year ascending is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastYear, ShouldEqual, 2016)
				So(deps.lastOrder, ShouldEqual, repository.Ascending)
			})
		})

		Convey("When the order uses the dashboard aliases", func() {
			w := serve(handle, http.MethodGet, "/api/bmi?year=2016&order=maior")

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastOrder, ShouldEqual, repository.Descending)
			})
		})

		Convey("When the year is not an integer", func() {
			w := serve(handle, http.MethodGet, "/api/bmi?year=twenty")

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the order is unknown", func() {
			w := serve(handle, http.MethodGet, "/api/bmi?year=2016&order=sideways")

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the year is unknown", func() {
			w := serve(handle, http.MethodGet, "/api/bmi?year=1896")

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "not_found")
				So(body["message"], ShouldContainSubstring, "1896")
			})
		})

		Convey("When the dataset is empty and no year is given", func() {
			deps.years = nil
			w := serve(handle, http.MethodGet, "/api/bmi")

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = errors.New("boom")
			w := serve(handle, http.MethodGet, "/api/bmi?year=2016")

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["code"], ShouldEqual, "internal_error")
			})
		})
	})
}

func TestStatsHandler(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		provider := &mockStatsProvider{
			stats: map[string]interface{}{"started": true, "entries": 3},
			summary: insights.Summary{
				MedalPointsByNOC: []insights.CountryPoints{{NOC: "BRA", Points: 5}},
				AthletesByGender: map[string]int{insights.GenderFemale: 2},
			},
		}
		h := api.NewStatsHandler(provider)

		Convey("When handling stats request", func() {
			w := serve(http.HandlerFunc(h.HandleStats), http.MethodGet, "/stats")

			Convey("Then it should return stats and the summary", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["service"]["started"], ShouldEqual, true)
				So(body["service"]["entries"], ShouldEqual, float64(3))
				So(body["summary"]["mean_age"], ShouldEqual, float64(0))
			})
		})

		Convey("When the summary is not available", func() {
			provider.summaryErr = service.ErrNotStarted
			w := serve(http.HandlerFunc(h.HandleStats), http.MethodGet, "/stats")

			Convey("Then only the service stats are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldNotContainSubstring, "summary")
			})
		})

		Convey("When using a non-GET method", func() {
			w := serve(http.HandlerFunc(h.HandleStats), http.MethodDelete, "/stats")

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with the request id middleware", t, func() {
		var seen string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestID(r.Context())
			w.WriteHeader(http.StatusTeapot)
		})
		h := api.RequestIDMiddleware(inner, logger.Nop())

		Convey("When the request carries no id", func() {
			w := serve(h, http.MethodGet, "/")

			Convey("Then a new id is generated and echoed", func() {
				id := w.Header().Get(api.RequestIDHeader)
				So(len(id), ShouldEqual, 36)
				So(seen, ShouldEqual, id)
				So(w.Code, ShouldEqual, http.StatusTeapot)
			})
		})

		Convey("When the request carries an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is kept", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
				So(seen, ShouldEqual, "abc-123")
			})
		})

		Convey("When no logger is given", func() {
			So(func() { serve(api.RequestIDMiddleware(inner, nil), http.MethodGet, "/") }, ShouldNotPanic)
		})
	})
}

func TestRequestIDMiddlewareAccessLog(t *testing.T) {
	Convey("Given the request id middleware logging at the default level", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithFormat(logger.FormatJSON), logger.WithWriter(&buf)), ShouldBeNil)

		status := http.StatusOK
		inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})
		h := api.RequestIDMiddleware(inner, logger.Named("http"))

		Convey("When a request succeeds", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/years", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "served-1")
			h.ServeHTTP(httptest.NewRecorder(), req)

			Convey("Then an info access line is written", func() {
				So(buf.String(), ShouldContainSubstring, `"level":"INFO"`)
				So(buf.String(), ShouldContainSubstring, "request served")
				So(buf.String(), ShouldContainSubstring, "served-1")
				So(buf.String(), ShouldContainSubstring, "/api/years")
			})
		})

		Convey("When a request fails on the server", func() {
			status = http.StatusInternalServerError
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/bmi", http.NoBody))

			Convey("Then a warning is written", func() {
				So(buf.String(), ShouldContainSubstring, `"level":"WARN"`)
				So(buf.String(), ShouldContainSubstring, "request failed")
			})
		})
	})
}
