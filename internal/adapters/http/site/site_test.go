package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		Convey("When registering the site handler", func() {
			Register(ctx, mux)

			Convey("Then it should serve the dashboard at /", func() {
				req := httptest.NewRequest("GET", "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, `<select id="year">`)
				So(w.Body.String(), ShouldContainSubstring, `value="ascending" checked`)
				So(w.Body.String(), ShouldContainSubstring, "/api/bmi")
			})

			Convey("And it should serve the dashboard at /dashboard", func() {
				req := httptest.NewRequest("GET", "/dashboard", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `<svg id="chart"`)
			})

			Convey("And HEAD returns no body", func() {
				req := httptest.NewRequest("HEAD", "/dashboard", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldEqual, 0)
			})

			Convey("And it should not handle other paths", func() {
				req := httptest.NewRequest("GET", "/some-asset", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And it should reject POST", func() {
				req := httptest.NewRequest("POST", "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

type brokenFS struct{}

func (brokenFS) Open(string) (http.File, error) { return nil, errors.New("disk gone") }

func TestSiteErrors(t *testing.T) {
	Convey("Given a root handler whose filesystem cannot open the page", t, func() {
		h := newRootHandler(brokenFS{})

		Convey("When the dashboard is requested", func() {
			w := httptest.NewRecorder()
			h.HandleDashboard(w, httptest.NewRequest("GET", "/dashboard", nil))

			Convey("Then it answers 500 with ErrServe", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, ErrServe.Error())
				So(w.Body.String(), ShouldNotContainSubstring, "disk gone")
			})
		})

		Convey("When the root is requested", func() {
			w := httptest.NewRecorder()
			h.HandleRoot(w, httptest.NewRequest("GET", "/", nil))

			Convey("Then it fails the same way", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "dashboard serve failed")
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		ctx := context.Background()

		Convey("When registering the site handler", func() {
			Convey("Then it should panic", func() {
				So(func() {
					Register(ctx, nil)
				}, ShouldPanic)
			})
		})
	})
}
