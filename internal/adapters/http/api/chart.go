package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/athletebmi/internal/adapters/repository"
)

// ChartHandler serves the data behind the dashboard chart.
type ChartHandler struct {
	deps Dependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

type yearsResponse struct {
	Years   []int `json:"years"`
	Default *int  `json:"default"`
}

// HandleYears handles GET /api/years.
func (h *ChartHandler) HandleYears(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()

	years, err := h.deps.Years(ctx)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	resp := yearsResponse{Years: years}
	if resp.Years == nil {
		resp.Years = []int{}
	}

	def, ok, err := h.deps.DefaultYear(ctx)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if ok {
		resp.Default = &def
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleBMI handles GET /api/bmi?year=<int>&order=<ascending|descending>.
// A missing year selects the most recent one.
func (h *ChartHandler) HandleBMI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	q := r.URL.Query()

	order, err := repository.ParseOrder(q.Get("order"))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	var year int
	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			writeUpstreamError(w, fmt.Errorf("%w: year %q is not an integer", ErrBadRequest, raw))
			return
		}
	} else {
		def, ok, derr := h.deps.DefaultYear(ctx)
		if derr != nil {
			writeUpstreamError(w, derr)
			return
		}
		if !ok {
			writeUpstreamError(w, fmt.Errorf("%w: dataset is empty", repository.ErrYearNotFound))
			return
		}
		year = def
	}

	sel, err := h.deps.Select(ctx, year, order)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
