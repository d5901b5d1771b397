// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/athletebmi/internal/domain/insights"
)

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

type statsResponse struct {
	Service map[string]interface{} `json:"service"`
	Summary *insights.Summary      `json:"summary,omitempty"`
}

// HandleStats handles GET /stats requests. The summary is omitted until the
// dataset is built.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	resp := statsResponse{Service: h.statsProvider.GetStats()}
	if sum, err := h.statsProvider.Summary(r.Context()); err == nil {
		resp.Summary = &sum
	}
	writeJSON(w, http.StatusOK, resp)
}
