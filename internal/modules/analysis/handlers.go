package analysis

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
)

// Handler handles multi-fund analysis HTTP requests
type Handler struct {
	registry *funds.Registry
	log      zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(registry *funds.Registry, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		log:      log.With().Str("handler", "analysis").Logger(),
	}
}

// RegisterRoutes mounts the analysis endpoints
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/grid", h.HandleGrid)
	r.Post("/grid", h.HandleGridPost)
	r.Post("/blend", h.HandleBlend)
}

// HandleGrid evaluates the probe grid across the filtered fund universe.
// Filter params match the screener; ref_return may repeat to override the
// default grid.
func (h *Handler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := funds.DefaultFilter()
	filter.ReferenceAssets = q["reference_asset"]
	filter.BufferTypes = q["buffer_type"]
	filter.SeriesMonths = q["series_month"]

	refReturns, err := parseRefReturns(q["ref_return"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshots := funds.Filter(h.registry.All(), filter)
	rows := EvaluateGrid(snapshots, refReturns)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ref_returns": refReturns,
		"rows":        rows,
	})
}

// GridRequest names an explicit set of funds and probes.
type GridRequest struct {
	Tickers    []string  `json:"tickers"`
	RefReturns []float64 `json:"ref_returns"`
}

// HandleGridPost evaluates the probe grid for an explicit ticker list.
// Unknown tickers are skipped; an empty list means the whole universe.
func (h *Handler) HandleGridPost(w http.ResponseWriter, r *http.Request) {
	var req GridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.RefReturns) == 0 {
		req.RefReturns = DefaultRefReturns
	}

	var snapshots []funds.Snapshot
	if len(req.Tickers) == 0 {
		snapshots = h.registry.All()
	} else {
		for _, ticker := range req.Tickers {
			if snap, ok := h.registry.ByTicker(ticker); ok {
				snapshots = append(snapshots, snap)
			}
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ref_returns": req.RefReturns,
		"rows":        EvaluateGrid(snapshots, req.RefReturns),
	})
}

// BlendRequest selects a family and assigns series-month weights.
type BlendRequest struct {
	Family     string             `json:"family"`
	Weights    map[string]float64 `json:"weights"`
	RefReturns []float64          `json:"ref_returns"`
}

// HandleBlend computes weighted series blends for one fund family
func (h *Handler) HandleBlend(w http.ResponseWriter, r *http.Request) {
	var req BlendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := funds.FamilyByShortName(req.Family); !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown family %q", req.Family))
		return
	}

	if req.Weights == nil {
		req.Weights = DefaultBlendWeights
	}
	if len(req.RefReturns) == 0 {
		req.RefReturns = DefaultRefReturns
	}

	var familyFunds []funds.Snapshot
	for _, snap := range h.registry.All() {
		if snap.FundFamily == req.Family {
			familyFunds = append(familyFunds, snap)
		}
	}

	results := EvaluateBlend(familyFunds, req.Weights, req.RefReturns)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"family":  req.Family,
		"weights": req.Weights,
		"results": results,
	})
}

func parseRefReturns(params []string) ([]float64, error) {
	if len(params) == 0 {
		return DefaultRefReturns, nil
	}
	out := make([]float64, 0, len(params))
	for _, p := range params {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ref_return %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

// Helper methods

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
