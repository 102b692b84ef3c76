package scenarios

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
)

// Handler handles scenario HTTP requests
type Handler struct {
	registry *funds.Registry
	log      zerolog.Logger
}

// NewHandler creates a new scenarios handler
func NewHandler(registry *funds.Registry, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		log:      log.With().Str("handler", "scenarios").Logger(),
	}
}

// RegisterRoutes mounts the scenario endpoints
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/{ticker}", h.HandleScenarios)
	r.Get("/{ticker}/custom", h.HandleCustom)
	r.Post("/{ticker}/custom", h.HandleCustomPost)
}

// HandleScenarios returns the canonical scenario table for a fund.
// The mode query param selects inception (default) or current terms.
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	snap, ok := h.registry.ByTicker(ticker)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown fund %s", ticker))
		return
	}

	mode, err := parseMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, cfg := ForFund(snap, mode)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":    ticker,
		"config":    cfg,
		"scenarios": results,
	})
}

// HandleCustom evaluates a single user-supplied reference return
func (h *Handler) HandleCustom(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	snap, ok := h.registry.ByTicker(ticker)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown fund %s", ticker))
		return
	}

	refReturnParam := r.URL.Query().Get("ref_return")
	refReturn, err := strconv.ParseFloat(refReturnParam, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid ref_return %q", refReturnParam))
		return
	}

	mode, err := parseMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, CustomForFund(snap, refReturn, mode))
}

// HandleCustomPost is the JSON-body variant of HandleCustom
func (h *Handler) HandleCustomPost(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	snap, ok := h.registry.ByTicker(ticker)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown fund %s", ticker))
		return
	}

	var req struct {
		RefReturn *float64 `json:"ref_return"`
		Mode      string   `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefReturn == nil {
		h.writeError(w, http.StatusBadRequest, "ref_return is required")
		return
	}

	mode, err := parseMode(req.Mode)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, CustomForFund(snap, *req.RefReturn, mode))
}

func parseMode(s string) (Mode, error) {
	if s == "" {
		return ModeInception, nil
	}
	mode := Mode(s)
	if !mode.Valid() {
		return "", fmt.Errorf("invalid mode %q", s)
	}
	return mode, nil
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
