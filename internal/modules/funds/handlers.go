package funds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles fund screener HTTP requests
type Handler struct {
	registry *Registry
	log      zerolog.Logger
}

// NewHandler creates a new funds handler
func NewHandler(registry *Registry, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		log:      log.With().Str("handler", "funds").Logger(),
	}
}

// RegisterRoutes mounts the fund endpoints
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Get("/as-of", h.HandleAsOf)
	r.Get("/export", h.HandleExportCSV)
	r.Get("/{ticker}", h.HandleGet)
	r.Get("/{ticker}/series", h.HandleSeries)
}

// HandleAsOf returns the reference "today" driving all derived values
func (h *Handler) HandleAsOf(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"as_of": h.registry.AsOf().Format("2006-01-02"),
	})
}

// HandleList returns the filtered, sorted fund universe
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	snapshots := h.filteredSorted(r)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"as_of": h.registry.AsOf().Format("2006-01-02"),
		"count": len(snapshots),
		"funds": snapshots,
	})
}

// HandleGet returns one fund snapshot
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	snapshot, ok := h.registry.ByTicker(ticker)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown fund %s", ticker))
		return
	}

	h.writeJSON(w, http.StatusOK, snapshot)
}

// HandleSeries returns the period-to-date time series for a fund
func (h *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	series := h.registry.Series(ticker)
	if series == nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown fund %s", ticker))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"as_of":  h.registry.AsOf().Format("2006-01-02"),
		"points": series,
	})
}

// HandleExportCSV streams the screener export for the current filter
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	snapshots := h.filteredSorted(r)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", CSVFilename))

	if err := WriteCSV(w, snapshots); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

// filteredSorted parses filter/sort query params and applies them.
// Repeated reference_asset, buffer_type, and series_month params AND
// together across dimensions and OR within one.
func (h *Handler) filteredSorted(r *http.Request) []Snapshot {
	q := r.URL.Query()

	filter := DefaultFilter()
	filter.ReferenceAssets = q["reference_asset"]
	filter.BufferTypes = q["buffer_type"]
	filter.SeriesMonths = q["series_month"]

	if v := q.Get("days_remaining_min"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.DaysRemainingMin = n
		}
	}
	if v := q.Get("days_remaining_max"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.DaysRemainingMax = n
		}
	}

	snapshots := Filter(h.registry.All(), filter)

	sortCfg := SortConfig{Column: q.Get("sort"), Direction: q.Get("direction")}
	if sortCfg.Column == "" {
		sortCfg.Column = "ticker"
	}
	if sortCfg.Direction == "" {
		sortCfg.Direction = "asc"
	}

	return Sort(snapshots, sortCfg)
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
