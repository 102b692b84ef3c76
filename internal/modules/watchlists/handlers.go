package watchlists

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles watchlist and alert HTTP requests
type Handler struct {
	repo    *Repository
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new watchlists handler
func NewHandler(repo *Repository, service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		repo:    repo,
		service: service,
		log:     log.With().Str("handler", "watchlists").Logger(),
	}
}

// RegisterWatchlistRoutes mounts the watchlist CRUD endpoints
func (h *Handler) RegisterWatchlistRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleRename)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/tickers", h.HandleAddTicker)
	r.Delete("/{id}/tickers/{ticker}", h.HandleRemoveTicker)
}

// RegisterAlertRoutes mounts the alert endpoints
func (h *Handler) RegisterAlertRoutes(r chi.Router) {
	r.Get("/", h.HandleListAlerts)
	r.Post("/", h.HandleCreateAlert)
	r.Delete("/{id}", h.HandleDeleteAlert)
	r.Get("/triggered", h.HandleTriggered)
	r.Get("/events", h.HandleEvents)
	r.Get("/{id}/triggered", h.HandleRuleTriggered)
}

// HandleList returns all watchlists
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	lists, err := h.repo.GetWatchlists()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if lists == nil {
		lists = []Watchlist{}
	}
	h.writeJSON(w, http.StatusOK, lists)
}

// HandleCreate creates a new watchlist
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	list, err := h.repo.CreateWatchlist(strings.TrimSpace(req.Name))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, list)
}

// HandleRename renames a watchlist
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.repo.RenameWatchlist(id, strings.TrimSpace(req.Name)); err != nil {
		h.writeNotFoundOrError(w, err)
		return
	}

	list, err := h.repo.GetWatchlist(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleDelete deletes a watchlist and retargets its alerts
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteWatchlist(chi.URLParam(r, "id")); err != nil {
		h.writeNotFoundOrError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddTicker adds a fund to a watchlist
func (h *Handler) HandleAddTicker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker string `json:"ticker"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ticker == "" {
		h.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.AddTicker(id, req.Ticker); err != nil {
		h.writeNotFoundOrError(w, err)
		return
	}

	list, err := h.repo.GetWatchlist(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleRemoveTicker removes a fund from a watchlist
func (h *Handler) HandleRemoveTicker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ticker := chi.URLParam(r, "ticker")

	if err := h.repo.RemoveTicker(id, ticker); err != nil {
		h.writeNotFoundOrError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListAlerts returns all alert rules
func (h *Handler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repo.GetAlerts()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rules == nil {
		rules = []AlertRule{}
	}
	h.writeJSON(w, http.StatusOK, rules)
}

// HandleCreateAlert creates a new alert rule
func (h *Handler) HandleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var rule AlertRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if rule.AppliedTo == "" {
		rule.AppliedTo = AppliedToAll
	}

	created, err := h.service.CreateAlert(rule)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleDeleteAlert removes an alert rule
func (h *Handler) HandleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteAlert(chi.URLParam(r, "id")); err != nil {
		h.writeNotFoundOrError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTriggered evaluates all rules and returns the currently firing ones
func (h *Handler) HandleTriggered(w http.ResponseWriter, r *http.Request) {
	triggered, err := h.service.EvaluateAlerts()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, triggered)
}

// HandleRuleTriggered evaluates a single rule and returns the funds it fires on
func (h *Handler) HandleRuleTriggered(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules, err := h.repo.GetAlerts()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	found := false
	for _, rule := range rules {
		if rule.ID == id {
			found = true
			break
		}
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "alert "+id+" not found")
		return
	}

	triggered, err := h.service.EvaluateAlerts()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, t := range triggered {
		if t.Rule.ID == id {
			h.writeJSON(w, http.StatusOK, t)
			return
		}
	}

	// Rule exists but nothing is firing
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rule_id": id,
		"funds":   []TriggeredFund{},
	})
}

// HandleEvents returns recorded alert events, newest first
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	events, err := h.repo.GetEvents(limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []AlertEvent{}
	}
	h.writeJSON(w, http.StatusOK, events)
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

func (h *Handler) writeNotFoundOrError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "unknown fund") {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeError(w, http.StatusInternalServerError, err.Error())
}
