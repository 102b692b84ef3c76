package watchlists

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
)

// TriggeredFund is one fund matched by an alert rule.
type TriggeredFund struct {
	Ticker      string  `json:"ticker"`
	Name        string  `json:"name"`
	MetricValue float64 `json:"metric_value"`
}

// TriggeredAlert is an alert rule together with the funds currently
// matching it.
type TriggeredAlert struct {
	Rule        AlertRule       `json:"rule"`
	Description string          `json:"description"`
	Funds       []TriggeredFund `json:"funds"`
}

// Service evaluates alert rules against the fund universe and owns
// watchlist validation.
type Service struct {
	repo     *Repository
	registry *funds.Registry
	log      zerolog.Logger
}

// NewService creates a new watchlists service
func NewService(repo *Repository, registry *funds.Registry, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		log:      log.With().Str("service", "watchlists").Logger(),
	}
}

// AddTicker validates the ticker against the fund universe before adding.
func (s *Service) AddTicker(watchlistID, ticker string) error {
	if _, ok := s.registry.ByTicker(ticker); !ok {
		return fmt.Errorf("unknown fund %s", ticker)
	}
	return s.repo.AddTicker(watchlistID, ticker)
}

// CreateAlert validates and stores a new alert rule. A non-"all" scope must
// name an existing watchlist.
func (s *Service) CreateAlert(rule AlertRule) (*AlertRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if rule.AppliedTo != AppliedToAll {
		w, err := s.repo.GetWatchlist(rule.AppliedTo)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("watchlist %s not found", rule.AppliedTo)
		}
	}
	return s.repo.CreateAlert(rule)
}

// EvaluateAlerts evaluates every rule against its scope and returns the
// rules that currently trigger, with their matching funds.
func (s *Service) EvaluateAlerts() ([]TriggeredAlert, error) {
	rules, err := s.repo.GetAlerts()
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return []TriggeredAlert{}, nil
	}

	watchlists, err := s.repo.GetWatchlists()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Watchlist, len(watchlists))
	for _, w := range watchlists {
		byID[w.ID] = w
	}

	all := s.registry.All()
	triggered := []TriggeredAlert{}

	for _, rule := range rules {
		scope := all
		scopeName := ""

		if rule.AppliedTo != AppliedToAll {
			w, ok := byID[rule.AppliedTo]
			if !ok {
				// Rule points at a deleted list; DeleteWatchlist retargets
				// these, so this only happens mid-delete.
				continue
			}
			scopeName = w.Name
			scope = filterByTickers(all, w.Tickers)
		}

		var matches []TriggeredFund
		for _, snap := range scope {
			if value, ok := rule.Triggers(snap); ok {
				matches = append(matches, TriggeredFund{
					Ticker:      snap.Ticker,
					Name:        snap.Name,
					MetricValue: value,
				})
			}
		}

		if len(matches) > 0 {
			triggered = append(triggered, TriggeredAlert{
				Rule:        rule,
				Description: rule.Describe(scopeName),
				Funds:       matches,
			})
		}
	}
	return triggered, nil
}

// RecordTriggered evaluates all rules and persists one event per matching
// (rule, fund) pair. The scheduler calls this on its check interval.
func (s *Service) RecordTriggered(now time.Time) (int, error) {
	triggered, err := s.EvaluateAlerts()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, ta := range triggered {
		for _, f := range ta.Funds {
			err := s.repo.RecordEvent(AlertEvent{
				RuleID:      ta.Rule.ID,
				Ticker:      f.Ticker,
				MetricValue: f.MetricValue,
				TriggeredAt: now,
			})
			if err != nil {
				return count, err
			}
			count++
		}
	}

	if count > 0 {
		s.log.Info().Int("events", count).Int("rules", len(triggered)).Msg("Recorded alert events")
	}
	return count, nil
}

func filterByTickers(all []funds.Snapshot, tickers []string) []funds.Snapshot {
	want := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		want[t] = true
	}

	var out []funds.Snapshot
	for _, snap := range all {
		if want[snap.Ticker] {
			out = append(out, snap)
		}
	}
	return out
}
