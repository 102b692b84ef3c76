// Package watchlists persists user watchlists and alert rules and evaluates
// the rules against the fund universe.
package watchlists

import (
	"fmt"
	"time"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
)

// AppliedToAll is the alert scope covering the whole fund universe.
const AppliedToAll = "all"

// Watchlist is a named set of fund tickers.
type Watchlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tickers   []string  `json:"tickers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlertRule triggers when a fund metric crosses a threshold. AppliedTo is
// either AppliedToAll or a watchlist id.
type AlertRule struct {
	ID        string    `json:"id"`
	Metric    string    `json:"metric"`
	Condition string    `json:"condition"` // lt or gt
	Threshold float64   `json:"threshold"`
	AppliedTo string    `json:"applied_to"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertEvent records one (rule, fund) trigger observation.
type AlertEvent struct {
	ID          int64     `json:"id"`
	RuleID      string    `json:"rule_id"`
	Ticker      string    `json:"ticker"`
	MetricValue float64   `json:"metric_value"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// MetricLabels maps alert metrics to their display names.
var MetricLabels = map[string]string{
	"remaining_buffer_net":          "Remaining Buffer (Net)",
	"remaining_cap_net":             "Remaining Cap (Net)",
	"downside_before_buffer":        "Downside Before Buffer",
	"remaining_outcome_period_days": "Days Remaining",
	"fund_return_ptd":               "Fund Return PTD",
}

// Validate checks an alert rule's metric, condition, and threshold fields.
func (r AlertRule) Validate() error {
	if _, ok := MetricLabels[r.Metric]; !ok {
		return fmt.Errorf("unknown alert metric %q", r.Metric)
	}
	if r.Condition != "lt" && r.Condition != "gt" {
		return fmt.Errorf("invalid alert condition %q", r.Condition)
	}
	if r.AppliedTo == "" {
		return fmt.Errorf("applied_to must be %q or a watchlist id", AppliedToAll)
	}
	return nil
}

// Triggers reports whether the rule fires for a fund snapshot.
func (r AlertRule) Triggers(snap funds.Snapshot) (float64, bool) {
	value, ok := snap.MetricValue(r.Metric)
	if !ok {
		return 0, false
	}
	if r.Condition == "lt" {
		return value, value < r.Threshold
	}
	return value, value > r.Threshold
}

// Describe renders a rule as a one-line human-readable summary.
func (r AlertRule) Describe(watchlistName string) string {
	cond := "<"
	if r.Condition == "gt" {
		cond = ">"
	}

	threshold := fmt.Sprintf("%g%%", r.Threshold)
	if r.Metric == "remaining_outcome_period_days" {
		threshold = fmt.Sprintf("%g days", r.Threshold)
	}

	scope := "all funds"
	if r.AppliedTo != AppliedToAll {
		scope = watchlistName
		if scope == "" {
			scope = "unknown list"
		}
	}

	return fmt.Sprintf("%s %s %s (%s)", MetricLabels[r.Metric], cond, threshold, scope)
}
