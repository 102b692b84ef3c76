// Package funds defines the buffer-fund universe: static fund definitions,
// synthetic outcome periods, and the derived per-fund current values every
// other module reads.
package funds

import "github.com/corgilabs/bufferscope/internal/payoff"

// Definition describes one fund (one family + one series month). Immutable
// after construction; shared read-only by every consumer.
type Definition struct {
	Ticker               string            `json:"ticker"`
	Name                 string            `json:"name"`
	FundFamily           string            `json:"fund_family"`
	ReferenceAssetTicker string            `json:"reference_asset_ticker"`
	ReferenceAssetName   string            `json:"reference_asset_name"`
	BufferType           payoff.BufferType `json:"buffer_type"`
	BufferSizePct        float64           `json:"buffer_size_pct"`
	BufferStartPct       float64           `json:"buffer_start_pct"` // 0 for standard/full, -5 for deep
	BufferEndPct         float64           `json:"buffer_end_pct"`   // -10, -15, -35, or -100
	SeriesMonth          string            `json:"series_month"`
	ExpenseRatio         float64           `json:"expense_ratio"`
}

// OutcomePeriod is the ~1 year window a cap/buffer contract applies to.
// Generated once per fund and never mutated.
type OutcomePeriod struct {
	FundTicker            string  `json:"fund_ticker"`
	StartDate             string  `json:"start_date"` // YYYY-MM-DD
	EndDate               string  `json:"end_date"`
	StartingCapGross      float64 `json:"starting_cap_gross"`
	StartingCapNet        float64 `json:"starting_cap_net"`
	StartingFundNav       float64 `json:"starting_fund_nav"`
	StartingRefAssetPrice float64 `json:"starting_ref_asset_price"`
	RefAssetCapValue      float64 `json:"ref_asset_cap_value"`    // ref price at which the fund caps out
	BufferStartRefValue   float64 `json:"buffer_start_ref_value"` // ref price where protection begins
	BufferEndRefValue     float64 `json:"buffer_end_ref_value"`   // ref price where protection is exhausted
}

// DailyValues is a fund's state as of the configured reference date. Every
// field is derived from the fund's terms and the last time-series point.
type DailyValues struct {
	Date                       string  `json:"date"`
	FundTicker                 string  `json:"fund_ticker"`
	FundNav                    float64 `json:"fund_nav"`
	FundReturnPTD              float64 `json:"fund_return_ptd"`
	RefAssetPrice              float64 `json:"ref_asset_price"`
	RefAssetReturnPTD          float64 `json:"ref_asset_return_ptd"`
	RemainingCapGross          float64 `json:"remaining_cap_gross"`
	RemainingCapNet            float64 `json:"remaining_cap_net"`
	RemainingBufferNet         float64 `json:"remaining_buffer_net"`
	DownsideBeforeBuffer       float64 `json:"downside_before_buffer"`
	RefAssetToBufferEnd        float64 `json:"ref_asset_to_buffer_end"`
	RefAssetReturnToCap        float64 `json:"ref_asset_return_to_cap"`
	RemainingOutcomePeriodDays int     `json:"remaining_outcome_period_days"`

	// Preformatted display strings for the screener UI
	FundReturnPTDDisplay string `json:"fund_return_ptd_display"`
	DaysRemainingDisplay string `json:"days_remaining_display"`
}

// TimeSeriesPoint is one trading-day observation. Both returns are
// period-to-date percentages relative to the outcome period start.
type TimeSeriesPoint struct {
	Date           string  `json:"date" msgpack:"date"`
	FundReturn     float64 `json:"fund_return" msgpack:"fund_return"`
	RefAssetReturn float64 `json:"ref_asset_return" msgpack:"ref_asset_return"`
}

// Snapshot bundles a definition with its generated outcome period and
// current values. Value object; safe to share once built.
type Snapshot struct {
	Definition
	OutcomePeriod OutcomePeriod `json:"outcome_period"`
	CurrentValues DailyValues   `json:"current_values"`
}

// MetricValue returns the snapshot field an alert metric refers to.
// Unknown metrics return ok=false.
func (s Snapshot) MetricValue(metric string) (float64, bool) {
	switch metric {
	case "remaining_buffer_net":
		return s.CurrentValues.RemainingBufferNet, true
	case "remaining_cap_net":
		return s.CurrentValues.RemainingCapNet, true
	case "downside_before_buffer":
		return s.CurrentValues.DownsideBeforeBuffer, true
	case "remaining_outcome_period_days":
		return float64(s.CurrentValues.RemainingOutcomePeriodDays), true
	case "fund_return_ptd":
		return s.CurrentValues.FundReturnPTD, true
	}
	return 0, false
}
