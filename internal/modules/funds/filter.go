package funds

import (
	"sort"
	"strings"
)

// FilterState narrows the fund universe for screener-style queries. Empty
// slices mean "no restriction" for that dimension.
type FilterState struct {
	ReferenceAssets  []string `json:"reference_assets"`
	BufferTypes      []string `json:"buffer_types"`
	SeriesMonths     []string `json:"series_months"`
	DaysRemainingMin int      `json:"days_remaining_min"`
	DaysRemainingMax int      `json:"days_remaining_max"`
}

// DefaultFilter matches every fund.
func DefaultFilter() FilterState {
	return FilterState{DaysRemainingMin: 0, DaysRemainingMax: 366}
}

// SortConfig names a screener column and direction.
type SortConfig struct {
	Column    string `json:"column"`
	Direction string `json:"direction"` // asc or desc
}

// Filter returns the snapshots matching the filter state, preserving order.
func Filter(snapshots []Snapshot, f FilterState) []Snapshot {
	out := make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if len(f.ReferenceAssets) > 0 && !contains(f.ReferenceAssets, s.ReferenceAssetTicker) {
			continue
		}
		if len(f.BufferTypes) > 0 && !contains(f.BufferTypes, string(s.BufferType)) {
			continue
		}
		if len(f.SeriesMonths) > 0 && !contains(f.SeriesMonths, s.SeriesMonth) {
			continue
		}
		days := s.CurrentValues.RemainingOutcomePeriodDays
		if days < f.DaysRemainingMin || days > f.DaysRemainingMax {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Sort orders snapshots by a screener column. Unknown columns leave the
// input order untouched.
func Sort(snapshots []Snapshot, cfg SortConfig) []Snapshot {
	out := make([]Snapshot, len(snapshots))
	copy(out, snapshots)

	desc := cfg.Direction == "desc"

	less := func(a, b Snapshot) int {
		switch cfg.Column {
		case "ticker":
			return strings.Compare(a.Ticker, b.Ticker)
		case "name":
			return strings.Compare(a.Name, b.Name)
		case "reference_asset":
			return strings.Compare(a.ReferenceAssetTicker, b.ReferenceAssetTicker)
		case "buffer_type":
			return strings.Compare(string(a.BufferType), string(b.BufferType))
		case "starting_cap_net":
			return compareFloat(a.OutcomePeriod.StartingCapNet, b.OutcomePeriod.StartingCapNet)
		case "remaining_cap_net":
			return compareFloat(a.CurrentValues.RemainingCapNet, b.CurrentValues.RemainingCapNet)
		case "remaining_buffer_net":
			return compareFloat(a.CurrentValues.RemainingBufferNet, b.CurrentValues.RemainingBufferNet)
		case "downside_before_buffer":
			return compareFloat(a.CurrentValues.DownsideBeforeBuffer, b.CurrentValues.DownsideBeforeBuffer)
		case "days_remaining":
			return a.CurrentValues.RemainingOutcomePeriodDays - b.CurrentValues.RemainingOutcomePeriodDays
		case "period_end":
			return strings.Compare(a.OutcomePeriod.EndDate, b.OutcomePeriod.EndDate)
		}
		return 0
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := less(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
