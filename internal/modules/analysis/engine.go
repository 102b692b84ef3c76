// Package analysis evaluates scenario grids across many funds at once and
// computes weighted series blends within a fund family.
package analysis

import (
	"math"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
	"github.com/corgilabs/bufferscope/internal/modules/scenarios"
	"github.com/corgilabs/bufferscope/internal/payoff"
	"github.com/corgilabs/bufferscope/internal/utils"
)

// DefaultRefReturns is the shared probe grid for cross-fund comparisons. It
// covers the cap region, the gap, and every buffer boundary in the lineup.
var DefaultRefReturns = []float64{30, 20, 10, 5, 0, -5, -10, -15, -25, -35, -50}

// DefaultBlendWeights splits a family evenly across its series months.
var DefaultBlendWeights = map[string]float64{"May": 25, "Jun": 25, "Jul": 25, "Aug": 25}

// weightSumTolerance bounds how far blend weights may drift from 100.
const weightSumTolerance = 0.01

// GridRow is one fund's row in a multi-fund scenario grid. Results follow
// the probe order the caller supplied.
type GridRow struct {
	Ticker  string             `json:"ticker"`
	Results []scenarios.Result `json:"results"`
}

// BlendedResult is one probe evaluated across a family's series months.
type BlendedResult struct {
	RefReturn         float64            `json:"ref_return"`
	BlendedFundReturn float64            `json:"blended_fund_return"`
	SeriesReturns     map[string]float64 `json:"series_returns"` // month -> fund return %
}

// EvaluateGrid evaluates every (fund, probe) pair using each fund's
// inception terms. An empty fund list yields an empty grid; duplicate probes
// produce duplicate but consistent entries.
func EvaluateGrid(snapshots []funds.Snapshot, refReturns []float64) []GridRow {
	rows := make([]GridRow, 0, len(snapshots))
	for _, snap := range snapshots {
		results := make([]scenarios.Result, 0, len(refReturns))
		for _, refReturn := range refReturns {
			results = append(results, scenarios.EvaluateCustom(refReturn, snap.OutcomePeriod.StartingCapNet, snap.BufferStartPct, snap.BufferEndPct))
		}
		rows = append(rows, GridRow{Ticker: snap.Ticker, Results: results})
	}
	return rows
}

// EvaluateBlend computes weighted blends for a family's series months across
// the probe grid. Weights are percentages keyed by series month and must sum
// to 100 within tolerance; otherwise the result is empty rather than an
// error, keeping the function total.
//
// Per-series returns are rounded for display, but each blended value sums
// the unrounded returns so rounding error cannot compound.
func EvaluateBlend(familyFunds []funds.Snapshot, weights map[string]float64, refReturns []float64) []BlendedResult {
	var total float64
	for _, w := range weights {
		total += w
	}
	if math.Abs(total-100) > weightSumTolerance {
		return []BlendedResult{}
	}

	results := make([]BlendedResult, 0, len(refReturns))
	for _, refReturn := range refReturns {
		seriesReturns := make(map[string]float64, len(familyFunds))
		var blended float64

		for _, snap := range familyFunds {
			r := payoff.FundReturnPct(refReturn, snap.OutcomePeriod.StartingCapNet, snap.BufferStartPct, snap.BufferEndPct)
			seriesReturns[snap.SeriesMonth] = utils.Round2(r)
			blended += r * (weights[snap.SeriesMonth] / 100)
		}

		results = append(results, BlendedResult{
			RefReturn:         refReturn,
			BlendedFundReturn: utils.Round2(blended),
			SeriesReturns:     seriesReturns,
		})
	}
	return results
}
