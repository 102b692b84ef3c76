// Package scenarios evaluates the payoff function across canonical and
// user-supplied reference-return probes.
package scenarios

import (
	"sort"

	"github.com/corgilabs/bufferscope/internal/payoff"
	"github.com/corgilabs/bufferscope/internal/utils"
)

// Mode selects which terms the engine evaluates against.
type Mode string

const (
	// ModeInception uses the outcome period's original cap and buffer bounds.
	ModeInception Mode = "inception"
	// ModeCurrent uses the remaining cap and the unconsumed buffer bounds.
	ModeCurrent Mode = "current"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeInception || m == ModeCurrent
}

// Config is one set of payoff terms plus the display fields the caller
// derived them from.
type Config struct {
	Mode                 Mode    `json:"mode"`
	Cap                  float64 `json:"cap"`
	BufferStartPct       float64 `json:"buffer_start_pct"`
	BufferEndPct         float64 `json:"buffer_end_pct"`
	RemainingBuffer      float64 `json:"remaining_buffer"`
	DownsideBeforeBuffer float64 `json:"downside_before_buffer"`
}

// Result is one evaluated probe.
type Result struct {
	RefReturn  float64 `json:"ref_return"`
	FundReturn float64 `json:"fund_return"`
	Note       string  `json:"note"`
}

// defaultProbes returns the canonical probe set for a buffer type. Values
// are percent reference returns; cap and buffer bounds anchor the
// interesting boundaries.
func defaultProbes(bufferType payoff.BufferType, capPct, bufferStartPct, bufferEndPct float64) []float64 {
	switch bufferType {
	case payoff.BufferStandard:
		return []float64{30, 20, capPct, 10, 5, 0, bufferEndPct / 2, bufferEndPct, -25, -50}
	case payoff.BufferDeep:
		return []float64{30, 20, capPct, 10, 5, 0, -3, bufferStartPct, -15, -25, bufferEndPct, -50}
	case payoff.BufferFull:
		return []float64{30, 20, capPct, 5, 0, -10, -25, -50, -75, -100}
	}
	return []float64{30, 20, 10, 0, -10, -25, -50}
}

// BuildScenarios evaluates the canonical probe set for the given terms.
// Probes are rounded to two decimals, deduplicated, and sorted descending
// before evaluation.
func BuildScenarios(cfg Config, bufferType payoff.BufferType) []Result {
	probes := defaultProbes(bufferType, cfg.Cap, cfg.BufferStartPct, cfg.BufferEndPct)

	seen := make(map[float64]bool, len(probes))
	unique := make([]float64, 0, len(probes))
	for _, p := range probes {
		p = utils.Round2(p)
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(unique)))

	results := make([]Result, 0, len(unique))
	for _, refReturn := range unique {
		results = append(results, EvaluateCustom(refReturn, cfg.Cap, cfg.BufferStartPct, cfg.BufferEndPct))
	}
	return results
}

// EvaluateCustom evaluates a single arbitrary reference return.
func EvaluateCustom(refReturnPct, capPct, bufferStartPct, bufferEndPct float64) Result {
	fundReturn := payoff.FundReturnPct(refReturnPct, capPct, bufferStartPct, bufferEndPct)
	return Result{
		RefReturn:  refReturnPct,
		FundReturn: utils.Round2(fundReturn),
		Note:       payoff.Classify(refReturnPct, fundReturn, capPct, bufferStartPct, bufferEndPct),
	}
}
