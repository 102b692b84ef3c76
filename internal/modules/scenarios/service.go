package scenarios

import (
	"math"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
)

// ConfigForFund derives the payoff terms a scenario evaluation should use.
// Inception mode reads the outcome period's original terms; current mode
// reads the remaining cap and shifts the buffer bounds so they describe
// only the unconsumed protection.
func ConfigForFund(snap funds.Snapshot, mode Mode) Config {
	if mode == ModeCurrent {
		cv := snap.CurrentValues
		return Config{
			Mode:                 ModeCurrent,
			Cap:                  cv.RemainingCapNet,
			BufferStartPct:       -cv.DownsideBeforeBuffer,
			BufferEndPct:         -(cv.DownsideBeforeBuffer + cv.RemainingBufferNet),
			RemainingBuffer:      cv.RemainingBufferNet,
			DownsideBeforeBuffer: cv.DownsideBeforeBuffer,
		}
	}

	return Config{
		Mode:                 ModeInception,
		Cap:                  snap.OutcomePeriod.StartingCapNet,
		BufferStartPct:       snap.BufferStartPct,
		BufferEndPct:         snap.BufferEndPct,
		RemainingBuffer:      snap.BufferSizePct,
		DownsideBeforeBuffer: math.Abs(snap.BufferStartPct),
	}
}

// ForFund evaluates the canonical scenario set for a fund in the given mode.
func ForFund(snap funds.Snapshot, mode Mode) ([]Result, Config) {
	cfg := ConfigForFund(snap, mode)
	return BuildScenarios(cfg, snap.BufferType), cfg
}

// CustomForFund evaluates one arbitrary reference return for a fund.
func CustomForFund(snap funds.Snapshot, refReturnPct float64, mode Mode) Result {
	cfg := ConfigForFund(snap, mode)
	return EvaluateCustom(refReturnPct, cfg.Cap, cfg.BufferStartPct, cfg.BufferEndPct)
}
