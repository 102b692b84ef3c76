// Package payoff implements the buffer-fund return mapping.
//
// A buffer fund participates in its reference asset's gains up to a cap and
// absorbs losses inside a contractual buffer range. The whole system reduces
// to the single piecewise-linear function in FundReturn; every scenario
// table, heatmap cell, and synthetic time series point flows through it.
package payoff

// BufferType classifies the shape of a fund's protection range.
// It never changes the math - FundReturn is driven purely by the numeric
// bounds. The type only selects display labels and scenario probe templates.
type BufferType string

const (
	// BufferStandard absorbs the first X% of losses (start 0, end -X).
	BufferStandard BufferType = "standard"
	// BufferDeep leaves an unprotected gap before the buffer begins
	// (e.g. start -5%, end -35%; the investor bears the first 5%).
	BufferDeep BufferType = "deep"
	// BufferFull absorbs all losses (start 0, end -100%).
	BufferFull BufferType = "full"
)

// Valid reports whether t is a known buffer type.
func (t BufferType) Valid() bool {
	switch t {
	case BufferStandard, BufferDeep, BufferFull:
		return true
	}
	return false
}

// FundReturn maps a reference-asset return to the fund's return for one
// outcome period. All arguments are return fractions (-0.20 for -20%), with
// bufferEnd < bufferStart <= 0 <= cap. The function is total: it assumes the
// precondition rather than checking it, and stays mathematically well-defined
// for any real input.
//
// The rules are evaluated in order; the first match wins:
//  1. refReturn >= cap               -> cap
//  2. 0 <= refReturn < cap           -> refReturn
//  3. bufferStart <= refReturn < 0   -> refReturn (the unprotected gap)
//  4. bufferEnd <= refReturn < start -> bufferStart (buffer absorbs)
//  5. refReturn < bufferEnd          -> bufferStart + (refReturn - bufferEnd)
//
// The result is continuous, non-decreasing, and piecewise linear with slope 1
// outside [bufferEnd, bufferStart] (below the cap) and slope 0 inside it.
func FundReturn(refReturn, cap, bufferStart, bufferEnd float64) float64 {
	// Upside: capped at cap level
	if refReturn >= cap {
		return cap
	}

	// Positive return below cap: full participation
	if refReturn >= 0 {
		return refReturn
	}

	// Above buffer start: in the gap for deep buffers, unreachable for
	// standard/full buffers where bufferStart == 0.
	if refReturn >= bufferStart {
		return refReturn
	}

	// Within buffer zone: loss is held at the buffer start
	if refReturn >= bufferEnd {
		return bufferStart
	}

	// Beyond buffer: investor bears excess losses past the buffer end
	return bufferStart + (refReturn - bufferEnd)
}

// FundReturnPct is FundReturn for percentage-unit inputs and output
// (-20 rather than -0.20). Pure unit conversion, no logic change.
func FundReturnPct(refReturnPct, capPct, bufferStartPct, bufferEndPct float64) float64 {
	return FundReturn(refReturnPct/100, capPct/100, bufferStartPct/100, bufferEndPct/100) * 100
}
