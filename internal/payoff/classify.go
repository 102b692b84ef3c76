package payoff

// Regime note labels attached to evaluated scenarios. These annotate results
// for display; nothing branches on them.
const (
	NoteCapped           = "Capped"
	NoteFlat             = "Flat"
	NoteBelowCap         = "Below cap"
	NoteInGap            = "Investor bears loss (in gap)"
	NoteGapRealized      = "Gap fully realized"
	NoteBufferAbsorbing  = "Buffer absorbing"
	NoteBufferAbsorbsAll = "Buffer absorbs all loss"
	NoteBufferConsumed   = "Buffer fully consumed"
	NoteBeyondBuffer     = "Beyond buffer"
)

// Classify describes which payoff regime produced fundReturnPct for
// refReturnPct. Inputs are percentage units, matching the scenario tables.
// Boundary ties resolve to the more specific label: equality with the buffer
// end is "Buffer fully consumed", not "Beyond buffer".
func Classify(refReturnPct, fundReturnPct, capPct, bufferStartPct, bufferEndPct float64) string {
	if refReturnPct >= capPct {
		return NoteCapped
	}
	if refReturnPct >= 0 {
		if refReturnPct == 0 {
			return NoteFlat
		}
		return NoteBelowCap
	}

	// Negative returns
	if bufferStartPct < 0 && refReturnPct > bufferStartPct {
		return NoteInGap
	}
	if refReturnPct == bufferStartPct && bufferStartPct < 0 {
		return NoteGapRealized
	}
	if refReturnPct > bufferEndPct {
		if fundReturnPct == 0 || fundReturnPct == bufferStartPct {
			return NoteBufferAbsorbsAll
		}
		return NoteBufferAbsorbing
	}
	if refReturnPct == bufferEndPct {
		return NoteBufferConsumed
	}
	return NoteBeyondBuffer
}
