package payoff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFundReturnStandardBuffer(t *testing.T) {
	// Cap 15%, buffer 0% to -10%.
	tests := []struct {
		name      string
		refReturn float64
		want      float64
	}{
		{"above cap", 0.20, 0.15},
		{"at cap", 0.15, 0.15},
		{"below cap", 0.10, 0.10},
		{"flat", 0.0, 0.0},
		{"inside buffer", -0.05, 0},
		{"at buffer end", -0.10, 0},
		{"beyond buffer", -0.25, -0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FundReturn(tt.refReturn, 0.15, 0, -0.10)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestFundReturnStandardBufferAbsorbs(t *testing.T) {
	// Losses inside the buffer zone are fully absorbed: fund stays at 0.
	assert.Equal(t, 0.0, FundReturn(-0.05, 0.15, 0, -0.10))
	assert.Equal(t, 0.0, FundReturn(-0.099, 0.15, 0, -0.10))
	// Exactly at the end the buffer is consumed but still holds the floor.
	assert.Equal(t, 0.0, FundReturn(-0.10, 0.15, 0, -0.10))
	// One step past the end the excess flows through at slope 1.
	assert.InDelta(t, -0.15, FundReturn(-0.25, 0.15, 0, -0.10), 1e-12)
}

func TestFundReturnDeepBuffer(t *testing.T) {
	// Cap 10%, gap to -5%, buffer end -35%.
	const (
		cap   = 0.10
		start = -0.05
		end   = -0.35
	)

	tests := []struct {
		name      string
		refReturn float64
		want      float64
	}{
		{"in gap", -0.03, -0.03},
		{"gap fully realized", -0.05, -0.05},
		{"buffer absorbing", -0.20, -0.05},
		{"at buffer end", -0.35, -0.05},
		{"beyond buffer", -0.50, -0.20}, // -0.05 + (-0.50 - -0.35)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FundReturn(tt.refReturn, cap, start, end), 1e-12)
		})
	}
}

func TestFundReturnFullBuffer(t *testing.T) {
	// Cap 3%, buffer 0% to -100%: every loss is absorbed.
	assert.Equal(t, 0.0, FundReturn(-0.60, 0.03, 0, -1.00))
	assert.Equal(t, 0.0, FundReturn(-0.999, 0.03, 0, -1.00))
	assert.Equal(t, 0.0, FundReturn(-1.00, 0.03, 0, -1.00))
	assert.Equal(t, 0.03, FundReturn(0.50, 0.03, 0, -1.00))
}

func TestFundReturnMonotonic(t *testing.T) {
	terms := []struct {
		cap, start, end float64
	}{
		{0.15, 0, -0.10},
		{0.10, -0.05, -0.35},
		{0.03, 0, -1.00},
	}

	for _, term := range terms {
		prev := math.Inf(-1)
		for ref := -1.5; ref <= 1.5; ref += 0.001 {
			got := FundReturn(ref, term.cap, term.start, term.end)
			require.GreaterOrEqual(t, got+1e-12, prev,
				"payoff must be non-decreasing (cap=%v start=%v end=%v ref=%v)",
				term.cap, term.start, term.end, ref)
			prev = got
		}
	}
}

func TestFundReturnCapCeiling(t *testing.T) {
	for ref := 0.15; ref <= 2.0; ref += 0.01 {
		require.Equal(t, 0.15, FundReturn(ref, 0.15, 0, -0.10))
	}
}

func TestFundReturnIdentityAboveZero(t *testing.T) {
	for ref := 0.0; ref < 0.15; ref += 0.005 {
		require.Equal(t, ref, FundReturn(ref, 0.15, 0, -0.10))
	}
}

func TestFundReturnGapParticipation(t *testing.T) {
	// Deep buffers pass losses through dollar-for-dollar inside the gap.
	for ref := -0.05; ref < 0; ref += 0.001 {
		require.Equal(t, ref, FundReturn(ref, 0.10, -0.05, -0.35))
	}
}

func TestFundReturnBufferFloor(t *testing.T) {
	for ref := -0.35; ref < -0.05; ref += 0.005 {
		require.Equal(t, -0.05, FundReturn(ref, 0.10, -0.05, -0.35))
	}
}

func TestFundReturnBeyondBufferSlope(t *testing.T) {
	// Beyond the buffer end, the payoff moves 1:1 with the reference return.
	atEnd := FundReturn(-0.35, 0.10, -0.05, -0.35)
	for ref := -1.0; ref < -0.35; ref += 0.01 {
		got := FundReturn(ref, 0.10, -0.05, -0.35)
		require.InDelta(t, ref-(-0.35), got-atEnd, 1e-12)
	}
}

func TestFundReturnContinuityAtBoundaries(t *testing.T) {
	const eps = 1e-9

	boundaries := []float64{0.10, 0, -0.05, -0.35}
	for _, b := range boundaries {
		left := FundReturn(b-eps, 0.10, -0.05, -0.35)
		right := FundReturn(b+eps, 0.10, -0.05, -0.35)
		assert.InDelta(t, left, right, 1e-6, "jump at boundary %v", b)
	}
}

func TestFundReturnPct(t *testing.T) {
	assert.InDelta(t, 15.0, FundReturnPct(20, 15, 0, -10), 1e-9)
	assert.InDelta(t, -5.0, FundReturnPct(-20, 10, -5, -35), 1e-9)
	assert.InDelta(t, 0.0, FundReturnPct(-60, 3, 0, -100), 1e-9)
}

func TestBufferTypeValid(t *testing.T) {
	assert.True(t, BufferStandard.Valid())
	assert.True(t, BufferDeep.Valid())
	assert.True(t, BufferFull.Valid())
	assert.False(t, BufferType("inverse").Valid())
}
