package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestGeneratePricePathShape(t *testing.T) {
	rng := NewRand("CQMB")
	prices := GeneratePricePath(rng, 520.45, 115, 0.22, 0.10)

	require.Len(t, prices, 116)
	assert.Equal(t, 520.45, prices[0])
	for i, p := range prices {
		require.Greater(t, p, 0.0, "price at index %d must stay positive", i)
	}
}

func TestGeneratePricePathDeterminism(t *testing.T) {
	a := GeneratePricePath(NewRand("CSAB"), 585.20, 252, 0.18, 0.09)
	b := GeneratePricePath(NewRand("CSAB"), 585.20, 252, 0.18, 0.09)
	assert.Equal(t, a, b)
}

func TestGeneratePricePathZeroDays(t *testing.T) {
	prices := GeneratePricePath(NewRand("x"), 100, 0, 0.20, 0.08)
	assert.Equal(t, []float64{100}, prices)
}

func TestGeneratePricePathRealizedVol(t *testing.T) {
	// Over a long horizon the realized annualized volatility of daily log
	// returns should land near the configured volatility.
	prices := GeneratePricePath(NewRand("vol-check"), 100, 252*40, 0.20, 0.08)

	logReturns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		logReturns[i-1] = math.Log(prices[i] / prices[i-1])
	}

	realized := stat.StdDev(logReturns, nil) * math.Sqrt(252)
	assert.InDelta(t, 0.20, realized, 0.02)
}

func TestTradingDatesSkipWeekends(t *testing.T) {
	// 2026-05-01 is a Friday; the next trading day is Monday 2026-05-04.
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	dates := TradingDates(start, 5)

	assert.Equal(t, []string{
		"2026-05-01",
		"2026-05-04",
		"2026-05-05",
		"2026-05-06",
		"2026-05-07",
	}, dates)
}

func TestTradingDatesStartsOnWeekend(t *testing.T) {
	// 2026-05-02 is a Saturday; the first label must be Monday.
	start := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	dates := TradingDates(start, 2)
	assert.Equal(t, []string{"2026-05-04", "2026-05-05"}, dates)
}

func TestTradingDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"single weekday", "2026-05-04", "2026-05-04", 1},
		{"full week", "2026-05-04", "2026-05-10", 5},
		{"weekend only", "2026-05-02", "2026-05-03", 0},
		{"may series to as-of", "2026-05-01", "2026-10-15", 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := time.Parse("2006-01-02", tt.start)
			require.NoError(t, err)
			end, err := time.Parse("2006-01-02", tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, TradingDaysBetween(start, end))
		})
	}
}
