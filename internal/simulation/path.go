package simulation

import (
	"math"
	"time"
)

// tradingDaysPerYear is the discretization step base for daily GBM.
const tradingDaysPerYear = 252

// GeneratePricePath produces a synthetic daily price path via discretized
// geometric Brownian motion. The returned slice has tradingDays+1 entries and
// starts at startPrice. Deterministic for a given generator state.
func GeneratePricePath(rng *Rand, startPrice float64, tradingDays int, annualVol, annualDrift float64) []float64 {
	dt := 1.0 / tradingDaysPerYear
	dailyDrift := (annualDrift - 0.5*annualVol*annualVol) * dt
	dailyVol := annualVol * math.Sqrt(dt)

	prices := make([]float64, 0, tradingDays+1)
	prices = append(prices, startPrice)
	for i := 1; i <= tradingDays; i++ {
		shock := rng.NormFloat64()
		prices = append(prices, prices[i-1]*math.Exp(dailyDrift+dailyVol*shock))
	}
	return prices
}

// TradingDates returns n date labels (YYYY-MM-DD) walking forward from start,
// skipping Saturdays and Sundays. No holiday calendar is applied.
func TradingDates(start time.Time, n int) []string {
	dates := make([]string, 0, n)
	current := start
	for len(dates) < n {
		wd := current.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, current.Format("2006-01-02"))
		}
		current = current.AddDate(0, 0, 1)
	}
	return dates
}

// TradingDaysBetween counts weekdays between start and end, inclusive.
func TradingDaysBetween(start, end time.Time) int {
	count := 0
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		wd := current.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
