package funds

import (
	"time"

	"github.com/corgilabs/bufferscope/internal/payoff"
	"github.com/corgilabs/bufferscope/internal/simulation"
	"github.com/corgilabs/bufferscope/internal/utils"
)

// SeriesConfig holds everything needed to build one fund's synthetic
// period-to-date series.
type SeriesConfig struct {
	Ticker         string
	AssetParams    AssetParams
	StartPrice     float64
	StartDate      time.Time
	CapNetPct      float64
	BufferStartPct float64
	BufferEndPct   float64
	TradingDays    int // elapsed trading days; the series has TradingDays+1 points
}

// BuildSeries generates the (date, fundReturn, refAssetReturn) series for a
// fund's elapsed trading days. The reference path is geometric Brownian
// motion seeded by the ticker; every day's fund return flows through the one
// shared payoff function. Point 0 is the period start with both returns 0.
func BuildSeries(cfg SeriesConfig) []TimeSeriesPoint {
	rng := simulation.NewRand(cfg.Ticker)

	prices := simulation.GeneratePricePath(rng, cfg.StartPrice, cfg.TradingDays, cfg.AssetParams.AnnualVol, cfg.AssetParams.AnnualDrift)
	dates := simulation.TradingDates(cfg.StartDate, cfg.TradingDays+1)

	n := len(prices)
	if len(dates) < n {
		n = len(dates)
	}

	points := make([]TimeSeriesPoint, 0, n)
	for i := 0; i < n; i++ {
		refReturn := (prices[i]/cfg.StartPrice - 1) * 100
		fundReturn := payoff.FundReturnPct(refReturn, cfg.CapNetPct, cfg.BufferStartPct, cfg.BufferEndPct)

		points = append(points, TimeSeriesPoint{
			Date:           dates[i],
			FundReturn:     utils.Round2(fundReturn),
			RefAssetReturn: utils.Round2(refReturn),
		})
	}

	return points
}
