package performance

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
	"github.com/corgilabs/bufferscope/internal/utils"
)

// smaWindow is the smoothing window for the reference overlay, in trading days.
const smaWindow = 20

const tradingDaysPerYear = 252

var sqrtTradingYear = math.Sqrt(tradingDaysPerYear)

// Summary aggregates the realized behavior of one fund's series.
type Summary struct {
	FundReturnPTD     float64 `json:"fund_return_ptd"`
	RefAssetReturnPTD float64 `json:"ref_asset_return_ptd"`
	FundAnnualVol     float64 `json:"fund_annual_vol"`
	RefAssetAnnualVol float64 `json:"ref_asset_annual_vol"`
	MeanDailyReturn   float64 `json:"mean_daily_return"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	Correlation       float64 `json:"correlation"`
	BestDay           float64 `json:"best_day"`
	WorstDay          float64 `json:"worst_day"`
	TradingDays       int     `json:"trading_days"`
}

// SMAPoint is one smoothed reference-return observation.
type SMAPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Data is the full payload for a fund's performance view.
type Data struct {
	Fund          funds.Definition        `json:"fund"`
	OutcomePeriod funds.OutcomePeriod     `json:"outcome_period"`
	CurrentValues funds.DailyValues       `json:"current_values"`
	TimeSeries    []funds.TimeSeriesPoint `json:"time_series"`
	Summary       Summary                 `json:"summary"`
	RefReturnSMA  []SMAPoint              `json:"ref_return_sma"`
}

// Service assembles performance data, reading series through the cache.
type Service struct {
	registry *funds.Registry
	repo     *Repository
	log      zerolog.Logger
}

// NewService creates a new performance service
func NewService(registry *funds.Registry, repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		repo:     repo,
		log:      log.With().Str("service", "performance").Logger(),
	}
}

// Data builds the performance payload for one fund.
func (s *Service) Data(ticker string) (*Data, error) {
	snap, ok := s.registry.ByTicker(ticker)
	if !ok {
		return nil, fmt.Errorf("unknown fund %s", ticker)
	}

	series := s.seriesFor(ticker)

	return &Data{
		Fund:          snap.Definition,
		OutcomePeriod: snap.OutcomePeriod,
		CurrentValues: snap.CurrentValues,
		TimeSeries:    series,
		Summary:       Summarize(series),
		RefReturnSMA:  RefReturnSMA(series, smaWindow),
	}, nil
}

// WarmCache generates and stores every fund's series. Run at startup and
// from the scheduler so chart loads hit the cache.
func (s *Service) WarmCache() error {
	asOf := s.registry.AsOf().Format("2006-01-02")

	if purged, err := s.repo.PurgeStale(asOf); err != nil {
		return err
	} else if purged > 0 {
		s.log.Info().Int64("rows", purged).Msg("Purged stale cached series")
	}

	for _, snap := range s.registry.All() {
		if _, ok, err := s.repo.Get(snap.Ticker, asOf); err != nil {
			return err
		} else if ok {
			continue
		}
		if err := s.repo.Put(snap.Ticker, asOf, s.registry.Series(snap.Ticker)); err != nil {
			return err
		}
	}
	return nil
}

// seriesFor reads through the cache. Cache failures degrade to direct
// generation rather than failing the request.
func (s *Service) seriesFor(ticker string) []funds.TimeSeriesPoint {
	asOf := s.registry.AsOf().Format("2006-01-02")

	points, ok, err := s.repo.Get(ticker, asOf)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Series cache read failed")
	}
	if ok {
		return points
	}

	points = s.registry.Series(ticker)
	if err := s.repo.Put(ticker, asOf, points); err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Series cache write failed")
	}
	return points
}

// Summarize computes summary statistics over a period-to-date series.
// Volatilities annualize the standard deviation of daily return increments.
func Summarize(series []funds.TimeSeriesPoint) Summary {
	if len(series) == 0 {
		return Summary{}
	}

	last := series[len(series)-1]
	summary := Summary{
		FundReturnPTD:     last.FundReturn,
		RefAssetReturnPTD: last.RefAssetReturn,
		TradingDays:       len(series) - 1,
	}
	if len(series) < 3 {
		return summary
	}

	fundDaily := dailyIncrements(series, func(p funds.TimeSeriesPoint) float64 { return p.FundReturn })
	refDaily := dailyIncrements(series, func(p funds.TimeSeriesPoint) float64 { return p.RefAssetReturn })

	annualize := func(dailyPct []float64) float64 {
		sd := stat.StdDev(dailyPct, nil)
		return utils.Round2(sd * sqrtTradingYear)
	}
	summary.FundAnnualVol = annualize(fundDaily)
	summary.RefAssetAnnualVol = annualize(refDaily)
	summary.MeanDailyReturn = utils.Round2(stat.Mean(fundDaily, nil))
	summary.MaxDrawdown = maxDrawdown(series)

	// Correlation is NaN when one leg is constant, e.g. a fund pinned at
	// its cap for the whole period.
	corr := stat.Correlation(fundDaily, refDaily, nil)
	if !math.IsNaN(corr) {
		summary.Correlation = utils.Round2(corr)
	}

	best, worst := refDaily[0], refDaily[0]
	for _, d := range refDaily[1:] {
		if d > best {
			best = d
		}
		if d < worst {
			worst = d
		}
	}
	summary.BestDay = utils.Round2(best)
	summary.WorstDay = utils.Round2(worst)

	return summary
}

// maxDrawdown returns the largest peak-to-trough decline of the fund leg,
// as a negative percentage of the peak value (0 when the series never falls).
func maxDrawdown(series []funds.TimeSeriesPoint) float64 {
	peak := 1.0 + series[0].FundReturn/100
	worst := 0.0
	for _, p := range series[1:] {
		value := 1.0 + p.FundReturn/100
		if value > peak {
			peak = value
			continue
		}
		if dd := (value/peak - 1) * 100; dd < worst {
			worst = dd
		}
	}
	return utils.Round2(worst)
}

// RefReturnSMA smooths the reference return with a simple moving average.
// The first window-1 observations have no full window and are omitted.
func RefReturnSMA(series []funds.TimeSeriesPoint, window int) []SMAPoint {
	if len(series) < window || window < 1 {
		return nil
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.RefAssetReturn
	}

	sma := talib.Sma(values, window)

	points := make([]SMAPoint, 0, len(series)-window+1)
	for i := window - 1; i < len(sma); i++ {
		points = append(points, SMAPoint{
			Date:  series[i].Date,
			Value: utils.Round2(sma[i]),
		})
	}
	return points
}

func dailyIncrements(series []funds.TimeSeriesPoint, field func(funds.TimeSeriesPoint) float64) []float64 {
	out := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		out = append(out, field(series[i])-field(series[i-1]))
	}
	return out
}
