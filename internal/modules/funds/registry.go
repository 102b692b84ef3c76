package funds

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/simulation"
	"github.com/corgilabs/bufferscope/internal/utils"
)

const startingFundNav = 25.00

// Registry builds and caches the full fund universe for one as-of date.
// Generation is deterministic, so the universe is computed at most once
// and shared read-only afterwards.
type Registry struct {
	asOf   time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	loaded   bool
	ordered  []Snapshot
	byTicker map[string]Snapshot
	series   map[string][]TimeSeriesPoint
}

func NewRegistry(asOf time.Time, logger zerolog.Logger) *Registry {
	return &Registry{
		asOf:   asOf,
		logger: logger.With().Str("service", "funds").Logger(),
	}
}

// AsOf returns the reference date all current values are derived for.
func (r *Registry) AsOf() time.Time {
	return r.asOf
}

// All returns every fund snapshot in definition order.
func (r *Registry) All() []Snapshot {
	r.ensureLoaded()
	out := make([]Snapshot, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByTicker returns one fund snapshot.
func (r *Registry) ByTicker(ticker string) (Snapshot, bool) {
	r.ensureLoaded()
	s, ok := r.byTicker[ticker]
	return s, ok
}

// Series returns the period-to-date time series for a ticker, or nil for an
// unknown ticker.
func (r *Registry) Series(ticker string) []TimeSeriesPoint {
	r.ensureLoaded()
	return r.series[ticker]
}

func (r *Registry) ensureLoaded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return
	}

	start := time.Now()
	defs := Definitions()

	r.ordered = make([]Snapshot, 0, len(defs))
	r.byTicker = make(map[string]Snapshot, len(defs))
	r.series = make(map[string][]TimeSeriesPoint, len(defs))

	for _, def := range defs {
		family, ok := FamilyByShortName(def.FundFamily)
		if !ok {
			r.logger.Warn().Str("ticker", def.Ticker).Str("family", def.FundFamily).Msg("Skipping fund with unknown family")
			continue
		}

		period := buildOutcomePeriod(def, family)
		series := buildFundSeries(def, period, r.asOf)
		values := deriveDailyValues(def, period, series, r.asOf)

		snap := Snapshot{
			Definition:    def,
			OutcomePeriod: period,
			CurrentValues: values,
		}
		r.ordered = append(r.ordered, snap)
		r.byTicker[def.Ticker] = snap
		r.series[def.Ticker] = series
	}

	r.loaded = true
	r.logger.Info().
		Int("funds", len(r.ordered)).
		Str("as_of", r.asOf.Format("2006-01-02")).
		Dur("elapsed", time.Since(start)).
		Msg("Fund universe generated")
}

// buildOutcomePeriod generates the fund's outcome period. The starting cap is
// drawn from the family's typical range with a per-ticker seed, so it is
// stable across restarts.
func buildOutcomePeriod(def Definition, family FamilyConfig) OutcomePeriod {
	rng := simulation.NewRand(def.Ticker + "_period")

	startDate := mustParseDate(seriesStartDates[def.SeriesMonth])
	endDate := startDate.AddDate(1, 0, -1)
	params := ParamsForAsset(def.ReferenceAssetTicker)

	capGross := rng.InRange(family.TypicalCapRange[0], family.TypicalCapRange[1])
	capNet := capGross - def.ExpenseRatio*100

	return OutcomePeriod{
		FundTicker:            def.Ticker,
		StartDate:             startDate.Format("2006-01-02"),
		EndDate:               endDate.Format("2006-01-02"),
		StartingCapGross:      utils.Round2(capGross),
		StartingCapNet:        utils.Round2(capNet),
		StartingFundNav:       startingFundNav,
		StartingRefAssetPrice: params.StartPrice,
		RefAssetCapValue:      utils.Round2(params.StartPrice * (1 + capGross/100)),
		BufferStartRefValue:   utils.Round2(params.StartPrice * (1 + def.BufferStartPct/100)),
		BufferEndRefValue:     utils.Round2(params.StartPrice * (1 + def.BufferEndPct/100)),
	}
}

func buildFundSeries(def Definition, period OutcomePeriod, asOf time.Time) []TimeSeriesPoint {
	startDate := mustParseDate(period.StartDate)
	elapsed := simulation.TradingDaysBetween(startDate, asOf)

	return BuildSeries(SeriesConfig{
		Ticker:         def.Ticker,
		AssetParams:    ParamsForAsset(def.ReferenceAssetTicker),
		StartPrice:     period.StartingRefAssetPrice,
		StartDate:      startDate,
		CapNetPct:      period.StartingCapNet,
		BufferStartPct: def.BufferStartPct,
		BufferEndPct:   def.BufferEndPct,
		TradingDays:    elapsed,
	})
}

// deriveDailyValues computes the fund's current state from the last series
// point. Remaining cap burns down with realized gains; the buffer only burns
// once the reference asset has fallen past bufferStart.
func deriveDailyValues(def Definition, period OutcomePeriod, series []TimeSeriesPoint, asOf time.Time) DailyValues {
	last := series[len(series)-1]
	refReturn := last.RefAssetReturn
	fundReturn := last.FundReturn

	refPrice := period.StartingRefAssetPrice * (1 + refReturn/100)
	nav := period.StartingFundNav * (1 + fundReturn/100)

	remainingCapNet := period.StartingCapNet - math.Max(0, fundReturn)
	remainingCapGross := period.StartingCapGross - math.Max(0, fundReturn)

	remainingBufferNet := def.BufferSizePct
	downsideBeforeBuffer := math.Abs(def.BufferStartPct)

	if refReturn < def.BufferStartPct {
		used := math.Min(def.BufferSizePct, math.Abs(refReturn-def.BufferStartPct))
		remainingBufferNet = math.Max(0, def.BufferSizePct-used)
		downsideBeforeBuffer = 0
	} else if refReturn < 0 && def.BufferStartPct < 0 {
		downsideBeforeBuffer = math.Max(0, math.Abs(def.BufferStartPct)-math.Abs(refReturn))
	}

	refAssetToBufferEnd := (period.BufferEndRefValue/refPrice - 1) * 100
	refAssetReturnToCap := (period.RefAssetCapValue/refPrice - 1) * 100

	endDate := mustParseDate(period.EndDate)
	daysRemaining := int(math.Max(0, math.Round(endDate.Sub(asOf).Hours()/24)))

	return DailyValues{
		Date:                       asOf.Format("2006-01-02"),
		FundTicker:                 def.Ticker,
		FundNav:                    utils.Round2(nav),
		FundReturnPTD:              utils.Round2(fundReturn),
		RefAssetPrice:              utils.Round2(refPrice),
		RefAssetReturnPTD:          utils.Round2(refReturn),
		RemainingCapGross:          utils.Round2(math.Max(0, remainingCapGross)),
		RemainingCapNet:            utils.Round2(math.Max(0, remainingCapNet)),
		RemainingBufferNet:         utils.Round2(remainingBufferNet),
		DownsideBeforeBuffer:       utils.Round2(downsideBeforeBuffer),
		RefAssetToBufferEnd:        utils.Round2(refAssetToBufferEnd),
		RefAssetReturnToCap:        utils.Round2(refAssetReturnToCap),
		RemainingOutcomePeriodDays: daysRemaining,
		FundReturnPTDDisplay:       utils.FormatPercentSigned(utils.Round2(fundReturn)),
		DaysRemainingDisplay:       utils.FormatDaysRemaining(daysRemaining),
	}
}

func mustParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("invalid date %q: %v", s, err))
	}
	return t
}
