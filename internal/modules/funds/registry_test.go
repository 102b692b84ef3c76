package funds

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corgilabs/bufferscope/internal/utils"
)

var testAsOf = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(testAsOf, zerolog.Nop())
}

func TestDefinitionsUniverse(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, len(Families)*len(SeriesMonths))

	seen := make(map[string]bool)
	for _, def := range defs {
		assert.False(t, seen[def.Ticker], "duplicate ticker %s", def.Ticker)
		seen[def.Ticker] = true
		assert.True(t, def.BufferType.Valid(), "invalid buffer type for %s", def.Ticker)
	}
}

func TestRegistryAll(t *testing.T) {
	reg := newTestRegistry(t)

	snapshots := reg.All()
	require.Len(t, snapshots, len(Families)*len(SeriesMonths))
}

func TestRegistryByTicker(t *testing.T) {
	reg := newTestRegistry(t)

	snap, ok := reg.ByTicker("CQMB")
	require.True(t, ok)
	assert.Equal(t, "QQQ", snap.ReferenceAssetTicker)
	assert.Equal(t, "May", snap.SeriesMonth)

	_, ok = reg.ByTicker("NOPE")
	assert.False(t, ok)
}

func TestOutcomePeriodTerms(t *testing.T) {
	reg := newTestRegistry(t)

	for _, snap := range reg.All() {
		family, ok := FamilyByShortName(snap.FundFamily)
		require.True(t, ok)

		period := snap.OutcomePeriod
		assert.GreaterOrEqual(t, period.StartingCapGross, family.TypicalCapRange[0], snap.Ticker)
		assert.LessOrEqual(t, period.StartingCapGross, family.TypicalCapRange[1], snap.Ticker)
		assert.InDelta(t, period.StartingCapGross-snap.ExpenseRatio*100, period.StartingCapNet, 0.011, snap.Ticker)
		assert.Equal(t, 25.00, period.StartingFundNav)

		start, err := time.Parse("2006-01-02", period.StartDate)
		require.NoError(t, err)
		end, err := time.Parse("2006-01-02", period.EndDate)
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(1, 0, -1), end, snap.Ticker)

		// Price levels bracket the starting price per the fund's terms.
		assert.Greater(t, period.RefAssetCapValue, period.StartingRefAssetPrice, snap.Ticker)
		assert.LessOrEqual(t, period.BufferStartRefValue, period.StartingRefAssetPrice, snap.Ticker)
		assert.Less(t, period.BufferEndRefValue, period.BufferStartRefValue+0.001, snap.Ticker)
	}
}

func TestMaySeriesEndDate(t *testing.T) {
	reg := newTestRegistry(t)

	snap, ok := reg.ByTicker("CQMB")
	require.True(t, ok)
	assert.Equal(t, "2026-05-01", snap.OutcomePeriod.StartDate)
	assert.Equal(t, "2027-04-30", snap.OutcomePeriod.EndDate)
	// Oct 15 2026 -> Apr 30 2027
	assert.Equal(t, 197, snap.CurrentValues.RemainingOutcomePeriodDays)
	assert.Equal(t, "197 days", snap.CurrentValues.DaysRemainingDisplay)
	assert.Equal(t, utils.FormatPercentSigned(snap.CurrentValues.FundReturnPTD), snap.CurrentValues.FundReturnPTDDisplay)
}

func TestSeriesStartsAtZero(t *testing.T) {
	reg := newTestRegistry(t)

	for _, snap := range reg.All() {
		series := reg.Series(snap.Ticker)
		require.NotEmpty(t, series, snap.Ticker)
		assert.Equal(t, snap.OutcomePeriod.StartDate, series[0].Date, snap.Ticker)
		assert.Equal(t, 0.0, series[0].FundReturn, snap.Ticker)
		assert.Equal(t, 0.0, series[0].RefAssetReturn, snap.Ticker)
	}
}

func TestRegistryDeterministic(t *testing.T) {
	a := NewRegistry(testAsOf, zerolog.Nop())
	b := NewRegistry(testAsOf, zerolog.Nop())

	assert.Equal(t, a.All(), b.All())
	assert.Equal(t, a.Series("CSMB"), b.Series("CSMB"))
}

func TestDailyValuesInvariants(t *testing.T) {
	reg := newTestRegistry(t)

	for _, snap := range reg.All() {
		cv := snap.CurrentValues

		assert.GreaterOrEqual(t, cv.RemainingCapNet, 0.0, snap.Ticker)
		assert.GreaterOrEqual(t, cv.RemainingCapGross, cv.RemainingCapNet, snap.Ticker)
		assert.GreaterOrEqual(t, cv.RemainingBufferNet, 0.0, snap.Ticker)
		assert.LessOrEqual(t, cv.RemainingBufferNet, snap.BufferSizePct, snap.Ticker)
		assert.GreaterOrEqual(t, cv.DownsideBeforeBuffer, 0.0, snap.Ticker)

		if cv.RefAssetReturnPTD < snap.BufferStartPct {
			assert.Equal(t, 0.0, cv.DownsideBeforeBuffer, snap.Ticker)
		} else {
			assert.Equal(t, snap.BufferSizePct, cv.RemainingBufferNet, snap.Ticker)
		}

		// Fund return never exceeds the net cap.
		assert.LessOrEqual(t, cv.FundReturnPTD, snap.OutcomePeriod.StartingCapNet+0.011, snap.Ticker)
	}
}

func TestDailyValuesDistances(t *testing.T) {
	reg := newTestRegistry(t)

	snap, ok := reg.ByTicker("CQMB")
	require.True(t, ok)
	cv := snap.CurrentValues

	// Distance checks recompute from the rounded fields.
	wantToCap := (snap.OutcomePeriod.RefAssetCapValue/cv.RefAssetPrice - 1) * 100
	assert.InDelta(t, wantToCap, cv.RefAssetReturnToCap, 0.02)

	wantToEnd := (snap.OutcomePeriod.BufferEndRefValue/cv.RefAssetPrice - 1) * 100
	assert.InDelta(t, wantToEnd, cv.RefAssetToBufferEnd, 0.02)
	assert.Less(t, cv.RefAssetToBufferEnd, cv.RefAssetReturnToCap)
}

func TestMetricValue(t *testing.T) {
	reg := newTestRegistry(t)
	snap, _ := reg.ByTicker("CRMB")

	v, ok := snap.MetricValue("remaining_buffer_net")
	require.True(t, ok)
	assert.Equal(t, snap.CurrentValues.RemainingBufferNet, v)

	v, ok = snap.MetricValue("remaining_outcome_period_days")
	require.True(t, ok)
	assert.Equal(t, float64(snap.CurrentValues.RemainingOutcomePeriodDays), v)

	_, ok = snap.MetricValue("nope")
	assert.False(t, ok)
}
