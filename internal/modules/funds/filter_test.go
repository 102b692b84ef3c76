package funds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByDimensions(t *testing.T) {
	reg := newTestRegistry(t)
	all := reg.All()

	f := DefaultFilter()
	f.ReferenceAssets = []string{"SPY"}
	spyOnly := Filter(all, f)
	require.NotEmpty(t, spyOnly)
	for _, s := range spyOnly {
		assert.Equal(t, "SPY", s.ReferenceAssetTicker)
	}

	f.BufferTypes = []string{"deep"}
	deepSpy := Filter(all, f)
	// One deep family, four series months.
	require.Len(t, deepSpy, 4)
	for _, s := range deepSpy {
		assert.Equal(t, "deep", string(s.BufferType))
	}

	f.SeriesMonths = []string{"May", "Jun"}
	assert.Len(t, Filter(all, f), 2)
}

func TestFilterByDaysRemaining(t *testing.T) {
	reg := newTestRegistry(t)
	all := reg.All()

	f := DefaultFilter()
	f.DaysRemainingMax = 0
	assert.Empty(t, Filter(all, f))

	f = DefaultFilter()
	assert.Len(t, Filter(all, f), len(all))
}

func TestSortByColumn(t *testing.T) {
	reg := newTestRegistry(t)
	all := reg.All()

	byTicker := Sort(all, SortConfig{Column: "ticker", Direction: "asc"})
	for i := 1; i < len(byTicker); i++ {
		assert.LessOrEqual(t, byTicker[i-1].Ticker, byTicker[i].Ticker)
	}

	byCapDesc := Sort(all, SortConfig{Column: "remaining_cap_net", Direction: "desc"})
	for i := 1; i < len(byCapDesc); i++ {
		assert.GreaterOrEqual(t, byCapDesc[i-1].CurrentValues.RemainingCapNet, byCapDesc[i].CurrentValues.RemainingCapNet)
	}

	byDays := Sort(all, SortConfig{Column: "days_remaining", Direction: "asc"})
	for i := 1; i < len(byDays); i++ {
		assert.LessOrEqual(t, byDays[i-1].CurrentValues.RemainingOutcomePeriodDays, byDays[i].CurrentValues.RemainingOutcomePeriodDays)
	}
}

func TestSortUnknownColumnKeepsOrder(t *testing.T) {
	reg := newTestRegistry(t)
	all := reg.All()

	sorted := Sort(all, SortConfig{Column: "bogus", Direction: "asc"})
	assert.Equal(t, all, sorted)
}
