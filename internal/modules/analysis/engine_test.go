package analysis

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
)

var testAsOf = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func testRegistry(t *testing.T) *funds.Registry {
	t.Helper()
	return funds.NewRegistry(testAsOf, zerolog.Nop())
}

func familySnapshots(t *testing.T, reg *funds.Registry, family string) []funds.Snapshot {
	t.Helper()
	var out []funds.Snapshot
	for _, snap := range reg.All() {
		if snap.FundFamily == family {
			out = append(out, snap)
		}
	}
	require.NotEmpty(t, out)
	return out
}

func TestEvaluateGrid(t *testing.T) {
	reg := testRegistry(t)
	snapshots := reg.All()

	rows := EvaluateGrid(snapshots, DefaultRefReturns)
	require.Len(t, rows, len(snapshots))

	for i, row := range rows {
		assert.Equal(t, snapshots[i].Ticker, row.Ticker)
		require.Len(t, row.Results, len(DefaultRefReturns))
		for j, result := range row.Results {
			assert.Equal(t, DefaultRefReturns[j], result.RefReturn)
			// Inception terms cap every upside probe at the net cap.
			assert.LessOrEqual(t, result.FundReturn, snapshots[i].OutcomePeriod.StartingCapNet+0.011)
		}
	}
}

func TestEvaluateGridEmptyFunds(t *testing.T) {
	rows := EvaluateGrid(nil, DefaultRefReturns)
	assert.Empty(t, rows)
}

func TestEvaluateGridDuplicateProbes(t *testing.T) {
	reg := testRegistry(t)
	snapshots := reg.All()[:1]

	rows := EvaluateGrid(snapshots, []float64{-25, -25})
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Results, 2)
	assert.Equal(t, rows[0].Results[0], rows[0].Results[1])
}

func TestEvaluateBlendWeights(t *testing.T) {
	reg := testRegistry(t)
	family := familySnapshots(t, reg, "U.S. Equities 30% Deep")

	results := EvaluateBlend(family, DefaultBlendWeights, DefaultRefReturns)
	require.Len(t, results, len(DefaultRefReturns))

	for _, r := range results {
		require.Len(t, r.SeriesReturns, 4)

		// Equal weights: the blend is the plain average of the series.
		var sum float64
		for _, v := range r.SeriesReturns {
			sum += v
		}
		assert.InDelta(t, sum/4, r.BlendedFundReturn, 0.03, "ref %v", r.RefReturn)
	}
}

func TestEvaluateBlendRejectsBadWeightSum(t *testing.T) {
	reg := testRegistry(t)
	family := familySnapshots(t, reg, "Technology Leaders 10%")

	weights := map[string]float64{"May": 50, "Jun": 30, "Jul": 10, "Aug": 5}
	assert.Empty(t, EvaluateBlend(family, weights, DefaultRefReturns))
}

func TestEvaluateBlendToleratesTinyWeightDrift(t *testing.T) {
	reg := testRegistry(t)
	family := familySnapshots(t, reg, "Technology Leaders 10%")

	weights := map[string]float64{"May": 25.005, "Jun": 25, "Jul": 25, "Aug": 24.999}
	assert.NotEmpty(t, EvaluateBlend(family, weights, DefaultRefReturns))
}

func TestEvaluateBlendSingleFundIdentity(t *testing.T) {
	reg := testRegistry(t)
	family := familySnapshots(t, reg, "U.S. Small-Cap 15%")

	single := family[:1]
	weights := map[string]float64{single[0].SeriesMonth: 100}

	results := EvaluateBlend(single, weights, DefaultRefReturns)
	require.Len(t, results, len(DefaultRefReturns))

	for _, r := range results {
		assert.Equal(t, r.SeriesReturns[single[0].SeriesMonth], r.BlendedFundReturn, "ref %v", r.RefReturn)
	}
}
