package watchlists

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corgilabs/bufferscope/internal/modules/funds"
	"github.com/corgilabs/bufferscope/internal/testutil"
)

var testAsOf = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(testutil.NewStoreDB(t), zerolog.Nop())
	registry := funds.NewRegistry(testAsOf, zerolog.Nop())
	return NewService(repo, registry, zerolog.Nop()), repo
}

func TestAddTickerValidatesFund(t *testing.T) {
	svc, repo := newTestService(t)

	w, err := repo.CreateWatchlist("Core")
	require.NoError(t, err)

	require.NoError(t, svc.AddTicker(w.ID, "CQMB"))
	assert.Error(t, svc.AddTicker(w.ID, "ZZZZ"))
}

func TestCreateAlertValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAlert(AlertRule{Metric: "bogus", Condition: "lt", Threshold: 1, AppliedTo: AppliedToAll})
	assert.Error(t, err)

	_, err = svc.CreateAlert(AlertRule{Metric: "remaining_cap_net", Condition: "between", Threshold: 1, AppliedTo: AppliedToAll})
	assert.Error(t, err)

	_, err = svc.CreateAlert(AlertRule{Metric: "remaining_cap_net", Condition: "lt", Threshold: 1, AppliedTo: "missing-watchlist"})
	assert.Error(t, err)

	rule, err := svc.CreateAlert(AlertRule{Metric: "remaining_cap_net", Condition: "lt", Threshold: 1, AppliedTo: AppliedToAll})
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)
}

func TestEvaluateAlertsAllFundsScope(t *testing.T) {
	svc, _ := newTestService(t)

	// Every fund has outcome-period days remaining as of mid-period.
	_, err := svc.CreateAlert(AlertRule{
		Metric:    "remaining_outcome_period_days",
		Condition: "gt",
		Threshold: 0,
		AppliedTo: AppliedToAll,
	})
	require.NoError(t, err)

	triggered, err := svc.EvaluateAlerts()
	require.NoError(t, err)
	require.Len(t, triggered, 1)
	assert.Len(t, triggered[0].Funds, 24)
	assert.Contains(t, triggered[0].Description, "all funds")
}

func TestEvaluateAlertsNoMatches(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAlert(AlertRule{
		Metric:    "remaining_outcome_period_days",
		Condition: "lt",
		Threshold: 0,
		AppliedTo: AppliedToAll,
	})
	require.NoError(t, err)

	triggered, err := svc.EvaluateAlerts()
	require.NoError(t, err)
	assert.Empty(t, triggered)
}

func TestEvaluateAlertsWatchlistScope(t *testing.T) {
	svc, repo := newTestService(t)

	w, err := repo.CreateWatchlist("Just one")
	require.NoError(t, err)
	require.NoError(t, svc.AddTicker(w.ID, "CRJB"))

	_, err = svc.CreateAlert(AlertRule{
		Metric:    "remaining_outcome_period_days",
		Condition: "gt",
		Threshold: 0,
		AppliedTo: w.ID,
	})
	require.NoError(t, err)

	triggered, err := svc.EvaluateAlerts()
	require.NoError(t, err)
	require.Len(t, triggered, 1)
	require.Len(t, triggered[0].Funds, 1)
	assert.Equal(t, "CRJB", triggered[0].Funds[0].Ticker)
	assert.Contains(t, triggered[0].Description, "Just one")
}

func TestRecordTriggered(t *testing.T) {
	svc, repo := newTestService(t)

	w, err := repo.CreateWatchlist("Pair")
	require.NoError(t, err)
	require.NoError(t, svc.AddTicker(w.ID, "CQMB"))
	require.NoError(t, svc.AddTicker(w.ID, "CSMB"))

	_, err = svc.CreateAlert(AlertRule{
		Metric:    "remaining_outcome_period_days",
		Condition: "gt",
		Threshold: 0,
		AppliedTo: w.ID,
	})
	require.NoError(t, err)

	count, err := svc.RecordTriggered(testAsOf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	events, err := repo.GetEvents(10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
