package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/modules/watchlists"
)

// AlertCheckJob evaluates all alert rules against the current fund
// snapshots and records an event per triggered rule and fund.
type AlertCheckJob struct {
	service *watchlists.Service
	log     zerolog.Logger
}

// NewAlertCheckJob creates a new alert check job
func NewAlertCheckJob(service *watchlists.Service, log zerolog.Logger) *AlertCheckJob {
	return &AlertCheckJob{
		service: service,
		log:     log.With().Str("job", "alert_check").Logger(),
	}
}

// Name returns the job name
func (j *AlertCheckJob) Name() string {
	return "alert_check"
}

// Run evaluates alert rules and persists triggered events
func (j *AlertCheckJob) Run() error {
	count, err := j.service.RecordTriggered(time.Now())
	if err != nil {
		return err
	}

	if count > 0 {
		j.log.Info().Int("events", count).Msg("Alert rules triggered")
	} else {
		j.log.Debug().Msg("No alert rules triggered")
	}

	return nil
}
