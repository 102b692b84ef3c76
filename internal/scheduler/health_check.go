package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/database"
)

const healthCheckTimeout = 30 * time.Second

// HealthCheckJob runs integrity checks and WAL checkpoints on the
// application databases.
type HealthCheckJob struct {
	dbs []*database.DB
	log zerolog.Logger
}

// NewHealthCheckJob creates a new health check job
func NewHealthCheckJob(dbs []*database.DB, log zerolog.Logger) *HealthCheckJob {
	return &HealthCheckJob{
		dbs: dbs,
		log: log.With().Str("job", "health_check").Logger(),
	}
}

// Name returns the job name
func (j *HealthCheckJob) Name() string {
	return "health_check"
}

// Run checks integrity of every database and checkpoints its WAL
func (j *HealthCheckJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	startTime := time.Now()

	for _, db := range j.dbs {
		if err := db.QuickCheck(ctx); err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("Integrity check failed")
			return fmt.Errorf("integrity check failed for %s: %w", db.Name(), err)
		}

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
		}
	}

	j.log.Debug().
		Dur("duration_ms", time.Since(startTime)).
		Int("databases", len(j.dbs)).
		Msg("Health check completed")

	return nil
}
