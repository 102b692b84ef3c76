package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/reliability"
)

// backupTimeout bounds a full snapshot, archive and upload cycle.
const backupTimeout = 10 * time.Minute

// BackupJob creates a database backup archive, uploads it to the
// configured bucket and rotates backups past the retention period.
type BackupJob struct {
	service       *reliability.BackupService
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(service *reliability.BackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		service:       service,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "backup"
}

// Run creates and uploads a backup, then rotates old ones
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	if err := j.service.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	// Rotation failures do not fail the job once the upload succeeded
	if err := j.service.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Error().Err(err).Msg("Backup rotation failed")
	}

	return nil
}
