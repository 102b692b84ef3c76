package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/corgilabs/bufferscope/internal/database"
	"github.com/corgilabs/bufferscope/internal/reliability"
	"github.com/corgilabs/bufferscope/internal/version"
)

// SystemHandlers serves system status and operational endpoints
type SystemHandlers struct {
	log           zerolog.Logger
	dataDir       string
	dbs           []*database.DB
	backupService *reliability.BackupService
	startTime     time.Time
}

// NewSystemHandlers creates new system handlers.
// backupService may be nil when backups are not configured.
func NewSystemHandlers(log zerolog.Logger, dataDir string, dbs []*database.DB, backupService *reliability.BackupService) *SystemHandlers {
	return &SystemHandlers{
		log:           log.With().Str("handler", "system").Logger(),
		dataDir:       dataDir,
		dbs:           dbs,
		backupService: backupService,
		startTime:     time.Now(),
	}
}

// HandleSystemStatus returns process and host resource usage
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPercent := h.getSystemStats()

	status := map[string]interface{}{
		"status":         "running",
		"version":        version.Version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"cpu_percent":    cpuAvg,
		"ram_percent":    ramPercent,
	}

	if usage, err := disk.Usage(h.dataDir); err == nil {
		status["disk_percent"] = usage.UsedPercent
		status["disk_free_mb"] = usage.Free / 1024 / 1024
	} else {
		h.log.Warn().Err(err).Msg("Failed to get disk usage")
	}

	writeJSON(h.log, w, http.StatusOK, status)
}

// getSystemStats calculates CPU and RAM usage percentages.
// A 100ms CPU sampling interval keeps the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// HandleDiskUsage returns disk usage for the data directory volume
// GET /api/system/disk
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := disk.Usage(h.dataDir)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get disk usage")
		writeJSON(h.log, w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(h.log, w, http.StatusOK, map[string]interface{}{
		"path":         h.dataDir,
		"total_mb":     usage.Total / 1024 / 1024,
		"used_mb":      usage.Used / 1024 / 1024,
		"free_mb":      usage.Free / 1024 / 1024,
		"used_percent": usage.UsedPercent,
	})
}

// HandleDatabaseStats returns size and page statistics for each database
// GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{}, len(h.dbs))

	for _, db := range h.dbs {
		dbStats, err := db.GetStats()
		if err != nil {
			h.log.Error().Err(err).Str("database", db.Name()).Msg("Failed to get database stats")
			stats[db.Name()] = map[string]string{"error": err.Error()}
			continue
		}

		healthy := true
		if err := db.HealthCheck(r.Context()); err != nil {
			healthy = false
		}

		stats[db.Name()] = map[string]interface{}{
			"size_bytes":     dbStats.SizeBytes,
			"wal_size_bytes": dbStats.WALSizeBytes,
			"page_count":     dbStats.PageCount,
			"page_size":      dbStats.PageSize,
			"freelist_count": dbStats.FreelistCount,
			"healthy":        healthy,
		}
	}

	writeJSON(h.log, w, http.StatusOK, stats)
}

// HandleTriggerBackup creates and uploads a backup immediately
// POST /api/system/backup/trigger
func (h *SystemHandlers) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	if h.backupService == nil {
		writeJSON(h.log, w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "Backups are not configured",
		})
		return
	}

	h.log.Info().Msg("Manual backup triggered")

	if err := h.backupService.CreateAndUploadBackup(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Manual backup failed")
		writeJSON(h.log, w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	writeJSON(h.log, w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Backup created and uploaded",
	})
}

// HandleListBackups lists backups stored in the bucket
// GET /api/system/backup/list
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backupService == nil {
		writeJSON(h.log, w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "Backups are not configured",
		})
		return
	}

	backups, err := h.backupService.ListBackups(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list backups")
		writeJSON(h.log, w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	writeJSON(h.log, w, http.StatusOK, map[string]interface{}{
		"count":   len(backups),
		"backups": backups,
	})
}
