// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAsOfDate is the reference "today" used when BUFFERSCOPE_AS_OF is not set.
// All synthetic outcome periods and elapsed/remaining day counts derive from it.
const DefaultAsOfDate = "2026-10-15"

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for all databases (always absolute)
	Port          int
	LogLevel      string
	DevMode       bool
	AsOfDate      time.Time // The "today" reference date for all derived fund values
	AlertSchedule string    // Cron spec (with seconds) for the alert evaluation job
	Backup        *BackupConfig
}

// BackupConfig holds settings for the S3-compatible store backup.
// Backups are disabled unless an endpoint and bucket are configured.
type BackupConfig struct {
	Enabled         bool
	Endpoint        string // S3-compatible endpoint URL
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	RetentionDays   int
	Schedule        string // Cron spec (with seconds)
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic:
	// 1. Check BUFFERSCOPE_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path and ensure it exists
	dataDir := getEnv("BUFFERSCOPE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	asOf, err := time.Parse("2006-01-02", getEnv("BUFFERSCOPE_AS_OF", DefaultAsOfDate))
	if err != nil {
		return nil, fmt.Errorf("invalid BUFFERSCOPE_AS_OF date: %w", err)
	}

	cfg := &Config{
		DataDir:       absDataDir,
		Port:          getEnvAsInt("BUFFERSCOPE_PORT", 8010),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		AsOfDate:      asOf,
		AlertSchedule: getEnv("ALERT_CHECK_SCHEDULE", "0 */15 * * * *"), // Every 15 minutes
		Backup:        loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Backup != nil && c.Backup.Enabled && c.Backup.Bucket == "" {
		return fmt.Errorf("backup enabled but BACKUP_S3_BUCKET not set")
	}
	return nil
}

// loadBackupConfig loads backup configuration from environment variables.
// The backup is only enabled when both an endpoint and a bucket are set, so a
// bare development setup never attempts network uploads.
func loadBackupConfig() *BackupConfig {
	endpoint := getEnv("BACKUP_S3_ENDPOINT", "")
	bucket := getEnv("BACKUP_S3_BUCKET", "")

	return &BackupConfig{
		Enabled:         endpoint != "" && bucket != "",
		Endpoint:        endpoint,
		Region:          getEnv("BACKUP_S3_REGION", "auto"),
		Bucket:          bucket,
		AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
		RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
		Schedule:        getEnv("BACKUP_SCHEDULE", "0 0 3 * * *"), // Daily at 03:00
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
