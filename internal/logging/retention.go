package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneDailyLogs deletes daily log files in dir last modified more than
// retentionDays ago. active is never removed. A retentionDays of 0 keeps
// every file. It returns the number of files removed.
func PruneDailyLogs(logger *slog.Logger, dir string, retentionDays int, active string) int {
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, LogFilePattern))
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	active = filepath.Clean(active)

	removed := 0
	for _, path := range matches {
		if filepath.Clean(path) == active {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on log_dir"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}
