package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CleanupExpiredFiles removes regular files in dir older than ttl and returns how many went.
func CleanupExpiredFiles(dir string, ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) <= ttl {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("error deleting expired file: %w", err)
		}
		removed++
	}
	return removed, nil
}

// ScheduleExportCleanup registers a daily 1 AM job on c that clears stale export files.
func ScheduleExportCleanup(c *cron.Cron, dir string, ttl time.Duration, logger *zap.Logger) error {
	_, err := c.AddFunc("0 1 * * *", func() {
		removed, err := CleanupExpiredFiles(dir, ttl)
		if err != nil {
			logger.Error("export cleanup failed", zap.String("dir", dir), zap.Error(err))
			return
		}
		logger.Info("export cleanup finished", zap.String("dir", dir), zap.Int("removed", removed))
	})
	return err
}
