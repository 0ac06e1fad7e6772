// Package worker runs the periodic background jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shalomhq/shalom/internal/finance"
	"github.com/shalomhq/shalom/internal/types"
)

// BackupStore is the slice of the store the backup coordinator needs.
// This interface allows testing with mock implementations.
type BackupStore interface {
	ListUsers(ctx context.Context) ([]string, error)
	ExportDataset(ctx context.Context, userID string) (types.Dataset, error)
}

// BackupCoordinator periodically writes each user's dataset to a JSON file
// so a corrupted database never means losing the ledger.
type BackupCoordinator struct {
	store    BackupStore
	dir      string
	interval time.Duration

	// now is swappable in tests; production uses time.Now.
	now func() time.Time
}

// NewBackupCoordinator creates a coordinator that exports every user's
// dataset to dir on the given interval.
func NewBackupCoordinator(store BackupStore, dir string, interval time.Duration) *BackupCoordinator {
	return &BackupCoordinator{
		store:    store,
		dir:      dir,
		interval: interval,
		now:      time.Now,
	}
}

// Run starts the coordinator loop.
func (c *BackupCoordinator) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "backup-coordinator",
		"action", "worker_started",
		"interval", c.interval.String(),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Back up immediately on start
	c.backupAllUsers(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "backup-coordinator",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.backupAllUsers(ctx)
		}
	}
}

// backupAllUsers exports one file per user.
func (c *BackupCoordinator) backupAllUsers(ctx context.Context) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		slog.Error("failed to list users for backup",
			"component", "worker",
			"worker", "backup-coordinator",
			"action", "list_users_failed",
			"error", err,
		)
		return
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		slog.Error("failed to create backup directory",
			"component", "worker",
			"worker", "backup-coordinator",
			"action", "mkdir_failed",
			"dir", c.dir,
			"error", err,
		)
		return
	}

	var succeeded, failed int
	for _, userID := range users {
		if ctx.Err() != nil {
			return // Graceful shutdown, don't log summary
		}
		if c.backupUser(ctx, userID) {
			succeeded++
		} else {
			failed++
		}
	}

	if succeeded > 0 || failed > 0 {
		slog.Info("backup cycle completed",
			"component", "worker",
			"worker", "backup-coordinator",
			"action", "cycle_complete",
			"total", len(users),
			"succeeded", succeeded,
			"failed", failed,
		)
	}
}

// backupUser exports one user's dataset to <dir>/<user>-<date>.json.
// Returns true if successful, false if failed.
func (c *BackupCoordinator) backupUser(ctx context.Context, userID string) bool {
	ds, err := c.store.ExportDataset(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return false // Graceful shutdown, don't log as error
		}
		slog.Warn("backup export failed",
			"component", "worker",
			"worker", "backup-coordinator",
			"action", "backup_failed",
			"user_id", userID,
			"error", err,
		)
		return false
	}

	data, err := finance.EncodeDataset(ds)
	if err != nil {
		slog.Warn("backup encode failed",
			"component", "worker",
			"worker", "backup-coordinator",
			"action", "backup_failed",
			"user_id", userID,
			"error", err,
		)
		return false
	}

	name := fmt.Sprintf("%s-%s.json", userID, c.now().UTC().Format(types.DateLayout))
	path := filepath.Join(c.dir, name)

	// Write to a temp file then rename so a crash never leaves a torn backup.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Warn("backup write failed",
			"component", "worker",
			"worker", "backup-coordinator",
			"action", "backup_failed",
			"user_id", userID,
			"error", err,
		)
		return false
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		slog.Warn("backup rename failed",
			"component", "worker",
			"worker", "backup-coordinator",
			"action", "backup_failed",
			"user_id", userID,
			"error", err,
		)
		return false
	}

	return true
}
