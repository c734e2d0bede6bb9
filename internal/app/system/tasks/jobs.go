// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/buddies"
	"go.uber.org/zap"
)

// WeeklyBuddyMaintenanceJob creates a job that keeps every group's buddy
// pairings current. It ticks hourly; the service's Monday guard turns
// non-Monday ticks into logged no-ops, and generation runs without force,
// so repeated Monday ticks never reshuffle an already-populated week.
func WeeklyBuddyMaintenanceJob(svc *buddies.Service, logger *zap.Logger) Job {
	return Job{
		Name:     "weekly-buddy-maintenance",
		Interval: 1 * time.Hour,
		Timeout:  5 * time.Minute,
		Run: func(ctx context.Context) error {
			summary, err := svc.RunWeeklyMaintenance(ctx)
			if errors.Is(err, buddies.ErrNotMonday) {
				logger.Debug("buddy maintenance skipped", zap.Error(err))
				return nil
			}
			if err != nil {
				return err
			}
			logger.Info("buddy maintenance run complete",
				zap.String("run_id", summary.RunID),
				zap.String("summary", summary.Message()))
			return nil
		},
	}
}
