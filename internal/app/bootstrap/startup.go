// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/coachhub/internal/app/system/buddies"
	"github.com/dalemusser/coachhub/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// jobRunner is started here and stopped in Shutdown.
var jobRunner *tasks.Runner

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// CoachHub starts the background job runner here, carrying the weekly
// accountability-buddy maintenance job unless an external scheduler owns it.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if !appCfg.BuddyMaintenanceEnabled {
		logger.Info("buddy maintenance job disabled; expecting external scheduler")
		return nil
	}

	svc := buddies.NewService(deps.CoachHubMongoDatabase, logger)
	jobRunner = tasks.NewRunner(logger)
	jobRunner.Add(tasks.WeeklyBuddyMaintenanceJob(svc, logger))
	jobRunner.Start()
	return nil
}
