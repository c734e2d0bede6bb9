// internal/app/system/buddies/maintenance.go
package buddies

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/isoweek"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrNotMonday is returned when weekly maintenance is invoked on any other
// weekday. The guard keeps a scheduler that fires more than once (or on the
// wrong day) from generating mid-week.
var ErrNotMonday = errors.New("weekly buddy maintenance only runs on Mondays")

// GroupResult is the outcome of generation for one group.
type GroupResult struct {
	GroupID   primitive.ObjectID
	GroupName string
	Err       error
}

// MaintenanceSummary aggregates one weekly maintenance run.
type MaintenanceSummary struct {
	RunID      string
	WeekStart  time.Time
	Total      int
	Generated  int
	Results    []GroupResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Message returns the human-readable run summary.
func (m MaintenanceSummary) Message() string {
	return fmt.Sprintf("generated buddy pairings for %d/%d groups", m.Generated, m.Total)
}

// RunWeeklyMaintenance fans buddy generation out across all active groups.
//
// Groups are processed concurrently and independently: one group's failure
// lands in its own GroupResult and never aborts the others. Generation runs
// with force=false, so repeated firings on the same Monday are no-ops once
// a week is populated.
func (s *Service) RunWeeklyMaintenance(ctx context.Context) (MaintenanceSummary, error) {
	now := s.clock()
	if !isoweek.IsMonday(now) {
		return MaintenanceSummary{}, fmt.Errorf("%w: today is %s", ErrNotMonday, now.Weekday())
	}

	summary := MaintenanceSummary{
		RunID:     uuid.NewString(),
		WeekStart: isoweek.WeekStart(now),
		StartedAt: now,
	}

	groups, err := s.groups.ListActive(ctx)
	if err != nil {
		return MaintenanceSummary{}, fmt.Errorf("list groups: %w", err)
	}
	summary.Total = len(groups)
	summary.Results = make([]GroupResult, len(groups))

	var wg sync.WaitGroup
	for i, g := range groups {
		wg.Add(1)
		go func(i int, g models.Group) {
			defer wg.Done()
			err := s.GenerateWeeklyBuddies(ctx, g.ID, false)
			if err != nil {
				s.log.Error("weekly buddy generation failed for group",
					zap.String("run_id", summary.RunID),
					zap.String("group_id", g.ID.Hex()),
					zap.String("group_name", g.Name),
					zap.Error(err))
			}
			summary.Results[i] = GroupResult{GroupID: g.ID, GroupName: g.Name, Err: err}
		}(i, g)
	}
	wg.Wait()

	for _, res := range summary.Results {
		if res.Err == nil {
			summary.Generated++
		}
	}
	summary.FinishedAt = s.clock()

	s.log.Info("weekly buddy maintenance finished",
		zap.String("run_id", summary.RunID),
		zap.Time("week_start", summary.WeekStart),
		zap.Int("generated", summary.Generated),
		zap.Int("total", summary.Total))
	return summary, nil
}

// CheckWeeklyBuddies reports whether pairings already exist for groupID in
// the current week. It never triggers generation; creating pairings is a
// deliberate separate step.
func (s *Service) CheckWeeklyBuddies(ctx context.Context, groupID primitive.ObjectID) (bool, error) {
	weekStart := isoweek.WeekStart(s.clock())
	exists, err := s.pairings.ExistsForWeek(ctx, groupID, weekStart)
	if err != nil {
		return false, fmt.Errorf("check pairings: %w", err)
	}
	return exists, nil
}
