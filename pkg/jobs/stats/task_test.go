package stats_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/domain/goal"
	goalmock "github.com/opst/todofab/pkg/domain/goal/db/mock"
	"github.com/opst/todofab/pkg/jobs/stats"
)

func TestStatsTask(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	logger := log.New("test")
	logger.SetOutput(io.Discard)

	for name, testcase := range map[string]struct {
		when map[string]error
		then goal.Summary
	}{
		"all goals are refreshed": {
			when: map[string]error{"goal-1": nil, "goal-2": nil},
			then: goal.Summary{Goals: 2, Refreshed: 2},
		},
		"a failure does not stop others": {
			when: map[string]error{"goal-1": errors.New("fake error"), "goal-2": nil},
			then: goal.Summary{Goals: 2, Refreshed: 1},
		},
	} {
		t.Run(name, func(t *testing.T) {
			dbgoal := goalmock.NewGoalInterface()
			dbgoal.Impl.Active = func(ctx context.Context) ([]domain.MonthlyGoal, error) {
				return []domain.MonthlyGoal{{Id: "goal-1"}, {Id: "goal-2"}}, nil
			}
			dbgoal.Impl.RefreshStats = func(ctx context.Context, goalId string, n time.Time) (domain.GoalStats, error) {
				return domain.GoalStats{}, testcase.when[goalId]
			}

			testee := stats.Task(goal.NewScheduler(dbgoal, func() time.Time { return now }), nil, logger)
			summary, backlog, err := testee(context.Background(), stats.Seed())
			if err != nil {
				t.Fatal(err)
			}
			if backlog {
				t.Errorf("backlog is reported")
			}
			if summary.Goals != testcase.then.Goals || summary.Refreshed != testcase.then.Refreshed {
				t.Errorf("summary: %+v, want %+v", summary, testcase.then)
			}
			for _, call := range dbgoal.Calls.RefreshStats {
				if !call.Now.Equal(now) {
					t.Errorf("refreshed at %s", call.Now)
				}
			}
		})
	}
}
