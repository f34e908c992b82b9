package stats

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/opst/todofab/pkg/domain/goal"
	"github.com/opst/todofab/pkg/loop/recurring"
	"github.com/opst/todofab/pkg/metrics"
)

func Seed() goal.Summary {
	return goal.Summary{}
}

// Task recomputes statistics of all active goals.
func Task(sched *goal.Scheduler, m *metrics.Metrics, logger *log.Logger) recurring.Task[goal.Summary] {
	return func(ctx context.Context, _ goal.Summary) (goal.Summary, bool, error) {
		summary, err := sched.RefreshAll(ctx)

		m.GoalsRefreshed(int64(summary.Refreshed))
		m.GoalsFailed(int64(len(summary.Failures)))
		for goalId, ferr := range summary.Failures {
			logger.Warnf("statistics of goal %s are not refreshed: %s", goalId, ferr)
		}

		return summary, false, err
	}
}
