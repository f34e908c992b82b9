package generation

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/opst/todofab/pkg/domain/goal"
	"github.com/opst/todofab/pkg/loop/recurring"
	"github.com/opst/todofab/pkg/metrics"
)

// initial value for task
func Seed() goal.Summary {
	return goal.Summary{}
}

// return:
//
// - task: generate today's task of each due goal, and complete goals whose month is over.
//
// A cycle visits all active goals, so it never reports backlog.
// Failures of each goal are logged and do not fail the cycle.
func Task(sched *goal.Scheduler, m *metrics.Metrics, logger *log.Logger) recurring.Task[goal.Summary] {
	return func(ctx context.Context, _ goal.Summary) (goal.Summary, bool, error) {
		summary, err := sched.GenerateAll(ctx)

		m.Generated("loop", int64(summary.Generated))
		m.GoalsCompleted(int64(summary.Completed))
		m.GoalsRefreshed(int64(summary.Refreshed))
		m.GoalsFailed(int64(len(summary.Failures)))
		for goalId, ferr := range summary.Failures {
			logger.Warnf("goal %s is skipped: %s", goalId, ferr)
		}

		return summary, false, err
	}
}
