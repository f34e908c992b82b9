package cleanup

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/opst/todofab/pkg/domain/goal"
	tokendb "github.com/opst/todofab/pkg/domain/token/db"
	"github.com/opst/todofab/pkg/loop/recurring"
	"github.com/opst/todofab/pkg/metrics"
)

func Seed() goal.Summary {
	return goal.Summary{}
}

// Task removes goal-generated tasks which are Done for retentionMonths,
// and refresh tokens which have expired.
//
// Tokens are purged even when purging tasks fails.
// The error of tasks comes first.
func Task(
	sched *goal.Scheduler,
	dbtoken tokendb.TokenInterface,
	retentionMonths int,
	m *metrics.Metrics,
	logger *log.Logger,
) recurring.Task[goal.Summary] {
	if retentionMonths < 1 {
		retentionMonths = goal.DefaultRetentionMonths
	}

	return func(ctx context.Context, _ goal.Summary) (goal.Summary, bool, error) {
		summary, taskErr := sched.Purge(ctx, retentionMonths)
		if taskErr != nil {
			logger.Errorf("failed to purge tasks: %s", taskErr)
		} else {
			m.TasksPurged(summary.Purged)
		}

		tokens, tokenErr := dbtoken.Purge(ctx, sched.Now())
		if tokenErr != nil {
			logger.Errorf("failed to purge refresh tokens: %s", tokenErr)
		} else {
			m.TokensPurged(tokens)
			logger.Infof("%d refresh tokens are purged", tokens)
		}

		if taskErr != nil {
			return summary, false, taskErr
		}
		return summary, false, tokenErr
	}
}
