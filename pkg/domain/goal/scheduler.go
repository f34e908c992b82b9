package goal

import (
	"context"
	"time"

	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/domain/goal/db"
)

// Goal-generated tasks which are Done and untouched for this duration are purged.
const DefaultRetentionMonths = 3

// Scheduler materializes tasks of monthly goals and maintains their statistics.
type Scheduler struct {
	db    db.GoalInterface
	clock func() time.Time
}

func NewScheduler(dbgoal db.GoalInterface, clock func() time.Time) *Scheduler {
	return &Scheduler{db: dbgoal, clock: clock}
}

// Now returns the current time of the scheduler's clock.
func (s *Scheduler) Now() time.Time {
	return s.clock()
}

// Summary reports what a batch did.
type Summary struct {
	// number of goals visited.
	Goals int

	// number of tasks created.
	Generated int

	// number of goals marked as completed since their month is over.
	Completed int

	// number of goals whose statistics are recomputed.
	Refreshed int

	// number of removed tasks.
	Purged int64

	// errors per goal id. A failure of a goal does not stop the batch.
	Failures map[string]error
}

func (s *Summary) fail(goalId string, err error) {
	if s.Failures == nil {
		s.Failures = map[string]error{}
	}
	s.Failures[goalId] = err
}

// Updated reports whether the batch changed anything.
func (s Summary) Updated() bool {
	return 0 < s.Generated || 0 < s.Completed || 0 < s.Refreshed || 0 < s.Purged
}

// GenerateFor creates the task of today (in the timezone of the goal) when the goal is due.
//
// # Returns
//
// - bool: true if a new task is created.
func (s *Scheduler) GenerateFor(ctx context.Context, goal domain.MonthlyGoal) (bool, error) {
	today := goal.Today(s.clock())
	if !goal.IsDueOn(today) {
		return false, nil
	}
	return s.db.GenerateTask(ctx, goal.TaskFor(today))
}

// GenerateAll visits all active goals.
//
// Goals whose month is over get their statistics recomputed once more, and are marked as completed.
// Other goals get the task of today if they are due, and their statistics are recomputed.
func (s *Scheduler) GenerateAll(ctx context.Context) (Summary, error) {
	goals, err := s.db.Active(ctx)
	if err != nil {
		return Summary{}, err
	}

	now := s.clock()
	summary := Summary{}
	for _, g := range goals {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Goals += 1

		today := g.Today(now)
		if today.After(domain.DateOf(g.EndDate)) {
			// last recount, since completed goals are not visited anymore.
			if _, err := s.db.RefreshStats(ctx, g.Id, now); err != nil {
				summary.fail(g.Id, err)
				continue
			}
			if err := s.db.SetStatus(ctx, g.Id, domain.GoalCompleted); err != nil {
				summary.fail(g.Id, err)
				continue
			}
			summary.Completed += 1
			continue
		}

		created, err := s.GenerateFor(ctx, g)
		if err != nil {
			summary.fail(g.Id, err)
			continue
		}
		if created {
			summary.Generated += 1
		}

		if _, err := s.db.RefreshStats(ctx, g.Id, now); err != nil {
			summary.fail(g.Id, err)
			continue
		}
		summary.Refreshed += 1
	}
	return summary, nil
}

// RefreshAll recomputes statistics of all active goals.
func (s *Scheduler) RefreshAll(ctx context.Context) (Summary, error) {
	goals, err := s.db.Active(ctx)
	if err != nil {
		return Summary{}, err
	}

	now := s.clock()
	summary := Summary{}
	for _, g := range goals {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Goals += 1
		if _, err := s.db.RefreshStats(ctx, g.Id, now); err != nil {
			summary.fail(g.Id, err)
			continue
		}
		summary.Refreshed += 1
	}
	return summary, nil
}

// Refresh recomputes statistics of a goal.
func (s *Scheduler) Refresh(ctx context.Context, goalId string) (domain.GoalStats, error) {
	return s.db.RefreshStats(ctx, goalId, s.clock())
}

// Purge removes goal-generated tasks which are Done and not updated for retentionMonths.
func (s *Scheduler) Purge(ctx context.Context, retentionMonths int) (Summary, error) {
	n, err := s.db.PurgeTasks(ctx, s.clock().AddDate(0, -retentionMonths, 0))
	if err != nil {
		return Summary{}, err
	}
	return Summary{Purged: n}, nil
}
