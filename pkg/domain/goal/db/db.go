package db

import (
	"context"
	"time"

	"github.com/opst/todofab/pkg/domain"
)

// GoalInterface stores monthly goals and tasks generated by them.
//
// Operations taking userId are scoped to the user:
// a goal owned by another user is treated as missing (errors.ErrMissing).
type GoalInterface interface {
	// Create stores a goal. Id, CreatedAt and UpdatedAt are assigned by the database.
	Create(ctx context.Context, goal domain.MonthlyGoal) (domain.MonthlyGoal, error)

	Get(ctx context.Context, userId string, goalId string) (domain.MonthlyGoal, error)

	// Find returns goals matching the query, newest first.
	Find(ctx context.Context, query domain.GoalFindQuery) ([]domain.MonthlyGoal, error)

	Update(ctx context.Context, userId string, goalId string, patch domain.GoalPatch) (domain.MonthlyGoal, error)

	// Delete removes the goal and tasks generated by the goal.
	Delete(ctx context.Context, userId string, goalId string) error

	// Active returns active goals of all users.
	Active(ctx context.Context) ([]domain.MonthlyGoal, error)

	// SetStatus changes the status of the goal regardless of its owner.
	SetStatus(ctx context.Context, goalId string, status domain.GoalStatus) error

	// GenerateTask creates the task for the goal and the date, unless it exists.
	//
	// # Returns
	//
	// - bool: true if a task is created, false if the task for the goal and the date exists already.
	GenerateTask(ctx context.Context, spec domain.GoalTaskSpec) (bool, error)

	// RefreshStats recounts tasks generated for the goal between its start and end date,
	// and updates statistics of the goal. now is recorded as the time of the update.
	RefreshStats(ctx context.Context, goalId string, now time.Time) (domain.GoalStats, error)

	// PurgeTasks removes goal-generated tasks which have been Done and not updated since the time.
	//
	// # Returns
	//
	// - int64: number of removed tasks.
	PurgeTasks(ctx context.Context, doneBefore time.Time) (int64, error)

	// CountDoneTasks counts Done tasks of the user generated by goals for dates in [since, until].
	CountDoneTasks(ctx context.Context, userId string, since time.Time, until time.Time) (int, error)
}
