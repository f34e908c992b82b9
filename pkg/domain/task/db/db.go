package db

import (
	"context"

	"github.com/opst/todofab/pkg/domain"
)

// TaskInterface stores tasks.
//
// Every operation taking userId is scoped to the user:
// a task owned by another user is treated as missing (errors.ErrMissing).
type TaskInterface interface {
	Create(ctx context.Context, userId string, spec domain.TaskSpec) (domain.Task, error)

	Get(ctx context.Context, userId string, taskId string) (domain.Task, error)

	// Find returns a page of tasks matching the query, and the number of all matching tasks.
	//
	// Tasks are sorted by due date (no due date comes last), priority (high first), and then creation time.
	Find(ctx context.Context, query domain.TaskFindQuery) ([]domain.Task, int, error)

	// Update applies the patch to the task.
	Update(ctx context.Context, userId string, taskId string, patch domain.TaskPatch) (domain.Task, error)

	// Archive sets the archive flag of the task.
	//
	// If the task is archived already, the error wraps errors.ErrInvalidState.
	Archive(ctx context.Context, userId string, taskId string) (domain.Task, error)

	// Restore clears the archive flag of the task.
	//
	// If the task is not archived, the error wraps errors.ErrInvalidState.
	Restore(ctx context.Context, userId string, taskId string) (domain.Task, error)

	// Delete removes the task irreversibly.
	//
	// # Returns
	//
	// - domain.Task: the task just removed.
	Delete(ctx context.Context, userId string, taskId string) (domain.Task, error)
}
