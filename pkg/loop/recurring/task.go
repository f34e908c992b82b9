package recurring

import (
	"context"

	"github.com/opst/todofab/pkg/loop"
)

// Task is a cycle of a recurring job.
//
// Return:
//
// - T : same as return value T of loop.Task[T]
//
// - bool : true when this cycle did something and more backlog can remain.
// otherwise false.
//
// - error : error of this cycle. Whether it stops the loop depends on Policy.
type Task[T any] func(context.Context, T) (T, bool, error)

// a loop.Task which runs rt and decides what to do next with p.
func (rt Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, t T) (T, loop.Next) {
		new, ok, err := rt(ctx, t)
		return new, p.Next(ok, err)
	}
}
